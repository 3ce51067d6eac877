package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"medalloc/internal/domain"
)

func newTestAllocator(doctors *fakeDoctorRepo, appointments *fakeAppointmentRepo) *AllocatorServiceImpl {
	return NewAllocatorService(doctors, appointments, zap.NewNop())
}

func activeDoctor(id, specialization string, current, max int) domain.Doctor {
	return domain.Doctor{
		ID:                  id,
		Name:                "Doctor " + id,
		Specialization:      specialization,
		MaxDailyPatients:    max,
		CurrentAppointments: current,
		IsActive:            true,
		LastResetDate:       time.Now(),
	}
}

func TestBookSelectsLeastLoadedDoctor(t *testing.T) {
	doctors := newFakeDoctorRepo()
	doctors.add(activeDoctor("DOC-A", "cardiology", 3, 5))
	doctors.add(activeDoctor("DOC-B", "cardiology", 1, 5))
	appointments := newFakeAppointmentRepo()
	svc := newTestAllocator(doctors, appointments)

	result, err := svc.Book(context.Background(), domain.BookingRequest{
		PatientName:    "Alice",
		Specialization: "cardiology",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentStatusBooked, result.Status)
	require.NotNil(t, result.Doctor)
	assert.Equal(t, "DOC-B", result.Doctor.ID)
	assert.Equal(t, 2, doctors.get("DOC-B").CurrentAppointments)
	assert.Equal(t, 3, doctors.get("DOC-A").CurrentAppointments)

	require.NotNil(t, result.Appointment)
	assert.Equal(t, domain.AppointmentStatusBooked, result.Appointment.Status)
	require.NotNil(t, result.Appointment.DoctorID)
	assert.Equal(t, "DOC-B", *result.Appointment.DoctorID)
	assert.Len(t, appointments.byStatus(domain.AppointmentStatusBooked), 1)
}

func TestBookTieBreakPrefersMoreHeadroom(t *testing.T) {
	doctors := newFakeDoctorRepo()
	doctors.add(activeDoctor("DOC-A", "cardiology", 1, 3))
	doctors.add(activeDoctor("DOC-B", "cardiology", 1, 10))
	svc := newTestAllocator(doctors, newFakeAppointmentRepo())

	result, err := svc.Book(context.Background(), domain.BookingRequest{
		PatientName:    "Alice",
		Specialization: "cardiology",
	})

	require.NoError(t, err)
	assert.Equal(t, "DOC-B", result.Doctor.ID)
}

func TestBookNoDoctorsRecordsRejection(t *testing.T) {
	doctors := newFakeDoctorRepo()
	doctors.add(activeDoctor("DOC-A", "cardiology", 0, 5))
	appointments := newFakeAppointmentRepo()
	svc := newTestAllocator(doctors, appointments)

	result, err := svc.Book(context.Background(), domain.BookingRequest{
		PatientName:    "Bob",
		Specialization: "Neurosurgery",
	})

	require.ErrorIs(t, err, domain.ErrNoDoctors)
	require.NotNil(t, result)
	assert.Equal(t, domain.AppointmentStatusRejected, result.Status)

	rejected := appointments.byStatus(domain.AppointmentStatusRejected)
	require.Len(t, rejected, 1)
	require.NotNil(t, rejected[0].RejectionReason)
	assert.Equal(t, "no doctors found with specialization: Neurosurgery", *rejected[0].RejectionReason)
	assert.Nil(t, rejected[0].DoctorID)
}

func TestBookAllFullRecordsRejection(t *testing.T) {
	doctors := newFakeDoctorRepo()
	doctors.add(activeDoctor("DOC-C", "dermatology", 2, 2))
	appointments := newFakeAppointmentRepo()
	svc := newTestAllocator(doctors, appointments)

	result, err := svc.Book(context.Background(), domain.BookingRequest{
		PatientName:    "Carl",
		Specialization: "dermatology",
	})

	require.ErrorIs(t, err, domain.ErrAllDoctorsFull)
	require.NotNil(t, result)
	assert.Equal(t, domain.AppointmentStatusRejected, result.Status)
	assert.Equal(t, 1, result.TotalDoctors)

	rejected := appointments.byStatus(domain.AppointmentStatusRejected)
	require.Len(t, rejected, 1)
	require.NotNil(t, rejected[0].RejectionReason)
	assert.Equal(t, "all 1 doctor(s) in dermatology are fully booked for today", *rejected[0].RejectionReason)
}

func TestBookMatchesSpecializationCaseInsensitiveExact(t *testing.T) {
	doctors := newFakeDoctorRepo()
	doctors.add(activeDoctor("DOC-A", "Cardiology", 0, 5))
	svc := newTestAllocator(doctors, newFakeAppointmentRepo())

	result, err := svc.Book(context.Background(), domain.BookingRequest{
		PatientName:    "Alice",
		Specialization: "cardiology",
	})
	require.NoError(t, err)
	assert.Equal(t, "DOC-A", result.Doctor.ID)

	_, err = svc.Book(context.Background(), domain.BookingRequest{
		PatientName:    "Alice",
		Specialization: "Cardiology Associates",
	})
	assert.ErrorIs(t, err, domain.ErrNoDoctors)
}

func TestBookIgnoresInactiveDoctors(t *testing.T) {
	doctors := newFakeDoctorRepo()
	inactive := activeDoctor("DOC-A", "cardiology", 0, 5)
	inactive.IsActive = false
	doctors.add(inactive)
	svc := newTestAllocator(doctors, newFakeAppointmentRepo())

	_, err := svc.Book(context.Background(), domain.BookingRequest{
		PatientName:    "Alice",
		Specialization: "cardiology",
	})

	assert.ErrorIs(t, err, domain.ErrNoDoctors)
}

func TestBookAppliesLazyDailyReset(t *testing.T) {
	doctors := newFakeDoctorRepo()
	stale := activeDoctor("DOC-A", "cardiology", 5, 5)
	stale.LastResetDate = time.Now().AddDate(0, 0, -1)
	doctors.add(stale)
	svc := newTestAllocator(doctors, newFakeAppointmentRepo())

	result, err := svc.Book(context.Background(), domain.BookingRequest{
		PatientName:    "Alice",
		Specialization: "cardiology",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentStatusBooked, result.Status)
	// Yesterday's count was zeroed and persisted before selection, so the
	// booking landed on a fresh counter.
	assert.Equal(t, 1, doctors.get("DOC-A").CurrentAppointments)
	assert.True(t, domain.SameUTCDay(doctors.get("DOC-A").LastResetDate, time.Now()))
}

func TestBookLostRaceRollsBackAndRecordsNothing(t *testing.T) {
	doctors := newFakeDoctorRepo()
	doctors.add(activeDoctor("DOC-A", "cardiology", 1, 1))
	// The selection snapshot is stale: it still sees a free slot while the
	// live counter is already at capacity.
	doctors.listSnapshot = []domain.Doctor{activeDoctor("DOC-A", "cardiology", 0, 1)}
	appointments := newFakeAppointmentRepo()
	svc := newTestAllocator(doctors, appointments)

	result, err := svc.Book(context.Background(), domain.BookingRequest{
		PatientName:    "Alice",
		Specialization: "cardiology",
	})

	require.ErrorIs(t, err, domain.ErrSlotTaken)
	assert.Nil(t, result)
	assert.Empty(t, appointments.byStatus(domain.AppointmentStatusBooked))
	assert.Empty(t, appointments.byStatus(domain.AppointmentStatusRejected))
	assert.Equal(t, 1, doctors.get("DOC-A").CurrentAppointments)
}

func TestBookConcurrentLastSlot(t *testing.T) {
	doctors := newFakeDoctorRepo()
	doctors.add(activeDoctor("DOC-A", "cardiology", 0, 1))
	appointments := newFakeAppointmentRepo()
	svc := newTestAllocator(doctors, appointments)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Book(context.Background(), domain.BookingRequest{
				PatientName:    "Patient",
				Specialization: "cardiology",
			})
		}(i)
	}
	wg.Wait()

	var booked, conflicts int
	for _, err := range results {
		switch err {
		case nil:
			booked++
		case domain.ErrSlotTaken, domain.ErrAllDoctorsFull:
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, booked, "exactly one request may win the last slot")
	assert.Equal(t, 1, conflicts)
	assert.Len(t, appointments.byStatus(domain.AppointmentStatusBooked), 1)
	assert.LessOrEqual(t, doctors.get("DOC-A").CurrentAppointments, 1)
}

func TestStatsCountsTotalsAndToday(t *testing.T) {
	doctors := newFakeDoctorRepo()
	doctors.add(activeDoctor("DOC-A", "cardiology", 0, 5))
	appointments := newFakeAppointmentRepo()
	svc := newTestAllocator(doctors, appointments)

	_, err := svc.Book(context.Background(), domain.BookingRequest{
		PatientName:    "Alice",
		Specialization: "cardiology",
	})
	require.NoError(t, err)

	_, err = svc.Book(context.Background(), domain.BookingRequest{
		PatientName:    "Bob",
		Specialization: "neurosurgery",
	})
	require.ErrorIs(t, err, domain.ErrNoDoctors)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total.Booked)
	assert.Equal(t, 1, stats.Total.Rejected)
	assert.Equal(t, 1, stats.Today.Booked)
	assert.Equal(t, 1, stats.Today.Rejected)
}

func TestListFiltersByStatus(t *testing.T) {
	doctors := newFakeDoctorRepo()
	doctors.add(activeDoctor("DOC-A", "cardiology", 0, 5))
	appointments := newFakeAppointmentRepo()
	svc := newTestAllocator(doctors, appointments)

	_, err := svc.Book(context.Background(), domain.BookingRequest{
		PatientName:    "Alice",
		Specialization: "cardiology",
	})
	require.NoError(t, err)
	_, err = svc.Book(context.Background(), domain.BookingRequest{
		PatientName:    "Bob",
		Specialization: "neurosurgery",
	})
	require.ErrorIs(t, err, domain.ErrNoDoctors)

	status := domain.AppointmentStatusBooked
	booked, err := svc.List(context.Background(), domain.AppointmentFilter{Status: &status, Limit: 50})
	require.NoError(t, err)
	require.Len(t, booked, 1)
	assert.Equal(t, "Alice", booked[0].PatientName)
}
