package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"medalloc/internal/domain"
	"medalloc/internal/repository"
)

// AllocatorServiceImpl assigns the least-loaded available doctor within a
// specialization, keeping the per-doctor daily cap. Doctor counters are only
// ever mutated through the repository's atomic increment; correctness under
// concurrent bookings relies on the post-increment overshoot check, not on
// locks.
type AllocatorServiceImpl struct {
	doctorRepo      repository.DoctorRepository
	appointmentRepo repository.AppointmentRepository
	logger          *zap.Logger
	now             func() time.Time
}

func NewAllocatorService(
	doctorRepo repository.DoctorRepository,
	appointmentRepo repository.AppointmentRepository,
	logger *zap.Logger,
) *AllocatorServiceImpl {
	return &AllocatorServiceImpl{
		doctorRepo:      doctorRepo,
		appointmentRepo: appointmentRepo,
		logger:          logger,
		now:             time.Now,
	}
}

func (s *AllocatorServiceImpl) Book(ctx context.Context, req domain.BookingRequest) (*domain.AllocationResult, error) {
	patientName := strings.TrimSpace(req.PatientName)
	specialization := strings.TrimSpace(req.Specialization)

	candidates, err := s.doctorRepo.ListBySpecialization(ctx, specialization)
	if err != nil {
		s.logger.Error("failed to load doctors for booking",
			zap.String("specialization", specialization), zap.Error(err))
		return nil, errors.New("failed to look up doctors")
	}

	if len(candidates) == 0 {
		reason := fmt.Sprintf("no doctors found with specialization: %s", specialization)
		appointment, err := s.recordRejection(ctx, patientName, specialization, reason)
		if err != nil {
			return nil, err
		}
		return &domain.AllocationResult{
			Status:      domain.AppointmentStatusRejected,
			Appointment: appointment,
		}, domain.ErrNoDoctors
	}

	candidates, err = s.applyLazyReset(ctx, candidates)
	if err != nil {
		return nil, err
	}

	available := make([]domain.Doctor, 0, len(candidates))
	for _, doctor := range candidates {
		if doctor.CurrentAppointments < doctor.MaxDailyPatients {
			available = append(available, doctor)
		}
	}

	if len(available) == 0 {
		reason := fmt.Sprintf("all %d doctor(s) in %s are fully booked for today",
			len(candidates), specialization)
		appointment, err := s.recordRejection(ctx, patientName, specialization, reason)
		if err != nil {
			return nil, err
		}
		return &domain.AllocationResult{
			Status:       domain.AppointmentStatusRejected,
			Appointment:  appointment,
			TotalDoctors: len(candidates),
		}, domain.ErrAllDoctorsFull
	}

	// Fewest current appointments first; among equals, more headroom first.
	// Stable sort keeps selection deterministic for doctors identical on
	// both keys.
	sort.SliceStable(available, func(i, j int) bool {
		if available[i].CurrentAppointments != available[j].CurrentAppointments {
			return available[i].CurrentAppointments < available[j].CurrentAppointments
		}
		return available[i].SlotsRemaining() > available[j].SlotsRemaining()
	})

	selected := available[0]

	updated, err := s.doctorRepo.IncrementAppointments(ctx, selected.ID, 1)
	if err != nil {
		s.logger.Error("failed to reserve appointment slot",
			zap.String("doctorID", selected.ID), zap.Error(err))
		return nil, errors.New("failed to reserve appointment slot")
	}

	if updated.CurrentAppointments > updated.MaxDailyPatients {
		// Lost the race for the last slot: the selection snapshot went
		// stale before our increment landed. Roll the counter back and
		// tell the caller to retry. No appointment is recorded.
		if _, err := s.doctorRepo.IncrementAppointments(ctx, selected.ID, -1); err != nil {
			s.logger.Error("failed to roll back overshot counter",
				zap.String("doctorID", selected.ID), zap.Error(err))
		}
		s.logger.Warn("allocation race lost",
			zap.String("doctorID", selected.ID),
			zap.Int("currentAppointments", updated.CurrentAppointments),
			zap.Int("maxDailyPatients", updated.MaxDailyPatients))
		return nil, domain.ErrSlotTaken
	}

	appointment, err := s.appointmentRepo.Create(ctx, domain.CreateAppointmentDTO{
		PatientName:    patientName,
		Specialization: specialization,
		DoctorID:       &updated.ID,
		DoctorName:     &updated.Name,
		Status:         domain.AppointmentStatusBooked,
	})
	if err != nil {
		s.logger.Error("failed to record booked appointment",
			zap.String("doctorID", updated.ID), zap.Error(err))
		return nil, errors.New("failed to record appointment")
	}

	s.logger.Info("appointment booked",
		zap.String("doctorID", updated.ID),
		zap.String("specialization", specialization),
		zap.Int("currentAppointments", updated.CurrentAppointments),
		zap.Int("maxDailyPatients", updated.MaxDailyPatients))

	return &domain.AllocationResult{
		Status:      domain.AppointmentStatusBooked,
		Appointment: appointment,
		Doctor:      updated,
	}, nil
}

// applyLazyReset zeroes the counter of every candidate whose last reset fell
// on an earlier UTC day, persisting each reset before it feeds the decision.
func (s *AllocatorServiceImpl) applyLazyReset(ctx context.Context, doctors []domain.Doctor) ([]domain.Doctor, error) {
	now := s.now()
	for i := range doctors {
		if domain.SameUTCDay(doctors[i].LastResetDate, now) {
			continue
		}
		if err := s.doctorRepo.ResetDaily(ctx, doctors[i].ID); err != nil {
			s.logger.Error("failed to apply daily reset",
				zap.String("doctorID", doctors[i].ID), zap.Error(err))
			return nil, errors.New("failed to apply daily reset")
		}
		doctors[i].CurrentAppointments = 0
		doctors[i].LastResetDate = now
	}
	return doctors, nil
}

func (s *AllocatorServiceImpl) recordRejection(ctx context.Context, patientName, specialization, reason string) (*domain.Appointment, error) {
	appointment, err := s.appointmentRepo.Create(ctx, domain.CreateAppointmentDTO{
		PatientName:     patientName,
		Specialization:  specialization,
		Status:          domain.AppointmentStatusRejected,
		RejectionReason: &reason,
	})
	if err != nil {
		s.logger.Error("failed to record rejected appointment",
			zap.String("specialization", specialization), zap.Error(err))
		return nil, errors.New("failed to record appointment")
	}

	s.logger.Info("booking rejected",
		zap.String("specialization", specialization),
		zap.String("reason", reason))

	return appointment, nil
}

func (s *AllocatorServiceImpl) List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error) {
	appointments, err := s.appointmentRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list appointments", zap.Error(err))
		return nil, errors.New("failed to list appointments")
	}
	return appointments, nil
}

func (s *AllocatorServiceImpl) Stats(ctx context.Context) (*domain.AppointmentStats, error) {
	now := s.now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	stats := &domain.AppointmentStats{}
	counts := []struct {
		status domain.AppointmentStatus
		after  *time.Time
		dest   *int
	}{
		{domain.AppointmentStatusBooked, nil, &stats.Total.Booked},
		{domain.AppointmentStatusRejected, nil, &stats.Total.Rejected},
		{domain.AppointmentStatusBooked, &midnight, &stats.Today.Booked},
		{domain.AppointmentStatusRejected, &midnight, &stats.Today.Rejected},
	}

	for _, c := range counts {
		status := c.status
		count, err := s.appointmentRepo.CountByFilter(ctx, domain.AppointmentFilter{
			Status:       &status,
			CreatedAfter: c.after,
		})
		if err != nil {
			s.logger.Error("failed to count appointments",
				zap.String("status", string(status)), zap.Error(err))
			return nil, errors.New("failed to collect appointment stats")
		}
		*c.dest = count
	}

	return stats, nil
}
