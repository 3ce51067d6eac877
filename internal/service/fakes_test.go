package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"medalloc/internal/domain"
)

// fakeDoctorRepo is a mutex-guarded in-memory DoctorRepository. Its
// IncrementAppointments is atomic with respect to concurrent callers, which
// is the store guarantee the allocator relies on.
type fakeDoctorRepo struct {
	mu      sync.Mutex
	doctors map[string]*domain.Doctor

	// listSnapshot, when set, overrides ListBySpecialization to return a
	// fixed stale snapshot while increments still hit the live counters.
	listSnapshot []domain.Doctor
}

func newFakeDoctorRepo() *fakeDoctorRepo {
	return &fakeDoctorRepo{doctors: make(map[string]*domain.Doctor)}
}

func (f *fakeDoctorRepo) add(doctor domain.Doctor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d := doctor
	f.doctors[d.ID] = &d
}

func (f *fakeDoctorRepo) get(id string) domain.Doctor {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.doctors[id]
}

func (f *fakeDoctorRepo) Create(ctx context.Context, doctor domain.Doctor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.doctors[doctor.ID]; ok {
		return domain.ErrDuplicateDoctorID
	}
	d := doctor
	f.doctors[d.ID] = &d
	return nil
}

func (f *fakeDoctorRepo) GetByID(ctx context.Context, id string) (*domain.Doctor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doctor, ok := f.doctors[id]
	if !ok {
		return nil, domain.ErrDoctorNotFound
	}
	copied := *doctor
	return &copied, nil
}

func (f *fakeDoctorRepo) List(ctx context.Context, filter domain.DoctorFilter) ([]domain.Doctor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]domain.Doctor, 0)
	for _, doctor := range f.doctors {
		if !doctor.IsActive {
			continue
		}
		if filter.SpecializationLike != nil &&
			!strings.Contains(strings.ToLower(doctor.Specialization), strings.ToLower(*filter.SpecializationLike)) {
			continue
		}
		result = append(result, *doctor)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeDoctorRepo) ListBySpecialization(ctx context.Context, specialization string) ([]domain.Doctor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listSnapshot != nil {
		return append([]domain.Doctor(nil), f.listSnapshot...), nil
	}
	result := make([]domain.Doctor, 0)
	for _, doctor := range f.doctors {
		if doctor.IsActive && strings.EqualFold(doctor.Specialization, specialization) {
			result = append(result, *doctor)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeDoctorRepo) IncrementAppointments(ctx context.Context, id string, delta int) (*domain.Doctor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doctor, ok := f.doctors[id]
	if !ok {
		return nil, domain.ErrDoctorNotFound
	}
	doctor.CurrentAppointments += delta
	copied := *doctor
	return &copied, nil
}

func (f *fakeDoctorRepo) ResetDaily(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	doctor, ok := f.doctors[id]
	if !ok {
		return domain.ErrDoctorNotFound
	}
	doctor.CurrentAppointments = 0
	doctor.LastResetDate = time.Now()
	return nil
}

func (f *fakeDoctorRepo) ResetAllActive(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var affected int64
	for _, doctor := range f.doctors {
		if doctor.IsActive {
			doctor.CurrentAppointments = 0
			doctor.LastResetDate = time.Now()
			affected++
		}
	}
	return affected, nil
}

func (f *fakeDoctorRepo) Deactivate(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	doctor, ok := f.doctors[id]
	if !ok || !doctor.IsActive {
		return domain.ErrDoctorNotFound
	}
	doctor.IsActive = false
	return nil
}

func (f *fakeDoctorRepo) UpdateProfilePhoto(ctx context.Context, id string, photoURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	doctor, ok := f.doctors[id]
	if !ok {
		return domain.ErrDoctorNotFound
	}
	doctor.ProfilePhotoURL = photoURL
	return nil
}

func (f *fakeDoctorRepo) DistinctSpecializations(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := make(map[string]bool)
	result := make([]string, 0)
	for _, doctor := range f.doctors {
		if doctor.IsActive && !seen[doctor.Specialization] {
			seen[doctor.Specialization] = true
			result = append(result, doctor.Specialization)
		}
	}
	sort.Strings(result)
	return result, nil
}

type fakeAppointmentRepo struct {
	mu           sync.Mutex
	appointments []domain.Appointment
	nextID       int64
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{}
}

func (f *fakeAppointmentRepo) Create(ctx context.Context, dto domain.CreateAppointmentDTO) (*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	appointment := domain.Appointment{
		ID:              f.nextID,
		PatientName:     dto.PatientName,
		Specialization:  dto.Specialization,
		DoctorID:        dto.DoctorID,
		DoctorName:      dto.DoctorName,
		Status:          dto.Status,
		RejectionReason: dto.RejectionReason,
		CreatedAt:       time.Now(),
	}
	f.appointments = append(f.appointments, appointment)
	return &appointment, nil
}

func (f *fakeAppointmentRepo) List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error) {
	matched := f.filtered(filter)
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (f *fakeAppointmentRepo) CountByFilter(ctx context.Context, filter domain.AppointmentFilter) (int, error) {
	return len(f.filtered(filter)), nil
}

func (f *fakeAppointmentRepo) filtered(filter domain.AppointmentFilter) []domain.Appointment {
	f.mu.Lock()
	defer f.mu.Unlock()
	matched := make([]domain.Appointment, 0)
	for _, appointment := range f.appointments {
		if filter.Status != nil && appointment.Status != *filter.Status {
			continue
		}
		if filter.SpecializationLike != nil &&
			!strings.Contains(strings.ToLower(appointment.Specialization), strings.ToLower(*filter.SpecializationLike)) {
			continue
		}
		if filter.CreatedAfter != nil && appointment.CreatedAt.Before(*filter.CreatedAfter) {
			continue
		}
		matched = append(matched, appointment)
	}
	return matched
}

func (f *fakeAppointmentRepo) byStatus(status domain.AppointmentStatus) []domain.Appointment {
	s := status
	return f.filtered(domain.AppointmentFilter{Status: &s})
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (f *fakeCache) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries[key], nil
}

func (f *fakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = value
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, key)
	return nil
}
