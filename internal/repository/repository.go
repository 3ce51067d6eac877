package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"medalloc/internal/domain"
)

type Repositories struct {
	Doctor      DoctorRepository
	Appointment AppointmentRepository
}

func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		Doctor:      NewDoctorRepository(db),
		Appointment: NewAppointmentRepository(db),
	}
}

type DoctorRepository interface {
	Create(ctx context.Context, doctor domain.Doctor) error
	GetByID(ctx context.Context, id string) (*domain.Doctor, error)
	List(ctx context.Context, filter domain.DoctorFilter) ([]domain.Doctor, error)
	ListBySpecialization(ctx context.Context, specialization string) ([]domain.Doctor, error)

	// IncrementAppointments adds delta to the doctor's counter in a single
	// atomic statement and returns the post-increment state. All counter
	// mutation in the booking hot path goes through here.
	IncrementAppointments(ctx context.Context, id string, delta int) (*domain.Doctor, error)

	ResetDaily(ctx context.Context, id string) error
	ResetAllActive(ctx context.Context) (int64, error)
	Deactivate(ctx context.Context, id string) error
	UpdateProfilePhoto(ctx context.Context, id string, photoURL string) error
	DistinctSpecializations(ctx context.Context) ([]string, error)
}

type AppointmentRepository interface {
	Create(ctx context.Context, dto domain.CreateAppointmentDTO) (*domain.Appointment, error)
	List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error)
	CountByFilter(ctx context.Context, filter domain.AppointmentFilter) (int, error)
}
