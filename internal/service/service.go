package service

import (
	"context"

	"go.uber.org/zap"

	"medalloc/config"
	"medalloc/internal/cache"
	"medalloc/internal/domain"
	"medalloc/internal/repository"
	"medalloc/internal/storage"
)

type Deps struct {
	Repos       *repository.Repositories
	Logger      *zap.Logger
	Config      *config.Config
	FileStorage storage.FileStorage
	Cache       cache.Cache
}

type Services struct {
	Allocator AllocatorService
	Doctor    DoctorService
}

func NewServices(deps Deps) *Services {
	return &Services{
		Allocator: NewAllocatorService(deps.Repos.Doctor, deps.Repos.Appointment, deps.Logger),
		Doctor:    NewDoctorService(deps.Repos.Doctor, deps.FileStorage, deps.Cache, deps.Logger),
	}
}

type AllocatorService interface {
	// Book runs the allocation decision procedure. On rejection paths the
	// returned result still carries the persisted appointment; the error is
	// one of the domain allocation sentinels.
	Book(ctx context.Context, req domain.BookingRequest) (*domain.AllocationResult, error)
	List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error)
	Stats(ctx context.Context) (*domain.AppointmentStats, error)
}

type DoctorService interface {
	Create(ctx context.Context, dto domain.CreateDoctorDTO) (*domain.Doctor, error)
	GetByID(ctx context.Context, id string) (*domain.Doctor, error)
	List(ctx context.Context, filter domain.DoctorFilter) ([]domain.Doctor, error)
	Delete(ctx context.Context, id string) error
	Specializations(ctx context.Context) ([]string, error)
	ResetAll(ctx context.Context) (int64, error)

	UploadProfilePhoto(ctx context.Context, id string, photo []byte, filename string) (string, error)
	DeleteProfilePhoto(ctx context.Context, id string) error
}
