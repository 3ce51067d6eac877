package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"medalloc/internal/cache"
	"medalloc/internal/domain"
	"medalloc/internal/repository"
	"medalloc/internal/storage"
)

const specializationsCacheKey = "doctors:specializations"

// ErrStorageNotConfigured is returned by the photo operations when no file
// storage backend was configured at startup.
var ErrStorageNotConfigured = errors.New("file storage is not configured")

type DoctorServiceImpl struct {
	repo        repository.DoctorRepository
	fileStorage storage.FileStorage
	cache       cache.Cache
	logger      *zap.Logger
	now         func() time.Time
}

func NewDoctorService(
	repo repository.DoctorRepository,
	fileStorage storage.FileStorage,
	cache cache.Cache,
	logger *zap.Logger,
) *DoctorServiceImpl {
	return &DoctorServiceImpl{
		repo:        repo,
		fileStorage: fileStorage,
		cache:       cache,
		logger:      logger,
		now:         time.Now,
	}
}

func generateDoctorID() string {
	return "DOC-" + strings.ToUpper(strings.SplitN(uuid.New().String(), "-", 2)[0])
}

func (s *DoctorServiceImpl) Create(ctx context.Context, dto domain.CreateDoctorDTO) (*domain.Doctor, error) {
	doctor := domain.Doctor{
		ID:                  strings.TrimSpace(dto.ID),
		Name:                strings.TrimSpace(dto.Name),
		Specialization:      strings.TrimSpace(dto.Specialization),
		MaxDailyPatients:    dto.MaxDailyPatients,
		CurrentAppointments: 0,
		IsActive:            true,
		LastResetDate:       s.now(),
	}
	if doctor.ID == "" {
		doctor.ID = generateDoctorID()
	}

	if err := s.repo.Create(ctx, doctor); err != nil {
		if errors.Is(err, domain.ErrDuplicateDoctorID) {
			return nil, domain.ErrDuplicateDoctorID
		}
		s.logger.Error("failed to create doctor", zap.String("doctorID", doctor.ID), zap.Error(err))
		return nil, errors.New("failed to create doctor")
	}

	s.invalidateSpecializations(ctx)

	s.logger.Info("doctor registered",
		zap.String("doctorID", doctor.ID),
		zap.String("specialization", doctor.Specialization),
		zap.Int("maxDailyPatients", doctor.MaxDailyPatients))

	return &doctor, nil
}

func (s *DoctorServiceImpl) GetByID(ctx context.Context, id string) (*domain.Doctor, error) {
	doctor, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrDoctorNotFound) {
			return nil, domain.ErrDoctorNotFound
		}
		s.logger.Error("failed to get doctor", zap.String("doctorID", id), zap.Error(err))
		return nil, errors.New("failed to get doctor")
	}
	if !doctor.IsActive {
		return nil, domain.ErrDoctorNotFound
	}

	doctor, err = s.lazyReset(ctx, doctor)
	if err != nil {
		return nil, err
	}

	return doctor, nil
}

func (s *DoctorServiceImpl) List(ctx context.Context, filter domain.DoctorFilter) ([]domain.Doctor, error) {
	doctors, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list doctors", zap.Error(err))
		return nil, errors.New("failed to list doctors")
	}

	now := s.now()
	for i := range doctors {
		if domain.SameUTCDay(doctors[i].LastResetDate, now) {
			continue
		}
		if err := s.repo.ResetDaily(ctx, doctors[i].ID); err != nil {
			s.logger.Error("failed to apply daily reset",
				zap.String("doctorID", doctors[i].ID), zap.Error(err))
			return nil, errors.New("failed to apply daily reset")
		}
		doctors[i].CurrentAppointments = 0
		doctors[i].LastResetDate = now
	}

	if filter.OnlyAvailable {
		available := make([]domain.Doctor, 0, len(doctors))
		for _, doctor := range doctors {
			if doctor.IsAvailable() {
				available = append(available, doctor)
			}
		}
		doctors = available
	}

	return doctors, nil
}

func (s *DoctorServiceImpl) lazyReset(ctx context.Context, doctor *domain.Doctor) (*domain.Doctor, error) {
	now := s.now()
	if domain.SameUTCDay(doctor.LastResetDate, now) {
		return doctor, nil
	}
	if err := s.repo.ResetDaily(ctx, doctor.ID); err != nil {
		s.logger.Error("failed to apply daily reset",
			zap.String("doctorID", doctor.ID), zap.Error(err))
		return nil, errors.New("failed to apply daily reset")
	}
	doctor.CurrentAppointments = 0
	doctor.LastResetDate = now
	return doctor, nil
}

func (s *DoctorServiceImpl) Delete(ctx context.Context, id string) error {
	err := s.repo.Deactivate(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrDoctorNotFound) {
			return domain.ErrDoctorNotFound
		}
		s.logger.Error("failed to deactivate doctor", zap.String("doctorID", id), zap.Error(err))
		return errors.New("failed to remove doctor")
	}

	s.invalidateSpecializations(ctx)

	s.logger.Info("doctor deactivated", zap.String("doctorID", id))
	return nil
}

func (s *DoctorServiceImpl) Specializations(ctx context.Context) ([]string, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, specializationsCacheKey); err == nil && data != nil {
			var specializations []string
			if err := json.Unmarshal(data, &specializations); err == nil {
				return specializations, nil
			}
		}
	}

	specializations, err := s.repo.DistinctSpecializations(ctx)
	if err != nil {
		s.logger.Error("failed to list specializations", zap.Error(err))
		return nil, errors.New("failed to list specializations")
	}

	if s.cache != nil {
		if data, err := json.Marshal(specializations); err == nil {
			if err := s.cache.Set(ctx, specializationsCacheKey, data, 5*time.Minute); err != nil {
				s.logger.Warn("failed to cache specializations", zap.Error(err))
			}
		}
	}

	return specializations, nil
}

func (s *DoctorServiceImpl) invalidateSpecializations(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, specializationsCacheKey); err != nil {
		s.logger.Warn("failed to invalidate specializations cache", zap.Error(err))
	}
}

// ResetAll is the sweep: unconditionally zero every active doctor's counter
// and stamp the reset date, regardless of each doctor's own last-reset day.
func (s *DoctorServiceImpl) ResetAll(ctx context.Context) (int64, error) {
	affected, err := s.repo.ResetAllActive(ctx)
	if err != nil {
		s.logger.Error("failed to reset daily appointments", zap.Error(err))
		return 0, errors.New("failed to reset daily appointments")
	}

	s.logger.Info("daily appointments reset", zap.Int64("doctors", affected))
	return affected, nil
}

func (s *DoctorServiceImpl) UploadProfilePhoto(ctx context.Context, id string, photo []byte, filename string) (string, error) {
	if s.fileStorage == nil {
		return "", ErrStorageNotConfigured
	}

	doctor, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	objectName := fmt.Sprintf("doctors/%s/photo%s", doctor.ID, filepath.Ext(filename))
	url, err := s.fileStorage.Upload(ctx, objectName, photo)
	if err != nil {
		s.logger.Error("failed to upload profile photo",
			zap.String("doctorID", id), zap.Error(err))
		return "", errors.New("failed to upload profile photo")
	}

	if err := s.repo.UpdateProfilePhoto(ctx, id, url); err != nil {
		s.logger.Error("failed to save profile photo URL",
			zap.String("doctorID", id), zap.Error(err))
		return "", errors.New("failed to save profile photo")
	}

	return url, nil
}

func (s *DoctorServiceImpl) DeleteProfilePhoto(ctx context.Context, id string) error {
	if s.fileStorage == nil {
		return ErrStorageNotConfigured
	}

	doctor, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if doctor.ProfilePhotoURL != "" {
		if err := s.fileStorage.Delete(ctx, doctor.ProfilePhotoURL); err != nil {
			s.logger.Warn("failed to delete profile photo object",
				zap.String("doctorID", id), zap.Error(err))
		}
	}

	if err := s.repo.UpdateProfilePhoto(ctx, id, ""); err != nil {
		s.logger.Error("failed to clear profile photo URL",
			zap.String("doctorID", id), zap.Error(err))
		return errors.New("failed to delete profile photo")
	}

	return nil
}
