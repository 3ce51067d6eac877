package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"medalloc/internal/domain"
)

const doctorColumns = `id, name, specialization, max_daily_patients, current_appointments,
		is_active, last_reset_date, profile_photo_url, created_at, updated_at`

type DoctorRepo struct {
	db *pgxpool.Pool
}

func NewDoctorRepository(db *pgxpool.Pool) *DoctorRepo {
	return &DoctorRepo{
		db: db,
	}
}

func scanDoctor(row pgx.Row) (*domain.Doctor, error) {
	var doctor domain.Doctor
	err := row.Scan(
		&doctor.ID,
		&doctor.Name,
		&doctor.Specialization,
		&doctor.MaxDailyPatients,
		&doctor.CurrentAppointments,
		&doctor.IsActive,
		&doctor.LastResetDate,
		&doctor.ProfilePhotoURL,
		&doctor.CreatedAt,
		&doctor.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &doctor, nil
}

func (r *DoctorRepo) Create(ctx context.Context, doctor domain.Doctor) error {
	query := `
		INSERT INTO doctors (id, name, specialization, max_daily_patients, current_appointments,
			is_active, last_reset_date, profile_photo_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
	`

	now := time.Now()
	_, err := r.db.Exec(ctx, query,
		doctor.ID,
		doctor.Name,
		doctor.Specialization,
		doctor.MaxDailyPatients,
		doctor.CurrentAppointments,
		doctor.IsActive,
		doctor.LastResetDate,
		doctor.ProfilePhotoURL,
		now,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrDuplicateDoctorID
		}
		return fmt.Errorf("creating doctor: %w", err)
	}

	return nil
}

func (r *DoctorRepo) GetByID(ctx context.Context, id string) (*domain.Doctor, error) {
	query := `
		SELECT ` + doctorColumns + `
		FROM doctors
		WHERE id = $1
	`

	doctor, err := scanDoctor(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDoctorNotFound
		}
		return nil, fmt.Errorf("getting doctor %s: %w", id, err)
	}

	return doctor, nil
}

func (r *DoctorRepo) List(ctx context.Context, filter domain.DoctorFilter) ([]domain.Doctor, error) {
	query := `
		SELECT ` + doctorColumns + `
		FROM doctors
		WHERE is_active = true
	`
	args := make([]interface{}, 0)

	if filter.SpecializationLike != nil {
		query += " AND specialization ILIKE $1"
		args = append(args, "%"+*filter.SpecializationLike+"%")
	}

	query += " ORDER BY specialization ASC, name ASC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing doctors: %w", err)
	}
	defer rows.Close()

	doctors := make([]domain.Doctor, 0)
	for rows.Next() {
		doctor, err := scanDoctor(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning doctor row: %w", err)
		}
		doctors = append(doctors, *doctor)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating doctor rows: %w", err)
	}

	return doctors, nil
}

// ListBySpecialization is the allocation read: active doctors whose
// specialization equals the argument ignoring case. Exact match, not
// substring.
func (r *DoctorRepo) ListBySpecialization(ctx context.Context, specialization string) ([]domain.Doctor, error) {
	query := `
		SELECT ` + doctorColumns + `
		FROM doctors
		WHERE is_active = true AND LOWER(specialization) = LOWER($1)
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query, specialization)
	if err != nil {
		return nil, fmt.Errorf("listing doctors by specialization: %w", err)
	}
	defer rows.Close()

	doctors := make([]domain.Doctor, 0)
	for rows.Next() {
		doctor, err := scanDoctor(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning doctor row: %w", err)
		}
		doctors = append(doctors, *doctor)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating doctor rows: %w", err)
	}

	return doctors, nil
}

func (r *DoctorRepo) IncrementAppointments(ctx context.Context, id string, delta int) (*domain.Doctor, error) {
	query := `
		UPDATE doctors
		SET current_appointments = current_appointments + $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + doctorColumns + `
	`

	doctor, err := scanDoctor(r.db.QueryRow(ctx, query, id, delta, time.Now()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDoctorNotFound
		}
		return nil, fmt.Errorf("incrementing appointment counter for doctor %s: %w", id, err)
	}

	return doctor, nil
}

func (r *DoctorRepo) ResetDaily(ctx context.Context, id string) error {
	query := `
		UPDATE doctors
		SET current_appointments = 0, last_reset_date = $2, updated_at = $2
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("resetting doctor %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDoctorNotFound
	}

	return nil
}

func (r *DoctorRepo) ResetAllActive(ctx context.Context) (int64, error) {
	query := `
		UPDATE doctors
		SET current_appointments = 0, last_reset_date = $1, updated_at = $1
		WHERE is_active = true
	`

	tag, err := r.db.Exec(ctx, query, time.Now())
	if err != nil {
		return 0, fmt.Errorf("resetting all active doctors: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r *DoctorRepo) Deactivate(ctx context.Context, id string) error {
	query := `
		UPDATE doctors
		SET is_active = false, updated_at = $2
		WHERE id = $1 AND is_active = true
	`

	tag, err := r.db.Exec(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("deactivating doctor %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDoctorNotFound
	}

	return nil
}

func (r *DoctorRepo) UpdateProfilePhoto(ctx context.Context, id string, photoURL string) error {
	query := `
		UPDATE doctors
		SET profile_photo_url = $2, updated_at = $3
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, id, photoURL, time.Now())
	if err != nil {
		return fmt.Errorf("updating profile photo for doctor %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDoctorNotFound
	}

	return nil
}

func (r *DoctorRepo) DistinctSpecializations(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT specialization
		FROM doctors
		WHERE is_active = true
		ORDER BY specialization ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing specializations: %w", err)
	}
	defer rows.Close()

	specializations := make([]string, 0)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scanning specialization row: %w", err)
		}
		specializations = append(specializations, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating specialization rows: %w", err)
	}

	return specializations, nil
}
