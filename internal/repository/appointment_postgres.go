package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"medalloc/internal/domain"
)

type AppointmentRepo struct {
	db *pgxpool.Pool
}

func NewAppointmentRepository(db *pgxpool.Pool) *AppointmentRepo {
	return &AppointmentRepo{
		db: db,
	}
}

func (r *AppointmentRepo) Create(ctx context.Context, dto domain.CreateAppointmentDTO) (*domain.Appointment, error) {
	query := `
		INSERT INTO appointments (patient_name, specialization, doctor_id, doctor_name,
			status, rejection_reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	appointment := domain.Appointment{
		PatientName:     dto.PatientName,
		Specialization:  dto.Specialization,
		DoctorID:        dto.DoctorID,
		DoctorName:      dto.DoctorName,
		Status:          dto.Status,
		RejectionReason: dto.RejectionReason,
	}

	err := r.db.QueryRow(ctx, query,
		dto.PatientName,
		dto.Specialization,
		dto.DoctorID,
		dto.DoctorName,
		dto.Status,
		dto.RejectionReason,
		time.Now(),
	).Scan(&appointment.ID, &appointment.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("creating appointment: %w", err)
	}

	return &appointment, nil
}

func buildAppointmentFilter(filter domain.AppointmentFilter) (string, []interface{}) {
	conditions := make([]string, 0)
	args := make([]interface{}, 0)
	argID := 1

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argID))
		args = append(args, *filter.Status)
		argID++
	}

	if filter.SpecializationLike != nil {
		conditions = append(conditions, fmt.Sprintf("specialization ILIKE $%d", argID))
		args = append(args, "%"+*filter.SpecializationLike+"%")
		argID++
	}

	if filter.CreatedAfter != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argID))
		args = append(args, *filter.CreatedAfter)
		argID++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	return whereClause, args
}

func (r *AppointmentRepo) List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error) {
	whereClause, args := buildAppointmentFilter(filter)

	query := fmt.Sprintf(`
		SELECT id, patient_name, specialization, doctor_id, doctor_name, status, rejection_reason, created_at
		FROM appointments
		%s
		ORDER BY created_at DESC
		LIMIT $%d
	`, whereClause, len(args)+1)
	args = append(args, filter.Limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing appointments: %w", err)
	}
	defer rows.Close()

	appointments := make([]domain.Appointment, 0)
	for rows.Next() {
		var appointment domain.Appointment
		if err := rows.Scan(
			&appointment.ID,
			&appointment.PatientName,
			&appointment.Specialization,
			&appointment.DoctorID,
			&appointment.DoctorName,
			&appointment.Status,
			&appointment.RejectionReason,
			&appointment.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning appointment row: %w", err)
		}
		appointments = append(appointments, appointment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating appointment rows: %w", err)
	}

	return appointments, nil
}

func (r *AppointmentRepo) CountByFilter(ctx context.Context, filter domain.AppointmentFilter) (int, error) {
	whereClause, args := buildAppointmentFilter(filter)

	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM appointments
		%s
	`, whereClause)

	var count int
	err := r.db.QueryRow(ctx, query, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting appointments: %w", err)
	}

	return count, nil
}
