package domain

import (
	"time"
)

type AppointmentStatus string

const (
	AppointmentStatusBooked   AppointmentStatus = "booked"
	AppointmentStatusRejected AppointmentStatus = "rejected"
)

// Appointment is immutable once created. Rejected booking attempts are
// recorded too, for audit and stats.
type Appointment struct {
	ID              int64             `json:"id"`
	PatientName     string            `json:"patient_name"`
	Specialization  string            `json:"specialization"`
	DoctorID        *string           `json:"doctor_id,omitempty"`
	DoctorName      *string           `json:"doctor_name,omitempty"`
	Status          AppointmentStatus `json:"status"`
	RejectionReason *string           `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

type BookingRequest struct {
	PatientName    string `json:"patient_name" binding:"required,min=2,max=100"`
	Specialization string `json:"specialization" binding:"required,min=2,max=100"`
}

type CreateAppointmentDTO struct {
	PatientName     string
	Specialization  string
	DoctorID        *string
	DoctorName      *string
	Status          AppointmentStatus
	RejectionReason *string
}

type AppointmentFilter struct {
	Status             *AppointmentStatus `json:"status"`
	SpecializationLike *string            `json:"specialization_like"`
	CreatedAfter       *time.Time         `json:"created_after"`
	Limit              int                `json:"limit"`
}

// AllocationResult is the terminal outcome of a booking attempt. Appointment
// is set on every outcome except a lost allocation race; Doctor is set only
// when the booking succeeded.
type AllocationResult struct {
	Status       AppointmentStatus `json:"status"`
	Appointment  *Appointment      `json:"appointment,omitempty"`
	Doctor       *Doctor           `json:"doctor,omitempty"`
	TotalDoctors int               `json:"total_doctors,omitempty"`
}

type AppointmentStats struct {
	Total StatusCounts `json:"total"`
	Today StatusCounts `json:"today"`
}

type StatusCounts struct {
	Booked   int `json:"booked"`
	Rejected int `json:"rejected"`
}
