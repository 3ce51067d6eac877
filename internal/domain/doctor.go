package domain

import (
	"time"
)

type Doctor struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Specialization      string    `json:"specialization"`
	MaxDailyPatients    int       `json:"max_daily_patients"`
	CurrentAppointments int       `json:"current_appointments"`
	IsActive            bool      `json:"is_active"`
	LastResetDate       time.Time `json:"last_reset_date"`
	ProfilePhotoURL     string    `json:"profile_photo_url,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// SlotsRemaining is derived, never stored.
func (d *Doctor) SlotsRemaining() int {
	remaining := d.MaxDailyPatients - d.CurrentAppointments
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (d *Doctor) IsAvailable() bool {
	return d.IsActive && d.CurrentAppointments < d.MaxDailyPatients
}

type CreateDoctorDTO struct {
	ID               string `json:"id" binding:"omitempty,min=1,max=50"`
	Name             string `json:"name" binding:"required,min=2,max=100"`
	Specialization   string `json:"specialization" binding:"required,min=2,max=100"`
	MaxDailyPatients int    `json:"max_daily_patients" binding:"required,min=1,max=100"`
}

type DoctorFilter struct {
	SpecializationLike *string `json:"specialization_like"`
	OnlyAvailable      bool    `json:"only_available"`
}

// SameUTCDay reports whether a and b fall on the same calendar day in UTC.
// This is the single predicate behind both reset modes.
func SameUTCDay(a, b time.Time) bool {
	au, bu := a.UTC(), b.UTC()
	return au.Year() == bu.Year() && au.Month() == bu.Month() && au.Day() == bu.Day()
}
