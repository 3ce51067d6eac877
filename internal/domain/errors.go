package domain

import "errors"

var (
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrDuplicateDoctorID   = errors.New("doctor id already exists")
	ErrAppointmentNotFound = errors.New("appointment not found")

	// Allocation outcomes. ErrNoDoctors and ErrAllDoctorsFull accompany a
	// persisted rejected appointment; ErrSlotTaken does not.
	ErrNoDoctors      = errors.New("no doctors found with requested specialization")
	ErrAllDoctorsFull = errors.New("all doctors are fully booked for today")
	ErrSlotTaken      = errors.New("appointment slot was just taken")
)
