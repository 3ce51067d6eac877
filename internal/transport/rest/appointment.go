package rest

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medalloc/internal/domain"
)

const defaultAppointmentLimit = 50

// @Summary Book an appointment
// @Description Assigns the least-loaded available doctor in the requested specialization
// @Tags Appointments
// @Accept json
// @Produce json
// @Param input body domain.BookingRequest true "Booking request"
// @Success 201 {object} successResponseBody "Appointment booked"
// @Failure 400 {object} validationResponseBody "Validation failed"
// @Failure 404 {object} errorResponseBody "No doctors with requested specialization"
// @Failure 409 {object} errorResponseBody "All doctors fully booked, or slot lost to a concurrent booking"
// @Failure 500 {object} errorResponseBody "Internal server error"
// @Router /appointments/book [post]
func (h *Handler) bookAppointment(c *gin.Context) {
	var req domain.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrorResponse(c, err)
		return
	}

	result, err := h.services.Allocator.Book(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoDoctors):
			rejectionResponse(c, http.StatusNotFound,
				fmt.Sprintf("no doctors found with specialization: %q", req.Specialization),
				result)
		case errors.Is(err, domain.ErrAllDoctorsFull):
			rejectionResponse(c, http.StatusConflict,
				fmt.Sprintf("all %d doctor(s) specializing in %q are fully booked for today",
					result.TotalDoctors, req.Specialization),
				result)
		case errors.Is(err, domain.ErrSlotTaken):
			conflictResponse(c, "appointment slot was just taken, please try again")
		default:
			h.logger.Error("booking failed", zap.Error(err))
			internalServerErrorResponse(c)
		}
		return
	}

	createdResponse(c,
		fmt.Sprintf("appointment booked successfully with Dr. %s", result.Doctor.Name),
		result)
}

// @Summary List appointments
// @Tags Appointments
// @Produce json
// @Param status query string false "Filter by status (booked or rejected)"
// @Param specialization query string false "Filter by specialization substring"
// @Param limit query int false "Maximum number of records (default 50)"
// @Success 200 {object} listResponseBody "Appointments, newest first"
// @Failure 500 {object} errorResponseBody "Internal server error"
// @Router /appointments [get]
func (h *Handler) getAppointments(c *gin.Context) {
	filter := domain.AppointmentFilter{
		Limit: defaultAppointmentLimit,
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := domain.AppointmentStatus(statusStr)
		if status != domain.AppointmentStatusBooked && status != domain.AppointmentStatusRejected {
			badRequestResponse(c, "status must be booked or rejected")
			return
		}
		filter.Status = &status
	}

	if specialization := c.Query("specialization"); specialization != "" {
		filter.SpecializationLike = &specialization
	}

	appointments, err := h.services.Allocator.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list appointments", zap.Error(err))
		internalServerErrorResponse(c)
		return
	}

	listResponse(c, appointments, len(appointments))
}

// @Summary Appointment stats
// @Description Booked and rejected totals, overall and for the current UTC day
// @Tags Appointments
// @Produce json
// @Success 200 {object} successResponseBody "Stats"
// @Failure 500 {object} errorResponseBody "Internal server error"
// @Router /appointments/stats [get]
func (h *Handler) getAppointmentStats(c *gin.Context) {
	stats, err := h.services.Allocator.Stats(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to collect appointment stats", zap.Error(err))
		internalServerErrorResponse(c)
		return
	}

	successResponse(c, http.StatusOK, stats)
}
