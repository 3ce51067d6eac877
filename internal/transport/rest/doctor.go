package rest

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medalloc/internal/domain"
	"medalloc/internal/service"
)

const maxPhotoSizeBytes = 5 << 20

// @Summary List doctors
// @Tags Doctors
// @Produce json
// @Param specialization query string false "Filter by specialization substring"
// @Param available query boolean false "Only doctors with free slots today"
// @Success 200 {object} listResponseBody "Active doctors"
// @Failure 500 {object} errorResponseBody "Internal server error"
// @Router /doctors [get]
func (h *Handler) getDoctors(c *gin.Context) {
	filter := domain.DoctorFilter{
		OnlyAvailable: c.Query("available") == "true",
	}

	if specialization := c.Query("specialization"); specialization != "" {
		filter.SpecializationLike = &specialization
	}

	doctors, err := h.services.Doctor.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list doctors", zap.Error(err))
		internalServerErrorResponse(c)
		return
	}

	listResponse(c, doctors, len(doctors))
}

// @Summary Get doctor
// @Tags Doctors
// @Produce json
// @Param id path string true "Doctor ID"
// @Success 200 {object} successResponseBody "Doctor"
// @Failure 404 {object} errorResponseBody "Doctor not found"
// @Failure 500 {object} errorResponseBody "Internal server error"
// @Router /doctors/{id} [get]
func (h *Handler) getDoctorByID(c *gin.Context) {
	doctor, err := h.services.Doctor.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrDoctorNotFound) {
			notFoundResponse(c, "doctor not found")
			return
		}
		h.logger.Error("failed to get doctor", zap.String("id", c.Param("id")), zap.Error(err))
		internalServerErrorResponse(c)
		return
	}

	successResponse(c, http.StatusOK, doctor)
}

// @Summary Register a doctor
// @Tags Doctors
// @Accept json
// @Produce json
// @Param input body domain.CreateDoctorDTO true "Doctor data"
// @Success 201 {object} successResponseBody "Registered doctor"
// @Failure 400 {object} validationResponseBody "Validation failed"
// @Failure 409 {object} errorResponseBody "Doctor ID already exists"
// @Failure 500 {object} errorResponseBody "Internal server error"
// @Router /doctors [post]
func (h *Handler) createDoctor(c *gin.Context) {
	var dto domain.CreateDoctorDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		validationErrorResponse(c, err)
		return
	}

	doctor, err := h.services.Doctor.Create(c.Request.Context(), dto)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateDoctorID) {
			conflictResponse(c, fmt.Sprintf("doctor ID %q already exists", dto.ID))
			return
		}
		h.logger.Error("failed to create doctor", zap.Error(err))
		internalServerErrorResponse(c)
		return
	}

	createdResponse(c, fmt.Sprintf("Dr. %s added successfully", doctor.Name), doctor)
}

// @Summary Remove a doctor
// @Description Soft delete: the doctor is deactivated, never physically removed
// @Tags Doctors
// @Produce json
// @Param id path string true "Doctor ID"
// @Success 200 {object} successResponseBody "Doctor removed"
// @Failure 404 {object} errorResponseBody "Doctor not found"
// @Failure 500 {object} errorResponseBody "Internal server error"
// @Router /doctors/{id} [delete]
func (h *Handler) deleteDoctor(c *gin.Context) {
	id := c.Param("id")

	if err := h.services.Doctor.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrDoctorNotFound) {
			notFoundResponse(c, "doctor not found")
			return
		}
		h.logger.Error("failed to delete doctor", zap.String("id", id), zap.Error(err))
		internalServerErrorResponse(c)
		return
	}

	messageResponse(c, http.StatusOK, "doctor removed successfully")
}

// @Summary Reset daily appointment counters
// @Description Administrative sweep: unconditionally zeroes every active doctor's counter
// @Tags Doctors
// @Produce json
// @Success 200 {object} successResponseBody "Number of doctors reset"
// @Failure 500 {object} errorResponseBody "Internal server error"
// @Router /doctors/reset/daily [post]
func (h *Handler) resetDailyAppointments(c *gin.Context) {
	affected, err := h.services.Doctor.ResetAll(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to reset daily appointments", zap.Error(err))
		internalServerErrorResponse(c)
		return
	}

	messageResponse(c, http.StatusOK,
		fmt.Sprintf("daily appointments reset for %d doctor(s)", affected))
}

// @Summary List specializations
// @Tags Doctors
// @Produce json
// @Success 200 {object} listResponseBody "Distinct active specializations, sorted"
// @Failure 500 {object} errorResponseBody "Internal server error"
// @Router /doctors/specializations [get]
func (h *Handler) getSpecializations(c *gin.Context) {
	specializations, err := h.services.Doctor.Specializations(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list specializations", zap.Error(err))
		internalServerErrorResponse(c)
		return
	}

	listResponse(c, specializations, len(specializations))
}

// @Summary Upload doctor profile photo
// @Tags Doctors
// @Accept mpfd
// @Produce json
// @Param id path string true "Doctor ID"
// @Param photo formData file true "Image file"
// @Success 200 {object} successResponseBody "Photo URL"
// @Failure 400 {object} errorResponseBody "Missing or invalid file"
// @Failure 404 {object} errorResponseBody "Doctor not found"
// @Failure 503 {object} errorResponseBody "File storage not configured"
// @Router /doctors/{id}/photo [post]
func (h *Handler) uploadDoctorPhoto(c *gin.Context) {
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		badRequestResponse(c, "photo file is required")
		return
	}
	if fileHeader.Size > maxPhotoSizeBytes {
		badRequestResponse(c, "photo file is too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		badRequestResponse(c, "failed to read photo file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		badRequestResponse(c, "failed to read photo file")
		return
	}

	url, err := h.services.Doctor.UploadProfilePhoto(c.Request.Context(), c.Param("id"), data, fileHeader.Filename)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStorageNotConfigured):
			errorResponse(c, http.StatusServiceUnavailable, "file storage is not configured")
		case errors.Is(err, domain.ErrDoctorNotFound):
			notFoundResponse(c, "doctor not found")
		default:
			h.logger.Error("failed to upload doctor photo", zap.String("id", c.Param("id")), zap.Error(err))
			internalServerErrorResponse(c)
		}
		return
	}

	successResponse(c, http.StatusOK, gin.H{"photo_url": url})
}

// @Summary Delete doctor profile photo
// @Tags Doctors
// @Produce json
// @Param id path string true "Doctor ID"
// @Success 200 {object} successResponseBody "Photo removed"
// @Failure 404 {object} errorResponseBody "Doctor not found"
// @Failure 503 {object} errorResponseBody "File storage not configured"
// @Router /doctors/{id}/photo [delete]
func (h *Handler) deleteDoctorPhoto(c *gin.Context) {
	err := h.services.Doctor.DeleteProfilePhoto(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStorageNotConfigured):
			errorResponse(c, http.StatusServiceUnavailable, "file storage is not configured")
		case errors.Is(err, domain.ErrDoctorNotFound):
			notFoundResponse(c, "doctor not found")
		default:
			h.logger.Error("failed to delete doctor photo", zap.String("id", c.Param("id")), zap.Error(err))
			internalServerErrorResponse(c)
		}
		return
	}

	messageResponse(c, http.StatusOK, "profile photo removed")
}
