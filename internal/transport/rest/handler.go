package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medalloc/config"
	"medalloc/internal/service"
)

type Handler struct {
	services *service.Services
	logger   *zap.Logger
	config   *config.Config
}

func NewHandler(services *service.Services, logger *zap.Logger, config *config.Config) *Handler {
	return &Handler{
		services: services,
		logger:   logger,
		config:   config,
	}
}

func (h *Handler) InitRoutes(router *gin.Engine) {
	router.Use(h.loggerMiddleware())
	router.Use(h.corsMiddleware())

	router.GET("/health", h.health)

	api := router.Group("/api/v1")
	{
		doctors := api.Group("/doctors")
		{
			doctors.GET("/specializations", h.getSpecializations)
			doctors.GET("/", h.getDoctors)
			doctors.GET("/:id", h.getDoctorByID)
			doctors.POST("/", h.createDoctor)
			doctors.DELETE("/:id", h.deleteDoctor)
			doctors.POST("/reset/daily", h.resetDailyAppointments)

			doctors.POST("/:id/photo", h.uploadDoctorPhoto)
			doctors.DELETE("/:id/photo", h.deleteDoctorPhoto)
		}

		appointments := api.Group("/appointments")
		{
			appointments.GET("/stats", h.getAppointmentStats)
			appointments.GET("/", h.getAppointments)
			appointments.POST("/book", h.bookAppointment)
		}
	}
}

// @Summary Health check
// @Tags Service
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"name":        h.config.Name,
		"version":     h.config.Version,
		"environment": h.config.Environment,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	})
}
