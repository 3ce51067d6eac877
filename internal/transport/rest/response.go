package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type errorResponseBody struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Code    int         `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type successResponseBody struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type listResponseBody struct {
	Status string      `json:"status"`
	Count  int         `json:"count"`
	Data   interface{} `json:"data"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type validationResponseBody struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Errors  []fieldError `json:"errors"`
}

func successResponse(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, successResponseBody{
		Status: "success",
		Data:   data,
	})
}

func createdResponse(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, successResponseBody{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

func listResponse(c *gin.Context, data interface{}, count int) {
	c.JSON(http.StatusOK, listResponseBody{
		Status: "success",
		Count:  count,
		Data:   data,
	})
}

func messageResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, successResponseBody{
		Status:  "success",
		Message: message,
	})
}

func errorResponse(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, errorResponseBody{
		Status:  "error",
		Message: message,
		Code:    statusCode,
	})
}

// rejectionResponse carries the persisted rejected appointment alongside the
// error payload, so callers can show why the booking was declined.
func rejectionResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.AbortWithStatusJSON(statusCode, errorResponseBody{
		Status:  "error",
		Message: message,
		Code:    statusCode,
		Data:    data,
	})
}

func badRequestResponse(c *gin.Context, message string) {
	errorResponse(c, http.StatusBadRequest, message)
}

func notFoundResponse(c *gin.Context, message string) {
	errorResponse(c, http.StatusNotFound, message)
}

func conflictResponse(c *gin.Context, message string) {
	errorResponse(c, http.StatusConflict, message)
}

func internalServerErrorResponse(c *gin.Context) {
	errorResponse(c, http.StatusInternalServerError, "internal server error")
}

// validationErrorResponse turns gin binding failures into per-field messages.
// Validation failures are caller mistakes, not system errors, and are never
// logged as failures.
func validationErrorResponse(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		badRequestResponse(c, "malformed request body")
		return
	}

	fieldErrors := make([]fieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fieldErrors = append(fieldErrors, fieldError{
			Field:   fe.Field(),
			Message: fieldErrorMessage(fe),
		})
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, validationResponseBody{
		Status:  "error",
		Message: "validation failed",
		Errors:  fieldErrors,
	})
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "is too short or too small (min " + fe.Param() + ")"
	case "max":
		return "is too long or too large (max " + fe.Param() + ")"
	default:
		return "is invalid"
	}
}
