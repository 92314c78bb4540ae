package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/trainingsplan/internal/calendar"
	"alcyxob/trainingsplan/internal/service"
)

// RequestLogger logs one line per request.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		level := slog.LevelInfo
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// BodyLimit caps the request body at maxBytes.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// respondServiceError maps service errors onto HTTP status codes. Unexpected
// errors are logged and reported with the generic fallback message.
func respondServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrCompetitionNotFound),
		errors.Is(err, service.ErrPlanNotFound),
		errors.Is(err, service.ErrTrainingNotFound),
		errors.Is(err, service.ErrWeekNotFound),
		errors.Is(err, service.ErrCompletedTrainingNotFound),
		errors.Is(err, service.ErrDescriptionNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidPlanDocument),
		errors.Is(err, service.ErrActivityDecode):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrStorageDisabled):
		abortWithError(c, http.StatusServiceUnavailable, err.Error())
	default:
		slog.ErrorContext(c.Request.Context(), fallback, "error", err, "path", c.Request.URL.Path)
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}

// objectIDParam reads a hex ObjectID path parameter, aborting with 400 when malformed.
func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s format.", name))
		return primitive.NilObjectID, false
	}
	return id, true
}

// parseOptionalID parses a hex id that may be empty.
func parseOptionalID(field, hex string) (*primitive.ObjectID, error) {
	hex = strings.TrimSpace(hex)
	if hex == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil, fmt.Errorf("invalid %s format", field)
	}
	return &id, nil
}

// dateValue parses a YYYY-MM-DD value, aborting with 400 when malformed.
func dateValue(c *gin.Context, field, value string) (time.Time, bool) {
	d, err := calendar.ParseDate(strings.TrimSpace(value))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s, expected YYYY-MM-DD.", field))
		return time.Time{}, false
	}
	return d, true
}

// readFormFile reads the uploaded file in the given multipart field.
func readFormFile(c *gin.Context, field string) (*multipart.FileHeader, []byte, bool) {
	header, err := c.FormFile(field)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			abortWithError(c, http.StatusRequestEntityTooLarge, "Uploaded file is too large.")
		} else {
			abortWithError(c, http.StatusBadRequest, "A file must be uploaded in the '"+field+"' field.")
		}
		return nil, nil, false
	}
	f, err := header.Open()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Uploaded file could not be opened.")
		return nil, nil, false
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Uploaded file could not be read.")
		return nil, nil, false
	}
	return header, content, true
}

func formatDate(t time.Time) string {
	return calendar.FormatDate(t)
}
