package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"alcyxob/trainingsplan/internal/domain"
	"alcyxob/trainingsplan/internal/service"
)

// CompletedTrainingHandler serves uploaded activities.
type CompletedTrainingHandler struct {
	completedService service.CompletedTrainingService
}

func NewCompletedTrainingHandler(completedService service.CompletedTrainingService) *CompletedTrainingHandler {
	return &CompletedTrainingHandler{completedService: completedService}
}

type CompletedTrainingResponse struct {
	ID               string                 `json:"id"`
	TrainingDate     string                 `json:"trainingDate"`
	UploadDate       time.Time              `json:"uploadDate"`
	OriginalFilename string                 `json:"originalFilename"`
	TrainingID       string                 `json:"trainingId,omitempty"`
	Sport            string                 `json:"sport,omitempty"`
	SubSport         string                 `json:"subSport,omitempty"`
	Metrics          domain.ActivityMetrics `json:"metrics"`
	Device           domain.DeviceInfo      `json:"device"`
}

func MapCompletedTrainingToResponse(ct *domain.CompletedTraining) CompletedTrainingResponse {
	return CompletedTrainingResponse{
		ID:               ct.ID.Hex(),
		TrainingDate:     formatDate(ct.TrainingDate),
		UploadDate:       ct.UploadDate,
		OriginalFilename: ct.OriginalFilename,
		TrainingID:       hexOrEmpty(ct.TrainingID),
		Sport:            ct.Sport,
		SubSport:         ct.SubSport,
		Metrics:          ct.Metrics,
		Device:           ct.Device,
	}
}

func MapCompletedTrainingsToResponse(list []domain.CompletedTraining) []CompletedTrainingResponse {
	responses := make([]CompletedTrainingResponse, len(list))
	for i := range list {
		responses[i] = MapCompletedTrainingToResponse(&list[i])
	}
	return responses
}

// UploadActivity godoc
// @Summary Upload a recorded activity (FIT file)
// @Description When trainingId names a planned training, that training is marked completed.
// @Tags Completed Trainings
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Activity file"
// @Param date formData string false "Training date (YYYY-MM-DD), defaults to the recording's start"
// @Param trainingId formData string false "Planned training fulfilled by this activity"
// @Success 201 {object} CompletedTrainingResponse
// @Failure 400 {object} gin.H "Unreadable activity file"
// @Router /completed-trainings/upload [post]
func (h *CompletedTrainingHandler) UploadActivity(c *gin.Context) {
	trainingID, err := parseOptionalID("trainingId", c.PostForm("trainingId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	var date time.Time
	if raw := strings.TrimSpace(c.PostForm("date")); raw != "" {
		var ok bool
		if date, ok = dateValue(c, "date", raw); !ok {
			return
		}
	}
	header, content, ok := readFormFile(c, "file")
	if !ok {
		return
	}

	completed, err := h.completedService.Upload(c.Request.Context(), service.ActivityUpload{
		Date:       date,
		FileName:   header.Filename,
		Content:    content,
		TrainingID: trainingID,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to store activity.")
		return
	}
	c.JSON(http.StatusCreated, MapCompletedTrainingToResponse(completed))
}

// GetByDate godoc
// @Summary List activities recorded on a date, newest upload first
// @Tags Completed Trainings
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {array} CompletedTrainingResponse
// @Router /completed-trainings/by-date [get]
func (h *CompletedTrainingHandler) GetByDate(c *gin.Context) {
	date, ok := dateValue(c, "date", c.Query("date"))
	if !ok {
		return
	}
	list, err := h.completedService.GetByDate(c.Request.Context(), date)
	if err != nil {
		respondServiceError(c, err, "Failed to load activities.")
		return
	}
	c.JSON(http.StatusOK, MapCompletedTrainingsToResponse(list))
}

// GetByDateRange godoc
// @Summary List activities between two dates, inclusive
// @Tags Completed Trainings
// @Produce json
// @Param startDate query string true "First date (YYYY-MM-DD)"
// @Param endDate query string true "Last date (YYYY-MM-DD)"
// @Success 200 {array} CompletedTrainingResponse
// @Router /completed-trainings/by-date-range [get]
func (h *CompletedTrainingHandler) GetByDateRange(c *gin.Context) {
	start, ok := dateValue(c, "startDate", c.Query("startDate"))
	if !ok {
		return
	}
	end, ok := dateValue(c, "endDate", c.Query("endDate"))
	if !ok {
		return
	}
	list, err := h.completedService.GetBetween(c.Request.Context(), start, end)
	if err != nil {
		respondServiceError(c, err, "Failed to load activities.")
		return
	}
	c.JSON(http.StatusOK, MapCompletedTrainingsToResponse(list))
}

func (h *CompletedTrainingHandler) GetCompletedTraining(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	completed, err := h.completedService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to load activity.")
		return
	}
	c.JSON(http.StatusOK, MapCompletedTrainingToResponse(completed))
}

func (h *CompletedTrainingHandler) DeleteCompletedTraining(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.completedService.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "Failed to delete activity.")
		return
	}
	c.Status(http.StatusNoContent)
}

// GetDownloadURL godoc
// @Summary Get a temporary download link for the archived activity file
// @Tags Completed Trainings
// @Produce json
// @Param id path string true "Completed training ID"
// @Success 200 {object} gin.H "downloadUrl"
// @Failure 503 {object} gin.H "Object storage not configured"
// @Router /completed-trainings/{id}/download-url [get]
func (h *CompletedTrainingHandler) GetDownloadURL(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	url, err := h.completedService.DownloadURL(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to create download link.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"downloadUrl": url})
}
