package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alcyxob/trainingsplan/internal/domain"
	"alcyxob/trainingsplan/internal/service"
)

// CompletionHandler serves the planned-versus-done read model.
type CompletionHandler struct {
	completionService service.CompletionService
}

func NewCompletionHandler(completionService service.CompletionService) *CompletionHandler {
	return &CompletionHandler{completionService: completionService}
}

type CompletionResponse struct {
	Date                    string   `json:"date"`
	PlannedCount            int      `json:"plannedCount"`
	CompletedCount          int      `json:"completedCount"`
	CompletionPercentage    float64  `json:"completionPercentage"`
	PlannedTrainingNames    []string `json:"plannedTrainingNames"`
	CompletedTrainingSports []string `json:"completedTrainingSports"`
}

func MapCompletionToResponse(d *domain.DailyCompletion) CompletionResponse {
	return CompletionResponse{
		Date:                    formatDate(d.Date),
		PlannedCount:            d.PlannedCount,
		CompletedCount:          d.CompletedCount,
		CompletionPercentage:    d.CompletionPercentage,
		PlannedTrainingNames:    d.PlannedTrainingNames,
		CompletedTrainingSports: d.CompletedTrainingSports,
	}
}

func mapCompletions(days []domain.DailyCompletion) []CompletionResponse {
	responses := make([]CompletionResponse, len(days))
	for i := range days {
		responses[i] = MapCompletionToResponse(&days[i])
	}
	return responses
}

// GET /training-completion/today
func (h *CompletionHandler) GetToday(c *gin.Context) {
	daily, err := h.completionService.Today(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to compute completion.")
		return
	}
	c.JSON(http.StatusOK, MapCompletionToResponse(daily))
}

// GET /training-completion/date/:date
func (h *CompletionHandler) GetByDate(c *gin.Context) {
	date, ok := dateValue(c, "date", c.Param("date"))
	if !ok {
		return
	}
	daily, err := h.completionService.Daily(c.Request.Context(), date)
	if err != nil {
		respondServiceError(c, err, "Failed to compute completion.")
		return
	}
	c.JSON(http.StatusOK, MapCompletionToResponse(daily))
}

// GET /training-completion/week?startDate=&endDate=
func (h *CompletionHandler) GetRange(c *gin.Context) {
	start, ok := dateValue(c, "startDate", c.Query("startDate"))
	if !ok {
		return
	}
	end, ok := dateValue(c, "endDate", c.Query("endDate"))
	if !ok {
		return
	}
	days, err := h.completionService.Range(c.Request.Context(), start, end)
	if err != nil {
		respondServiceError(c, err, "Failed to compute completion.")
		return
	}
	c.JSON(http.StatusOK, mapCompletions(days))
}

// GET /training-completion/current-week
func (h *CompletionHandler) GetCurrentWeek(c *gin.Context) {
	days, err := h.completionService.CurrentWeek(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to compute completion.")
		return
	}
	c.JSON(http.StatusOK, mapCompletions(days))
}
