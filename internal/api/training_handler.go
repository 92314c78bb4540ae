package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/trainingsplan/internal/domain"
	"alcyxob/trainingsplan/internal/service"
)

// TrainingHandler serves planned trainings, completion feedback and
// mixed-day proposals.
type TrainingHandler struct {
	trainingService service.TrainingService
	mixedDayService service.MixedDayService
}

func NewTrainingHandler(trainingService service.TrainingService, mixedDayService service.MixedDayService) *TrainingHandler {
	return &TrainingHandler{trainingService: trainingService, mixedDayService: mixedDayService}
}

// --- DTOs ---

// TrainingRequest is the JSON body for creating or replacing a training.
type TrainingRequest struct {
	Name            string  `json:"name" binding:"required"`
	Description     string  `json:"description"`
	DescriptionID   string  `json:"descriptionId"`
	Date            string  `json:"date" binding:"required"` // YYYY-MM-DD
	StartTime       *string `json:"startTime"`               // HH:MM
	DurationMinutes *int    `json:"durationMinutes" binding:"omitempty,min=0"`
	Intensity       string  `json:"intensity" binding:"omitempty,oneof=rest recovery low medium high"`
	TrainingType    string  `json:"trainingType"`
	WeekID          string  `json:"weekId"`
	PlanID          string  `json:"planId"`
	CompetitionID   string  `json:"competitionId"`
}

// FeedbackRequest reports whether a training was done.
type FeedbackRequest struct {
	Completed *bool  `json:"isCompleted" binding:"required"`
	Status    string `json:"completionStatus"`
}

type TrainingResponse struct {
	ID               string    `json:"id,omitempty"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	DescriptionID    string    `json:"descriptionId,omitempty"`
	Date             string    `json:"date"`
	StartTime        *string   `json:"startTime,omitempty"`
	DurationMinutes  *int      `json:"durationMinutes,omitempty"`
	Intensity        string    `json:"intensity"`
	TrainingType     string    `json:"trainingType"`
	IsCompleted      bool      `json:"isCompleted"`
	CompletionStatus string    `json:"completionStatus,omitempty"`
	WeekID           string    `json:"weekId,omitempty"`
	PlanID           string    `json:"planId,omitempty"`
	CompetitionID    string    `json:"competitionId,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func hexOrEmpty(id *primitive.ObjectID) string {
	if id == nil {
		return ""
	}
	return id.Hex()
}

func MapTrainingToResponse(t *domain.Training) TrainingResponse {
	resp := TrainingResponse{
		Name:             t.Name,
		Description:      t.Description,
		DescriptionID:    hexOrEmpty(t.DescriptionID),
		Date:             formatDate(t.Date),
		StartTime:        t.StartTime,
		DurationMinutes:  t.DurationMinutes,
		Intensity:        string(t.Intensity),
		TrainingType:     t.TrainingType,
		IsCompleted:      t.Completed,
		CompletionStatus: t.CompletionStatus,
		WeekID:           hexOrEmpty(t.WeekID),
		PlanID:           hexOrEmpty(t.PlanID),
		CompetitionID:    hexOrEmpty(t.CompetitionID),
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
	if !t.ID.IsZero() {
		resp.ID = t.ID.Hex()
	}
	return resp
}

func MapTrainingsToResponse(trainings []domain.Training) []TrainingResponse {
	responses := make([]TrainingResponse, len(trainings))
	for i := range trainings {
		responses[i] = MapTrainingToResponse(&trainings[i])
	}
	return responses
}

// applyTrainingRequest copies the request onto t. Completion state is left alone.
func applyTrainingRequest(c *gin.Context, req *TrainingRequest, t *domain.Training) bool {
	date, ok := dateValue(c, "date", req.Date)
	if !ok {
		return false
	}
	links := map[string]**primitive.ObjectID{
		"descriptionId": &t.DescriptionID,
		"weekId":        &t.WeekID,
		"planId":        &t.PlanID,
		"competitionId": &t.CompetitionID,
	}
	values := map[string]string{
		"descriptionId": req.DescriptionID,
		"weekId":        req.WeekID,
		"planId":        req.PlanID,
		"competitionId": req.CompetitionID,
	}
	for field, target := range links {
		id, err := parseOptionalID(field, values[field])
		if err != nil {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return false
		}
		*target = id
	}

	t.Name = req.Name
	t.Description = req.Description
	t.Date = date
	t.StartTime = req.StartTime
	t.DurationMinutes = req.DurationMinutes
	t.Intensity = domain.Intensity(req.Intensity)
	t.TrainingType = req.TrainingType
	return true
}

// --- Handler Methods ---

// GetTrainings godoc
// @Summary List all trainings ordered by date
// @Tags Trainings
// @Produce json
// @Success 200 {array} TrainingResponse
// @Router /trainings [get]
func (h *TrainingHandler) GetTrainings(c *gin.Context) {
	trainings, err := h.trainingService.ListTrainings(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to list trainings.")
		return
	}
	c.JSON(http.StatusOK, MapTrainingsToResponse(trainings))
}

// GetTraining godoc
// @Summary Get a training
// @Tags Trainings
// @Produce json
// @Param id path string true "Training ID"
// @Success 200 {object} TrainingResponse
// @Failure 404 {object} gin.H "Training not found"
// @Router /trainings/{id} [get]
func (h *TrainingHandler) GetTraining(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	training, err := h.trainingService.GetTraining(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to load training.")
		return
	}
	c.JSON(http.StatusOK, MapTrainingToResponse(training))
}

// GetTrainingsByWeek godoc
// @Summary List the trainings of a week
// @Tags Trainings
// @Produce json
// @Param weekId path string true "Week ID"
// @Success 200 {array} TrainingResponse
// @Router /trainings/week/{weekId} [get]
func (h *TrainingHandler) GetTrainingsByWeek(c *gin.Context) {
	weekID, ok := objectIDParam(c, "weekId")
	if !ok {
		return
	}
	trainings, err := h.trainingService.ByWeek(c.Request.Context(), weekID)
	if err != nil {
		respondServiceError(c, err, "Failed to load trainings.")
		return
	}
	c.JSON(http.StatusOK, MapTrainingsToResponse(trainings))
}

// GetTrainingsByDate godoc
// @Summary List the trainings on a date across all competitions
// @Tags Trainings
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {array} TrainingResponse
// @Router /trainings/date/{date} [get]
func (h *TrainingHandler) GetTrainingsByDate(c *gin.Context) {
	date, ok := dateValue(c, "date", c.Param("date"))
	if !ok {
		return
	}
	trainings, err := h.trainingService.ByDate(c.Request.Context(), date)
	if err != nil {
		respondServiceError(c, err, "Failed to load trainings.")
		return
	}
	c.JSON(http.StatusOK, MapTrainingsToResponse(trainings))
}

// GetTrainingsByCompetitionAndDate godoc
// @Summary List the trainings of one competition on a date
// @Tags Trainings
// @Produce json
// @Param competitionId path string true "Competition ID"
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {array} TrainingResponse
// @Router /trainings/competition/{competitionId}/date/{date} [get]
func (h *TrainingHandler) GetTrainingsByCompetitionAndDate(c *gin.Context) {
	competitionID, ok := objectIDParam(c, "competitionId")
	if !ok {
		return
	}
	date, ok := dateValue(c, "date", c.Param("date"))
	if !ok {
		return
	}
	trainings, err := h.trainingService.ByCompetitionAndDate(c.Request.Context(), competitionID, date)
	if err != nil {
		respondServiceError(c, err, "Failed to load trainings.")
		return
	}
	c.JSON(http.StatusOK, MapTrainingsToResponse(trainings))
}

// GetMixedTrainings godoc
// @Summary Propose one training per plan for a day; nothing is stored
// @Tags Trainings
// @Produce json
// @Param competitionId path string true "Competition ID"
// @Param planIds query string true "Comma-separated plan IDs"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {array} TrainingResponse
// @Router /trainings/competition/{competitionId}/mixed [get]
func (h *TrainingHandler) GetMixedTrainings(c *gin.Context) {
	competitionID, ok := objectIDParam(c, "competitionId")
	if !ok {
		return
	}
	date, ok := dateValue(c, "date", c.Query("date"))
	if !ok {
		return
	}
	var planIDs []primitive.ObjectID
	for _, raw := range strings.Split(c.Query("planIds"), ",") {
		id, err := parseOptionalID("planIds", raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		if id != nil {
			planIDs = append(planIDs, *id)
		}
	}
	if len(planIDs) == 0 {
		abortWithError(c, http.StatusBadRequest, "At least one plan ID is required.")
		return
	}

	mixed, err := h.mixedDayService.Synthesize(c.Request.Context(), competitionID, planIDs, date)
	if err != nil {
		respondServiceError(c, err, "Failed to combine trainings.")
		return
	}
	c.JSON(http.StatusOK, MapTrainingsToResponse(mixed))
}

// CreateTraining godoc
// @Summary Create a training manually
// @Tags Trainings
// @Accept json
// @Produce json
// @Param training body TrainingRequest true "Training details"
// @Success 201 {object} TrainingResponse
// @Router /trainings [post]
func (h *TrainingHandler) CreateTraining(c *gin.Context) {
	var req TrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	training := &domain.Training{}
	if !applyTrainingRequest(c, &req, training) {
		return
	}
	created, err := h.trainingService.CreateTraining(c.Request.Context(), training)
	if err != nil {
		respondServiceError(c, err, "Failed to create training.")
		return
	}
	c.JSON(http.StatusCreated, MapTrainingToResponse(created))
}

// UpdateTraining godoc
// @Summary Replace a training's details, keeping its completion state
// @Tags Trainings
// @Accept json
// @Produce json
// @Param id path string true "Training ID"
// @Param training body TrainingRequest true "Training details"
// @Success 200 {object} TrainingResponse
// @Router /trainings/{id} [put]
func (h *TrainingHandler) UpdateTraining(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req TrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	training, err := h.trainingService.GetTraining(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to load training.")
		return
	}
	if !applyTrainingRequest(c, &req, training) {
		return
	}
	updated, err := h.trainingService.UpdateTraining(c.Request.Context(), training)
	if err != nil {
		respondServiceError(c, err, "Failed to update training.")
		return
	}
	c.JSON(http.StatusOK, MapTrainingToResponse(updated))
}

// UpdateFeedback godoc
// @Summary Record whether a training was completed
// @Description A missed training flags its week as modified and lowers the
// @Description intensity of the week's other open trainings by one step.
// @Tags Trainings
// @Accept json
// @Produce json
// @Param id path string true "Training ID"
// @Param feedback body FeedbackRequest true "Feedback"
// @Success 200 {object} TrainingResponse
// @Router /trainings/{id}/feedback [put]
func (h *TrainingHandler) UpdateFeedback(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	training, err := h.trainingService.UpdateFeedback(c.Request.Context(), id, *req.Completed, req.Status)
	if err != nil {
		respondServiceError(c, err, "Failed to record feedback.")
		return
	}
	c.JSON(http.StatusOK, MapTrainingToResponse(training))
}

// DeleteTraining godoc
// @Summary Delete a training
// @Tags Trainings
// @Param id path string true "Training ID"
// @Success 204
// @Router /trainings/{id} [delete]
func (h *TrainingHandler) DeleteTraining(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.trainingService.DeleteTraining(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "Failed to delete training.")
		return
	}
	c.Status(http.StatusNoContent)
}
