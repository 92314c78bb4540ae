package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"alcyxob/trainingsplan/internal/domain"
	"alcyxob/trainingsplan/internal/service"
)

// CompetitionHandler serves competitions and their week ledgers.
type CompetitionHandler struct {
	competitionService service.CompetitionService
}

func NewCompetitionHandler(competitionService service.CompetitionService) *CompetitionHandler {
	return &CompetitionHandler{competitionService: competitionService}
}

// --- DTOs ---

// CompetitionRequest is the JSON body for creating or replacing a competition.
type CompetitionRequest struct {
	Name        string `json:"name" binding:"required"`
	Date        string `json:"date" binding:"required"` // YYYY-MM-DD
	Description string `json:"description"`
}

type WeekResponse struct {
	ID            string `json:"id"`
	CompetitionID string `json:"competitionId"`
	WeekNumber    int    `json:"weekNumber"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	IsModified    bool   `json:"isModified"`
}

type CompetitionResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Date        string         `json:"date"`
	Description string         `json:"description,omitempty"`
	Weeks       []WeekResponse `json:"weeks,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

func MapWeekToResponse(w *domain.TrainingWeek) WeekResponse {
	return WeekResponse{
		ID:            w.ID.Hex(),
		CompetitionID: w.CompetitionID.Hex(),
		WeekNumber:    w.WeekNumber,
		StartDate:     formatDate(w.StartDate),
		EndDate:       formatDate(w.EndDate),
		IsModified:    w.Modified,
	}
}

func MapWeeksToResponse(weeks []domain.TrainingWeek) []WeekResponse {
	responses := make([]WeekResponse, len(weeks))
	for i := range weeks {
		responses[i] = MapWeekToResponse(&weeks[i])
	}
	return responses
}

func MapCompetitionToResponse(c *domain.Competition) CompetitionResponse {
	resp := CompetitionResponse{
		ID:          c.ID.Hex(),
		Name:        c.Name,
		Date:        formatDate(c.Date),
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	if len(c.Weeks) > 0 {
		resp.Weeks = MapWeeksToResponse(c.Weeks)
	}
	return resp
}

func (h *CompetitionHandler) bindCompetition(c *gin.Context) (*domain.Competition, bool) {
	var req CompetitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return nil, false
	}
	date, ok := dateValue(c, "date", req.Date)
	if !ok {
		return nil, false
	}
	return &domain.Competition{Name: req.Name, Date: date, Description: req.Description}, true
}

// --- Handler Methods ---

// CreateCompetition godoc
// @Summary Create a competition
// @Tags Competitions
// @Accept json
// @Produce json
// @Param competition body CompetitionRequest true "Competition details"
// @Success 201 {object} CompetitionResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Router /competitions [post]
func (h *CompetitionHandler) CreateCompetition(c *gin.Context) {
	competition, ok := h.bindCompetition(c)
	if !ok {
		return
	}
	created, err := h.competitionService.CreateCompetition(c.Request.Context(), competition)
	if err != nil {
		respondServiceError(c, err, "Failed to create competition.")
		return
	}
	c.JSON(http.StatusCreated, MapCompetitionToResponse(created))
}

// ListCompetitions godoc
// @Summary List competitions ordered by date
// @Tags Competitions
// @Produce json
// @Success 200 {array} CompetitionResponse
// @Router /competitions [get]
func (h *CompetitionHandler) ListCompetitions(c *gin.Context) {
	competitions, err := h.competitionService.ListCompetitions(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to list competitions.")
		return
	}
	responses := make([]CompetitionResponse, len(competitions))
	for i := range competitions {
		responses[i] = MapCompetitionToResponse(&competitions[i])
	}
	c.JSON(http.StatusOK, responses)
}

// GetCompetition godoc
// @Summary Get a competition with its weeks
// @Tags Competitions
// @Produce json
// @Param id path string true "Competition ID"
// @Success 200 {object} CompetitionResponse
// @Failure 404 {object} gin.H "Competition not found"
// @Router /competitions/{id} [get]
func (h *CompetitionHandler) GetCompetition(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	competition, err := h.competitionService.GetCompetition(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to load competition.")
		return
	}
	c.JSON(http.StatusOK, MapCompetitionToResponse(competition))
}

// UpdateCompetition godoc
// @Summary Replace a competition's name, date and description
// @Tags Competitions
// @Accept json
// @Produce json
// @Param id path string true "Competition ID"
// @Param competition body CompetitionRequest true "Competition details"
// @Success 200 {object} CompetitionResponse
// @Router /competitions/{id} [put]
func (h *CompetitionHandler) UpdateCompetition(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	competition, ok := h.bindCompetition(c)
	if !ok {
		return
	}
	competition.ID = id
	updated, err := h.competitionService.UpdateCompetition(c.Request.Context(), competition)
	if err != nil {
		respondServiceError(c, err, "Failed to update competition.")
		return
	}
	c.JSON(http.StatusOK, MapCompetitionToResponse(updated))
}

// DeleteCompetition godoc
// @Summary Delete a competition with its weeks, plans and trainings
// @Tags Competitions
// @Param id path string true "Competition ID"
// @Success 204
// @Router /competitions/{id} [delete]
func (h *CompetitionHandler) DeleteCompetition(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.competitionService.DeleteCompetition(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "Failed to delete competition.")
		return
	}
	c.Status(http.StatusNoContent)
}

// GenerateWeeks godoc
// @Summary Build or refresh the week ledger counting down to the competition
// @Tags Competitions
// @Produce json
// @Param id path string true "Competition ID"
// @Success 200 {object} CompetitionResponse
// @Router /competitions/{id}/generate-weeks [post]
func (h *CompetitionHandler) GenerateWeeks(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	competition, err := h.competitionService.GenerateWeeks(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to generate weeks.")
		return
	}
	c.JSON(http.StatusOK, MapCompetitionToResponse(competition))
}

// GetWeeks godoc
// @Summary List the weeks of a competition
// @Tags Competitions
// @Produce json
// @Param id path string true "Competition ID"
// @Success 200 {array} WeekResponse
// @Router /competitions/{id}/weeks [get]
func (h *CompetitionHandler) GetWeeks(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	weeks, err := h.competitionService.Weeks(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to load weeks.")
		return
	}
	c.JSON(http.StatusOK, MapWeeksToResponse(weeks))
}
