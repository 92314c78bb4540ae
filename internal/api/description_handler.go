package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alcyxob/trainingsplan/internal/domain"
	"alcyxob/trainingsplan/internal/service"
)

// DescriptionHandler serves reusable training descriptions.
type DescriptionHandler struct {
	descriptionService service.DescriptionService
}

func NewDescriptionHandler(descriptionService service.DescriptionService) *DescriptionHandler {
	return &DescriptionHandler{descriptionService: descriptionService}
}

// DescriptionRequest is the JSON body for creating or replacing a description.
type DescriptionRequest struct {
	Name                     string `json:"name" binding:"required"`
	DetailedInstructions     string `json:"detailedInstructions"`
	WarmupInstructions       string `json:"warmupInstructions"`
	CooldownInstructions     string `json:"cooldownInstructions"`
	Equipment                string `json:"equipment"`
	Tips                     string `json:"tips"`
	EstimatedDurationMinutes *int   `json:"estimatedDurationMinutes" binding:"omitempty,min=0"`
	DifficultyLevel          string `json:"difficultyLevel"`
}

func (r *DescriptionRequest) toDomain() *domain.TrainingDescription {
	return &domain.TrainingDescription{
		Name:                     r.Name,
		DetailedInstructions:     r.DetailedInstructions,
		WarmupInstructions:       r.WarmupInstructions,
		CooldownInstructions:     r.CooldownInstructions,
		Equipment:                r.Equipment,
		Tips:                     r.Tips,
		EstimatedDurationMinutes: r.EstimatedDurationMinutes,
		DifficultyLevel:          r.DifficultyLevel,
	}
}

func (h *DescriptionHandler) ListDescriptions(c *gin.Context) {
	descriptions, err := h.descriptionService.ListDescriptions(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to list descriptions.")
		return
	}
	c.JSON(http.StatusOK, descriptions)
}

func (h *DescriptionHandler) CreateDescription(c *gin.Context) {
	var req DescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	created, err := h.descriptionService.CreateDescription(c.Request.Context(), req.toDomain())
	if err != nil {
		respondServiceError(c, err, "Failed to create description.")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *DescriptionHandler) GetDescription(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	d, err := h.descriptionService.GetDescription(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to load description.")
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *DescriptionHandler) GetDescriptionByName(c *gin.Context) {
	d, err := h.descriptionService.GetDescriptionByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondServiceError(c, err, "Failed to load description.")
		return
	}
	c.JSON(http.StatusOK, d)
}

// UpdateDescription replaces the description, creating it when the id is unknown.
func (h *DescriptionHandler) UpdateDescription(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req DescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	description := req.toDomain()
	description.ID = id
	saved, err := h.descriptionService.UpsertDescription(c.Request.Context(), description)
	if err != nil {
		respondServiceError(c, err, "Failed to save description.")
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (h *DescriptionHandler) DeleteDescription(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.descriptionService.DeleteDescription(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "Failed to delete description.")
		return
	}
	c.Status(http.StatusNoContent)
}
