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

// PlanHandler serves plan uploads and ingested plans.
type PlanHandler struct {
	planService service.PlanService
}

func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

type PlanResponse struct {
	ID             string             `json:"id"`
	CompetitionID  string             `json:"competitionId"`
	Name           string             `json:"name"`
	Description    string             `json:"description,omitempty"`
	DocumentFormat string             `json:"documentFormat"`
	CreatedAt      time.Time          `json:"createdAt"`
	Trainings      []TrainingResponse `json:"trainings,omitempty"`
}

func MapPlanToResponse(p *domain.TrainingPlan) PlanResponse {
	resp := PlanResponse{
		ID:             p.ID.Hex(),
		CompetitionID:  p.CompetitionID.Hex(),
		Name:           p.Name,
		Description:    p.Description,
		DocumentFormat: string(p.DocumentFormat),
		CreatedAt:      p.CreatedAt,
	}
	if len(p.Trainings) > 0 {
		resp.Trainings = MapTrainingsToResponse(p.Trainings)
	}
	return resp
}

// UploadPlan godoc
// @Summary Upload a plan document for a competition
// @Description Accepts flat or week-indexed JSON/YAML plans. Unrecognised documents yield a plan without trainings.
// @Tags Training Plans
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Plan document"
// @Param competitionId formData string true "Competition ID"
// @Param name formData string false "Plan name (defaults to the file name)"
// @Param description formData string false "Plan description"
// @Success 201 {object} PlanResponse
// @Failure 400 {object} gin.H "Invalid document"
// @Failure 404 {object} gin.H "Competition not found"
// @Router /training-plans/upload [post]
func (h *PlanHandler) UploadPlan(c *gin.Context) {
	competitionID, err := primitive.ObjectIDFromHex(c.PostForm("competitionId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "A valid competitionId is required.")
		return
	}
	header, content, ok := readFormFile(c, "file")
	if !ok {
		return
	}
	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		name = header.Filename
	}

	plan, err := h.planService.ImportPlan(c.Request.Context(), service.PlanUpload{
		CompetitionID: competitionID,
		Name:          name,
		Description:   c.PostForm("description"),
		FileName:      header.Filename,
		ContentType:   header.Header.Get("Content-Type"),
		Content:       content,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to import plan.")
		return
	}
	c.JSON(http.StatusCreated, MapPlanToResponse(plan))
}

// GetPlans godoc
// @Summary List plans, optionally of one competition
// @Tags Training Plans
// @Produce json
// @Param competitionId query string false "Competition ID"
// @Success 200 {array} PlanResponse
// @Router /training-plans [get]
func (h *PlanHandler) GetPlans(c *gin.Context) {
	competitionID, err := parseOptionalID("competitionId", c.Query("competitionId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	plans, err := h.planService.ListPlans(c.Request.Context(), competitionID)
	if err != nil {
		respondServiceError(c, err, "Failed to list plans.")
		return
	}
	responses := make([]PlanResponse, len(plans))
	for i := range plans {
		responses[i] = MapPlanToResponse(&plans[i])
	}
	c.JSON(http.StatusOK, responses)
}

// GetPlan godoc
// @Summary Get a plan with its trainings
// @Tags Training Plans
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} PlanResponse
// @Router /training-plans/{id} [get]
func (h *PlanHandler) GetPlan(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	plan, err := h.planService.GetPlan(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to load plan.")
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

// DeletePlan godoc
// @Summary Delete a plan and its trainings
// @Tags Training Plans
// @Param id path string true "Plan ID"
// @Success 204
// @Router /training-plans/{id} [delete]
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.planService.DeletePlan(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "Failed to delete plan.")
		return
	}
	c.Status(http.StatusNoContent)
}
