package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"alcyxob/trainingsplan/internal/calendar"
	"alcyxob/trainingsplan/internal/domain"
	"alcyxob/trainingsplan/internal/observability"
	"alcyxob/trainingsplan/internal/planparser"
	"alcyxob/trainingsplan/internal/repository"
	"alcyxob/trainingsplan/internal/storage"
)

// PlanUpload is a plan document submitted for a competition.
type PlanUpload struct {
	CompetitionID primitive.ObjectID
	Name          string
	Description   string
	FileName      string
	ContentType   string
	Content       []byte
}

// PlanService ingests plan documents and manages the resulting plans.
type PlanService interface {
	// ImportPlan parses the document, stores the plan and creates its
	// trainings attached to the competition's weeks.
	ImportPlan(ctx context.Context, upload PlanUpload) (*domain.TrainingPlan, error)
	GetPlan(ctx context.Context, id primitive.ObjectID) (*domain.TrainingPlan, error) // Trainings attached
	// ListPlans lists every plan, or those of one competition when competitionID is set.
	ListPlans(ctx context.Context, competitionID *primitive.ObjectID) ([]domain.TrainingPlan, error)
	DeletePlan(ctx context.Context, id primitive.ObjectID) error
}

type planService struct {
	store       *repository.Store
	weeks       WeekResolver
	fileStorage storage.FileStorage // Optional
	scheduling  Scheduling
	metrics     *observability.Metrics
	logger      *slog.Logger
}

func NewPlanService(
	store *repository.Store,
	weeks WeekResolver,
	fileStorage storage.FileStorage,
	scheduling Scheduling,
	metrics *observability.Metrics,
	logger *slog.Logger,
) PlanService {
	return &planService{
		store:       store,
		weeks:       weeks,
		fileStorage: fileStorage,
		scheduling:  scheduling,
		metrics:     metrics,
		logger:      loggerOrDefault(logger),
	}
}

func uploadFormat(upload PlanUpload) domain.DocumentFormat {
	ct := strings.ToLower(upload.ContentType)
	switch {
	case strings.Contains(ct, "json"):
		return domain.FormatJSON
	case strings.Contains(ct, "yaml"):
		return domain.FormatYAML
	}
	return planparser.DetectFormat(upload.FileName, upload.Content)
}

func (s *planService) ImportPlan(ctx context.Context, upload PlanUpload) (plan *domain.TrainingPlan, err error) {
	ctx, span := startSpan(ctx, "PlanService.ImportPlan",
		trace.WithAttributes(attribute.String("competition.id", upload.CompetitionID.Hex())))
	defer func() { endSpan(span, err) }()

	// 1. Validate input and load the competition
	upload.Name = strings.TrimSpace(upload.Name)
	if upload.Name == "" {
		return nil, fmt.Errorf("%w: plan name is required", ErrValidation)
	}
	if len(bytes.TrimSpace(upload.Content)) == 0 {
		return nil, fmt.Errorf("%w: plan document is empty", ErrValidation)
	}
	competition, err := s.store.Competitions.GetByID(ctx, upload.CompetitionID)
	if err != nil {
		return nil, notFoundAs(err, ErrCompetitionNotFound)
	}

	// 2. Parse before anything is written
	format := uploadFormat(upload)
	result, err := planparser.Parse(upload.Content, format, competition.Date, s.scheduling.today())
	if err != nil {
		if errors.Is(err, planparser.ErrStructure) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPlanDocument, err)
		}
		return nil, err
	}
	span.SetAttributes(
		attribute.String("plan.shape", string(result.Shape)),
		attribute.Int("plan.drafts", len(result.Drafts)),
	)

	// 3. Archive the raw document
	plan = &domain.TrainingPlan{
		CompetitionID:  competition.ID,
		Name:           upload.Name,
		Description:    upload.Description,
		Document:       string(upload.Content),
		DocumentFormat: format,
	}
	plan.DocumentKey = s.archiveDocument(ctx, upload, format)

	// 4. Persist the plan, its weeks and its trainings
	if _, err := s.store.Plans.Create(ctx, plan); err != nil {
		s.discardDocument(ctx, plan.DocumentKey)
		return nil, fmt.Errorf("saving plan: %w", err)
	}

	trainings, err := s.buildTrainings(ctx, competition.ID, plan.ID, result)
	if err == nil {
		err = s.store.Trainings.CreateMany(ctx, trainings)
	}
	if err != nil {
		s.rollbackPlan(ctx, plan)
		return nil, fmt.Errorf("saving trainings: %w", err)
	}

	plan.Trainings = make([]domain.Training, 0, len(trainings))
	for _, t := range trainings {
		plan.Trainings = append(plan.Trainings, *t)
	}
	s.metrics.PlanIngested(string(result.Shape), len(trainings))
	s.logger.Info("plan imported",
		"plan_id", plan.ID.Hex(),
		"competition_id", competition.ID.Hex(),
		"shape", result.Shape,
		"trainings", len(trainings),
	)
	return plan, nil
}

// buildTrainings turns drafts into trainings bound to plan and week.
// Week-indexed drafts get their week resolved by number; flat drafts are
// matched by date and stay unattached when no week covers them.
func (s *planService) buildTrainings(ctx context.Context, competitionID, planID primitive.ObjectID, result *planparser.Result) ([]*domain.Training, error) {
	resolved := make(map[int]*domain.TrainingWeek, len(result.Weeks))
	for _, ref := range result.Weeks {
		if _, ok := resolved[ref.Number]; ok {
			continue
		}
		week, err := s.weeks.Resolve(ctx, competitionID, ref.Number, ref.Start, ref.End)
		if err != nil {
			return nil, err
		}
		resolved[ref.Number] = week
	}

	trainings := make([]*domain.Training, 0, len(result.Drafts))
	for _, draft := range result.Drafts {
		training := &domain.Training{
			Name:            draft.Name,
			Description:     draft.Description,
			Date:            draft.Date,
			StartTime:       draft.StartTime,
			DurationMinutes: draft.DurationMinutes,
			Intensity:       draft.Intensity,
			TrainingType:    draft.Type,
			PlanID:          &planID,
			CompetitionID:   &competitionID,
		}

		var week *domain.TrainingWeek
		if draft.Week != nil {
			week = resolved[draft.Week.Number]
			if week == nil {
				var err error
				if week, err = s.weeks.Resolve(ctx, competitionID, draft.Week.Number, draft.Week.Start, draft.Week.End); err != nil {
					return nil, err
				}
				resolved[draft.Week.Number] = week
			}
		} else {
			var err error
			if week, err = s.weeks.ForDate(ctx, competitionID, draft.Date); err != nil {
				return nil, err
			}
			if week == nil {
				s.logger.Debug("no week covers training date",
					"competition_id", competitionID.Hex(),
					"date", calendar.FormatDate(draft.Date),
					"training", draft.Name,
				)
			}
		}
		if week != nil {
			weekID := week.ID
			training.WeekID = &weekID
		}
		trainings = append(trainings, training)
	}
	return trainings, nil
}

func (s *planService) archiveDocument(ctx context.Context, upload PlanUpload, format domain.DocumentFormat) string {
	if s.fileStorage == nil {
		return ""
	}
	fileName := upload.FileName
	if fileName == "" {
		fileName = "plan." + string(format)
	}
	contentType := upload.ContentType
	if contentType == "" {
		contentType = "application/" + string(format)
	}
	key := storage.ObjectKey("plans", upload.CompetitionID.Hex(), fileName)
	err := s.fileStorage.PutObject(ctx, key, contentType, bytes.NewReader(upload.Content), int64(len(upload.Content)))
	if err != nil {
		s.logger.Warn("failed to archive plan document", "key", key, "error", err)
		return ""
	}
	return key
}

func (s *planService) discardDocument(ctx context.Context, key string) {
	if s.fileStorage == nil || key == "" {
		return
	}
	if err := s.fileStorage.DeleteObject(ctx, key); err != nil {
		s.logger.Warn("failed to delete archived plan document", "key", key, "error", err)
	}
}

// rollbackPlan undoes a partially imported plan. Weeks created on the way
// are kept; they belong to the competition.
func (s *planService) rollbackPlan(ctx context.Context, plan *domain.TrainingPlan) {
	if err := s.store.Trainings.DeleteByPlanID(ctx, plan.ID); err != nil {
		s.logger.Error("rollback: deleting trainings failed", "plan_id", plan.ID.Hex(), "error", err)
	}
	if err := s.store.Plans.Delete(ctx, plan.ID); err != nil {
		s.logger.Error("rollback: deleting plan failed", "plan_id", plan.ID.Hex(), "error", err)
	}
	s.discardDocument(ctx, plan.DocumentKey)
}

func (s *planService) GetPlan(ctx context.Context, id primitive.ObjectID) (*domain.TrainingPlan, error) {
	plan, err := s.store.Plans.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrPlanNotFound)
	}
	trainings, err := s.store.Trainings.GetByPlanID(ctx, id)
	if err != nil {
		return nil, err
	}
	plan.Trainings = trainings
	return plan, nil
}

func (s *planService) ListPlans(ctx context.Context, competitionID *primitive.ObjectID) ([]domain.TrainingPlan, error) {
	if competitionID == nil {
		return s.store.Plans.List(ctx)
	}
	if _, err := s.store.Competitions.GetByID(ctx, *competitionID); err != nil {
		return nil, notFoundAs(err, ErrCompetitionNotFound)
	}
	return s.store.Plans.GetByCompetitionID(ctx, *competitionID)
}

func (s *planService) DeletePlan(ctx context.Context, id primitive.ObjectID) error {
	plan, err := s.store.Plans.GetByID(ctx, id)
	if err != nil {
		return notFoundAs(err, ErrPlanNotFound)
	}
	if err := s.store.Trainings.DeleteByPlanID(ctx, id); err != nil {
		return fmt.Errorf("deleting plan trainings: %w", err)
	}
	if err := s.store.Plans.Delete(ctx, id); err != nil {
		return notFoundAs(err, ErrPlanNotFound)
	}
	s.discardDocument(ctx, plan.DocumentKey)
	s.logger.Info("plan deleted", "plan_id", id.Hex())
	return nil
}
