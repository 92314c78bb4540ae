package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"alcyxob/trainingsplan/internal/calendar"
	"alcyxob/trainingsplan/internal/domain"
	"alcyxob/trainingsplan/internal/observability"
	"alcyxob/trainingsplan/internal/repository"
)

type TrainingService interface {
	// UpdateFeedback records whether a training was completed. A missed
	// training marks its week as modified and lowers the intensity of every
	// other unfinished training of that week by one step.
	UpdateFeedback(ctx context.Context, id primitive.ObjectID, completed bool, status string) (*domain.Training, error)

	CreateTraining(ctx context.Context, training *domain.Training) (*domain.Training, error)
	GetTraining(ctx context.Context, id primitive.ObjectID) (*domain.Training, error)
	ListTrainings(ctx context.Context) ([]domain.Training, error)
	UpdateTraining(ctx context.Context, training *domain.Training) (*domain.Training, error)
	DeleteTraining(ctx context.Context, id primitive.ObjectID) error

	ByWeek(ctx context.Context, weekID primitive.ObjectID) ([]domain.Training, error)
	ByDate(ctx context.Context, date time.Time) ([]domain.Training, error)
	ByCompetitionAndDate(ctx context.Context, competitionID primitive.ObjectID, date time.Time) ([]domain.Training, error)
}

type trainingService struct {
	store   *repository.Store
	metrics *observability.Metrics
	logger  *slog.Logger
}

func NewTrainingService(store *repository.Store, metrics *observability.Metrics, logger *slog.Logger) TrainingService {
	return &trainingService{
		store:   store,
		metrics: metrics,
		logger:  loggerOrDefault(logger),
	}
}

// === Adaptive feedback ===

func (s *trainingService) UpdateFeedback(ctx context.Context, id primitive.ObjectID, completed bool, status string) (training *domain.Training, err error) {
	ctx, span := startSpan(ctx, "TrainingService.UpdateFeedback", trace.WithAttributes(
		attribute.String("training.id", id.Hex()),
		attribute.Bool("training.completed", completed),
	))
	defer func() { endSpan(span, err) }()

	training, err = s.store.Trainings.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrTrainingNotFound)
	}
	training.Completed = completed
	training.CompletionStatus = strings.TrimSpace(status)
	if err := s.store.Trainings.Update(ctx, training); err != nil {
		return nil, notFoundAs(err, ErrTrainingNotFound)
	}

	downgraded := 0
	if !completed && training.WeekID != nil {
		downgraded, err = s.cascadeMissed(ctx, training)
		if err != nil {
			return nil, err
		}
		span.SetAttributes(attribute.Int("cascade.downgraded", downgraded))
	}
	s.metrics.Feedback(completed, downgraded)
	return training, nil
}

// cascadeMissed flags the missed training's week and downgrades its
// unfinished siblings. Siblings are read once up front, so each moves at
// most one step per call.
func (s *trainingService) cascadeMissed(ctx context.Context, missed *domain.Training) (int, error) {
	week, err := s.store.Weeks.GetByID(ctx, *missed.WeekID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("missed training references unknown week",
				"training_id", missed.ID.Hex(), "week_id", missed.WeekID.Hex())
			return 0, nil
		}
		return 0, err
	}
	if !week.Modified {
		week.Modified = true
		if err := s.store.Weeks.Update(ctx, week); err != nil {
			return 0, fmt.Errorf("flagging week as modified: %w", err)
		}
	}

	siblings, err := s.store.Trainings.GetByWeekID(ctx, week.ID)
	if err != nil {
		return 0, err
	}
	downgraded := 0
	for i := range siblings {
		sibling := &siblings[i]
		if sibling.ID == missed.ID || sibling.Completed {
			continue
		}
		lower, ok := sibling.Intensity.Downgrade()
		if !ok {
			continue
		}
		sibling.Intensity = lower
		if err := s.store.Trainings.Update(ctx, sibling); err != nil {
			return downgraded, fmt.Errorf("downgrading training %s: %w", sibling.ID.Hex(), err)
		}
		downgraded++
	}
	s.logger.Info("missed training adjusted week",
		"training_id", missed.ID.Hex(),
		"week_number", week.WeekNumber,
		"downgraded", downgraded,
	)
	return downgraded, nil
}

// === CRUD ===

func (s *trainingService) validateTraining(ctx context.Context, t *domain.Training) error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return fmt.Errorf("%w: training name is required", ErrValidation)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: training date is required", ErrValidation)
	}
	t.Date = calendar.Date(t.Date)
	if t.Intensity == "" {
		t.Intensity = domain.IntensityMedium
	}
	if !t.Intensity.Valid() {
		return fmt.Errorf("%w: unknown intensity %q", ErrValidation, t.Intensity)
	}
	if t.TrainingType == "" {
		t.TrainingType = domain.TypeGeneral
	}
	if t.DurationMinutes != nil && *t.DurationMinutes < 0 {
		return fmt.Errorf("%w: duration must not be negative", ErrValidation)
	}

	if t.WeekID != nil {
		week, err := s.store.Weeks.GetByID(ctx, *t.WeekID)
		if err != nil {
			return notFoundAs(err, ErrWeekNotFound)
		}
		if t.CompetitionID == nil {
			competitionID := week.CompetitionID
			t.CompetitionID = &competitionID
		}
	}
	if t.PlanID != nil {
		if _, err := s.store.Plans.GetByID(ctx, *t.PlanID); err != nil {
			return notFoundAs(err, ErrPlanNotFound)
		}
	}
	if t.DescriptionID != nil {
		if _, err := s.store.Descriptions.GetByID(ctx, *t.DescriptionID); err != nil {
			return notFoundAs(err, ErrDescriptionNotFound)
		}
	}
	return nil
}

func (s *trainingService) CreateTraining(ctx context.Context, training *domain.Training) (*domain.Training, error) {
	if err := s.validateTraining(ctx, training); err != nil {
		return nil, err
	}
	if _, err := s.store.Trainings.Create(ctx, training); err != nil {
		return nil, err
	}
	return training, nil
}

func (s *trainingService) GetTraining(ctx context.Context, id primitive.ObjectID) (*domain.Training, error) {
	training, err := s.store.Trainings.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrTrainingNotFound)
	}
	return training, nil
}

func (s *trainingService) ListTrainings(ctx context.Context) ([]domain.Training, error) {
	return s.store.Trainings.List(ctx)
}

func (s *trainingService) UpdateTraining(ctx context.Context, training *domain.Training) (*domain.Training, error) {
	existing, err := s.store.Trainings.GetByID(ctx, training.ID)
	if err != nil {
		return nil, notFoundAs(err, ErrTrainingNotFound)
	}
	if err := s.validateTraining(ctx, training); err != nil {
		return nil, err
	}
	training.CreatedAt = existing.CreatedAt
	if err := s.store.Trainings.Update(ctx, training); err != nil {
		return nil, notFoundAs(err, ErrTrainingNotFound)
	}
	return training, nil
}

func (s *trainingService) DeleteTraining(ctx context.Context, id primitive.ObjectID) error {
	if err := s.store.Trainings.Delete(ctx, id); err != nil {
		return notFoundAs(err, ErrTrainingNotFound)
	}
	return nil
}

// === Lookups ===

func (s *trainingService) ByWeek(ctx context.Context, weekID primitive.ObjectID) ([]domain.Training, error) {
	if _, err := s.store.Weeks.GetByID(ctx, weekID); err != nil {
		return nil, notFoundAs(err, ErrWeekNotFound)
	}
	return s.store.Trainings.GetByWeekID(ctx, weekID)
}

func (s *trainingService) ByDate(ctx context.Context, date time.Time) ([]domain.Training, error) {
	return s.store.Trainings.GetByDate(ctx, calendar.Date(date))
}

func (s *trainingService) ByCompetitionAndDate(ctx context.Context, competitionID primitive.ObjectID, date time.Time) ([]domain.Training, error) {
	if _, err := s.store.Competitions.GetByID(ctx, competitionID); err != nil {
		return nil, notFoundAs(err, ErrCompetitionNotFound)
	}
	return s.store.Trainings.GetByCompetitionAndDate(ctx, competitionID, calendar.Date(date))
}
