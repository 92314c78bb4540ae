package service

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"alcyxob/trainingsplan/internal/calendar"
	"alcyxob/trainingsplan/internal/domain"
	"alcyxob/trainingsplan/internal/observability"
	"alcyxob/trainingsplan/internal/repository"
)

const mixedNamePrefix = "Mixed: "

// MixedDayService proposes one training per plan for a day on which several
// plans of a competition are followed at once.
type MixedDayService interface {
	// Synthesize picks one training per plan, in plan order, from those
	// scheduled on date. The results are never persisted and carry no week,
	// plan or competition reference.
	Synthesize(ctx context.Context, competitionID primitive.ObjectID, planIDs []primitive.ObjectID, date time.Time) ([]domain.Training, error)
}

type mixedDayService struct {
	store   *repository.Store
	mu      sync.Mutex // Guards rnd
	rnd     RandSource
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewMixedDayService uses rnd to choose among candidates; nil seeds a source
// from the current time.
func NewMixedDayService(store *repository.Store, rnd RandSource, metrics *observability.Metrics, logger *slog.Logger) MixedDayService {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &mixedDayService{
		store:   store,
		rnd:     rnd,
		metrics: metrics,
		logger:  loggerOrDefault(logger),
	}
}

func (s *mixedDayService) pick(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Intn(n)
}

func (s *mixedDayService) Synthesize(ctx context.Context, competitionID primitive.ObjectID, planIDs []primitive.ObjectID, date time.Time) (mixed []domain.Training, err error) {
	ctx, span := startSpan(ctx, "MixedDayService.Synthesize", trace.WithAttributes(
		attribute.String("competition.id", competitionID.Hex()),
		attribute.Int("plans.requested", len(planIDs)),
	))
	defer func() { endSpan(span, err) }()

	date = calendar.Date(date)
	mixed = make([]domain.Training, 0, len(planIDs))
	for _, planID := range planIDs {
		plan, err := s.store.Plans.GetByID(ctx, planID)
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Debug("mixed day: plan not found", "plan_id", planID.Hex())
			continue
		}
		if err != nil {
			return nil, err
		}
		if plan.CompetitionID != competitionID {
			s.logger.Debug("mixed day: plan belongs to another competition", "plan_id", planID.Hex())
			continue
		}

		candidates, err := s.store.Trainings.GetByPlanAndDate(ctx, planID, date)
		if err != nil {
			return nil, err
		}
		if len(candidates) == 0 {
			continue
		}
		chosen := candidates[s.pick(len(candidates))]
		mixed = append(mixed, domain.Training{
			Name:            mixedNamePrefix + chosen.Name,
			Description:     chosen.Description,
			DescriptionID:   chosen.DescriptionID,
			Date:            date,
			StartTime:       chosen.StartTime,
			DurationMinutes: chosen.DurationMinutes,
			Intensity:       chosen.Intensity,
			TrainingType:    chosen.TrainingType,
		})
	}
	s.metrics.MixedDay(len(mixed))
	return mixed, nil
}
