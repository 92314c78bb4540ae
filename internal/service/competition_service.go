package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"alcyxob/trainingsplan/internal/calendar"
	"alcyxob/trainingsplan/internal/domain"
	"alcyxob/trainingsplan/internal/observability"
	"alcyxob/trainingsplan/internal/repository"
	"alcyxob/trainingsplan/internal/storage"
)

type CompetitionService interface {
	CreateCompetition(ctx context.Context, competition *domain.Competition) (*domain.Competition, error)
	GetCompetition(ctx context.Context, id primitive.ObjectID) (*domain.Competition, error) // Weeks attached
	ListCompetitions(ctx context.Context) ([]domain.Competition, error)
	UpdateCompetition(ctx context.Context, competition *domain.Competition) (*domain.Competition, error)
	// DeleteCompetition removes the competition with its weeks, plans and trainings.
	DeleteCompetition(ctx context.Context, id primitive.ObjectID) error

	// GenerateWeeks builds or refreshes the week ledger counting down to the
	// competition and returns the competition with its ledger attached.
	GenerateWeeks(ctx context.Context, id primitive.ObjectID) (*domain.Competition, error)
	Weeks(ctx context.Context, id primitive.ObjectID) ([]domain.TrainingWeek, error)
}

type competitionService struct {
	store       *repository.Store
	fileStorage storage.FileStorage // Optional
	scheduling  Scheduling
	metrics     *observability.Metrics
	logger      *slog.Logger
}

func NewCompetitionService(
	store *repository.Store,
	fileStorage storage.FileStorage,
	scheduling Scheduling,
	metrics *observability.Metrics,
	logger *slog.Logger,
) CompetitionService {
	return &competitionService{
		store:       store,
		fileStorage: fileStorage,
		scheduling:  scheduling,
		metrics:     metrics,
		logger:      loggerOrDefault(logger),
	}
}

func validateCompetition(c *domain.Competition) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return fmt.Errorf("%w: competition name is required", ErrValidation)
	}
	if c.Date.IsZero() {
		return fmt.Errorf("%w: competition date is required", ErrValidation)
	}
	c.Date = calendar.Date(c.Date)
	return nil
}

func (s *competitionService) CreateCompetition(ctx context.Context, competition *domain.Competition) (*domain.Competition, error) {
	if err := validateCompetition(competition); err != nil {
		return nil, err
	}
	if _, err := s.store.Competitions.Create(ctx, competition); err != nil {
		return nil, err
	}
	s.logger.Info("competition created", "competition_id", competition.ID.Hex(), "date", calendar.FormatDate(competition.Date))
	return competition, nil
}

func (s *competitionService) GetCompetition(ctx context.Context, id primitive.ObjectID) (*domain.Competition, error) {
	competition, err := s.store.Competitions.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrCompetitionNotFound)
	}
	weeks, err := s.store.Weeks.GetByCompetitionID(ctx, id)
	if err != nil {
		return nil, err
	}
	competition.Weeks = weeks
	return competition, nil
}

func (s *competitionService) ListCompetitions(ctx context.Context) ([]domain.Competition, error) {
	return s.store.Competitions.List(ctx)
}

func (s *competitionService) UpdateCompetition(ctx context.Context, competition *domain.Competition) (*domain.Competition, error) {
	if err := validateCompetition(competition); err != nil {
		return nil, err
	}
	existing, err := s.store.Competitions.GetByID(ctx, competition.ID)
	if err != nil {
		return nil, notFoundAs(err, ErrCompetitionNotFound)
	}
	competition.CreatedAt = existing.CreatedAt
	if err := s.store.Competitions.Update(ctx, competition); err != nil {
		return nil, notFoundAs(err, ErrCompetitionNotFound)
	}
	return competition, nil
}

func (s *competitionService) DeleteCompetition(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.store.Competitions.GetByID(ctx, id); err != nil {
		return notFoundAs(err, ErrCompetitionNotFound)
	}

	plans, err := s.store.Plans.GetByCompetitionID(ctx, id)
	if err != nil {
		return err
	}
	for _, plan := range plans {
		s.deleteArchivedDocument(ctx, plan.DocumentKey)
	}

	// Children first; the competition row goes last.
	if err := s.store.Trainings.DeleteByCompetitionID(ctx, id); err != nil {
		return fmt.Errorf("deleting trainings: %w", err)
	}
	if err := s.store.Plans.DeleteByCompetitionID(ctx, id); err != nil {
		return fmt.Errorf("deleting plans: %w", err)
	}
	if err := s.store.Weeks.DeleteByCompetitionID(ctx, id); err != nil {
		return fmt.Errorf("deleting weeks: %w", err)
	}
	if err := s.store.Competitions.Delete(ctx, id); err != nil {
		return notFoundAs(err, ErrCompetitionNotFound)
	}
	s.logger.Info("competition deleted", "competition_id", id.Hex(), "plans", len(plans))
	return nil
}

func (s *competitionService) deleteArchivedDocument(ctx context.Context, key string) {
	if s.fileStorage == nil || key == "" {
		return
	}
	if err := s.fileStorage.DeleteObject(ctx, key); err != nil {
		s.logger.Warn("failed to delete archived plan document", "key", key, "error", err)
	}
}

// ledgerWeeks computes the weeks counting down to competitionDate. The
// competition week is numbered maxWeeks; earlier weeks count down from there
// and only weeks that still fit before today are produced, oldest first.
func ledgerWeeks(competitionDate, today time.Time, maxWeeks int) []domain.TrainingWeek {
	compSunday := calendar.CompetitionAnchorSunday(competitionDate)
	curMonday := calendar.CurrentAnchorMonday(today)

	available := calendar.WholeWeeksBetween(curMonday, compSunday)
	if available > maxWeeks {
		available = maxWeeks
	}

	weeks := make([]domain.TrainingWeek, 0, available)
	for i := 0; i < available; i++ {
		monday, sunday := calendar.WeekSpan(calendar.AddWeeks(compSunday, -i))
		if sunday.Before(today) {
			continue
		}
		weeks = append(weeks, domain.TrainingWeek{
			WeekNumber: maxWeeks - i,
			StartDate:  monday,
			EndDate:    sunday,
		})
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].StartDate.Before(weeks[j].StartDate) })
	return weeks
}

func (s *competitionService) GenerateWeeks(ctx context.Context, id primitive.ObjectID) (competition *domain.Competition, err error) {
	ctx, span := startSpan(ctx, "CompetitionService.GenerateWeeks",
		trace.WithAttributes(attribute.String("competition.id", id.Hex())))
	defer func() { endSpan(span, err) }()

	competition, err = s.store.Competitions.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrCompetitionNotFound)
	}

	today := s.scheduling.today()
	created := 0
	for _, candidate := range ledgerWeeks(competition.Date, today, s.scheduling.maxWeeks()) {
		existing, err := s.store.Weeks.GetByCompetitionAndNumber(ctx, id, candidate.WeekNumber)
		switch {
		case err == nil:
			if existing.StartDate.Equal(candidate.StartDate) && existing.EndDate.Equal(candidate.EndDate) {
				continue
			}
			existing.StartDate = candidate.StartDate
			existing.EndDate = candidate.EndDate
			if err := s.store.Weeks.Update(ctx, existing); err != nil {
				return nil, fmt.Errorf("reconciling week %d: %w", candidate.WeekNumber, err)
			}
		case errors.Is(err, repository.ErrNotFound):
			week := candidate
			week.CompetitionID = id
			if _, err := s.store.Weeks.Create(ctx, &week); err != nil {
				return nil, fmt.Errorf("creating week %d: %w", candidate.WeekNumber, err)
			}
			created++
		default:
			return nil, fmt.Errorf("looking up week %d: %w", candidate.WeekNumber, err)
		}
	}
	s.metrics.WeeksCreated(created)
	span.SetAttributes(attribute.Int("weeks.created", created))

	competition.Weeks, err = s.store.Weeks.GetByCompetitionID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("week ledger generated",
		"competition_id", id.Hex(),
		"today", calendar.FormatDate(today),
		"weeks", len(competition.Weeks),
		"created", created,
	)
	return competition, nil
}

func (s *competitionService) Weeks(ctx context.Context, id primitive.ObjectID) ([]domain.TrainingWeek, error) {
	if _, err := s.store.Competitions.GetByID(ctx, id); err != nil {
		return nil, notFoundAs(err, ErrCompetitionNotFound)
	}
	return s.store.Weeks.GetByCompetitionID(ctx, id)
}
