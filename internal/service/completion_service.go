package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"alcyxob/trainingsplan/internal/calendar"
	"alcyxob/trainingsplan/internal/domain"
	"alcyxob/trainingsplan/internal/repository"
)

const (
	unknownSport       = "unknown"
	maxCompletionRange = 366 // days
)

// CompletionService compares planned trainings with recorded activities.
type CompletionService interface {
	Daily(ctx context.Context, date time.Time) (*domain.DailyCompletion, error)
	// Range returns one entry per day of [start, end].
	Range(ctx context.Context, start, end time.Time) ([]domain.DailyCompletion, error)
	Today(ctx context.Context) (*domain.DailyCompletion, error)
	CurrentWeek(ctx context.Context) ([]domain.DailyCompletion, error)
}

type completionService struct {
	trainingRepo  repository.TrainingRepository
	completedRepo repository.CompletedTrainingRepository
	scheduling    Scheduling
}

func NewCompletionService(
	trainingRepo repository.TrainingRepository,
	completedRepo repository.CompletedTrainingRepository,
	scheduling Scheduling,
) CompletionService {
	return &completionService{
		trainingRepo:  trainingRepo,
		completedRepo: completedRepo,
		scheduling:    scheduling,
	}
}

// CompletionPercentage is completed/planned as a percentage capped at 100 and
// rounded to two decimals. With nothing planned any activity counts as 100.
func CompletionPercentage(planned, completed int) float64 {
	if planned == 0 {
		if completed > 0 {
			return 100
		}
		return 0
	}
	pct := math.Min(100, float64(completed)/float64(planned)*100)
	return math.Round(pct*100) / 100
}

func (s *completionService) Daily(ctx context.Context, date time.Time) (*domain.DailyCompletion, error) {
	date = calendar.Date(date)
	planned, err := s.trainingRepo.GetByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("loading planned trainings: %w", err)
	}
	completed, err := s.completedRepo.GetByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("loading completed trainings: %w", err)
	}

	daily := &domain.DailyCompletion{
		Date:                    date,
		PlannedCount:            len(planned),
		CompletedCount:          len(completed),
		CompletionPercentage:    CompletionPercentage(len(planned), len(completed)),
		PlannedTrainingNames:    make([]string, 0, len(planned)),
		CompletedTrainingSports: make([]string, 0, len(completed)),
	}
	for _, t := range planned {
		daily.PlannedTrainingNames = append(daily.PlannedTrainingNames, t.Name)
	}
	for _, c := range completed {
		sport := c.Sport
		if sport == "" {
			sport = unknownSport
		}
		daily.CompletedTrainingSports = append(daily.CompletedTrainingSports, sport)
	}
	return daily, nil
}

func (s *completionService) Range(ctx context.Context, start, end time.Time) ([]domain.DailyCompletion, error) {
	days := calendar.DaysBetween(start, end)
	if days < 0 {
		return nil, fmt.Errorf("%w: end date precedes start date", ErrValidation)
	}
	if days >= maxCompletionRange {
		return nil, fmt.Errorf("%w: range exceeds %d days", ErrValidation, maxCompletionRange)
	}

	result := make([]domain.DailyCompletion, 0, days+1)
	for i := 0; i <= days; i++ {
		daily, err := s.Daily(ctx, calendar.AddDays(start, i))
		if err != nil {
			return nil, err
		}
		result = append(result, *daily)
	}
	return result, nil
}

func (s *completionService) Today(ctx context.Context) (*domain.DailyCompletion, error) {
	return s.Daily(ctx, s.scheduling.today())
}

func (s *completionService) CurrentWeek(ctx context.Context) ([]domain.DailyCompletion, error) {
	monday := calendar.CurrentAnchorMonday(s.scheduling.today())
	return s.Range(ctx, monday, calendar.AddDays(monday, 6))
}
