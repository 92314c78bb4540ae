package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/trainingsplan/internal/calendar"
	"alcyxob/trainingsplan/internal/domain"
	"alcyxob/trainingsplan/internal/observability"
	"alcyxob/trainingsplan/internal/repository"
)

// WeekResolver maps plan week numbers and calendar dates to persisted weeks.
type WeekResolver interface {
	// Resolve returns the week with the given number, creating it with the
	// given span when it does not exist yet. An existing week is returned
	// as stored; its dates are not reconciled.
	Resolve(ctx context.Context, competitionID primitive.ObjectID, weekNumber int, start, end time.Time) (*domain.TrainingWeek, error)
	// ForDate returns the week containing date, or nil when none does.
	ForDate(ctx context.Context, competitionID primitive.ObjectID, date time.Time) (*domain.TrainingWeek, error)
}

type weekResolver struct {
	weekRepo repository.TrainingWeekRepository
	metrics  *observability.Metrics
}

func NewWeekResolver(weekRepo repository.TrainingWeekRepository, metrics *observability.Metrics) WeekResolver {
	return &weekResolver{weekRepo: weekRepo, metrics: metrics}
}

func (r *weekResolver) Resolve(ctx context.Context, competitionID primitive.ObjectID, weekNumber int, start, end time.Time) (*domain.TrainingWeek, error) {
	week, err := r.weekRepo.GetByCompetitionAndNumber(ctx, competitionID, weekNumber)
	if err == nil {
		return week, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("looking up week %d: %w", weekNumber, err)
	}

	week = &domain.TrainingWeek{
		CompetitionID: competitionID,
		WeekNumber:    weekNumber,
		StartDate:     calendar.Date(start),
		EndDate:       calendar.Date(end),
	}
	if _, err := r.weekRepo.Create(ctx, week); err != nil {
		return nil, fmt.Errorf("creating week %d: %w", weekNumber, err)
	}
	r.metrics.WeeksCreated(1)
	return week, nil
}

func (r *weekResolver) ForDate(ctx context.Context, competitionID primitive.ObjectID, date time.Time) (*domain.TrainingWeek, error) {
	week, err := r.weekRepo.GetByCompetitionAndDate(ctx, competitionID, calendar.Date(date))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up week for %s: %w", calendar.FormatDate(date), err)
	}
	return week, nil
}
