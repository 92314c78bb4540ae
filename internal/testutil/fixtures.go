package testutil

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/trainingsplan/internal/calendar"
	"alcyxob/trainingsplan/internal/domain"
	"alcyxob/trainingsplan/internal/repository"
)

// Day parses a YYYY-MM-DD literal and panics on malformed input.
func Day(s string) time.Time {
	d, err := calendar.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// FixedClock returns a clock that always reports the given day at noon UTC.
func FixedClock(day string) func() time.Time {
	t := Day(day).Add(12 * time.Hour)
	return func() time.Time { return t }
}

// Competition options
type CompetitionOption func(*domain.Competition)

func WithCompetitionDate(d time.Time) CompetitionOption {
	return func(c *domain.Competition) {
		c.Date = d
	}
}

func NewTestCompetition(name string, opts ...CompetitionOption) *domain.Competition {
	c := &domain.Competition{
		Name: name,
		Date: Day("2025-06-15"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SeedCompetition persists a test competition.
func SeedCompetition(t *testing.T, store *repository.Store, name string, opts ...CompetitionOption) *domain.Competition {
	t.Helper()
	c := NewTestCompetition(name, opts...)
	if _, err := store.Competitions.Create(context.Background(), c); err != nil {
		t.Fatalf("seeding competition: %v", err)
	}
	return c
}

// SeedWeek persists week number n of competition spanning the Monday..Sunday
// that starts on monday.
func SeedWeek(t *testing.T, store *repository.Store, competitionID primitive.ObjectID, n int, monday string) *domain.TrainingWeek {
	t.Helper()
	start := Day(monday)
	w := &domain.TrainingWeek{
		CompetitionID: competitionID,
		WeekNumber:    n,
		StartDate:     start,
		EndDate:       calendar.AddDays(start, 6),
	}
	if _, err := store.Weeks.Create(context.Background(), w); err != nil {
		t.Fatalf("seeding week: %v", err)
	}
	return w
}

// Training options
type TrainingOption func(*domain.Training)

func WithIntensity(i domain.Intensity) TrainingOption {
	return func(t *domain.Training) {
		t.Intensity = i
	}
}

func WithDate(d time.Time) TrainingOption {
	return func(t *domain.Training) {
		t.Date = d
	}
}

func WithWeek(w *domain.TrainingWeek) TrainingOption {
	return func(t *domain.Training) {
		weekID, competitionID := w.ID, w.CompetitionID
		t.WeekID = &weekID
		t.CompetitionID = &competitionID
		if t.Date.IsZero() {
			t.Date = w.StartDate
		}
	}
}

func WithPlan(p *domain.TrainingPlan) TrainingOption {
	return func(t *domain.Training) {
		planID, competitionID := p.ID, p.CompetitionID
		t.PlanID = &planID
		t.CompetitionID = &competitionID
	}
}

func WithCompleted() TrainingOption {
	return func(t *domain.Training) {
		t.Completed = true
		t.CompletionStatus = domain.CompletionStatusCompleted
	}
}

func NewTestTraining(name string, opts ...TrainingOption) *domain.Training {
	t := &domain.Training{
		Name:         name,
		Intensity:    domain.IntensityMedium,
		TrainingType: domain.TypeGeneral,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.Date.IsZero() {
		t.Date = Day("2025-05-01")
	}
	return t
}

// SeedTraining persists a test training.
func SeedTraining(t *testing.T, store *repository.Store, name string, opts ...TrainingOption) *domain.Training {
	t.Helper()
	tr := NewTestTraining(name, opts...)
	if _, err := store.Trainings.Create(context.Background(), tr); err != nil {
		t.Fatalf("seeding training: %v", err)
	}
	return tr
}

// SeedPlan persists an empty plan for competitionID.
func SeedPlan(t *testing.T, store *repository.Store, competitionID primitive.ObjectID, name string) *domain.TrainingPlan {
	t.Helper()
	p := &domain.TrainingPlan{
		CompetitionID:  competitionID,
		Name:           name,
		Document:       "[]",
		DocumentFormat: domain.FormatJSON,
	}
	if _, err := store.Plans.Create(context.Background(), p); err != nil {
		t.Fatalf("seeding plan: %v", err)
	}
	return p
}
