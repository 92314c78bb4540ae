package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/trainingsplan/internal/calendar"
	"alcyxob/trainingsplan/internal/domain"
	"alcyxob/trainingsplan/internal/storage"
	"alcyxob/trainingsplan/internal/testutil"
)

func TestLedgerWeeks_Scenario(t *testing.T) {
	weeks := ledgerWeeks(testutil.Day("2025-06-15"), testutil.Day("2025-04-07"), 12)

	require.Len(t, weeks, 10)
	assert.Equal(t, 3, weeks[0].WeekNumber)
	assert.Equal(t, "2025-04-07", calendar.FormatDate(weeks[0].StartDate))
	last := weeks[len(weeks)-1]
	assert.Equal(t, 12, last.WeekNumber)
	assert.Equal(t, "2025-06-09", calendar.FormatDate(last.StartDate))
	assert.Equal(t, "2025-06-15", calendar.FormatDate(last.EndDate))
}

func TestLedgerWeeks_Properties(t *testing.T) {
	today := testutil.Day("2025-01-01")
	for offset := 0; offset < 200; offset += 3 {
		competition := calendar.AddDays(today, offset)
		weeks := ledgerWeeks(competition, today, 12)
		assert.LessOrEqual(t, len(weeks), 12)
		for i, w := range weeks {
			assert.Equal(t, 6, calendar.DaysBetween(w.StartDate, w.EndDate))
			assert.Equal(t, 1, int(w.StartDate.Weekday()), "weeks start on Monday")
			assert.GreaterOrEqual(t, w.WeekNumber, 1)
			assert.LessOrEqual(t, w.WeekNumber, 12)
			assert.False(t, w.EndDate.Before(today))
			if i > 0 {
				assert.Equal(t, weeks[i-1].WeekNumber+1, w.WeekNumber)
			}
		}
		if len(weeks) > 0 {
			assert.Equal(t, 12, weeks[len(weeks)-1].WeekNumber, "competition week carries the maximum")
		}
	}
}

func TestLedgerWeeks_CompetitionPassed(t *testing.T) {
	assert.Empty(t, ledgerWeeks(testutil.Day("2025-03-01"), testutil.Day("2025-04-07"), 12))
}

func TestCompetitionService_GenerateWeeksIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewTestStore(t)
	competition := testutil.SeedCompetition(t, store, "Hamburg Marathon")
	svc := NewCompetitionService(store, nil, schedulingOn("2025-04-07"), nil, discard)

	first, err := svc.GenerateWeeks(ctx, competition.ID)
	require.NoError(t, err)
	require.Len(t, first.Weeks, 10)

	// A cascade flags a week between two generations.
	flagged := first.Weeks[4]
	flagged.Modified = true
	require.NoError(t, store.Weeks.Update(ctx, &flagged))

	second, err := svc.GenerateWeeks(ctx, competition.ID)
	require.NoError(t, err)
	require.Len(t, second.Weeks, 10)
	for i := range first.Weeks {
		assert.Equal(t, first.Weeks[i].ID, second.Weeks[i].ID)
		assert.Equal(t, first.Weeks[i].WeekNumber, second.Weeks[i].WeekNumber)
	}
	assert.True(t, second.Weeks[4].Modified, "regeneration keeps the modified flag")
}

func TestCompetitionService_GenerateWeeksReconcilesMovedCompetition(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewTestStore(t)
	competition := testutil.SeedCompetition(t, store, "Moved race")
	svc := NewCompetitionService(store, nil, schedulingOn("2025-04-07"), nil, discard)

	before, err := svc.GenerateWeeks(ctx, competition.ID)
	require.NoError(t, err)
	week12 := before.Weeks[len(before.Weeks)-1]

	competition.Date = testutil.Day("2025-06-22")
	_, err = svc.UpdateCompetition(ctx, competition)
	require.NoError(t, err)

	after, err := svc.GenerateWeeks(ctx, competition.ID)
	require.NoError(t, err)
	moved, err := store.Weeks.GetByCompetitionAndNumber(ctx, competition.ID, 12)
	require.NoError(t, err)
	assert.Equal(t, week12.ID, moved.ID)
	assert.Equal(t, "2025-06-16", calendar.FormatDate(moved.StartDate))
	assert.Equal(t, "2025-06-22", calendar.FormatDate(moved.EndDate))
	assert.Len(t, after.Weeks, 11, "one more whole week fits before the later date")
}

func TestCompetitionService_GenerateWeeksUnknownCompetition(t *testing.T) {
	svc := NewCompetitionService(testutil.NewTestStore(t), nil, schedulingOn("2025-04-07"), nil, discard)
	_, err := svc.GenerateWeeks(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrCompetitionNotFound)
}

func TestCompetitionService_CreateValidates(t *testing.T) {
	svc := NewCompetitionService(testutil.NewTestStore(t), nil, schedulingOn("2025-04-07"), nil, discard)

	_, err := svc.CreateCompetition(context.Background(), &domain.Competition{Name: "  ", Date: testutil.Day("2025-06-15")})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.CreateCompetition(context.Background(), &domain.Competition{Name: "No date"})
	assert.ErrorIs(t, err, ErrValidation)

	created, err := svc.CreateCompetition(context.Background(), &domain.Competition{Name: " Berlin ", Date: testutil.Day("2025-09-21")})
	require.NoError(t, err)
	assert.Equal(t, "Berlin", created.Name)
}

func TestCompetitionService_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewTestStore(t)
	files := storage.NewMemoryStorage()
	clock := schedulingOn("2025-04-07")

	competition := testutil.SeedCompetition(t, store, "Cascade")
	competitions := NewCompetitionService(store, files, clock, nil, discard)
	plans := NewPlanService(store, NewWeekResolver(store.Weeks, nil), files, clock, nil, discard)

	_, err := competitions.GenerateWeeks(ctx, competition.ID)
	require.NoError(t, err)
	_, err = plans.ImportPlan(ctx, PlanUpload{
		CompetitionID: competition.ID,
		Name:          "Plan",
		FileName:      "plan.json",
		Content:       []byte(`[{"date":"2025-05-01","name":"Run"}]`),
	})
	require.NoError(t, err)
	require.Len(t, files.Keys(), 1)

	require.NoError(t, competitions.DeleteCompetition(ctx, competition.ID))

	_, err = competitions.GetCompetition(ctx, competition.ID)
	assert.ErrorIs(t, err, ErrCompetitionNotFound)
	weeks, err := store.Weeks.GetByCompetitionID(ctx, competition.ID)
	require.NoError(t, err)
	assert.Empty(t, weeks)
	all, err := store.Trainings.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Empty(t, files.Keys(), "archived plan documents are removed")

	assert.ErrorIs(t, competitions.DeleteCompetition(ctx, competition.ID), ErrCompetitionNotFound)
}
