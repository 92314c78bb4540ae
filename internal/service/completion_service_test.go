package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/trainingsplan/internal/domain"
	"alcyxob/trainingsplan/internal/testutil"
)

func TestCompletionPercentage(t *testing.T) {
	tests := []struct {
		planned, completed int
		want               float64
	}{
		{0, 0, 0},
		{0, 2, 100},
		{3, 1, 33.33},
		{3, 2, 66.67},
		{2, 2, 100},
		{1, 3, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CompletionPercentage(tt.planned, tt.completed), "%d/%d", tt.completed, tt.planned)
	}
}

func TestCompletionService_DailyAndWeek(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewTestStore(t)
	day := testutil.Day("2025-05-06") // Tuesday

	testutil.SeedTraining(t, store, "Intervals", testutil.WithDate(day))
	testutil.SeedTraining(t, store, "Core", testutil.WithDate(day))
	for _, c := range []*domain.CompletedTraining{
		{TrainingDate: day, OriginalFilename: "run.fit", Sport: "running"},
		{TrainingDate: testutil.Day("2025-05-08"), OriginalFilename: "x.fit"},
	} {
		_, err := store.CompletedTrainings.Create(ctx, c)
		require.NoError(t, err)
	}

	svc := NewCompletionService(store.Trainings, store.CompletedTrainings, schedulingOn("2025-05-06"))

	today, err := svc.Today(ctx)
	require.NoError(t, err)
	assert.Equal(t, day, today.Date)
	assert.Equal(t, 2, today.PlannedCount)
	assert.Equal(t, 1, today.CompletedCount)
	assert.Equal(t, 50.0, today.CompletionPercentage)
	assert.ElementsMatch(t, []string{"Intervals", "Core"}, today.PlannedTrainingNames)
	assert.Equal(t, []string{"running"}, today.CompletedTrainingSports)

	week, err := svc.CurrentWeek(ctx)
	require.NoError(t, err)
	require.Len(t, week, 7)
	assert.Equal(t, testutil.Day("2025-05-05"), week[0].Date)
	assert.Equal(t, testutil.Day("2025-05-11"), week[6].Date)
	assert.Equal(t, 100.0, week[3].CompletionPercentage, "unplanned activity counts fully")
	assert.Equal(t, []string{"unknown"}, week[3].CompletedTrainingSports)
	assert.Equal(t, 0.0, week[0].CompletionPercentage)
}

func TestCompletionService_RangeValidation(t *testing.T) {
	store := testutil.NewTestStore(t)
	svc := NewCompletionService(store.Trainings, store.CompletedTrainings, schedulingOn("2025-05-06"))

	_, err := svc.Range(context.Background(), testutil.Day("2025-05-06"), testutil.Day("2025-05-01"))
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Range(context.Background(), testutil.Day("2024-01-01"), testutil.Day("2025-05-01"))
	assert.ErrorIs(t, err, ErrValidation)
}
