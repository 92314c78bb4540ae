package service

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/trainingsplan/internal/domain"
	"alcyxob/trainingsplan/internal/repository"
	"alcyxob/trainingsplan/internal/testutil"
)

func reload(t *testing.T, store *repository.Store, id primitive.ObjectID) *domain.Training {
	t.Helper()
	tr, err := store.Trainings.GetByID(context.Background(), id)
	require.NoError(t, err)
	return tr
}

func TestTrainingService_MissedTrainingCascades(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewTestStore(t)
	competition := testutil.SeedCompetition(t, store, "Race")
	week := testutil.SeedWeek(t, store, competition.ID, 10, "2025-05-26")

	missed := testutil.SeedTraining(t, store, "Intervals", testutil.WithWeek(week), testutil.WithIntensity(domain.IntensityHigh))
	high := testutil.SeedTraining(t, store, "Hills", testutil.WithWeek(week), testutil.WithIntensity(domain.IntensityHigh))
	medium := testutil.SeedTraining(t, store, "Tempo", testutil.WithWeek(week), testutil.WithIntensity(domain.IntensityMedium))
	low := testutil.SeedTraining(t, store, "Easy", testutil.WithWeek(week), testutil.WithIntensity(domain.IntensityLow))
	done := testutil.SeedTraining(t, store, "Done", testutil.WithWeek(week), testutil.WithIntensity(domain.IntensityHigh), testutil.WithCompleted())

	svc := NewTrainingService(store, nil, discard)
	updated, err := svc.UpdateFeedback(ctx, missed.ID, false, "skipped")
	require.NoError(t, err)
	assert.False(t, updated.Completed)
	assert.Equal(t, "skipped", updated.CompletionStatus)

	assert.Equal(t, domain.IntensityHigh, reload(t, store, missed.ID).Intensity, "the missed training keeps its level")
	assert.Equal(t, domain.IntensityMedium, reload(t, store, high.ID).Intensity)
	assert.Equal(t, domain.IntensityLow, reload(t, store, medium.ID).Intensity)
	assert.Equal(t, domain.IntensityLow, reload(t, store, low.ID).Intensity)
	assert.Equal(t, domain.IntensityHigh, reload(t, store, done.ID).Intensity, "completed trainings are untouched")

	w, err := store.Weeks.GetByID(ctx, week.ID)
	require.NoError(t, err)
	assert.True(t, w.Modified)
}

func TestTrainingService_CascadeStaysInsideWeek(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewTestStore(t)
	competition := testutil.SeedCompetition(t, store, "Race")
	weekA := testutil.SeedWeek(t, store, competition.ID, 10, "2025-05-26")
	weekB := testutil.SeedWeek(t, store, competition.ID, 11, "2025-06-02")

	missed := testutil.SeedTraining(t, store, "A1", testutil.WithWeek(weekA))
	other := testutil.SeedTraining(t, store, "B1", testutil.WithWeek(weekB), testutil.WithIntensity(domain.IntensityHigh))
	loose := testutil.SeedTraining(t, store, "Loose", testutil.WithIntensity(domain.IntensityHigh))

	svc := NewTrainingService(store, nil, discard)
	_, err := svc.UpdateFeedback(ctx, missed.ID, false, "")
	require.NoError(t, err)

	assert.Equal(t, domain.IntensityHigh, reload(t, store, other.ID).Intensity)
	assert.Equal(t, domain.IntensityHigh, reload(t, store, loose.ID).Intensity)
	b, err := store.Weeks.GetByID(ctx, weekB.ID)
	require.NoError(t, err)
	assert.False(t, b.Modified)
}

func TestTrainingService_OneStepPerEventRegardlessOfOrder(t *testing.T) {
	levels := []domain.Intensity{
		domain.IntensityHigh, domain.IntensityMedium, domain.IntensityLow,
		domain.IntensityRecovery, domain.IntensityRest,
	}
	rnd := rand.New(rand.NewSource(7))

	for round := 0; round < 5; round++ {
		ctx := context.Background()
		store := testutil.NewTestStore(t)
		competition := testutil.SeedCompetition(t, store, "Race")
		week := testutil.SeedWeek(t, store, competition.ID, 12, "2025-06-09")
		missed := testutil.SeedTraining(t, store, "Missed", testutil.WithWeek(week))

		before := map[primitive.ObjectID]domain.Intensity{}
		for _, i := range rnd.Perm(len(levels)) {
			tr := testutil.SeedTraining(t, store, string(levels[i]), testutil.WithWeek(week), testutil.WithIntensity(levels[i]))
			before[tr.ID] = levels[i]
		}

		_, err := NewTrainingService(store, nil, discard).UpdateFeedback(ctx, missed.ID, false, "")
		require.NoError(t, err)

		for id, was := range before {
			want, _ := was.Downgrade()
			assert.Equal(t, want, reload(t, store, id).Intensity, "round %d, from %s", round, was)
		}
	}
}

func TestTrainingService_CompletedFeedbackDoesNotCascade(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewTestStore(t)
	competition := testutil.SeedCompetition(t, store, "Race")
	week := testutil.SeedWeek(t, store, competition.ID, 12, "2025-06-09")
	tr := testutil.SeedTraining(t, store, "Run", testutil.WithWeek(week))
	sibling := testutil.SeedTraining(t, store, "Sibling", testutil.WithWeek(week), testutil.WithIntensity(domain.IntensityHigh))

	updated, err := NewTrainingService(store, nil, discard).UpdateFeedback(ctx, tr.ID, true, domain.CompletionStatusCompleted)
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.True(t, reload(t, store, tr.ID).Completed)
	assert.Equal(t, domain.IntensityHigh, reload(t, store, sibling.ID).Intensity)
}

func TestTrainingService_MissedWithoutWeek(t *testing.T) {
	store := testutil.NewTestStore(t)
	tr := testutil.SeedTraining(t, store, "Loose")

	updated, err := NewTrainingService(store, nil, discard).UpdateFeedback(context.Background(), tr.ID, false, "missed")
	require.NoError(t, err)
	assert.Equal(t, "missed", updated.CompletionStatus)
}

func TestTrainingService_FeedbackUnknownTraining(t *testing.T) {
	svc := NewTrainingService(testutil.NewTestStore(t), nil, discard)
	_, err := svc.UpdateFeedback(context.Background(), primitive.NewObjectID(), false, "")
	assert.ErrorIs(t, err, ErrTrainingNotFound)
}

func TestTrainingService_CreateValidates(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewTestStore(t)
	competition := testutil.SeedCompetition(t, store, "Race")
	week := testutil.SeedWeek(t, store, competition.ID, 12, "2025-06-09")
	svc := NewTrainingService(store, nil, discard)

	_, err := svc.CreateTraining(ctx, &domain.Training{Name: "x", Date: testutil.Day("2025-06-10"), Intensity: "extreme"})
	assert.ErrorIs(t, err, ErrValidation)

	unknownWeek := primitive.NewObjectID()
	_, err = svc.CreateTraining(ctx, &domain.Training{Name: "x", Date: testutil.Day("2025-06-10"), WeekID: &unknownWeek})
	assert.ErrorIs(t, err, ErrWeekNotFound)

	weekID := week.ID
	created, err := svc.CreateTraining(ctx, &domain.Training{Name: "Manual", Date: testutil.Day("2025-06-10"), WeekID: &weekID})
	require.NoError(t, err)
	assert.Equal(t, domain.IntensityMedium, created.Intensity)
	assert.Equal(t, domain.TypeGeneral, created.TrainingType)
	require.NotNil(t, created.CompetitionID)
	assert.Equal(t, competition.ID, *created.CompetitionID)

	byWeek, err := svc.ByWeek(ctx, week.ID)
	require.NoError(t, err)
	require.Len(t, byWeek, 1)

	byDay, err := svc.ByCompetitionAndDate(ctx, competition.ID, testutil.Day("2025-06-10"))
	require.NoError(t, err)
	assert.Len(t, byDay, 1)
}

func TestTrainingService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewTestStore(t)
	svc := NewTrainingService(store, nil, discard)
	tr := testutil.SeedTraining(t, store, "Run")

	tr.Name = "Long run"
	tr.Intensity = domain.IntensityLow
	updated, err := svc.UpdateTraining(ctx, tr)
	require.NoError(t, err)
	assert.Equal(t, "Long run", updated.Name)
	assert.Equal(t, domain.IntensityLow, reload(t, store, tr.ID).Intensity)

	require.NoError(t, svc.DeleteTraining(ctx, tr.ID))
	_, err = svc.GetTraining(ctx, tr.ID)
	assert.ErrorIs(t, err, ErrTrainingNotFound)
	assert.ErrorIs(t, svc.DeleteTraining(ctx, tr.ID), ErrTrainingNotFound)
}
