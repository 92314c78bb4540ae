package service

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/trainingsplan/internal/domain"
	"alcyxob/trainingsplan/internal/testutil"
)

func TestMixedDay_PicksOnePerPlanWithoutPersisting(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewTestStore(t)
	competition := testutil.SeedCompetition(t, store, "Triathlon")
	day := testutil.Day("2025-05-06")

	swim := testutil.SeedPlan(t, store, competition.ID, "Swim")
	run := testutil.SeedPlan(t, store, competition.ID, "Run")
	empty := testutil.SeedPlan(t, store, competition.ID, "Rest")
	foreign := testutil.SeedPlan(t, store, testutil.SeedCompetition(t, store, "Other").ID, "Foreign")

	testutil.SeedTraining(t, store, "Pool", testutil.WithPlan(swim), testutil.WithDate(day), testutil.WithIntensity(domain.IntensityLow))
	testutil.SeedTraining(t, store, "Open water", testutil.WithPlan(swim), testutil.WithDate(day))
	testutil.SeedTraining(t, store, "Tempo", testutil.WithPlan(run), testutil.WithDate(day), testutil.WithIntensity(domain.IntensityHigh))
	testutil.SeedTraining(t, store, "Tomorrow", testutil.WithPlan(empty), testutil.WithDate(testutil.Day("2025-05-07")))
	testutil.SeedTraining(t, store, "Elsewhere", testutil.WithPlan(foreign), testutil.WithDate(day))

	before, err := store.Trainings.List(ctx)
	require.NoError(t, err)

	svc := NewMixedDayService(store, &sequenceRand{picks: []int{1, 0}}, nil, discard)
	mixed, err := svc.Synthesize(ctx, competition.ID,
		[]primitive.ObjectID{swim.ID, empty.ID, primitive.NewObjectID(), foreign.ID, run.ID}, day)
	require.NoError(t, err)

	require.Len(t, mixed, 2)
	assert.Equal(t, "Mixed: Open water", mixed[0].Name)
	assert.Equal(t, "Mixed: Tempo", mixed[1].Name)
	assert.Equal(t, domain.IntensityHigh, mixed[1].Intensity)
	for _, m := range mixed {
		assert.True(t, m.ID.IsZero())
		assert.Nil(t, m.WeekID)
		assert.Nil(t, m.PlanID)
		assert.Nil(t, m.CompetitionID)
		assert.Equal(t, day, m.Date)
	}

	after, err := store.Trainings.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(before), len(after), "synthesis persists nothing")
}

func TestMixedDay_RandomPicksStayInRange(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewTestStore(t)
	competition := testutil.SeedCompetition(t, store, "Race")
	plan := testutil.SeedPlan(t, store, competition.ID, "Plan")
	day := testutil.Day("2025-05-06")
	names := map[string]bool{}
	for _, n := range []string{"A", "B", "C"} {
		testutil.SeedTraining(t, store, n, testutil.WithPlan(plan), testutil.WithDate(day))
		names["Mixed: "+n] = true
	}

	svc := NewMixedDayService(store, rand.New(rand.NewSource(42)), nil, discard)
	for i := 0; i < 20; i++ {
		mixed, err := svc.Synthesize(ctx, competition.ID, []primitive.ObjectID{plan.ID}, day)
		require.NoError(t, err)
		require.Len(t, mixed, 1)
		assert.True(t, names[mixed[0].Name], mixed[0].Name)
	}
}

func TestMixedDay_NoPlans(t *testing.T) {
	svc := NewMixedDayService(testutil.NewTestStore(t), nil, nil, discard)
	mixed, err := svc.Synthesize(context.Background(), primitive.NewObjectID(), nil, testutil.Day("2025-05-06"))
	require.NoError(t, err)
	assert.Empty(t, mixed)
}
