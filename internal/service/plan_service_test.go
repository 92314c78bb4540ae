package service

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/trainingsplan/internal/calendar"
	"alcyxob/trainingsplan/internal/domain"
	"alcyxob/trainingsplan/internal/observability"
	"alcyxob/trainingsplan/internal/repository"
	"alcyxob/trainingsplan/internal/storage"
	"alcyxob/trainingsplan/internal/testutil"
)

const weeklyPlan = `{"marathon_plan":{"weeks":[
	{"week":5,"schedule":{
		"monday":{"workout":"10 km Dauerlauf","intensity":"70%"},
		"tuesday":{"workout":"Ruhetag","intensity":"0%"}
	}},
	{"week":12,"schedule":{
		"wednesday":{"workout":"Intervalle 6x400m","intensity":"92%"},
		"sunday":{"workout":"Wettkampf","intensity":"100%"}
	}}
]}}`

func newPlanFixture(t *testing.T, files storage.FileStorage, metrics *observability.Metrics) (*repository.Store, *domain.Competition, PlanService) {
	t.Helper()
	store := testutil.NewTestStore(t)
	competition := testutil.SeedCompetition(t, store, "Hamburg Marathon")
	svc := NewPlanService(store, NewWeekResolver(store.Weeks, metrics), files, schedulingOn("2025-04-07"), metrics, discard)
	return store, competition, svc
}

func TestPlanService_ImportWeeklyPlan(t *testing.T) {
	ctx := context.Background()
	store, competition, svc := newPlanFixture(t, nil, nil)

	plan, err := svc.ImportPlan(ctx, PlanUpload{
		CompetitionID: competition.ID,
		Name:          "Sub 4h",
		FileName:      "plan.json",
		Content:       []byte(weeklyPlan),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.FormatJSON, plan.DocumentFormat)
	require.Len(t, plan.Trainings, 3)

	monday := plan.Trainings[0]
	assert.Equal(t, "Monday - Week 5", monday.Name)
	assert.Equal(t, "2025-04-21", calendar.FormatDate(monday.Date))
	assert.Equal(t, domain.TypeEndurance, monday.TrainingType)
	assert.Equal(t, domain.IntensityLow, monday.Intensity)
	require.NotNil(t, monday.DurationMinutes)
	assert.Equal(t, 60, *monday.DurationMinutes)
	require.NotNil(t, monday.PlanID)
	assert.Equal(t, plan.ID, *monday.PlanID)
	require.NotNil(t, monday.CompetitionID)
	assert.Equal(t, competition.ID, *monday.CompetitionID)

	week5, err := store.Weeks.GetByCompetitionAndNumber(ctx, competition.ID, 5)
	require.NoError(t, err)
	require.NotNil(t, monday.WeekID)
	assert.Equal(t, week5.ID, *monday.WeekID)
	assert.Equal(t, "2025-04-27", calendar.FormatDate(week5.EndDate))
	assert.False(t, week5.Modified)

	race := plan.Trainings[2]
	assert.Equal(t, domain.TypeRace, race.TrainingType)
	assert.Equal(t, "2025-06-15", calendar.FormatDate(race.Date))

	stored, err := svc.GetPlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Trainings, 3)
	assert.Equal(t, weeklyPlan, stored.Document)
}

func TestPlanService_ImportReusesGeneratedWeeks(t *testing.T) {
	ctx := context.Background()
	store, competition, svc := newPlanFixture(t, nil, nil)
	competitions := NewCompetitionService(store, nil, schedulingOn("2025-04-07"), nil, discard)

	generated, err := competitions.GenerateWeeks(ctx, competition.ID)
	require.NoError(t, err)

	plan, err := svc.ImportPlan(ctx, PlanUpload{CompetitionID: competition.ID, Name: "Plan", Content: []byte(weeklyPlan)})
	require.NoError(t, err)

	weeks, err := store.Weeks.GetByCompetitionID(ctx, competition.ID)
	require.NoError(t, err)
	assert.Len(t, weeks, len(generated.Weeks), "no duplicate weeks")
	for _, tr := range plan.Trainings {
		require.NotNil(t, tr.WeekID)
	}
}

func TestPlanService_ImportFlatPlanAttachesByDate(t *testing.T) {
	ctx := context.Background()
	store, competition, svc := newPlanFixture(t, nil, nil)
	week := testutil.SeedWeek(t, store, competition.ID, 9, "2025-05-12")

	plan, err := svc.ImportPlan(ctx, PlanUpload{
		CompetitionID: competition.ID,
		Name:          "Flat",
		FileName:      "plan.yaml",
		Content: []byte(`
trainings:
  - date: 2025-05-14
    name: Tempo
    intensity: high
  - date: 2025-07-01
    name: After the race
`),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.FormatYAML, plan.DocumentFormat)
	require.Len(t, plan.Trainings, 2)

	require.NotNil(t, plan.Trainings[0].WeekID)
	assert.Equal(t, week.ID, *plan.Trainings[0].WeekID)
	assert.Equal(t, domain.IntensityHigh, plan.Trainings[0].Intensity)
	assert.Nil(t, plan.Trainings[1].WeekID, "no week covers the date")
}

func TestPlanService_ImportInvalidDocumentPersistsNothing(t *testing.T) {
	ctx := context.Background()
	files := storage.NewMemoryStorage()
	store, competition, svc := newPlanFixture(t, files, nil)

	_, err := svc.ImportPlan(ctx, PlanUpload{
		CompetitionID: competition.ID,
		Name:          "Broken",
		Content:       []byte(`{"weeks":[{"schedule":{}}]}`),
	})
	require.ErrorIs(t, err, ErrInvalidPlanDocument)

	plans, err := store.Plans.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, plans)
	assert.Empty(t, files.Keys())
}

func TestPlanService_ImportUnknownShapeIsEmpty(t *testing.T) {
	_, competition, svc := newPlanFixture(t, nil, nil)

	plan, err := svc.ImportPlan(context.Background(), PlanUpload{
		CompetitionID: competition.ID,
		Name:          "Notes",
		Content:       []byte(`{"notes":"run more"}`),
	})
	require.NoError(t, err)
	assert.Empty(t, plan.Trainings)
}

func TestPlanService_ImportRejectsBadInput(t *testing.T) {
	_, competition, svc := newPlanFixture(t, nil, nil)
	ctx := context.Background()

	_, err := svc.ImportPlan(ctx, PlanUpload{CompetitionID: primitive.NewObjectID(), Name: "x", Content: []byte(`[]`)})
	assert.ErrorIs(t, err, ErrCompetitionNotFound)

	_, err = svc.ImportPlan(ctx, PlanUpload{CompetitionID: competition.ID, Content: []byte(`[]`)})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.ImportPlan(ctx, PlanUpload{CompetitionID: competition.ID, Name: "x", Content: []byte("  ")})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPlanService_ArchivesAndDeletesDocument(t *testing.T) {
	ctx := context.Background()
	files := storage.NewMemoryStorage()
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	store, competition, svc := newPlanFixture(t, files, metrics)

	plan, err := svc.ImportPlan(ctx, PlanUpload{
		CompetitionID: competition.ID,
		Name:          "Archived",
		FileName:      "plan.json",
		ContentType:   "application/json",
		Content:       []byte(weeklyPlan),
	})
	require.NoError(t, err)
	require.NotEmpty(t, plan.DocumentKey)
	assert.Equal(t, []string{plan.DocumentKey}, files.Keys())
	assert.Contains(t, plan.DocumentKey, "plans/"+competition.ID.Hex()+"/")
	assert.Equal(t, 1.0, promtest.ToFloat64(metrics.PlansIngested.WithLabelValues("weekly")))
	assert.Equal(t, 3.0, promtest.ToFloat64(metrics.TrainingsCreated))

	require.NoError(t, svc.DeletePlan(ctx, plan.ID))
	assert.Empty(t, files.Keys())
	remaining, err := store.Trainings.GetByPlanID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	assert.ErrorIs(t, svc.DeletePlan(ctx, plan.ID), ErrPlanNotFound)
}

func TestPlanService_ListPlans(t *testing.T) {
	ctx := context.Background()
	store, competition, svc := newPlanFixture(t, nil, nil)
	other := testutil.SeedCompetition(t, store, "Other")
	testutil.SeedPlan(t, store, competition.ID, "A")
	testutil.SeedPlan(t, store, other.ID, "B")

	all, err := svc.ListPlans(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := svc.ListPlans(ctx, &competition.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "A", mine[0].Name)

	missing := primitive.NewObjectID()
	_, err = svc.ListPlans(ctx, &missing)
	assert.ErrorIs(t, err, ErrCompetitionNotFound)
}
