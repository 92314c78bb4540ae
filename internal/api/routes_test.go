package api

import (
	"bytes"
	"encoding/json"
	"io"
	"math/rand"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/trainingsplan/internal/domain"
	"alcyxob/trainingsplan/internal/logging"
	"alcyxob/trainingsplan/internal/observability"
	"alcyxob/trainingsplan/internal/service"
	"alcyxob/trainingsplan/internal/storage"
	"alcyxob/trainingsplan/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubDecoder struct{}

func (stubDecoder) Decode(r io.Reader) (*domain.CompletedTraining, error) {
	if _, err := io.ReadAll(r); err != nil {
		return nil, err
	}
	return &domain.CompletedTraining{Sport: "running"}, nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	store := testutil.NewTestStore(t)
	files := storage.NewMemoryStorage()
	logger := logging.Discard()
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	scheduling := service.Scheduling{MaxTrainingWeeks: 12, Location: time.UTC, Clock: testutil.FixedClock("2025-04-07")}

	trainings := service.NewTrainingService(store, metrics, logger)
	services := Services{
		Competitions:       service.NewCompetitionService(store, files, scheduling, metrics, logger),
		Plans:              service.NewPlanService(store, service.NewWeekResolver(store.Weeks, metrics), files, scheduling, metrics, logger),
		Trainings:          trainings,
		MixedDay:           service.NewMixedDayService(store, rand.New(rand.NewSource(1)), metrics, logger),
		CompletedTrainings: service.NewCompletedTrainingService(store, stubDecoder{}, trainings, files, scheduling, metrics, logger),
		Completion:         service.NewCompletionService(store.Trainings, store.CompletedTrainings, scheduling),
		Descriptions:       service.NewDescriptionService(store.Descriptions),
	}
	return NewRouter(services, RouterOptions{
		ServiceName:    "trainingsplan-test",
		MaxUploadBytes: 1 << 20,
		Metrics:        metrics,
		Gatherer:       reg,
	})
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func doUpload(t *testing.T, router *gin.Engine, path, fileName string, content []byte, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	part, err := mw.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestPing(t *testing.T) {
	w := doJSON(t, newTestRouter(t), http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}

func TestPlanLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	// Competition and ledger
	w := doJSON(t, router, http.MethodPost, "/api/competitions", CompetitionRequest{Name: "Hamburg", Date: "2025-06-15"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	competition := decode[CompetitionResponse](t, w)

	w = doJSON(t, router, http.MethodPost, "/api/competitions/"+competition.ID+"/generate-weeks", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	withWeeks := decode[CompetitionResponse](t, w)
	require.Len(t, withWeeks.Weeks, 10)
	assert.Equal(t, 3, withWeeks.Weeks[0].WeekNumber)
	assert.Equal(t, "2025-06-09", withWeeks.Weeks[9].StartDate)

	// Plan upload
	plan := `{"weeks":[{"week":12,"schedule":{
		"monday":{"workout":"Intervalle 5x1000m","intensity":"92%"},
		"tuesday":{"workout":"Tempo 8 km","intensity":"80%"},
		"thursday":{"workout":"Krafttraining","intensity":"70%"}
	}}]}`
	w = doUpload(t, router, "/api/training-plans/upload", "plan.json", []byte(plan),
		map[string]string{"competitionId": competition.ID, "name": "Taper"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	uploaded := decode[PlanResponse](t, w)
	require.Len(t, uploaded.Trainings, 3)
	monday := uploaded.Trainings[0]
	assert.Equal(t, "2025-06-09", monday.Date)
	assert.Equal(t, withWeeks.Weeks[9].ID, monday.WeekID)

	// Missed Monday downgrades the rest of the week
	w = doJSON(t, router, http.MethodPut, "/api/trainings/"+monday.ID+"/feedback", gin.H{"isCompleted": false, "completionStatus": "skipped"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodGet, "/api/trainings/week/"+monday.WeekID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	week := decode[[]TrainingResponse](t, w)
	require.Len(t, week, 3)
	assert.Equal(t, "high", week[0].Intensity)
	assert.Equal(t, "low", week[1].Intensity)
	assert.Equal(t, "low", week[2].Intensity)

	w = doJSON(t, router, http.MethodGet, "/api/competitions/"+competition.ID+"/weeks", nil)
	weeks := decode[[]WeekResponse](t, w)
	assert.True(t, weeks[9].IsModified)

	// Mixed day
	w = doJSON(t, router, http.MethodGet,
		"/api/trainings/competition/"+competition.ID+"/mixed?date=2025-06-10&planIds="+uploaded.ID, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	mixed := decode[[]TrainingResponse](t, w)
	require.Len(t, mixed, 1)
	assert.Equal(t, "Mixed: Tuesday - Week 12", mixed[0].Name)
	assert.Empty(t, mixed[0].ID)

	// Metrics are exposed
	w = doJSON(t, router, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "trainingsplan_plans_ingested_total")
}

func TestPlanUpload_InvalidDocument(t *testing.T) {
	router := newTestRouter(t)
	w := doJSON(t, router, http.MethodPost, "/api/competitions", CompetitionRequest{Name: "Race", Date: "2025-06-15"})
	competition := decode[CompetitionResponse](t, w)

	w = doUpload(t, router, "/api/training-plans/upload", "plan.json", []byte(`{"weeks":{}}`),
		map[string]string{"competitionId": competition.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doUpload(t, router, "/api/training-plans/upload", "plan.json", []byte(`[]`),
		map[string]string{"competitionId": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestActivityUploadAndCompletion(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/trainings", TrainingRequest{Name: "Easy run", Date: "2025-04-07", Intensity: "low"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	training := decode[TrainingResponse](t, w)

	w = doUpload(t, router, "/api/completed-trainings/upload", "run.fit", []byte("fit"),
		map[string]string{"trainingId": training.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	completed := decode[CompletedTrainingResponse](t, w)
	assert.Equal(t, "2025-04-07", completed.TrainingDate)
	assert.Equal(t, training.ID, completed.TrainingID)

	w = doJSON(t, router, http.MethodGet, "/api/trainings/"+training.ID, nil)
	assert.True(t, decode[TrainingResponse](t, w).IsCompleted)

	w = doJSON(t, router, http.MethodGet, "/api/training-completion/today", nil)
	require.Equal(t, http.StatusOK, w.Code)
	today := decode[CompletionResponse](t, w)
	assert.Equal(t, 100.0, today.CompletionPercentage)
	assert.Equal(t, []string{"running"}, today.CompletedTrainingSports)

	w = doJSON(t, router, http.MethodGet, "/api/completed-trainings/"+completed.ID+"/download-url", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "downloadUrl")

	w = doJSON(t, router, http.MethodGet, "/api/completed-trainings/by-date-range?startDate=2025-04-01&endDate=2025-04-30", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]CompletedTrainingResponse](t, w), 1)
}

func TestErrorMapping(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		method, path string
		body         any
		want         int
	}{
		{http.MethodGet, "/api/competitions/not-an-id", nil, http.StatusBadRequest},
		{http.MethodGet, "/api/competitions/65f1a2b3c4d5e6f708192a3b", nil, http.StatusNotFound},
		{http.MethodPut, "/api/trainings/65f1a2b3c4d5e6f708192a3b/feedback", gin.H{"isCompleted": true}, http.StatusNotFound},
		{http.MethodPut, "/api/trainings/65f1a2b3c4d5e6f708192a3b/feedback", gin.H{}, http.StatusBadRequest},
		{http.MethodPost, "/api/trainings", gin.H{"name": "x", "date": "2025-04-07", "intensity": "extreme"}, http.StatusBadRequest},
		{http.MethodPost, "/api/competitions", gin.H{"name": "x", "date": "15.06.2025"}, http.StatusBadRequest},
		{http.MethodGet, "/api/training-completion/week?startDate=2025-04-10&endDate=2025-04-01", nil, http.StatusBadRequest},
		{http.MethodGet, "/api/training-descriptions/by-name/unknown", nil, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := doJSON(t, router, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			assert.True(t, strings.Contains(w.Body.String(), `"error"`))
		})
	}
}

func TestDescriptionsOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/training-descriptions", DescriptionRequest{Name: "Tempo run", Tips: "even effort"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[domain.TrainingDescription](t, w)

	w = doJSON(t, router, http.MethodGet, "/api/training-descriptions/by-name/Tempo%20run", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created.ID, decode[domain.TrainingDescription](t, w).ID)

	w = doJSON(t, router, http.MethodPut, "/api/training-descriptions/"+created.ID.Hex(), DescriptionRequest{Name: "Tempo run", Tips: "relax"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "relax", decode[domain.TrainingDescription](t, w).Tips)

	w = doJSON(t, router, http.MethodDelete, "/api/training-descriptions/"+created.ID.Hex(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
