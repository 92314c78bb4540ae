package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"alcyxob/trainingsplan/internal/observability"
	"alcyxob/trainingsplan/internal/service"
)

// Services bundles everything the HTTP layer calls into.
type Services struct {
	Competitions       service.CompetitionService
	Plans              service.PlanService
	Trainings          service.TrainingService
	MixedDay           service.MixedDayService
	CompletedTrainings service.CompletedTrainingService
	Completion         service.CompletionService
	Descriptions       service.DescriptionService
}

// RouterOptions configures the middleware stack of NewRouter.
type RouterOptions struct {
	ServiceName    string
	MaxUploadBytes int64
	Logger         *slog.Logger
	Metrics        *observability.Metrics // Nil disables request metrics
	Gatherer       prometheus.Gatherer    // Nil disables /metrics
}

// NewRouter builds the gin engine with recovery, tracing, metrics and
// request logging installed, and all routes registered.
func NewRouter(services Services, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if opts.ServiceName != "" {
		router.Use(otelgin.Middleware(opts.ServiceName))
	}
	if opts.Metrics != nil {
		router.Use(opts.Metrics.GinMiddleware())
	}
	if opts.Logger != nil {
		router.Use(RequestLogger(opts.Logger))
	}
	if opts.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}
	SetupRoutes(router, services, opts.MaxUploadBytes)
	return router
}

func SetupRoutes(router *gin.Engine, services Services, maxUploadBytes int64) {
	competitionHandler := NewCompetitionHandler(services.Competitions)
	planHandler := NewPlanHandler(services.Plans)
	trainingHandler := NewTrainingHandler(services.Trainings, services.MixedDay)
	completedHandler := NewCompletedTrainingHandler(services.CompletedTrainings)
	completionHandler := NewCompletionHandler(services.Completion)
	descriptionHandler := NewDescriptionHandler(services.Descriptions)

	uploadLimit := BodyLimit(maxUploadBytes)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiGroup := router.Group("/api")

	// --- Competition Routes ---
	competitions := apiGroup.Group("/competitions")
	{
		competitions.GET("", competitionHandler.ListCompetitions)
		competitions.POST("", competitionHandler.CreateCompetition)
		competitions.GET("/:id", competitionHandler.GetCompetition)
		competitions.PUT("/:id", competitionHandler.UpdateCompetition)
		competitions.DELETE("/:id", competitionHandler.DeleteCompetition)
		competitions.POST("/:id/generate-weeks", competitionHandler.GenerateWeeks)
		competitions.GET("/:id/weeks", competitionHandler.GetWeeks)
	}

	// --- Training Plan Routes ---
	plans := apiGroup.Group("/training-plans")
	{
		plans.GET("", planHandler.GetPlans)
		plans.POST("/upload", uploadLimit, planHandler.UploadPlan)
		plans.GET("/:id", planHandler.GetPlan)
		plans.DELETE("/:id", planHandler.DeletePlan)
	}

	// --- Training Routes ---
	trainings := apiGroup.Group("/trainings")
	{
		trainings.GET("", trainingHandler.GetTrainings)
		trainings.POST("", trainingHandler.CreateTraining)
		trainings.GET("/week/:weekId", trainingHandler.GetTrainingsByWeek)
		trainings.GET("/date/:date", trainingHandler.GetTrainingsByDate)
		trainings.GET("/competition/:competitionId/date/:date", trainingHandler.GetTrainingsByCompetitionAndDate)
		trainings.GET("/competition/:competitionId/mixed", trainingHandler.GetMixedTrainings)
		trainings.GET("/:id", trainingHandler.GetTraining)
		trainings.PUT("/:id", trainingHandler.UpdateTraining)
		trainings.PUT("/:id/feedback", trainingHandler.UpdateFeedback)
		trainings.DELETE("/:id", trainingHandler.DeleteTraining)
	}

	// --- Completed Training Routes ---
	completed := apiGroup.Group("/completed-trainings")
	{
		completed.POST("/upload", uploadLimit, completedHandler.UploadActivity)
		completed.GET("/by-date", completedHandler.GetByDate)
		completed.GET("/by-date-range", completedHandler.GetByDateRange)
		completed.GET("/:id", completedHandler.GetCompletedTraining)
		completed.DELETE("/:id", completedHandler.DeleteCompletedTraining)
		completed.GET("/:id/download-url", completedHandler.GetDownloadURL)
	}

	// --- Completion Routes ---
	completion := apiGroup.Group("/training-completion")
	{
		completion.GET("/today", completionHandler.GetToday)
		completion.GET("/date/:date", completionHandler.GetByDate)
		completion.GET("/week", completionHandler.GetRange)
		completion.GET("/current-week", completionHandler.GetCurrentWeek)
	}

	// --- Training Description Routes ---
	descriptions := apiGroup.Group("/training-descriptions")
	{
		descriptions.GET("", descriptionHandler.ListDescriptions)
		descriptions.POST("", descriptionHandler.CreateDescription)
		descriptions.GET("/by-name/:name", descriptionHandler.GetDescriptionByName)
		descriptions.GET("/:id", descriptionHandler.GetDescription)
		descriptions.PUT("/:id", descriptionHandler.UpdateDescription)
		descriptions.DELETE("/:id", descriptionHandler.DeleteDescription)
	}
}
