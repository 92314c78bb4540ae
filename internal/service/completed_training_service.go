package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"alcyxob/trainingsplan/internal/activity"
	"alcyxob/trainingsplan/internal/calendar"
	"alcyxob/trainingsplan/internal/domain"
	"alcyxob/trainingsplan/internal/observability"
	"alcyxob/trainingsplan/internal/repository"
	"alcyxob/trainingsplan/internal/storage"
)

const activityContentType = "application/vnd.ant.fit"

// ActivityUpload is a recorded activity file. A zero Date falls back to the
// start time stored in the file.
type ActivityUpload struct {
	Date       time.Time
	FileName   string
	Content    []byte
	TrainingID *primitive.ObjectID // Planned training the activity fulfils
}

type CompletedTrainingService interface {
	Upload(ctx context.Context, upload ActivityUpload) (*domain.CompletedTraining, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.CompletedTraining, error)
	GetByDate(ctx context.Context, date time.Time) ([]domain.CompletedTraining, error)
	GetBetween(ctx context.Context, start, end time.Time) ([]domain.CompletedTraining, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// DownloadURL returns a temporary link to the archived activity file.
	DownloadURL(ctx context.Context, id primitive.ObjectID) (string, error)
}

type completedTrainingService struct {
	store       *repository.Store
	decoder     activity.Decoder
	trainings   TrainingService
	fileStorage storage.FileStorage // Optional
	scheduling  Scheduling
	metrics     *observability.Metrics
	logger      *slog.Logger
}

func NewCompletedTrainingService(
	store *repository.Store,
	decoder activity.Decoder,
	trainings TrainingService,
	fileStorage storage.FileStorage,
	scheduling Scheduling,
	metrics *observability.Metrics,
	logger *slog.Logger,
) CompletedTrainingService {
	return &completedTrainingService{
		store:       store,
		decoder:     decoder,
		trainings:   trainings,
		fileStorage: fileStorage,
		scheduling:  scheduling,
		metrics:     metrics,
		logger:      loggerOrDefault(logger),
	}
}

func (s *completedTrainingService) Upload(ctx context.Context, upload ActivityUpload) (completed *domain.CompletedTraining, err error) {
	ctx, span := startSpan(ctx, "CompletedTrainingService.Upload",
		trace.WithAttributes(attribute.String("file.name", upload.FileName)))
	defer func() { endSpan(span, err) }()

	if strings.TrimSpace(upload.FileName) == "" || len(upload.Content) == 0 {
		s.metrics.ActivityUpload("invalid")
		return nil, fmt.Errorf("%w: activity file is required", ErrValidation)
	}

	completed, err = s.decoder.Decode(bytes.NewReader(upload.Content))
	if err != nil {
		s.metrics.ActivityUpload("decode_error")
		return nil, fmt.Errorf("%w: %v", ErrActivityDecode, err)
	}

	switch {
	case !upload.Date.IsZero():
		completed.TrainingDate = calendar.Date(upload.Date)
	case completed.TrainingDate.IsZero():
		completed.TrainingDate = s.scheduling.today()
	}
	completed.UploadDate = time.Now().UTC()
	completed.OriginalFilename = upload.FileName

	var fulfilled *domain.Training
	if upload.TrainingID != nil {
		fulfilled, err = s.trainings.GetTraining(ctx, *upload.TrainingID)
		switch {
		case errors.Is(err, ErrTrainingNotFound):
			s.logger.Warn("activity references unknown training", "training_id", upload.TrainingID.Hex())
		case err != nil:
			s.metrics.ActivityUpload("error")
			return nil, err
		default:
			trainingID := fulfilled.ID
			completed.TrainingID = &trainingID
		}
		err = nil
	}

	completed.FileKey = s.archiveActivity(ctx, completed.TrainingDate, upload)
	if _, err := s.store.CompletedTrainings.Create(ctx, completed); err != nil {
		s.metrics.ActivityUpload("error")
		s.discardActivity(ctx, completed.FileKey)
		return nil, fmt.Errorf("saving completed training: %w", err)
	}

	if fulfilled != nil {
		if _, err := s.trainings.UpdateFeedback(ctx, fulfilled.ID, true, domain.CompletionStatusCompleted); err != nil {
			s.metrics.ActivityUpload("error")
			return nil, fmt.Errorf("marking training completed: %w", err)
		}
	}

	s.metrics.ActivityUpload("ok")
	s.logger.Info("activity uploaded",
		"completed_training_id", completed.ID.Hex(),
		"date", calendar.FormatDate(completed.TrainingDate),
		"sport", completed.Sport,
	)
	return completed, nil
}

func (s *completedTrainingService) archiveActivity(ctx context.Context, date time.Time, upload ActivityUpload) string {
	if s.fileStorage == nil {
		return ""
	}
	key := storage.ObjectKey("activities", calendar.FormatDate(date), upload.FileName)
	err := s.fileStorage.PutObject(ctx, key, activityContentType, bytes.NewReader(upload.Content), int64(len(upload.Content)))
	if err != nil {
		s.logger.Warn("failed to archive activity file", "key", key, "error", err)
		return ""
	}
	return key
}

func (s *completedTrainingService) discardActivity(ctx context.Context, key string) {
	if s.fileStorage == nil || key == "" {
		return
	}
	if err := s.fileStorage.DeleteObject(ctx, key); err != nil {
		s.logger.Warn("failed to delete activity file", "key", key, "error", err)
	}
}

func (s *completedTrainingService) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.CompletedTraining, error) {
	completed, err := s.store.CompletedTrainings.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrCompletedTrainingNotFound)
	}
	return completed, nil
}

func (s *completedTrainingService) GetByDate(ctx context.Context, date time.Time) ([]domain.CompletedTraining, error) {
	return s.store.CompletedTrainings.GetByDate(ctx, calendar.Date(date))
}

func (s *completedTrainingService) GetBetween(ctx context.Context, start, end time.Time) ([]domain.CompletedTraining, error) {
	start, end = calendar.Date(start), calendar.Date(end)
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date precedes start date", ErrValidation)
	}
	return s.store.CompletedTrainings.GetBetweenDates(ctx, start, end)
}

func (s *completedTrainingService) Delete(ctx context.Context, id primitive.ObjectID) error {
	completed, err := s.store.CompletedTrainings.GetByID(ctx, id)
	if err != nil {
		return notFoundAs(err, ErrCompletedTrainingNotFound)
	}
	if err := s.store.CompletedTrainings.Delete(ctx, id); err != nil {
		return notFoundAs(err, ErrCompletedTrainingNotFound)
	}
	s.discardActivity(ctx, completed.FileKey)
	return nil
}

func (s *completedTrainingService) DownloadURL(ctx context.Context, id primitive.ObjectID) (string, error) {
	if s.fileStorage == nil {
		return "", ErrStorageDisabled
	}
	completed, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if completed.FileKey == "" {
		return "", fmt.Errorf("%w: no archived file", ErrCompletedTrainingNotFound)
	}
	return s.fileStorage.GeneratePresignedDownloadURL(ctx, completed.FileKey, storage.DefaultPresignedURLExpiry)
}
