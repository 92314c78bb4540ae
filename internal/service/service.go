package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"alcyxob/trainingsplan/internal/calendar"
	"alcyxob/trainingsplan/internal/repository"
)

// --- Error Definitions ---
var (
	ErrCompetitionNotFound       = errors.New("competition not found")
	ErrPlanNotFound              = errors.New("training plan not found")
	ErrTrainingNotFound          = errors.New("training not found")
	ErrWeekNotFound              = errors.New("training week not found")
	ErrCompletedTrainingNotFound = errors.New("completed training not found")
	ErrDescriptionNotFound       = errors.New("training description not found")
	ErrValidation                = errors.New("validation failed")
	ErrInvalidPlanDocument       = errors.New("invalid plan document")
	ErrActivityDecode            = errors.New("activity file could not be decoded")
	ErrStorageDisabled           = errors.New("object storage is not configured")
)

const defaultMaxTrainingWeeks = 12

// Clock returns the current instant. Tests pin it to a fixed date.
type Clock func() time.Time

// RandSource picks among candidates. *math/rand.Rand satisfies it.
type RandSource interface {
	Intn(n int) int
}

// Scheduling carries the calendar settings shared by the scheduling services.
type Scheduling struct {
	MaxTrainingWeeks int
	Location         *time.Location // Zone in which "today" is observed
	Clock            Clock
}

func (s Scheduling) today() time.Time {
	now := time.Now
	if s.Clock != nil {
		now = s.Clock
	}
	return calendar.Today(now(), s.Location)
}

func (s Scheduling) maxWeeks() int {
	if s.MaxTrainingWeeks <= 0 {
		return defaultMaxTrainingWeeks
	}
	return s.MaxTrainingWeeks
}

var tracer = otel.Tracer("alcyxob/trainingsplan/internal/service")

func startSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, opts...)
}

// endSpan records err on span, if any, and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// notFoundAs maps repository.ErrNotFound to the given service error.
func notFoundAs(err, target error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return target
	}
	return err
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
