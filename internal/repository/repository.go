package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/trainingsplan/internal/domain"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// CompetitionRepository stores competitions.
type CompetitionRepository interface {
	Create(ctx context.Context, competition *domain.Competition) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Competition, error)
	List(ctx context.Context) ([]domain.Competition, error) // Ordered by date
	Update(ctx context.Context, competition *domain.Competition) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// TrainingWeekRepository stores the week ledger of each competition.
type TrainingWeekRepository interface {
	Create(ctx context.Context, week *domain.TrainingWeek) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingWeek, error)
	GetByCompetitionID(ctx context.Context, competitionID primitive.ObjectID) ([]domain.TrainingWeek, error) // Ordered by start date
	GetByCompetitionAndNumber(ctx context.Context, competitionID primitive.ObjectID, weekNumber int) (*domain.TrainingWeek, error)
	// GetByCompetitionAndDate returns the week whose [start, end] span contains date.
	GetByCompetitionAndDate(ctx context.Context, competitionID primitive.ObjectID, date time.Time) (*domain.TrainingWeek, error)
	Update(ctx context.Context, week *domain.TrainingWeek) error
	DeleteByCompetitionID(ctx context.Context, competitionID primitive.ObjectID) error
}

// TrainingPlanRepository stores ingested plan documents.
type TrainingPlanRepository interface {
	Create(ctx context.Context, plan *domain.TrainingPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingPlan, error)
	GetByCompetitionID(ctx context.Context, competitionID primitive.ObjectID) ([]domain.TrainingPlan, error) // Newest first
	List(ctx context.Context) ([]domain.TrainingPlan, error)                                                 // Newest first
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByCompetitionID(ctx context.Context, competitionID primitive.ObjectID) error
}

// TrainingRepository stores planned trainings. Every list is ordered by date.
type TrainingRepository interface {
	Create(ctx context.Context, training *domain.Training) (primitive.ObjectID, error)
	CreateMany(ctx context.Context, trainings []*domain.Training) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Training, error)
	List(ctx context.Context) ([]domain.Training, error)
	GetByWeekID(ctx context.Context, weekID primitive.ObjectID) ([]domain.Training, error)
	GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.Training, error)
	GetByPlanAndDate(ctx context.Context, planID primitive.ObjectID, date time.Time) ([]domain.Training, error)
	GetByDate(ctx context.Context, date time.Time) ([]domain.Training, error)
	GetByCompetitionAndDate(ctx context.Context, competitionID primitive.ObjectID, date time.Time) ([]domain.Training, error)
	Update(ctx context.Context, training *domain.Training) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByPlanID(ctx context.Context, planID primitive.ObjectID) error
	DeleteByCompetitionID(ctx context.Context, competitionID primitive.ObjectID) error
}

// CompletedTrainingRepository stores uploaded activities.
type CompletedTrainingRepository interface {
	Create(ctx context.Context, completed *domain.CompletedTraining) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.CompletedTraining, error)
	GetByDate(ctx context.Context, date time.Time) ([]domain.CompletedTraining, error) // Newest upload first
	// GetBetweenDates covers start and end inclusively, ordered by training date.
	GetBetweenDates(ctx context.Context, start, end time.Time) ([]domain.CompletedTraining, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// TrainingDescriptionRepository stores reusable workout descriptions.
type TrainingDescriptionRepository interface {
	Create(ctx context.Context, description *domain.TrainingDescription) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingDescription, error)
	GetByName(ctx context.Context, name string) (*domain.TrainingDescription, error)
	List(ctx context.Context) ([]domain.TrainingDescription, error) // Ordered by name
	Update(ctx context.Context, description *domain.TrainingDescription) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Store bundles one backend's repositories.
type Store struct {
	Competitions       CompetitionRepository
	Weeks              TrainingWeekRepository
	Plans              TrainingPlanRepository
	Trainings          TrainingRepository
	CompletedTrainings CompletedTrainingRepository
	Descriptions       TrainingDescriptionRepository
}
