package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/trainingsplan/internal/domain"
	"alcyxob/trainingsplan/internal/repository"
)

// DescriptionService manages the reusable workout descriptions trainings
// can link to.
type DescriptionService interface {
	CreateDescription(ctx context.Context, description *domain.TrainingDescription) (*domain.TrainingDescription, error)
	GetDescription(ctx context.Context, id primitive.ObjectID) (*domain.TrainingDescription, error)
	GetDescriptionByName(ctx context.Context, name string) (*domain.TrainingDescription, error)
	ListDescriptions(ctx context.Context) ([]domain.TrainingDescription, error)
	UpdateDescription(ctx context.Context, description *domain.TrainingDescription) (*domain.TrainingDescription, error)
	// UpsertDescription updates the description when its ID exists and creates it otherwise.
	UpsertDescription(ctx context.Context, description *domain.TrainingDescription) (*domain.TrainingDescription, error)
	DeleteDescription(ctx context.Context, id primitive.ObjectID) error
}

type descriptionService struct {
	descriptionRepo repository.TrainingDescriptionRepository
}

func NewDescriptionService(descriptionRepo repository.TrainingDescriptionRepository) DescriptionService {
	return &descriptionService{descriptionRepo: descriptionRepo}
}

func validateDescription(d *domain.TrainingDescription) error {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return fmt.Errorf("%w: description name is required", ErrValidation)
	}
	if d.EstimatedDurationMinutes != nil && *d.EstimatedDurationMinutes < 0 {
		return fmt.Errorf("%w: estimated duration must not be negative", ErrValidation)
	}
	return nil
}

func (s *descriptionService) CreateDescription(ctx context.Context, description *domain.TrainingDescription) (*domain.TrainingDescription, error) {
	if err := validateDescription(description); err != nil {
		return nil, err
	}
	if _, err := s.descriptionRepo.GetByName(ctx, description.Name); err == nil {
		return nil, fmt.Errorf("%w: description %q already exists", ErrValidation, description.Name)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if _, err := s.descriptionRepo.Create(ctx, description); err != nil {
		return nil, err
	}
	return description, nil
}

func (s *descriptionService) GetDescription(ctx context.Context, id primitive.ObjectID) (*domain.TrainingDescription, error) {
	d, err := s.descriptionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrDescriptionNotFound)
	}
	return d, nil
}

func (s *descriptionService) GetDescriptionByName(ctx context.Context, name string) (*domain.TrainingDescription, error) {
	d, err := s.descriptionRepo.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, notFoundAs(err, ErrDescriptionNotFound)
	}
	return d, nil
}

func (s *descriptionService) ListDescriptions(ctx context.Context) ([]domain.TrainingDescription, error) {
	return s.descriptionRepo.List(ctx)
}

func (s *descriptionService) UpdateDescription(ctx context.Context, description *domain.TrainingDescription) (*domain.TrainingDescription, error) {
	if err := validateDescription(description); err != nil {
		return nil, err
	}
	existing, err := s.descriptionRepo.GetByID(ctx, description.ID)
	if err != nil {
		return nil, notFoundAs(err, ErrDescriptionNotFound)
	}
	if other, err := s.descriptionRepo.GetByName(ctx, description.Name); err == nil && other.ID != description.ID {
		return nil, fmt.Errorf("%w: description %q already exists", ErrValidation, description.Name)
	}
	description.CreatedAt = existing.CreatedAt
	if err := s.descriptionRepo.Update(ctx, description); err != nil {
		return nil, notFoundAs(err, ErrDescriptionNotFound)
	}
	return description, nil
}

func (s *descriptionService) UpsertDescription(ctx context.Context, description *domain.TrainingDescription) (*domain.TrainingDescription, error) {
	if !description.ID.IsZero() {
		updated, err := s.UpdateDescription(ctx, description)
		if !errors.Is(err, ErrDescriptionNotFound) {
			return updated, err
		}
	}
	return s.CreateDescription(ctx, description)
}

func (s *descriptionService) DeleteDescription(ctx context.Context, id primitive.ObjectID) error {
	if err := s.descriptionRepo.Delete(ctx, id); err != nil {
		return notFoundAs(err, ErrDescriptionNotFound)
	}
	return nil
}
