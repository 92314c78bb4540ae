package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"alcyxob/trainingsplan/internal/domain"
	"alcyxob/trainingsplan/internal/repository"
)

const competitionCollectionName = "competitions"

// mongoCompetitionRepository implements repository.CompetitionRepository
type mongoCompetitionRepository struct {
	collection *mongo.Collection
}

// NewMongoCompetitionRepository creates a new Competition repository.
func NewMongoCompetitionRepository(db *mongo.Database) repository.CompetitionRepository {
	return &mongoCompetitionRepository{
		collection: db.Collection(competitionCollectionName),
	}
}

// Create inserts a new competition.
func (r *mongoCompetitionRepository) Create(ctx context.Context, competition *domain.Competition) (primitive.ObjectID, error) {
	if competition.Name == "" {
		return primitive.NilObjectID, errors.New("competition requires a name")
	}
	competition.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	competition.CreatedAt = now
	competition.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, competition)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return insertedObjectID(result, "competition")
}

// GetByID retrieves a single competition by its ID.
func (r *mongoCompetitionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Competition, error) {
	var competition domain.Competition
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&competition)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &competition, nil
}

// List returns all competitions, earliest date first.
func (r *mongoCompetitionRepository) List(ctx context.Context) ([]domain.Competition, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	return findMany[domain.Competition](ctx, r.collection, bson.M{}, findOptions)
}

func (r *mongoCompetitionRepository) Update(ctx context.Context, competition *domain.Competition) error {
	if competition.ID == primitive.NilObjectID {
		return errors.New("competition ID is required for update")
	}
	competition.UpdatedAt = time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"name":        competition.Name,
			"date":        competition.Date,
			"description": competition.Description,
			"updatedAt":   competition.UpdatedAt,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": competition.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoCompetitionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureCompetitionIndexes creates necessary indexes. Call during startup.
func EnsureCompetitionIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: 1}}, Options: options.Index()},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
