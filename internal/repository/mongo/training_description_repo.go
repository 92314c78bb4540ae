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

const trainingDescriptionCollectionName = "training_descriptions"

// mongoTrainingDescriptionRepository implements repository.TrainingDescriptionRepository
type mongoTrainingDescriptionRepository struct {
	collection *mongo.Collection
}

// NewMongoTrainingDescriptionRepository creates a new TrainingDescription repository.
func NewMongoTrainingDescriptionRepository(db *mongo.Database) repository.TrainingDescriptionRepository {
	return &mongoTrainingDescriptionRepository{
		collection: db.Collection(trainingDescriptionCollectionName),
	}
}

func (r *mongoTrainingDescriptionRepository) Create(ctx context.Context, description *domain.TrainingDescription) (primitive.ObjectID, error) {
	if description.Name == "" {
		return primitive.NilObjectID, errors.New("training description requires a name")
	}
	description.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	description.CreatedAt = now
	description.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, description)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return insertedObjectID(result, "training description")
}

func (r *mongoTrainingDescriptionRepository) findOne(ctx context.Context, filter bson.M) (*domain.TrainingDescription, error) {
	var description domain.TrainingDescription
	err := r.collection.FindOne(ctx, filter).Decode(&description)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &description, nil
}

func (r *mongoTrainingDescriptionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingDescription, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoTrainingDescriptionRepository) GetByName(ctx context.Context, name string) (*domain.TrainingDescription, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *mongoTrainingDescriptionRepository) List(ctx context.Context) ([]domain.TrainingDescription, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	return findMany[domain.TrainingDescription](ctx, r.collection, bson.M{}, findOptions)
}

func (r *mongoTrainingDescriptionRepository) Update(ctx context.Context, description *domain.TrainingDescription) error {
	if description.ID == primitive.NilObjectID {
		return errors.New("training description ID is required for update")
	}
	description.UpdatedAt = time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"name":                     description.Name,
			"detailedInstructions":     description.DetailedInstructions,
			"warmupInstructions":       description.WarmupInstructions,
			"cooldownInstructions":     description.CooldownInstructions,
			"equipment":                description.Equipment,
			"tips":                     description.Tips,
			"estimatedDurationMinutes": description.EstimatedDurationMinutes,
			"difficultyLevel":          description.DifficultyLevel,
			"updatedAt":                description.UpdatedAt,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": description.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoTrainingDescriptionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureTrainingDescriptionIndexes creates necessary indexes. Call during startup.
func EnsureTrainingDescriptionIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
