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

const trainingCollectionName = "trainings"

// mongoTrainingRepository implements repository.TrainingRepository
type mongoTrainingRepository struct {
	collection *mongo.Collection
}

// NewMongoTrainingRepository creates a new Training repository.
func NewMongoTrainingRepository(db *mongo.Database) repository.TrainingRepository {
	return &mongoTrainingRepository{
		collection: db.Collection(trainingCollectionName),
	}
}

func byDate() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "startTime", Value: 1}, {Key: "_id", Value: 1}})
}

func prepareTraining(training *domain.Training, now time.Time) error {
	if training.Name == "" {
		return errors.New("training requires a name")
	}
	training.ID = primitive.NewObjectID()
	training.CreatedAt = now
	training.UpdatedAt = now
	return nil
}

// Create inserts a new training.
func (r *mongoTrainingRepository) Create(ctx context.Context, training *domain.Training) (primitive.ObjectID, error) {
	if err := prepareTraining(training, time.Now().UTC()); err != nil {
		return primitive.NilObjectID, err
	}
	result, err := r.collection.InsertOne(ctx, training)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return insertedObjectID(result, "training")
}

// CreateMany inserts trainings in one round trip and assigns their IDs.
func (r *mongoTrainingRepository) CreateMany(ctx context.Context, trainings []*domain.Training) error {
	if len(trainings) == 0 {
		return nil
	}
	now := time.Now().UTC()
	docs := make([]any, 0, len(trainings))
	for _, training := range trainings {
		if err := prepareTraining(training, now); err != nil {
			return err
		}
		docs = append(docs, training)
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// GetByID retrieves a single training by its ID.
func (r *mongoTrainingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Training, error) {
	var training domain.Training
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&training)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &training, nil
}

func (r *mongoTrainingRepository) List(ctx context.Context) ([]domain.Training, error) {
	return findMany[domain.Training](ctx, r.collection, bson.M{}, byDate())
}

func (r *mongoTrainingRepository) GetByWeekID(ctx context.Context, weekID primitive.ObjectID) ([]domain.Training, error) {
	return findMany[domain.Training](ctx, r.collection, bson.M{"weekId": weekID}, byDate())
}

func (r *mongoTrainingRepository) GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.Training, error) {
	return findMany[domain.Training](ctx, r.collection, bson.M{"planId": planID}, byDate())
}

func (r *mongoTrainingRepository) GetByPlanAndDate(ctx context.Context, planID primitive.ObjectID, date time.Time) ([]domain.Training, error) {
	return findMany[domain.Training](ctx, r.collection, bson.M{"planId": planID, "date": dayRange(date)}, byDate())
}

func (r *mongoTrainingRepository) GetByDate(ctx context.Context, date time.Time) ([]domain.Training, error) {
	return findMany[domain.Training](ctx, r.collection, bson.M{"date": dayRange(date)}, byDate())
}

func (r *mongoTrainingRepository) GetByCompetitionAndDate(ctx context.Context, competitionID primitive.ObjectID, date time.Time) ([]domain.Training, error) {
	filter := bson.M{"competitionId": competitionID, "date": dayRange(date)}
	return findMany[domain.Training](ctx, r.collection, filter, byDate())
}

// Update writes every mutable field of the training.
func (r *mongoTrainingRepository) Update(ctx context.Context, training *domain.Training) error {
	if training.ID == primitive.NilObjectID {
		return errors.New("training ID is required for update")
	}
	training.UpdatedAt = time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"name":             training.Name,
			"description":      training.Description,
			"descriptionId":    training.DescriptionID,
			"date":             training.Date,
			"startTime":        training.StartTime,
			"durationMinutes":  training.DurationMinutes,
			"intensity":        training.Intensity,
			"trainingType":     training.TrainingType,
			"isCompleted":      training.Completed,
			"completionStatus": training.CompletionStatus,
			"weekId":           training.WeekID,
			"updatedAt":        training.UpdatedAt,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": training.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoTrainingRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoTrainingRepository) DeleteByPlanID(ctx context.Context, planID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"planId": planID})
	return err
}

func (r *mongoTrainingRepository) DeleteByCompetitionID(ctx context.Context, competitionID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"competitionId": competitionID})
	return err
}

// EnsureTrainingIndexes creates necessary indexes. Call during startup.
func EnsureTrainingIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "weekId", Value: 1}}, Options: options.Index().SetSparse(true)},
		{Keys: bson.D{{Key: "planId", Value: 1}, {Key: "date", Value: 1}}, Options: options.Index().SetSparse(true)},
		{Keys: bson.D{{Key: "competitionId", Value: 1}, {Key: "date", Value: 1}}, Options: options.Index().SetSparse(true)},
		{Keys: bson.D{{Key: "date", Value: 1}}, Options: options.Index()},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
