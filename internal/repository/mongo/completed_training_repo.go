package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"alcyxob/trainingsplan/internal/calendar"
	"alcyxob/trainingsplan/internal/domain"
	"alcyxob/trainingsplan/internal/repository"
)

const completedTrainingCollectionName = "completed_trainings"

// mongoCompletedTrainingRepository implements repository.CompletedTrainingRepository
type mongoCompletedTrainingRepository struct {
	collection *mongo.Collection
}

// NewMongoCompletedTrainingRepository creates a new CompletedTraining repository.
func NewMongoCompletedTrainingRepository(db *mongo.Database) repository.CompletedTrainingRepository {
	return &mongoCompletedTrainingRepository{
		collection: db.Collection(completedTrainingCollectionName),
	}
}

// Create inserts activity metadata. UploadDate defaults to now.
func (r *mongoCompletedTrainingRepository) Create(ctx context.Context, completed *domain.CompletedTraining) (primitive.ObjectID, error) {
	if completed.OriginalFilename == "" {
		return primitive.NilObjectID, errors.New("completed training requires the original filename")
	}
	completed.ID = primitive.NewObjectID()
	if completed.UploadDate.IsZero() {
		completed.UploadDate = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, completed)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return insertedObjectID(result, "completed training")
}

func (r *mongoCompletedTrainingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.CompletedTraining, error) {
	var completed domain.CompletedTraining
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&completed)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &completed, nil
}

// GetByDate lists a day's activities, most recent upload first.
func (r *mongoCompletedTrainingRepository) GetByDate(ctx context.Context, date time.Time) ([]domain.CompletedTraining, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "uploadDate", Value: -1}})
	return findMany[domain.CompletedTraining](ctx, r.collection, bson.M{"trainingDate": dayRange(date)}, findOptions)
}

func (r *mongoCompletedTrainingRepository) GetBetweenDates(ctx context.Context, start, end time.Time) ([]domain.CompletedTraining, error) {
	filter := bson.M{"trainingDate": bson.M{
		"$gte": calendar.Date(start),
		"$lt":  calendar.AddDays(end, 1),
	}}
	findOptions := options.Find().SetSort(bson.D{{Key: "trainingDate", Value: 1}, {Key: "uploadDate", Value: 1}})
	return findMany[domain.CompletedTraining](ctx, r.collection, filter, findOptions)
}

func (r *mongoCompletedTrainingRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureCompletedTrainingIndexes creates necessary indexes. Call during startup.
func EnsureCompletedTrainingIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "trainingDate", Value: 1}, {Key: "uploadDate", Value: -1}}, Options: options.Index()},
		{Keys: bson.D{{Key: "trainingId", Value: 1}}, Options: options.Index().SetSparse(true)},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
