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

const trainingWeekCollectionName = "training_weeks"

// mongoTrainingWeekRepository implements repository.TrainingWeekRepository
type mongoTrainingWeekRepository struct {
	collection *mongo.Collection
}

// NewMongoTrainingWeekRepository creates a new TrainingWeek repository.
func NewMongoTrainingWeekRepository(db *mongo.Database) repository.TrainingWeekRepository {
	return &mongoTrainingWeekRepository{
		collection: db.Collection(trainingWeekCollectionName),
	}
}

// Create inserts a new week.
func (r *mongoTrainingWeekRepository) Create(ctx context.Context, week *domain.TrainingWeek) (primitive.ObjectID, error) {
	if week.CompetitionID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("training week requires competitionId")
	}
	week.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	week.CreatedAt = now
	week.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, week)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return insertedObjectID(result, "training week")
}

func (r *mongoTrainingWeekRepository) findOne(ctx context.Context, filter bson.M) (*domain.TrainingWeek, error) {
	var week domain.TrainingWeek
	err := r.collection.FindOne(ctx, filter).Decode(&week)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &week, nil
}

// GetByID retrieves a single week by its ID.
func (r *mongoTrainingWeekRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingWeek, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByCompetitionID lists a competition's weeks by start date.
func (r *mongoTrainingWeekRepository) GetByCompetitionID(ctx context.Context, competitionID primitive.ObjectID) ([]domain.TrainingWeek, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "startDate", Value: 1}, {Key: "weekNumber", Value: 1}})
	return findMany[domain.TrainingWeek](ctx, r.collection, bson.M{"competitionId": competitionID}, findOptions)
}

func (r *mongoTrainingWeekRepository) GetByCompetitionAndNumber(ctx context.Context, competitionID primitive.ObjectID, weekNumber int) (*domain.TrainingWeek, error) {
	return r.findOne(ctx, bson.M{"competitionId": competitionID, "weekNumber": weekNumber})
}

func (r *mongoTrainingWeekRepository) GetByCompetitionAndDate(ctx context.Context, competitionID primitive.ObjectID, date time.Time) (*domain.TrainingWeek, error) {
	day := calendar.Date(date)
	filter := bson.M{
		"competitionId": competitionID,
		"startDate":     bson.M{"$lte": day},
		"endDate":       bson.M{"$gte": day},
	}
	return r.findOne(ctx, filter)
}

func (r *mongoTrainingWeekRepository) Update(ctx context.Context, week *domain.TrainingWeek) error {
	if week.ID == primitive.NilObjectID {
		return errors.New("training week ID is required for update")
	}
	week.UpdatedAt = time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"weekNumber": week.WeekNumber,
			"startDate":  week.StartDate,
			"endDate":    week.EndDate,
			"isModified": week.Modified,
			"updatedAt":  week.UpdatedAt,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": week.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoTrainingWeekRepository) DeleteByCompetitionID(ctx context.Context, competitionID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"competitionId": competitionID})
	return err
}

// EnsureTrainingWeekIndexes creates necessary indexes. Call during startup.
func EnsureTrainingWeekIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// One week per number within a competition.
			Keys:    bson.D{{Key: "competitionId", Value: 1}, {Key: "weekNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "competitionId", Value: 1}, {Key: "startDate", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
