package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"golang.org/x/sync/errgroup"

	"alcyxob/trainingsplan/internal/calendar"
	"alcyxob/trainingsplan/internal/repository"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB using the provided URI.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// The initial connect can succeed against an unresponsive server.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}
	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// NewStore wires every mongo repository against db.
func NewStore(db *mongo.Database) *repository.Store {
	return &repository.Store{
		Competitions:       NewMongoCompetitionRepository(db),
		Weeks:              NewMongoTrainingWeekRepository(db),
		Plans:              NewMongoTrainingPlanRepository(db),
		Trainings:          NewMongoTrainingRepository(db),
		CompletedTrainings: NewMongoCompletedTrainingRepository(db),
		Descriptions:       NewMongoTrainingDescriptionRepository(db),
	}
}

// EnsureIndexes creates the indexes of every collection concurrently.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	g, ctx := errgroup.WithContext(ctx)
	ensure := map[string]func(context.Context, *mongo.Collection) error{
		competitionCollectionName:         EnsureCompetitionIndexes,
		trainingWeekCollectionName:        EnsureTrainingWeekIndexes,
		trainingPlanCollectionName:        EnsureTrainingPlanIndexes,
		trainingCollectionName:            EnsureTrainingIndexes,
		completedTrainingCollectionName:   EnsureCompletedTrainingIndexes,
		trainingDescriptionCollectionName: EnsureTrainingDescriptionIndexes,
	}
	for name, fn := range ensure {
		collection := db.Collection(name)
		g.Go(func() error { return fn(ctx, collection) })
	}
	return g.Wait()
}

// findMany runs a query and decodes every match. No match yields an empty
// slice, not nil.
func findMany[T any](ctx context.Context, collection *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := []T{}
	if err = cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func insertedObjectID(result *mongo.InsertOneResult, what string) (primitive.ObjectID, error) {
	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("failed to convert inserted %s ID", what)
	}
	return id, nil
}

// dayRange matches every instant on the calendar day of date.
func dayRange(date time.Time) bson.M {
	start := calendar.Date(date)
	return bson.M{"$gte": start, "$lt": start.AddDate(0, 0, 1)}
}
