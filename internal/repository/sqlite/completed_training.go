package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/trainingsplan/internal/calendar"
	"alcyxob/trainingsplan/internal/domain"
)

// SQLiteCompletedTrainingRepo implements repository.CompletedTrainingRepository.
// Metrics and device details are stored as JSON documents.
type SQLiteCompletedTrainingRepo struct {
	db *sql.DB
}

func NewSQLiteCompletedTrainingRepo(db *sql.DB) *SQLiteCompletedTrainingRepo {
	return &SQLiteCompletedTrainingRepo{db: db}
}

const completedColumns = `id, training_date, upload_date, original_filename, file_key, training_id, sport, sub_sport, metrics, device`

func (r *SQLiteCompletedTrainingRepo) Create(ctx context.Context, c *domain.CompletedTraining) (primitive.ObjectID, error) {
	if c.OriginalFilename == "" {
		return primitive.NilObjectID, errors.New("completed training requires the original filename")
	}
	c.ID = primitive.NewObjectID()
	if c.UploadDate.IsZero() {
		c.UploadDate = time.Now().UTC()
	}
	metrics, err := json.Marshal(c.Metrics)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("encoding metrics: %w", err)
	}
	device, err := json.Marshal(c.Device)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("encoding device: %w", err)
	}

	query := `INSERT INTO completed_trainings (` + completedColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		c.ID.Hex(), formatDate(c.TrainingDate), formatTimestamp(c.UploadDate), c.OriginalFilename, c.FileKey,
		nullableID(c.TrainingID), c.Sport, c.SubSport, string(metrics), string(device),
	)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("inserting completed training: %w", err)
	}
	return c.ID, nil
}

func (r *SQLiteCompletedTrainingRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.CompletedTraining, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+completedColumns+` FROM completed_trainings WHERE id = ?`, id.Hex())
	c, err := scanCompleted(row)
	if err != nil {
		return nil, notFound(err, "completed training")
	}
	return c, nil
}

func (r *SQLiteCompletedTrainingRepo) GetByDate(ctx context.Context, date time.Time) ([]domain.CompletedTraining, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+completedColumns+` FROM completed_trainings WHERE training_date = ? ORDER BY upload_date DESC`,
		formatDate(date))
	if err != nil {
		return nil, fmt.Errorf("listing completed trainings by date: %w", err)
	}
	return scanAll(rows, scanCompleted)
}

func (r *SQLiteCompletedTrainingRepo) GetBetweenDates(ctx context.Context, start, end time.Time) ([]domain.CompletedTraining, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+completedColumns+` FROM completed_trainings
		WHERE training_date >= ? AND training_date <= ? ORDER BY training_date, upload_date`,
		formatDate(calendar.Date(start)), formatDate(calendar.Date(end)))
	if err != nil {
		return nil, fmt.Errorf("listing completed trainings by range: %w", err)
	}
	return scanAll(rows, scanCompleted)
}

func (r *SQLiteCompletedTrainingRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM completed_trainings WHERE id = ?`, id.Hex())
	if err != nil {
		return fmt.Errorf("deleting completed training: %w", err)
	}
	return expectOneRow(result, "completed training")
}

func scanCompleted(s rowScanner) (*domain.CompletedTraining, error) {
	var c domain.CompletedTraining
	var id, trainingDate, uploadDate, metrics, device string
	var trainingID sql.NullString
	err := s.Scan(&id, &trainingDate, &uploadDate, &c.OriginalFilename, &c.FileKey, &trainingID,
		&c.Sport, &c.SubSport, &metrics, &device)
	if err != nil {
		return nil, err
	}
	if c.ID, err = parseID(id); err != nil {
		return nil, err
	}
	if c.TrainingDate, err = parseDate(trainingDate); err != nil {
		return nil, fmt.Errorf("parsing training_date: %w", err)
	}
	if c.UploadDate, err = parseTimestamp(uploadDate); err != nil {
		return nil, fmt.Errorf("parsing upload_date: %w", err)
	}
	if c.TrainingID, err = parseNullableID(trainingID); err != nil {
		return nil, err
	}
	if err = json.Unmarshal([]byte(metrics), &c.Metrics); err != nil {
		return nil, fmt.Errorf("decoding metrics: %w", err)
	}
	if err = json.Unmarshal([]byte(device), &c.Device); err != nil {
		return nil, fmt.Errorf("decoding device: %w", err)
	}
	return &c, nil
}
