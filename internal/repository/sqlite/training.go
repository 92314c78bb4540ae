package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/trainingsplan/internal/domain"
)

// SQLiteTrainingRepo implements repository.TrainingRepository.
type SQLiteTrainingRepo struct {
	db *sql.DB
}

func NewSQLiteTrainingRepo(db *sql.DB) *SQLiteTrainingRepo {
	return &SQLiteTrainingRepo{db: db}
}

const trainingColumns = `id, name, description, description_id, date, start_time, duration_minutes, intensity,
	training_type, is_completed, completion_status, week_id, plan_id, competition_id, created_at, updated_at`

const trainingOrder = ` ORDER BY date, start_time, created_at, id`

// execer is the subset of *sql.DB and *sql.Tx used for inserts.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertTraining(ctx context.Context, db execer, t *domain.Training, now time.Time) error {
	if t.Name == "" {
		return errors.New("training requires a name")
	}
	t.ID = primitive.NewObjectID()
	t.CreatedAt = now
	t.UpdatedAt = now

	query := `INSERT INTO trainings (` + trainingColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, query,
		t.ID.Hex(), t.Name, t.Description, nullableID(t.DescriptionID), formatDate(t.Date),
		nullableString(t.StartTime), nullableInt(t.DurationMinutes), string(t.Intensity),
		t.TrainingType, boolToInt(t.Completed), t.CompletionStatus,
		nullableID(t.WeekID), nullableID(t.PlanID), nullableID(t.CompetitionID),
		formatTimestamp(t.CreatedAt), formatTimestamp(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting training: %w", err)
	}
	return nil
}

func (r *SQLiteTrainingRepo) Create(ctx context.Context, t *domain.Training) (primitive.ObjectID, error) {
	if err := insertTraining(ctx, r.db, t, time.Now().UTC()); err != nil {
		return primitive.NilObjectID, err
	}
	return t.ID, nil
}

// CreateMany inserts all trainings in one transaction.
func (r *SQLiteTrainingRepo) CreateMany(ctx context.Context, trainings []*domain.Training) error {
	if len(trainings) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()
	for _, t := range trainings {
		if err := insertTraining(ctx, tx, t, now); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing trainings: %w", err)
	}
	return nil
}

func (r *SQLiteTrainingRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Training, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+trainingColumns+` FROM trainings WHERE id = ?`, id.Hex())
	t, err := scanTraining(row)
	if err != nil {
		return nil, notFound(err, "training")
	}
	return t, nil
}

func (r *SQLiteTrainingRepo) list(ctx context.Context, where string, args ...any) ([]domain.Training, error) {
	query := `SELECT ` + trainingColumns + ` FROM trainings`
	if where != "" {
		query += ` WHERE ` + where
	}
	rows, err := r.db.QueryContext(ctx, query+trainingOrder, args...)
	if err != nil {
		return nil, fmt.Errorf("listing trainings: %w", err)
	}
	return scanAll(rows, scanTraining)
}

func (r *SQLiteTrainingRepo) List(ctx context.Context) ([]domain.Training, error) {
	return r.list(ctx, "")
}

func (r *SQLiteTrainingRepo) GetByWeekID(ctx context.Context, weekID primitive.ObjectID) ([]domain.Training, error) {
	return r.list(ctx, `week_id = ?`, weekID.Hex())
}

func (r *SQLiteTrainingRepo) GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.Training, error) {
	return r.list(ctx, `plan_id = ?`, planID.Hex())
}

func (r *SQLiteTrainingRepo) GetByPlanAndDate(ctx context.Context, planID primitive.ObjectID, date time.Time) ([]domain.Training, error) {
	return r.list(ctx, `plan_id = ? AND date = ?`, planID.Hex(), formatDate(date))
}

func (r *SQLiteTrainingRepo) GetByDate(ctx context.Context, date time.Time) ([]domain.Training, error) {
	return r.list(ctx, `date = ?`, formatDate(date))
}

func (r *SQLiteTrainingRepo) GetByCompetitionAndDate(ctx context.Context, competitionID primitive.ObjectID, date time.Time) ([]domain.Training, error) {
	return r.list(ctx, `competition_id = ? AND date = ?`, competitionID.Hex(), formatDate(date))
}

func (r *SQLiteTrainingRepo) Update(ctx context.Context, t *domain.Training) error {
	t.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE trainings SET name = ?, description = ?, description_id = ?, date = ?, start_time = ?,
			duration_minutes = ?, intensity = ?, training_type = ?, is_completed = ?, completion_status = ?,
			week_id = ?, updated_at = ?
		WHERE id = ?`,
		t.Name, t.Description, nullableID(t.DescriptionID), formatDate(t.Date), nullableString(t.StartTime),
		nullableInt(t.DurationMinutes), string(t.Intensity), t.TrainingType, boolToInt(t.Completed),
		t.CompletionStatus, nullableID(t.WeekID), formatTimestamp(t.UpdatedAt), t.ID.Hex(),
	)
	if err != nil {
		return fmt.Errorf("updating training: %w", err)
	}
	return expectOneRow(result, "training")
}

func (r *SQLiteTrainingRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM trainings WHERE id = ?`, id.Hex())
	if err != nil {
		return fmt.Errorf("deleting training: %w", err)
	}
	return expectOneRow(result, "training")
}

func (r *SQLiteTrainingRepo) DeleteByPlanID(ctx context.Context, planID primitive.ObjectID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM trainings WHERE plan_id = ?`, planID.Hex()); err != nil {
		return fmt.Errorf("deleting plan trainings: %w", err)
	}
	return nil
}

func (r *SQLiteTrainingRepo) DeleteByCompetitionID(ctx context.Context, competitionID primitive.ObjectID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM trainings WHERE competition_id = ?`, competitionID.Hex()); err != nil {
		return fmt.Errorf("deleting competition trainings: %w", err)
	}
	return nil
}

func scanTraining(s rowScanner) (*domain.Training, error) {
	var t domain.Training
	var id, date, intensity, createdAt, updatedAt string
	var descriptionID, startTime, weekID, planID, competitionID sql.NullString
	var duration sql.NullInt64
	var completed int
	err := s.Scan(&id, &t.Name, &t.Description, &descriptionID, &date, &startTime, &duration, &intensity,
		&t.TrainingType, &completed, &t.CompletionStatus, &weekID, &planID, &competitionID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if t.ID, err = parseID(id); err != nil {
		return nil, err
	}
	if t.Date, err = parseDate(date); err != nil {
		return nil, fmt.Errorf("parsing training date: %w", err)
	}
	t.StartTime = parseNullableString(startTime)
	t.DurationMinutes = parseNullableInt(duration)
	t.Intensity = domain.Intensity(intensity)
	t.Completed = completed != 0
	if t.DescriptionID, err = parseNullableID(descriptionID); err != nil {
		return nil, err
	}
	if t.WeekID, err = parseNullableID(weekID); err != nil {
		return nil, err
	}
	if t.PlanID, err = parseNullableID(planID); err != nil {
		return nil, err
	}
	if t.CompetitionID, err = parseNullableID(competitionID); err != nil {
		return nil, err
	}
	if t.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if t.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &t, nil
}
