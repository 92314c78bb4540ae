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

// SQLiteTrainingWeekRepo implements repository.TrainingWeekRepository.
type SQLiteTrainingWeekRepo struct {
	db *sql.DB
}

func NewSQLiteTrainingWeekRepo(db *sql.DB) *SQLiteTrainingWeekRepo {
	return &SQLiteTrainingWeekRepo{db: db}
}

const weekColumns = `id, competition_id, week_number, start_date, end_date, is_modified, created_at, updated_at`

func (r *SQLiteTrainingWeekRepo) Create(ctx context.Context, w *domain.TrainingWeek) (primitive.ObjectID, error) {
	if w.CompetitionID.IsZero() {
		return primitive.NilObjectID, errors.New("training week requires competitionId")
	}
	w.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	w.CreatedAt = now
	w.UpdatedAt = now

	query := `INSERT INTO training_weeks (` + weekColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		w.ID.Hex(), w.CompetitionID.Hex(), w.WeekNumber,
		formatDate(w.StartDate), formatDate(w.EndDate), boolToInt(w.Modified),
		formatTimestamp(w.CreatedAt), formatTimestamp(w.UpdatedAt),
	)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("inserting training week: %w", err)
	}
	return w.ID, nil
}

func (r *SQLiteTrainingWeekRepo) queryOne(ctx context.Context, where string, args ...any) (*domain.TrainingWeek, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+weekColumns+` FROM training_weeks WHERE `+where+` ORDER BY start_date LIMIT 1`, args...)
	w, err := scanWeek(row)
	if err != nil {
		return nil, notFound(err, "training week")
	}
	return w, nil
}

func (r *SQLiteTrainingWeekRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingWeek, error) {
	return r.queryOne(ctx, `id = ?`, id.Hex())
}

func (r *SQLiteTrainingWeekRepo) GetByCompetitionID(ctx context.Context, competitionID primitive.ObjectID) ([]domain.TrainingWeek, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+weekColumns+` FROM training_weeks WHERE competition_id = ? ORDER BY start_date, week_number`,
		competitionID.Hex())
	if err != nil {
		return nil, fmt.Errorf("listing training weeks: %w", err)
	}
	return scanAll(rows, scanWeek)
}

func (r *SQLiteTrainingWeekRepo) GetByCompetitionAndNumber(ctx context.Context, competitionID primitive.ObjectID, weekNumber int) (*domain.TrainingWeek, error) {
	return r.queryOne(ctx, `competition_id = ? AND week_number = ?`, competitionID.Hex(), weekNumber)
}

func (r *SQLiteTrainingWeekRepo) GetByCompetitionAndDate(ctx context.Context, competitionID primitive.ObjectID, date time.Time) (*domain.TrainingWeek, error) {
	day := formatDate(date)
	return r.queryOne(ctx, `competition_id = ? AND start_date <= ? AND end_date >= ?`, competitionID.Hex(), day, day)
}

func (r *SQLiteTrainingWeekRepo) Update(ctx context.Context, w *domain.TrainingWeek) error {
	w.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE training_weeks SET week_number = ?, start_date = ?, end_date = ?, is_modified = ?, updated_at = ? WHERE id = ?`,
		w.WeekNumber, formatDate(w.StartDate), formatDate(w.EndDate), boolToInt(w.Modified),
		formatTimestamp(w.UpdatedAt), w.ID.Hex(),
	)
	if err != nil {
		return fmt.Errorf("updating training week: %w", err)
	}
	return expectOneRow(result, "training week")
}

func (r *SQLiteTrainingWeekRepo) DeleteByCompetitionID(ctx context.Context, competitionID primitive.ObjectID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM training_weeks WHERE competition_id = ?`, competitionID.Hex()); err != nil {
		return fmt.Errorf("deleting training weeks: %w", err)
	}
	return nil
}

func scanWeek(s rowScanner) (*domain.TrainingWeek, error) {
	var w domain.TrainingWeek
	var id, competitionID, start, end, createdAt, updatedAt string
	var modified int
	if err := s.Scan(&id, &competitionID, &w.WeekNumber, &start, &end, &modified, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if w.ID, err = parseID(id); err != nil {
		return nil, err
	}
	if w.CompetitionID, err = parseID(competitionID); err != nil {
		return nil, err
	}
	if w.StartDate, err = parseDate(start); err != nil {
		return nil, fmt.Errorf("parsing start_date: %w", err)
	}
	if w.EndDate, err = parseDate(end); err != nil {
		return nil, fmt.Errorf("parsing end_date: %w", err)
	}
	w.Modified = modified != 0
	if w.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if w.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &w, nil
}
