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

// SQLiteTrainingPlanRepo implements repository.TrainingPlanRepository.
type SQLiteTrainingPlanRepo struct {
	db *sql.DB
}

func NewSQLiteTrainingPlanRepo(db *sql.DB) *SQLiteTrainingPlanRepo {
	return &SQLiteTrainingPlanRepo{db: db}
}

const planColumns = `id, competition_id, name, description, document, document_format, document_key, created_at`

func (r *SQLiteTrainingPlanRepo) Create(ctx context.Context, p *domain.TrainingPlan) (primitive.ObjectID, error) {
	if p.CompetitionID.IsZero() || p.Name == "" {
		return primitive.NilObjectID, errors.New("plan requires competitionId and name")
	}
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now().UTC()

	query := `INSERT INTO training_plans (` + planColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID.Hex(), p.CompetitionID.Hex(), p.Name, p.Description, p.Document,
		string(p.DocumentFormat), p.DocumentKey, formatTimestamp(p.CreatedAt),
	)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("inserting training plan: %w", err)
	}
	return p.ID, nil
}

func (r *SQLiteTrainingPlanRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingPlan, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+planColumns+` FROM training_plans WHERE id = ?`, id.Hex())
	p, err := scanPlan(row)
	if err != nil {
		return nil, notFound(err, "training plan")
	}
	return p, nil
}

func (r *SQLiteTrainingPlanRepo) GetByCompetitionID(ctx context.Context, competitionID primitive.ObjectID) ([]domain.TrainingPlan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+planColumns+` FROM training_plans WHERE competition_id = ? ORDER BY created_at DESC`,
		competitionID.Hex())
	if err != nil {
		return nil, fmt.Errorf("listing training plans by competition: %w", err)
	}
	return scanAll(rows, scanPlan)
}

func (r *SQLiteTrainingPlanRepo) List(ctx context.Context) ([]domain.TrainingPlan, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+planColumns+` FROM training_plans ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing training plans: %w", err)
	}
	return scanAll(rows, scanPlan)
}

func (r *SQLiteTrainingPlanRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM training_plans WHERE id = ?`, id.Hex())
	if err != nil {
		return fmt.Errorf("deleting training plan: %w", err)
	}
	return expectOneRow(result, "training plan")
}

func (r *SQLiteTrainingPlanRepo) DeleteByCompetitionID(ctx context.Context, competitionID primitive.ObjectID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM training_plans WHERE competition_id = ?`, competitionID.Hex()); err != nil {
		return fmt.Errorf("deleting training plans: %w", err)
	}
	return nil
}

func scanPlan(s rowScanner) (*domain.TrainingPlan, error) {
	var p domain.TrainingPlan
	var id, competitionID, format, createdAt string
	if err := s.Scan(&id, &competitionID, &p.Name, &p.Description, &p.Document, &format, &p.DocumentKey, &createdAt); err != nil {
		return nil, err
	}
	var err error
	if p.ID, err = parseID(id); err != nil {
		return nil, err
	}
	if p.CompetitionID, err = parseID(competitionID); err != nil {
		return nil, err
	}
	p.DocumentFormat = domain.DocumentFormat(format)
	if p.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &p, nil
}
