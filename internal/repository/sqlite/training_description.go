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

// SQLiteTrainingDescriptionRepo implements repository.TrainingDescriptionRepository.
type SQLiteTrainingDescriptionRepo struct {
	db *sql.DB
}

func NewSQLiteTrainingDescriptionRepo(db *sql.DB) *SQLiteTrainingDescriptionRepo {
	return &SQLiteTrainingDescriptionRepo{db: db}
}

const descriptionColumns = `id, name, detailed_instructions, warmup_instructions, cooldown_instructions, equipment,
	tips, estimated_duration_minutes, difficulty_level, created_at, updated_at`

func (r *SQLiteTrainingDescriptionRepo) Create(ctx context.Context, d *domain.TrainingDescription) (primitive.ObjectID, error) {
	if d.Name == "" {
		return primitive.NilObjectID, errors.New("training description requires a name")
	}
	d.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now

	query := `INSERT INTO training_descriptions (` + descriptionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		d.ID.Hex(), d.Name, d.DetailedInstructions, d.WarmupInstructions, d.CooldownInstructions,
		d.Equipment, d.Tips, nullableInt(d.EstimatedDurationMinutes), d.DifficultyLevel,
		formatTimestamp(d.CreatedAt), formatTimestamp(d.UpdatedAt),
	)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("inserting training description: %w", err)
	}
	return d.ID, nil
}

func (r *SQLiteTrainingDescriptionRepo) getOne(ctx context.Context, where string, arg any) (*domain.TrainingDescription, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+descriptionColumns+` FROM training_descriptions WHERE `+where, arg)
	d, err := scanDescription(row)
	if err != nil {
		return nil, notFound(err, "training description")
	}
	return d, nil
}

func (r *SQLiteTrainingDescriptionRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingDescription, error) {
	return r.getOne(ctx, `id = ?`, id.Hex())
}

func (r *SQLiteTrainingDescriptionRepo) GetByName(ctx context.Context, name string) (*domain.TrainingDescription, error) {
	return r.getOne(ctx, `name = ?`, name)
}

func (r *SQLiteTrainingDescriptionRepo) List(ctx context.Context) ([]domain.TrainingDescription, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+descriptionColumns+` FROM training_descriptions ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing training descriptions: %w", err)
	}
	return scanAll(rows, scanDescription)
}

func (r *SQLiteTrainingDescriptionRepo) Update(ctx context.Context, d *domain.TrainingDescription) error {
	d.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE training_descriptions SET name = ?, detailed_instructions = ?, warmup_instructions = ?,
			cooldown_instructions = ?, equipment = ?, tips = ?, estimated_duration_minutes = ?,
			difficulty_level = ?, updated_at = ?
		WHERE id = ?`,
		d.Name, d.DetailedInstructions, d.WarmupInstructions, d.CooldownInstructions, d.Equipment, d.Tips,
		nullableInt(d.EstimatedDurationMinutes), d.DifficultyLevel, formatTimestamp(d.UpdatedAt), d.ID.Hex(),
	)
	if err != nil {
		return fmt.Errorf("updating training description: %w", err)
	}
	return expectOneRow(result, "training description")
}

func (r *SQLiteTrainingDescriptionRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM training_descriptions WHERE id = ?`, id.Hex())
	if err != nil {
		return fmt.Errorf("deleting training description: %w", err)
	}
	return expectOneRow(result, "training description")
}

func scanDescription(s rowScanner) (*domain.TrainingDescription, error) {
	var d domain.TrainingDescription
	var id, createdAt, updatedAt string
	var minutes sql.NullInt64
	err := s.Scan(&id, &d.Name, &d.DetailedInstructions, &d.WarmupInstructions, &d.CooldownInstructions,
		&d.Equipment, &d.Tips, &minutes, &d.DifficultyLevel, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if d.ID, err = parseID(id); err != nil {
		return nil, err
	}
	d.EstimatedDurationMinutes = parseNullableInt(minutes)
	if d.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if d.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &d, nil
}
