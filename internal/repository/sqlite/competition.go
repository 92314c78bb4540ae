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

// SQLiteCompetitionRepo implements repository.CompetitionRepository.
type SQLiteCompetitionRepo struct {
	db *sql.DB
}

func NewSQLiteCompetitionRepo(db *sql.DB) *SQLiteCompetitionRepo {
	return &SQLiteCompetitionRepo{db: db}
}

const competitionColumns = `id, name, date, description, created_at, updated_at`

func (r *SQLiteCompetitionRepo) Create(ctx context.Context, c *domain.Competition) (primitive.ObjectID, error) {
	if c.Name == "" {
		return primitive.NilObjectID, errors.New("competition requires a name")
	}
	c.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	query := `INSERT INTO competitions (` + competitionColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID.Hex(), c.Name, formatDate(c.Date), c.Description,
		formatTimestamp(c.CreatedAt), formatTimestamp(c.UpdatedAt),
	)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("inserting competition: %w", err)
	}
	return c.ID, nil
}

func (r *SQLiteCompetitionRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Competition, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+competitionColumns+` FROM competitions WHERE id = ?`, id.Hex())
	c, err := scanCompetition(row)
	if err != nil {
		return nil, notFound(err, "competition")
	}
	return c, nil
}

func (r *SQLiteCompetitionRepo) List(ctx context.Context) ([]domain.Competition, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+competitionColumns+` FROM competitions ORDER BY date, created_at`)
	if err != nil {
		return nil, fmt.Errorf("listing competitions: %w", err)
	}
	return scanAll(rows, scanCompetition)
}

func (r *SQLiteCompetitionRepo) Update(ctx context.Context, c *domain.Competition) error {
	c.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE competitions SET name = ?, date = ?, description = ?, updated_at = ? WHERE id = ?`,
		c.Name, formatDate(c.Date), c.Description, formatTimestamp(c.UpdatedAt), c.ID.Hex(),
	)
	if err != nil {
		return fmt.Errorf("updating competition: %w", err)
	}
	return expectOneRow(result, "competition")
}

func (r *SQLiteCompetitionRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM competitions WHERE id = ?`, id.Hex())
	if err != nil {
		return fmt.Errorf("deleting competition: %w", err)
	}
	return expectOneRow(result, "competition")
}

func scanCompetition(s rowScanner) (*domain.Competition, error) {
	var c domain.Competition
	var id, date, createdAt, updatedAt string
	if err := s.Scan(&id, &c.Name, &date, &c.Description, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if c.ID, err = parseID(id); err != nil {
		return nil, err
	}
	if c.Date, err = parseDate(date); err != nil {
		return nil, fmt.Errorf("parsing competition date: %w", err)
	}
	if c.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if c.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &c, nil
}
