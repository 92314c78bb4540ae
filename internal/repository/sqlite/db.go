package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"alcyxob/trainingsplan/internal/repository"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// OpenDB opens a SQLite database at the given path, enables WAL mode and
// foreign keys, and runs migrations.
func OpenDB(path string) (*sql.DB, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == MemoryPath {
		// Every pooled connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}

// Migrate runs all schema migrations. Statements are idempotent.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// NewStore wires every sqlite repository against db.
func NewStore(db *sql.DB) *repository.Store {
	return &repository.Store{
		Competitions:       NewSQLiteCompetitionRepo(db),
		Weeks:              NewSQLiteTrainingWeekRepo(db),
		Plans:              NewSQLiteTrainingPlanRepo(db),
		Trainings:          NewSQLiteTrainingRepo(db),
		CompletedTrainings: NewSQLiteCompletedTrainingRepo(db),
		Descriptions:       NewSQLiteTrainingDescriptionRepo(db),
	}
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS competitions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		date TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS training_weeks (
		id TEXT PRIMARY KEY,
		competition_id TEXT NOT NULL REFERENCES competitions(id) ON DELETE CASCADE,
		week_number INTEGER NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		is_modified INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE (competition_id, week_number)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_training_weeks_span ON training_weeks(competition_id, start_date, end_date)`,
	`CREATE TABLE IF NOT EXISTS training_plans (
		id TEXT PRIMARY KEY,
		competition_id TEXT NOT NULL REFERENCES competitions(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		document TEXT NOT NULL,
		document_format TEXT NOT NULL,
		document_key TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS training_descriptions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		detailed_instructions TEXT NOT NULL DEFAULT '',
		warmup_instructions TEXT NOT NULL DEFAULT '',
		cooldown_instructions TEXT NOT NULL DEFAULT '',
		equipment TEXT NOT NULL DEFAULT '',
		tips TEXT NOT NULL DEFAULT '',
		estimated_duration_minutes INTEGER,
		difficulty_level TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS trainings (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		description_id TEXT REFERENCES training_descriptions(id) ON DELETE SET NULL,
		date TEXT NOT NULL,
		start_time TEXT,
		duration_minutes INTEGER,
		intensity TEXT NOT NULL,
		training_type TEXT NOT NULL DEFAULT '',
		is_completed INTEGER NOT NULL DEFAULT 0,
		completion_status TEXT NOT NULL DEFAULT '',
		week_id TEXT REFERENCES training_weeks(id) ON DELETE SET NULL,
		plan_id TEXT REFERENCES training_plans(id) ON DELETE CASCADE,
		competition_id TEXT REFERENCES competitions(id) ON DELETE CASCADE,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_trainings_week ON trainings(week_id)`,
	`CREATE INDEX IF NOT EXISTS idx_trainings_plan_date ON trainings(plan_id, date)`,
	`CREATE INDEX IF NOT EXISTS idx_trainings_competition_date ON trainings(competition_id, date)`,
	`CREATE INDEX IF NOT EXISTS idx_trainings_date ON trainings(date)`,
	`CREATE TABLE IF NOT EXISTS completed_trainings (
		id TEXT PRIMARY KEY,
		training_date TEXT NOT NULL,
		upload_date TEXT NOT NULL,
		original_filename TEXT NOT NULL,
		file_key TEXT NOT NULL DEFAULT '',
		training_id TEXT REFERENCES trainings(id) ON DELETE SET NULL,
		sport TEXT NOT NULL DEFAULT '',
		sub_sport TEXT NOT NULL DEFAULT '',
		metrics TEXT NOT NULL DEFAULT '{}',
		device TEXT NOT NULL DEFAULT '{}'
	)`,
	`CREATE INDEX IF NOT EXISTS idx_completed_trainings_date ON completed_trainings(training_date, upload_date)`,
}
