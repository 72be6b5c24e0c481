package storage

import (
	"database/sql"

	_ "github.com/lib/pq"
)

type PostgresRepository struct {
	sqlRepository
}

func NewPostgresRepository(connStr string) (*PostgresRepository, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	repo := &PostgresRepository{sqlRepository{db: db, bind: dollarPlaceholders}}
	if err := repo.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	return repo, nil
}

func (r *PostgresRepository) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS exercises (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		seconds INTEGER NOT NULL,
		started_at TIMESTAMPTZ NOT NULL,
		completed_at TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_exercises_user_id ON exercises(user_id);
	CREATE INDEX IF NOT EXISTS idx_exercises_completed_at ON exercises(completed_at);

	CREATE TABLE IF NOT EXISTS quizzes (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		theme TEXT NOT NULL,
		percentage INTEGER NOT NULL,
		category TEXT NOT NULL,
		answers_json JSONB NOT NULL,
		completed_at TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_quizzes_user_id ON quizzes(user_id);

	CREATE TABLE IF NOT EXISTS check_ins (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		emotion TEXT NOT NULL,
		recorded_at TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_check_ins_user_recorded ON check_ins(user_id, recorded_at);
	`

	_, err := r.db.Exec(schema)
	return err
}
