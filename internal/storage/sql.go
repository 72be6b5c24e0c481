package storage

import (
	"database/sql"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/hperssn/unibalance/internal/domain"
)

// sqlRepository holds the queries shared by the SQLite and Postgres
// backends. Queries are written with ? placeholders and passed through
// bind before use.
type sqlRepository struct {
	db   *sql.DB
	bind func(query string) string
}

func questionMarks(query string) string { return query }

// dollarPlaceholders rewrites ? to $1, $2, ...
func dollarPlaceholders(query string) string {
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (r *sqlRepository) SaveExercise(record *ExerciseRecord) error {
	query := `
		INSERT INTO exercises (id, user_id, kind, seconds, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(
		r.bind(query),
		record.ID,
		record.UserID,
		record.Kind,
		record.Seconds,
		record.StartedAt,
		record.CompletedAt,
	)

	return err
}

func (r *sqlRepository) GetExercisesByUser(userID string) ([]ExerciseRecord, error) {
	query := `
		SELECT id, user_id, kind, seconds, started_at, completed_at
		FROM exercises
		WHERE user_id = ?
		ORDER BY completed_at DESC
	`

	rows, err := r.db.Query(r.bind(query), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanExercises(rows)
}

func (r *sqlRepository) GetRecentExercises(userID string, since time.Time) ([]ExerciseRecord, error) {
	query := `
		SELECT id, user_id, kind, seconds, started_at, completed_at
		FROM exercises
		WHERE user_id = ? AND completed_at >= ?
		ORDER BY completed_at DESC
	`

	rows, err := r.db.Query(r.bind(query), userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanExercises(rows)
}

func (r *sqlRepository) GetStats(userID string) (*Stats, error) {
	stats := Stats{ByKind: map[domain.ExerciseKind]int{}}

	var totalSeconds sql.NullInt64
	var avgSeconds sql.NullFloat64
	err := r.db.QueryRow(r.bind(`
		SELECT COUNT(*), SUM(seconds), AVG(seconds)
		FROM exercises
		WHERE user_id = ?
	`), userID).Scan(&stats.TotalExercises, &totalSeconds, &avgSeconds)
	if err != nil {
		return nil, err
	}
	if totalSeconds.Valid {
		stats.TotalSeconds = int(totalSeconds.Int64)
	}
	if avgSeconds.Valid {
		stats.AverageSeconds = avgSeconds.Float64
	}

	rows, err := r.db.Query(r.bind(`
		SELECT kind, COUNT(*)
		FROM exercises
		WHERE user_id = ?
		GROUP BY kind
	`), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var kind domain.ExerciseKind
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		stats.ByKind[kind] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var avgScore sql.NullFloat64
	err = r.db.QueryRow(r.bind(`
		SELECT COUNT(*), AVG(percentage)
		FROM quizzes
		WHERE user_id = ?
	`), userID).Scan(&stats.QuizzesTaken, &avgScore)
	if err != nil {
		return nil, err
	}
	if avgScore.Valid {
		stats.AverageQuizScore = avgScore.Float64
	}

	err = r.db.QueryRow(r.bind(`
		SELECT COUNT(*) FROM check_ins WHERE user_id = ?
	`), userID).Scan(&stats.CheckIns)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

func (r *sqlRepository) SaveQuiz(record *QuizRecord) error {
	answersJSON, err := json.Marshal(record.Answers)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO quizzes (id, user_id, theme, percentage, category, answers_json, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(
		r.bind(query),
		record.ID,
		record.UserID,
		record.Theme,
		record.Percentage,
		record.Category,
		string(answersJSON),
		record.CompletedAt,
	)

	return err
}

func (r *sqlRepository) GetQuizzesByUser(userID string) ([]QuizRecord, error) {
	query := `
		SELECT id, user_id, theme, percentage, category, answers_json, completed_at
		FROM quizzes
		WHERE user_id = ?
		ORDER BY completed_at DESC
	`

	rows, err := r.db.Query(r.bind(query), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []QuizRecord
	for rows.Next() {
		var record QuizRecord
		var answersJSON string

		err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.Theme,
			&record.Percentage,
			&record.Category,
			&answersJSON,
			&record.CompletedAt,
		)
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal([]byte(answersJSON), &record.Answers); err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	return records, rows.Err()
}

func (r *sqlRepository) SaveCheckIn(c domain.CheckIn) error {
	_, err := r.db.Exec(
		r.bind(`INSERT INTO check_ins (id, user_id, emotion, recorded_at) VALUES (?, ?, ?, ?)`),
		c.ID,
		c.UserID,
		c.Emotion,
		c.RecordedAt,
	)
	return err
}

func (r *sqlRepository) GetCheckIns(userID string, since time.Time) ([]domain.CheckIn, error) {
	query := `
		SELECT id, user_id, emotion, recorded_at
		FROM check_ins
		WHERE user_id = ? AND recorded_at >= ?
		ORDER BY recorded_at ASC
	`

	rows, err := r.db.Query(r.bind(query), userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CheckIn
	for rows.Next() {
		var c domain.CheckIn
		if err := rows.Scan(&c.ID, &c.UserID, &c.Emotion, &c.RecordedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}

	return out, rows.Err()
}

func (r *sqlRepository) Close() error {
	return r.db.Close()
}

func scanExercises(rows *sql.Rows) ([]ExerciseRecord, error) {
	var records []ExerciseRecord

	for rows.Next() {
		var record ExerciseRecord

		err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.Kind,
			&record.Seconds,
			&record.StartedAt,
			&record.CompletedAt,
		)
		if err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	return records, rows.Err()
}
