// Package storage persists vocabulary words and their schedule state in
// SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // driver: sqlite

	"github.com/yuchialin/vocab-trainer/internal/scheduler"
)

// Word is a vocabulary entry: content fields plus the schedule state the
// scheduler reads and writes.
type Word struct {
	ID        string              `json:"id"`
	Word      string              `json:"word"`
	POS       string              `json:"pos,omitempty"`
	Meaning   string              `json:"meaning"`
	Chinese   string              `json:"chinese,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	Schedule  scheduler.CardState `json:"schedule"`
}

// Stats summarizes the vocabulary.
type Stats struct {
	Total       int     `json:"total"`
	Learning    int     `json:"learning"`
	Graduated   int     `json:"graduated"`
	DueNow      int     `json:"due_now"`
	AvgEasiness float64 `json:"avg_easiness"` // graduated words only, 0 when none
}

// ErrWordNotFound is returned when a word is not in the store.
var ErrWordNotFound = errors.New("word not found")

// ErrWordExists is returned when adding a word that is already stored.
var ErrWordExists = errors.New("word already exists")

// Storage is the persistence interface for the trainer.
type Storage interface {
	CreateWord(ctx context.Context, word, pos, meaning, chinese string, schedule scheduler.CardState) (Word, error)
	GetWord(ctx context.Context, id string) (Word, error)
	UpdateWord(ctx context.Context, id string, pos, meaning, chinese *string) (Word, error)
	UpdateSchedule(ctx context.Context, id string, schedule scheduler.CardState) error
	DeleteWord(ctx context.Context, id string) error
	ListWords(ctx context.Context) ([]Word, error)
	ListDue(ctx context.Context, now time.Time) ([]Word, error)
	Stats(ctx context.Context, now time.Time) (Stats, error)
	Close() error
}

// SQLiteStorage implements Storage over a SQLite database.
type SQLiteStorage struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS words (
  id TEXT PRIMARY KEY,
  word TEXT NOT NULL UNIQUE,
  pos TEXT NOT NULL DEFAULT '',
  meaning TEXT NOT NULL,
  chinese TEXT NOT NULL DEFAULT '',
  phase INTEGER NOT NULL,
  learning_step INTEGER NOT NULL DEFAULT 1,
  repetitions INTEGER NOT NULL DEFAULT 0,
  interval_days INTEGER NOT NULL DEFAULT 1,
  easiness_factor REAL NOT NULL DEFAULT 2.5,
  next_due TEXT NOT NULL,
  created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_words_next_due ON words(next_due);
`

// Open opens (creating if needed) the SQLite database at path and ensures
// the schema exists.
func Open(ctx context.Context, path string) (*SQLiteStorage, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}
	return &SQLiteStorage{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// timeFormat is how instants are stored. Fixed-width UTC so that
// lexicographic order matches chronological order; the due-listing query
// relies on that.
const timeFormat = "2006-01-02 15:04:05.000000000"

// CreateWord inserts a new word with its initial schedule state.
func (s *SQLiteStorage) CreateWord(ctx context.Context, word, pos, meaning, chinese string, schedule scheduler.CardState) (Word, error) {
	w := Word{
		ID:        uuid.New().String(),
		Word:      word,
		POS:       pos,
		Meaning:   meaning,
		Chinese:   chinese,
		CreatedAt: time.Now().UTC(),
		Schedule:  schedule,
	}

	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM words WHERE word = ?`, word).Scan(&exists)
	if err != nil {
		return Word{}, fmt.Errorf("failed to check for existing word: %w", err)
	}
	if exists > 0 {
		return Word{}, fmt.Errorf("%w: %q", ErrWordExists, word)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO words (id, word, pos, meaning, chinese,
			phase, learning_step, repetitions, interval_days, easiness_factor,
			next_due, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.Word, w.POS, w.Meaning, w.Chinese,
		int(schedule.Phase), schedule.Step, schedule.Repetitions,
		schedule.IntervalDays, schedule.Easiness,
		schedule.Due.UTC().Format(timeFormat), w.CreatedAt.Format(timeFormat))
	if err != nil {
		return Word{}, fmt.Errorf("failed to insert word: %w", err)
	}
	return w, nil
}

const selectColumns = `id, word, pos, meaning, chinese,
	phase, learning_step, repetitions, interval_days, easiness_factor,
	next_due, created_at`

func scanWord(row interface{ Scan(...any) error }) (Word, error) {
	var (
		w       Word
		phase   int
		due     string
		created string
	)
	err := row.Scan(&w.ID, &w.Word, &w.POS, &w.Meaning, &w.Chinese,
		&phase, &w.Schedule.Step, &w.Schedule.Repetitions,
		&w.Schedule.IntervalDays, &w.Schedule.Easiness, &due, &created)
	if err != nil {
		return Word{}, err
	}
	w.Schedule.Phase = scheduler.Phase(phase)
	if w.Schedule.Due, err = time.ParseInLocation(timeFormat, due, time.UTC); err != nil {
		return Word{}, fmt.Errorf("failed to parse next_due %q: %w", due, err)
	}
	if w.CreatedAt, err = time.ParseInLocation(timeFormat, created, time.UTC); err != nil {
		return Word{}, fmt.Errorf("failed to parse created_at %q: %w", created, err)
	}
	return w, nil
}

// GetWord retrieves a word by ID.
func (s *SQLiteStorage) GetWord(ctx context.Context, id string) (Word, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM words WHERE id = ?`, id)
	w, err := scanWord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Word{}, fmt.Errorf("%w: id %s", ErrWordNotFound, id)
	}
	if err != nil {
		return Word{}, fmt.Errorf("failed to get word: %w", err)
	}
	return w, nil
}

// UpdateWord selectively updates content fields; nil pointers leave the
// field unchanged. The schedule is untouched.
func (s *SQLiteStorage) UpdateWord(ctx context.Context, id string, pos, meaning, chinese *string) (Word, error) {
	w, err := s.GetWord(ctx, id)
	if err != nil {
		return Word{}, err
	}
	if pos != nil {
		w.POS = *pos
	}
	if meaning != nil {
		w.Meaning = *meaning
	}
	if chinese != nil {
		w.Chinese = *chinese
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE words SET pos = ?, meaning = ?, chinese = ? WHERE id = ?`,
		w.POS, w.Meaning, w.Chinese, id)
	if err != nil {
		return Word{}, fmt.Errorf("failed to update word: %w", err)
	}
	return w, nil
}

// UpdateSchedule writes a word's entire schedule state in one UPDATE, so
// a review is persisted atomically: phase, step, repetitions, interval,
// easiness and due can never be stored half-updated.
func (s *SQLiteStorage) UpdateSchedule(ctx context.Context, id string, schedule scheduler.CardState) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE words
		SET phase = ?, learning_step = ?, repetitions = ?, interval_days = ?,
			easiness_factor = ?, next_due = ?
		WHERE id = ?`,
		int(schedule.Phase), schedule.Step, schedule.Repetitions,
		schedule.IntervalDays, schedule.Easiness,
		schedule.Due.UTC().Format(timeFormat), id)
	if err != nil {
		return fmt.Errorf("failed to update schedule: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: id %s", ErrWordNotFound, id)
	}
	return nil
}

// DeleteWord removes a word by ID.
func (s *SQLiteStorage) DeleteWord(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM words WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete word: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: id %s", ErrWordNotFound, id)
	}
	return nil
}

// ListWords returns all words ordered alphabetically.
func (s *SQLiteStorage) ListWords(ctx context.Context) ([]Word, error) {
	return s.queryWords(ctx,
		`SELECT `+selectColumns+` FROM words ORDER BY word ASC`)
}

// ListDue returns the words due at the given instant, soonest first.
func (s *SQLiteStorage) ListDue(ctx context.Context, now time.Time) ([]Word, error) {
	return s.queryWords(ctx,
		`SELECT `+selectColumns+` FROM words WHERE next_due <= ? ORDER BY next_due ASC`,
		now.UTC().Format(timeFormat))
}

func (s *SQLiteStorage) queryWords(ctx context.Context, query string, args ...any) ([]Word, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query words: %w", err)
	}
	defer rows.Close()

	words := []Word{}
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan word: %w", err)
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate words: %w", err)
	}
	return words, nil
}

// Stats computes vocabulary statistics at the given instant.
func (s *SQLiteStorage) Stats(ctx context.Context, now time.Time) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN phase = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN phase = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN next_due <= ? THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(CASE WHEN phase = ? THEN easiness_factor END), 0)
		FROM words`,
		int(scheduler.PhaseLearning), int(scheduler.PhaseReviewing),
		now.UTC().Format(timeFormat), int(scheduler.PhaseReviewing)).
		Scan(&st.Total, &st.Learning, &st.Graduated, &st.DueNow, &st.AvgEasiness)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to compute stats: %w", err)
	}
	return st, nil
}
