// Package trainer is the service layer tying storage, the review
// scheduler and the dictionary clients together.
package trainer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yuchialin/vocab-trainer/internal/dict"
	"github.com/yuchialin/vocab-trainer/internal/scheduler"
	"github.com/yuchialin/vocab-trainer/internal/storage"
)

// Dictionary is the lookup/translation surface the service consumes;
// satisfied by *dict.Client.
type Dictionary interface {
	Lookup(ctx context.Context, word string) (dict.Entry, error)
	Translate(ctx context.Context, text string) (string, error)
}

// ErrEmptyWord is returned when adding a word with no text or meaning.
var ErrEmptyWord = errors.New("word and meaning must not be empty")

// Service manages vocabulary operations over storage, the scheduler and
// the dictionary APIs.
type Service struct {
	storage     storage.Storage
	clock       scheduler.Clock
	dictionary  Dictionary
	logger      *zap.Logger
	accelerated bool
}

// NewService creates a Service. A nil logger is replaced with a no-op
// logger.
func NewService(st storage.Storage, clk scheduler.Clock, d Dictionary, logger *zap.Logger, accelerated bool) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		storage:     st,
		clock:       clk,
		dictionary:  d,
		logger:      logger,
		accelerated: accelerated,
	}
}

// NewLogger builds the zap logger used by both binaries.
func NewLogger(level string) (*zap.Logger, error) {
	logConfig := zap.NewDevelopmentConfig()
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level %q: %w", level, err)
	}
	logConfig.Level = zap.NewAtomicLevelAt(parsed)
	logger, err := logConfig.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// Accelerated reports whether the run uses compressed time.
func (s *Service) Accelerated() bool { return s.accelerated }

// AddWord adds a new word. It enters the schedule at learning step 1
// with the first review due after the step-1 duration.
func (s *Service) AddWord(ctx context.Context, word, pos, meaning, chinese string) (storage.Word, error) {
	word = strings.TrimSpace(word)
	meaning = strings.TrimSpace(meaning)
	if word == "" || meaning == "" {
		return storage.Word{}, ErrEmptyWord
	}

	state := scheduler.NewCardState(s.clock)
	created, err := s.storage.CreateWord(ctx, word, strings.TrimSpace(pos), meaning, strings.TrimSpace(chinese), state)
	if err != nil {
		return storage.Word{}, fmt.Errorf("error creating word in storage: %w", err)
	}
	s.logger.Debug("word added",
		zap.String("word_id", created.ID),
		zap.String("word", created.Word),
		zap.Time("due", created.Schedule.Due))
	return created, nil
}

// Lookup fetches the dictionary entry for a word and translates its
// definition to Traditional Chinese. Translation is best effort: on
// failure the result simply has no Chinese text.
func (s *Service) Lookup(ctx context.Context, word string) (LookupResult, error) {
	entry, err := s.dictionary.Lookup(ctx, word)
	if err != nil {
		return LookupResult{}, err
	}
	result := LookupResult{
		POS:        entry.POS,
		Definition: entry.Definition,
		Example:    entry.Example,
	}
	chinese, err := s.dictionary.Translate(ctx, entry.Definition)
	if err != nil {
		s.logger.Warn("translation unavailable", zap.String("word", word), zap.Error(err))
	} else {
		result.Chinese = chinese
	}
	return result, nil
}

// DueWords returns the words due for review right now, soonest first.
func (s *Service) DueWords(ctx context.Context) ([]storage.Word, error) {
	words, err := s.storage.ListDue(ctx, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("error listing due words: %w", err)
	}
	return words, nil
}

// ListWords returns the whole vocabulary alphabetically.
func (s *Service) ListWords(ctx context.Context) ([]storage.Word, error) {
	words, err := s.storage.ListWords(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing words: %w", err)
	}
	return words, nil
}

// Stats returns vocabulary statistics as of the clock's now.
func (s *Service) Stats(ctx context.Context) (storage.Stats, error) {
	stats, err := s.storage.Stats(ctx, s.clock.Now())
	if err != nil {
		return storage.Stats{}, fmt.Errorf("error computing stats: %w", err)
	}
	return stats, nil
}

// GetWord retrieves one word by ID.
func (s *Service) GetWord(ctx context.Context, id string) (storage.Word, error) {
	return s.storage.GetWord(ctx, id)
}

// UpdateWord selectively updates content fields of a word.
func (s *Service) UpdateWord(ctx context.Context, id string, pos, meaning, chinese *string) (storage.Word, error) {
	return s.storage.UpdateWord(ctx, id, pos, meaning, chinese)
}

// DeleteWord removes a word.
func (s *Service) DeleteWord(ctx context.Context, id string) error {
	if err := s.storage.DeleteWord(ctx, id); err != nil {
		return fmt.Errorf("error deleting word: %w", err)
	}
	s.logger.Debug("word deleted", zap.String("word_id", id))
	return nil
}

// SubmitReview applies one rating to a word and persists the new
// schedule state atomically. An invalid rating leaves the word untouched
// and still due.
func (s *Service) SubmitReview(ctx context.Context, id string, rating scheduler.Rating) (ReviewOutcome, error) {
	word, err := s.storage.GetWord(ctx, id)
	if err != nil {
		return ReviewOutcome{}, fmt.Errorf("error getting word: %w", err)
	}

	result, err := scheduler.Review(word.Schedule, rating, s.clock)
	if err != nil {
		return ReviewOutcome{}, err
	}

	if err := s.storage.UpdateSchedule(ctx, id, result.State); err != nil {
		return ReviewOutcome{}, fmt.Errorf("error persisting review: %w", err)
	}

	s.logger.Debug("review applied",
		zap.String("word_id", id),
		zap.String("rating", rating.String()),
		zap.String("event", result.Event),
		zap.String("phase", result.State.Phase.String()),
		zap.Time("due", result.State.Due))

	word.Schedule = result.State
	return ReviewOutcome{
		Word:      word,
		Event:     result.Event,
		Graduated: result.Graduated,
	}, nil
}

// TimeUntilDue renders how long until a word comes due.
func (s *Service) TimeUntilDue(due time.Time) string {
	return FormatUntil(s.clock.Now(), due, s.accelerated)
}
