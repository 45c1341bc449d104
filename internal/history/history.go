// Package history persists quiz session results through a key-value store.
package history

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/mod/semver"

	"github.com/abhisek/bibliz/internal/quiz"
	"github.com/abhisek/bibliz/internal/store"
)

// Key is the store key the history list lives under.
const Key = "bibleQuizHistory"

// FormatVersion is the envelope version written by this build. Readers
// accept any envelope with the same major version.
const FormatVersion = "v1.0.0"

type envelope struct {
	Version string               `json:"version"`
	Results []quiz.SessionResult `json:"results"`
}

// UnsupportedVersionError is returned when the stored envelope was written
// by an incompatible format version.
type UnsupportedVersionError struct {
	Version string
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported history format version %q (reader is %s)", e.Version, FormatVersion)
}

// Encode serializes results in the current envelope format.
func Encode(results []quiz.SessionResult) ([]byte, error) {
	if results == nil {
		results = []quiz.SessionResult{}
	}
	return json.Marshal(envelope{Version: FormatVersion, Results: results})
}

// Decode parses a stored history value. Both the versioned envelope and
// the older bare array are accepted.
func Decode(data []byte) ([]quiz.SessionResult, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []quiz.SessionResult{}, nil
	}

	if trimmed[0] == '[' {
		var results []quiz.SessionResult
		if err := json.Unmarshal(trimmed, &results); err != nil {
			return nil, fmt.Errorf("decode legacy history: %w", err)
		}
		return nonNil(results), nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	if !semver.IsValid(env.Version) {
		return nil, &UnsupportedVersionError{Version: env.Version}
	}
	if semver.Major(env.Version) != semver.Major(FormatVersion) {
		return nil, &UnsupportedVersionError{Version: env.Version}
	}
	return nonNil(env.Results), nil
}

func nonNil(rs []quiz.SessionResult) []quiz.SessionResult {
	if rs == nil {
		return []quiz.SessionResult{}
	}
	return rs
}

// Repository implements quiz.HistoryStore over a store.KV. Failures are
// logged and swallowed: a broken store yields an empty history and lost
// saves, never an error to the quiz.
type Repository struct {
	kv  store.KV
	log *zap.Logger
}

var _ quiz.HistoryStore = (*Repository)(nil)

// NewRepository returns a repository writing under Key.
func NewRepository(kv store.KV, log *zap.Logger) *Repository {
	if log == nil {
		log = zap.NewNop()
	}
	return &Repository{kv: kv, log: log.Named("history")}
}

// Load returns the stored results, most recent first.
func (r *Repository) Load(ctx context.Context) []quiz.SessionResult {
	results, err := r.Read(ctx)
	if err != nil {
		r.log.Warn("history load failed, starting empty", zap.Error(err))
		return []quiz.SessionResult{}
	}
	return results
}

// Save replaces the stored list.
func (r *Repository) Save(ctx context.Context, results []quiz.SessionResult) {
	if err := r.Write(ctx, results); err != nil {
		r.log.Error("history save failed", zap.Int("results", len(results)), zap.Error(err))
	}
}

// Read is Load with the error surfaced, for CLI use.
func (r *Repository) Read(ctx context.Context) ([]quiz.SessionResult, error) {
	data, ok, err := r.kv.Load(ctx, Key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []quiz.SessionResult{}, nil
	}
	return Decode(data)
}

// Write is Save with the error surfaced, for CLI use.
func (r *Repository) Write(ctx context.Context, results []quiz.SessionResult) error {
	data, err := Encode(results)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	return r.kv.Save(ctx, Key, data)
}
