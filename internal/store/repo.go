package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int    // max results (0 = unlimited)
	After   int64  // sequence > After
	Before  int64  // sequence < Before
	Purpose string // exact purpose match when set
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID           int64     `db:"id"`
	Sequence     int64     `db:"sequence"`
	Timestamp    time.Time `db:"-"`
	CreatedAtMs  int64     `db:"created_at"`
	Provider     string    `db:"provider"`
	Model        string    `db:"model"`
	Purpose      string    `db:"purpose"`
	InputTokens  int       `db:"input_tokens"`
	OutputTokens int       `db:"output_tokens"`
	LatencyMs    int64     `db:"latency_ms"`
	Success      bool      `db:"success"`
	ErrorMessage string    `db:"error_message"`
	RequestBody  string    `db:"request_body"`
	ResponseBody string    `db:"response_body"`
}

// PurposeUsage aggregates token usage for one purpose label.
type PurposeUsage struct {
	Purpose      string `db:"purpose"`
	Calls        int    `db:"calls"`
	InputTokens  int    `db:"input_tokens"`
	OutputTokens int    `db:"output_tokens"`
	AvgLatencyMs int64  `db:"avg_latency_ms"`
}

// ModelUsage aggregates token usage for one model.
type ModelUsage struct {
	Model        string `db:"model"`
	Calls        int    `db:"calls"`
	InputTokens  int    `db:"input_tokens"`
	OutputTokens int    `db:"output_tokens"`
}

// EventRecorder appends LLM request events.
type EventRecorder interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	EventRecorder

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns one event, or ErrNotFound.
	GetLLMEvent(ctx context.Context, id int64) (*LLMEvent, error)

	// LLMUsageByPurpose aggregates usage per purpose label.
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)

	// LLMUsageByModel aggregates usage per model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}

// KV is a string-keyed blob store. Load reports ok=false for a missing key.
type KV interface {
	Load(ctx context.Context, key string) (value []byte, ok bool, err error)
	Save(ctx context.Context, key string, value []byte) error
	Close() error
}
