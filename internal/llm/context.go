package llm

import (
	"context"

	"github.com/google/uuid"
)

// PurposeQuestionBatch labels requests that generate a quiz block.
const PurposeQuestionBatch = "question-gen"

type ctxKey int

const (
	purposeKey ctxKey = iota
	requestIDKey
)

// WithPurpose labels every LLM call made with ctx. The label ends up in
// the event log and in the usage report.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok && v != "" {
		return v
	}
	return "unknown"
}

// withRequestID tags ctx with a fresh ID unless it already carries one,
// so retries of the same request share an ID in the logs.
func withRequestID(ctx context.Context) (context.Context, string) {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return ctx, id
	}
	id := uuid.NewString()
	return context.WithValue(ctx, requestIDKey, id), id
}

// RequestIDFrom returns the ID of the LLM request in flight, if any.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
