package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// eventRepo implements EventRepo over the llm_request_events table.
type eventRepo struct {
	db  *sqlx.DB
	seq *sequenceCounter
	now func() time.Time
}

func (r *eventRepo) clock() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now()
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO llm_request_events
		(sequence, created_at, provider, model, purpose, input_tokens, output_tokens,
		 latency_ms, success, error_message, request_body, response_body)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum,
		r.clock().UnixMilli(),
		data.Provider,
		data.Model,
		data.Purpose,
		data.InputTokens,
		data.OutputTokens,
		data.LatencyMs,
		data.Success,
		data.ErrorMessage,
		data.RequestBody,
		data.ResponseBody,
	)
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}

	return nil
}

const llmEventColumns = `id, sequence, created_at, provider, model, purpose, input_tokens,
	output_tokens, latency_ms, success, error_message, request_body, response_body`

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error) {
	var (
		where []string
		args  []any
	)
	if opts.After > 0 {
		where = append(where, "sequence > ?")
		args = append(args, opts.After)
	}
	if opts.Before > 0 {
		where = append(where, "sequence < ?")
		args = append(args, opts.Before)
	}
	if opts.Purpose != "" {
		where = append(where, "purpose = ?")
		args = append(args, opts.Purpose)
	}

	q := "SELECT " + llmEventColumns + " FROM llm_request_events"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY sequence DESC"
	if opts.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	var events []LLMEvent
	if err := r.db.SelectContext(ctx, &events, q, args...); err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	for i := range events {
		events[i].Timestamp = time.UnixMilli(events[i].CreatedAtMs).UTC()
	}
	return events, nil
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int64) (*LLMEvent, error) {
	var e LLMEvent
	err := r.db.GetContext(ctx, &e, "SELECT "+llmEventColumns+" FROM llm_request_events WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get LLM event %d: %w", id, err)
	}
	e.Timestamp = time.UnixMilli(e.CreatedAtMs).UTC()
	return &e, nil
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error) {
	var rows []PurposeUsage
	err := r.db.SelectContext(ctx, &rows, `SELECT
			purpose,
			COUNT(*) AS calls,
			COALESCE(SUM(input_tokens), 0) AS input_tokens,
			COALESCE(SUM(output_tokens), 0) AS output_tokens,
			CAST(COALESCE(AVG(latency_ms), 0) AS INTEGER) AS avg_latency_ms
		FROM llm_request_events
		GROUP BY purpose
		ORDER BY calls DESC, purpose`)
	if err != nil {
		return nil, fmt.Errorf("usage by purpose: %w", err)
	}
	return rows, nil
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]ModelUsage, error) {
	var rows []ModelUsage
	err := r.db.SelectContext(ctx, &rows, `SELECT
			model,
			COUNT(*) AS calls,
			COALESCE(SUM(input_tokens), 0) AS input_tokens,
			COALESCE(SUM(output_tokens), 0) AS output_tokens
		FROM llm_request_events
		WHERE success = 1
		GROUP BY model
		ORDER BY calls DESC, model`)
	if err != nil {
		return nil, fmt.Errorf("usage by model: %w", err)
	}
	return rows, nil
}
