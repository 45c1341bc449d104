package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/bibliz/internal/store"
)

// LoggingProvider records each attempt in the event log and at debug
// level in the application log.
type LoggingProvider struct {
	inner    Provider
	provider string
	events   store.EventRecorder
	log      *zap.Logger
	now      func() time.Time
}

// WithLogging wraps p. A nil recorder keeps only the zap output.
func WithLogging(p Provider, provider string, events store.EventRecorder, log *zap.Logger) Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoggingProvider{
		inner:    p,
		provider: provider,
		events:   events,
		log:      log.Named("llm"),
		now:      time.Now,
	}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, id := withRequestID(ctx)
	start := l.now()
	resp, err := l.inner.Generate(ctx, req)
	elapsed := l.now().Sub(start)

	ev := l.event(ctx, req, resp, err, elapsed)

	fields := []zap.Field{
		zap.String("request_id", id),
		zap.String("provider", ev.Provider),
		zap.String("model", ev.Model),
		zap.String("purpose", ev.Purpose),
		zap.Duration("latency", elapsed),
		zap.Int("input_tokens", ev.InputTokens),
		zap.Int("output_tokens", ev.OutputTokens),
	}
	if err != nil {
		l.log.Debug("request failed", append(fields, zap.Error(err))...)
	} else {
		l.log.Debug("request done", fields...)
	}

	if l.events != nil {
		if rerr := l.events.AppendLLMRequest(ctx, ev); rerr != nil {
			l.log.Warn("recording LLM request", zap.String("request_id", id), zap.Error(rerr))
		}
	}
	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

func (l *LoggingProvider) event(ctx context.Context, req Request, resp *Response, err error, elapsed time.Duration) store.LLMRequestEventData {
	ev := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   elapsed.Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	if resp != nil {
		if resp.Model != "" {
			ev.Model = resp.Model
		}
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}
	return ev
}

// transcript renders a request as tagged plain text for the event log.
func transcript(req Request) string {
	var b strings.Builder
	section := func(tag, body string) {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", tag, body)
	}

	if req.System != "" {
		section("system", req.System)
	}
	for _, m := range req.Messages {
		section(string(m.Role), m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			section("schema: "+req.Schema.Name, string(def))
		}
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}
