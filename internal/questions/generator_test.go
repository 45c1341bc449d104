package questions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/bibliz/internal/llm"
	"github.com/abhisek/bibliz/internal/quiz"
)

func batchJSON(n int) json.RawMessage {
	qs := make([]string, n)
	for i := range qs {
		qs[i] = fmt.Sprintf(`{"question":"Who built ark %d?","options":["Noah","Moses","Abraham","David"],"correctAnswerIndex":%d}`, i+1, i%4)
	}
	return json.RawMessage(`{"questions":[` + strings.Join(qs, ",") + `]}`)
}

func TestGenerate_Batch(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: batchJSON(5)})
	gen := New(mock, DefaultConfig())

	qs, err := gen.Generate(context.Background(), "Genesis", quiz.Medium, quiz.Italian, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(qs) != 5 {
		t.Fatalf("expected 5 questions, got %d", len(qs))
	}
	if qs[0].Text != "Who built ark 1?" {
		t.Errorf("unexpected text: %q", qs[0].Text)
	}
	if qs[3].CorrectIndex != 3 {
		t.Errorf("expected correct index 3, got %d", qs[3].CorrectIndex)
	}
	if len(qs[0].Options) != 4 {
		t.Errorf("expected 4 options, got %d", len(qs[0].Options))
	}
}

func TestGenerate_RequestShape(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: batchJSON(5)})
	gen := New(mock, DefaultConfig())

	_, err := gen.Generate(context.Background(), "Psalms and Proverbs", quiz.Hard, quiz.German, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := mock.Calls[0]
	if req.Schema != BatchSchema {
		t.Error("expected batch schema")
	}
	if req.Temperature != 0.8 {
		t.Errorf("expected temperature 0.8, got %f", req.Temperature)
	}
	if !strings.Contains(req.System, "Nuova Riveduta") {
		t.Error("system prompt must name the translation")
	}
	msg := req.Messages[0].Content
	for _, want := range []string{"exactly 5 unique", `Topic: "Psalms and Proverbs"`, "Difficulty: hard", "Language: German (de)"} {
		if !strings.Contains(msg, want) {
			t.Errorf("user message missing %q:\n%s", want, msg)
		}
	}
}

func TestGenerate_ExtraQuestionsTruncated(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: batchJSON(8)})
	gen := New(mock, DefaultConfig())

	qs, err := gen.Generate(context.Background(), "Genesis", quiz.Easy, quiz.English, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(qs) != 5 {
		t.Fatalf("expected 5 questions, got %d", len(qs))
	}
	if qs[4].Text != "Who built ark 5?" {
		t.Errorf("truncation must keep source order, got %q", qs[4].Text)
	}
}

func TestGenerate_ShortBatchReturnedAsIs(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: batchJSON(3)})
	gen := New(mock, DefaultConfig())

	qs, err := gen.Generate(context.Background(), "Genesis", quiz.Easy, quiz.English, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(qs) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(qs))
	}
}

func TestGenerate_EmptyBatch(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"questions":[]}`)})
	gen := New(mock, DefaultConfig())

	_, err := gen.Generate(context.Background(), "Genesis", quiz.Easy, quiz.English, 5)
	if !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("expected ErrEmptyBatch, got %v", err)
	}
}

func TestGenerate_MalformedJSON(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`not json`)})
	gen := New(mock, DefaultConfig())

	_, err := gen.Generate(context.Background(), "Genesis", quiz.Easy, quiz.English, 5)
	if err == nil || !strings.Contains(err.Error(), "parse") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestGenerate_DuplicatesDropped(t *testing.T) {
	raw := json.RawMessage(`{"questions":[
		{"question":"Who was swallowed by a great fish?","options":["Jonah","Job","Joel","Amos"],"correctAnswerIndex":0},
		{"question":"  who was SWALLOWED by a great fish? ","options":["Jonah","Job","Joel","Amos"],"correctAnswerIndex":0},
		{"question":"Where was Jonah sent?","options":["Nineveh","Tarshish","Joppa","Babylon"],"correctAnswerIndex":0}
	]}`)
	gen := New(llm.NewMockProvider(llm.MockResponse{Content: raw}), DefaultConfig())

	qs, err := gen.Generate(context.Background(), "Prophets", quiz.Medium, quiz.English, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(qs) != 2 {
		t.Fatalf("expected 2 unique questions, got %d", len(qs))
	}
}

func TestGenerate_ValidationFailure(t *testing.T) {
	raw := json.RawMessage(`{"questions":[
		{"question":"Q1","options":["a","b","c","d"],"correctAnswerIndex":0},
		{"question":"Q2","options":["a","b","c"],"correctAnswerIndex":1}
	]}`)
	gen := New(llm.NewMockProvider(llm.MockResponse{Content: raw}), DefaultConfig())

	_, err := gen.Generate(context.Background(), "Genesis", quiz.Easy, quiz.English, 2)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if verr.Validator != "options" || verr.Index != 1 {
		t.Errorf("unexpected validation error: %+v", verr)
	}
}

func TestGenerate_PriorQuestionsInPrompt(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: batchJSON(2)},
		llm.MockResponse{Content: batchJSON(2)},
		llm.MockResponse{Content: batchJSON(2)},
	)
	gen := New(mock, DefaultConfig())
	ctx := context.Background()

	if _, err := gen.Generate(ctx, "Genesis", quiz.Easy, quiz.English, 2); err != nil {
		t.Fatalf("first: %v", err)
	}
	if !strings.Contains(mock.Calls[0].Messages[0].Content, "Already asked on this topic:\nNone") {
		t.Error("first request should list no prior questions")
	}

	if _, err := gen.Generate(ctx, "Genesis", quiz.Easy, quiz.English, 2); err != nil {
		t.Fatalf("second: %v", err)
	}
	if !strings.Contains(mock.Calls[1].Messages[0].Content, "1. Who built ark 1?") {
		t.Errorf("second request should list prior questions:\n%s", mock.Calls[1].Messages[0].Content)
	}

	if _, err := gen.Generate(ctx, "Exodus", quiz.Easy, quiz.English, 2); err != nil {
		t.Fatalf("third: %v", err)
	}
	if !strings.Contains(mock.Calls[2].Messages[0].Content, "Already asked on this topic:\nNone") {
		t.Error("prior questions must be per topic")
	}
}

func TestGenerate_PriorQuestionsBounded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxPriorQuestions = 3
	gen := New(llm.NewMockProvider(llm.MockResponse{Content: batchJSON(5)}), cfg)

	if _, err := gen.Generate(context.Background(), "Genesis", quiz.Easy, quiz.English, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	prior := gen.prior("Genesis")
	if len(prior) != 3 || prior[0] != "Who built ark 3?" {
		t.Errorf("expected the 3 most recent questions, got %v", prior)
	}
}

func TestGenerate_PurposeLabel(t *testing.T) {
	var gotPurpose string
	p := providerFunc(func(ctx context.Context, _ llm.Request) (*llm.Response, error) {
		gotPurpose = llm.PurposeFrom(ctx)
		return &llm.Response{Content: batchJSON(1)}, nil
	})
	if _, err := New(p, DefaultConfig()).Generate(context.Background(), "Genesis", quiz.Easy, quiz.English, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPurpose != "question-gen" {
		t.Errorf("expected purpose question-gen, got %q", gotPurpose)
	}
}

func TestGenerate_Timeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 10 * time.Millisecond
	p := providerFunc(func(ctx context.Context, _ llm.Request) (*llm.Response, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	_, err := New(p, cfg).Generate(context.Background(), "Genesis", quiz.Easy, quiz.English, 5)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestGenerate_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("503")}})
	_, err := New(mock, DefaultConfig()).Generate(context.Background(), "Genesis", quiz.Easy, quiz.English, 5)

	var unavail *llm.ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected wrapped ErrProviderUnavailable, got %T: %v", err, err)
	}
}

func TestGenerate_RejectsBadInput(t *testing.T) {
	gen := New(llm.NewMockProvider(), DefaultConfig())
	ctx := context.Background()

	if _, err := gen.Generate(ctx, "Genesis", quiz.Easy, quiz.English, 0); err == nil {
		t.Error("expected error for n=0")
	}
	if _, err := gen.Generate(ctx, "Genesis", "extreme", quiz.English, 5); err == nil {
		t.Error("expected error for unknown difficulty")
	}
	if _, err := gen.Generate(ctx, "Genesis", quiz.Easy, "la", 5); err == nil {
		t.Error("expected error for unknown language")
	}
}

type providerFunc func(ctx context.Context, req llm.Request) (*llm.Response, error)

func (f providerFunc) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	return f(ctx, req)
}

func (f providerFunc) ModelID() string { return "func" }
