package ai

import (
	"context"
	"errors"
	"testing"

	pkgerrors "github.com/seolim/thoughtcast/pkg/errors"
	"go.uber.org/zap"
)

type fakeGenerator struct {
	text  string
	err   error
	calls int
}

func (f *fakeGenerator) GenerateText(_ context.Context, _, _ string, _ CallParams) (string, *GenerateMetadata, error) {
	f.calls++
	if f.err != nil {
		return "", nil, f.err
	}
	return f.text, &GenerateMetadata{Provider: "Fake", Model: "test-model"}, nil
}

func TestInvokeParsesEmbeddedJSON(t *testing.T) {
	gen := &fakeGenerator{text: "Sure, here you go:\n```json\n{\"topics\": [\"remote work\"], \"context\": \"a {quoted} value\"}\n```"}
	caller := NewCaller(gen, zap.NewNop())

	result, err := caller.Invoke(context.Background(), "system", "user", CallParams{Model: "m", MaxTokens: 100})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.ParseFailed() {
		t.Fatalf("expected successful parse, got fallback: %v", result.Data)
	}
	if result.Data["context"] != "a {quoted} value" {
		t.Fatalf("unexpected context value: %v", result.Data["context"])
	}
}

func TestInvokeReturnsFallbackOnUnparseableText(t *testing.T) {
	gen := &fakeGenerator{text: "I could not produce structured output, sorry."}
	caller := NewCaller(gen, zap.NewNop())

	result, err := caller.Invoke(context.Background(), "system", "user", CallParams{Model: "m", MaxTokens: 100})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !result.ParseFailed() {
		t.Fatalf("expected parse-failure fallback, got %v", result.Data)
	}
	if result.Data["error"] != "parse failure" {
		t.Fatalf("expected error key in fallback, got %v", result.Data)
	}
	if result.Data["rawText"] != gen.text {
		t.Fatalf("fallback must carry the original text, got %v", result.Data["rawText"])
	}
}

func TestInvokeRejectsEmptyUserPrompt(t *testing.T) {
	gen := &fakeGenerator{text: "{}"}
	caller := NewCaller(gen, zap.NewNop())

	_, err := caller.Invoke(context.Background(), "system", "   ", CallParams{Model: "m"})
	if err == nil {
		t.Fatal("expected validation error for empty prompt")
	}
	if pkgerrors.Kind(err) != pkgerrors.KindValidation {
		t.Fatalf("expected validation kind, got %s", pkgerrors.Kind(err))
	}
	if gen.calls != 0 {
		t.Fatalf("generator must not be invoked for empty prompt, got %d calls", gen.calls)
	}
}

func TestInvokePropagatesTransportError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("connection reset")}
	caller := NewCaller(gen, zap.NewNop())

	_, err := caller.Invoke(context.Background(), "system", "user", CallParams{Model: "m"})
	if err == nil {
		t.Fatal("expected transport error to propagate")
	}
}

func TestExtractJSONObject(t *testing.T) {
	cases := []struct {
		name  string
		text  string
		want  string
		found bool
	}{
		{"bare object", `{"a":1}`, `{"a":1}`, true},
		{"prefixed", `noise {"a":1} trailing`, `{"a":1}`, true},
		{"nested", `{"a":{"b":2}}`, `{"a":{"b":2}}`, true},
		{"brace in string", `{"a":"}"}`, `{"a":"}"}`, true},
		{"escaped quote", `{"a":"\"}\""}`, `{"a":"\"}\""}`, true},
		{"unbalanced", `{"a":1`, "", false},
		{"no object", `plain text`, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, found := ExtractJSONObject(tc.text)
			if found != tc.found || got != tc.want {
				t.Fatalf("ExtractJSONObject(%q) = %q, %v; want %q, %v", tc.text, got, found, tc.want, tc.found)
			}
		})
	}
}
