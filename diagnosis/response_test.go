package diagnosis

import (
	"errors"
	"strings"
	"testing"
)

func TestInterpretShapePriority(t *testing.T) {
	// choices wins even when a webhook-style field is also present
	body := []byte(`{"choices":[{"message":{"content":"from chat"}}],"output":"from output"}`)
	got, err := Interpret(200, body)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if got != "from chat" {
		t.Fatalf("choices must take priority, got %q", got)
	}
}

func TestInterpretKnownShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"bare string", `"plain answer"`, "plain answer"},
		{"output field", `{"output":"out"}`, "out"},
		{"text field", `{"text":"txt"}`, "txt"},
		{"response field", `{"response":"resp"}`, "resp"},
		{"message field", `{"message":"msg"}`, "msg"},
		{"output beats text", `{"text":"txt","output":"out"}`, "out"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Interpret(200, []byte(tc.body))
			if err != nil {
				t.Fatalf("Interpret: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestInterpretUnknownShapeDumpsBody(t *testing.T) {
	got, err := Interpret(200, []byte(`{"weird":{"nested":123}}`))
	if err != nil {
		t.Fatalf("unknown shape must not fail: %v", err)
	}
	if !strings.Contains(got, "weird") || !strings.Contains(got, "123") {
		t.Fatalf("dump should contain the original body, got %q", got)
	}
}

func TestInterpretNonSuccessStatus(t *testing.T) {
	_, err := Interpret(503, []byte("upstream down"))
	if err == nil {
		t.Fatal("non-2xx must raise a provider error")
	}
	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("want ProviderError, got %T", err)
	}
	if provErr.StatusCode != 503 || !strings.Contains(provErr.Error(), "upstream down") {
		t.Fatalf("provider error must carry status and body: %v", provErr)
	}
}
