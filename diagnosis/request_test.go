package diagnosis

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"liamed-backend/endpoints"
)

func customResolution(url, authType, token string) Resolution {
	return Resolution{
		Tier: TierCustom,
		Endpoint: &endpoints.Endpoint{
			URL:              url,
			Method:           http.MethodPost,
			AuthType:         authType,
			CredentialsToken: token,
			Status:           endpoints.StatusActive,
		},
	}
}

func buildAndDecode(t *testing.T, res Resolution) (*http.Request, map[string]any) {
	t.Helper()
	req, err := BuildRequest(context.Background(), res, "sys", "user msg", Request{
		PatientName: "Ana",
		UserPrompt:  "tosse",
		Exams:       []Exam{{OriginalName: "hemograma.pdf", ExtractedText: "Hb 13"}},
	})
	if err != nil {
		t.Fatalf("BuildRequest: %v", err)
	}
	raw, err := io.ReadAll(req.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	return req, body
}

func TestBodyShapeHeuristic(t *testing.T) {
	cases := []struct {
		url      string
		wantFlat bool
	}{
		{"https://api.openai.com/v1/chat/completions", false},
		{"https://llm.example.com/v1/chat", false},
		{"https://hooks.example.com/webhook/123", true},
		{"https://HOOKS.example.com/WEBHOOK/123", true},
		{"https://n8n.clinic.internal/run", true},
		{"https://hook.make.com/abc", true},
		{"https://hooks.zapier.com/catch/1", true},
	}
	for _, tc := range cases {
		t.Run(tc.url, func(t *testing.T) {
			_, body := buildAndDecode(t, customResolution(tc.url, endpoints.AuthNone, ""))
			_, flat := body["patientName"]
			if flat != tc.wantFlat {
				t.Fatalf("url %s: flat=%v, want %v", tc.url, flat, tc.wantFlat)
			}
			if tc.wantFlat {
				if body["source"] != "LiaMed-System" {
					t.Fatalf("flat body missing source tag: %v", body)
				}
				if body["message"] != "user msg" {
					t.Fatal("flat body must carry the assembled user message")
				}
			} else {
				msgs, ok := body["messages"].([]any)
				if !ok || len(msgs) != 2 {
					t.Fatalf("chat body must have two ordered messages: %v", body)
				}
				first := msgs[0].(map[string]any)
				if first["role"] != "system" {
					t.Fatal("system turn must come first")
				}
				if body["model"] == "" {
					t.Fatal("chat body must carry a model")
				}
			}
		})
	}
}

func TestAuthHeaderStrategies(t *testing.T) {
	cases := []struct {
		authType   string
		token      string
		wantHeader string
		wantValue  string
	}{
		{endpoints.AuthBearer, "tok", "Authorization", "Bearer tok"},
		{endpoints.AuthBearerToken, "tok", "Authorization", "Bearer tok"},
		{endpoints.AuthJWT, "tok", "Authorization", "Bearer tok"},
		{endpoints.AuthBasic, "dXNlcjpwYXNz", "Authorization", "Basic dXNlcjpwYXNz"},
		{endpoints.AuthBasic, "Basic dXNlcjpwYXNz", "Authorization", "Basic dXNlcjpwYXNz"},
		{endpoints.AuthAPIKey, "tok", "x-api-key", "tok"},
		{"CUSTOM_SCHEME", "tok", "Authorization", "tok"},
	}
	for _, tc := range cases {
		t.Run(tc.authType, func(t *testing.T) {
			req, _ := buildAndDecode(t, customResolution("https://ai.example.com", tc.authType, tc.token))
			if got := req.Header.Get(tc.wantHeader); got != tc.wantValue {
				t.Fatalf("%s header = %q, want %q", tc.wantHeader, got, tc.wantValue)
			}
		})
	}
}

func TestAuthHeaderAbsentWithoutToken(t *testing.T) {
	req, _ := buildAndDecode(t, customResolution("https://ai.example.com", endpoints.AuthBearer, "   "))
	if got := req.Header.Get("Authorization"); got != "" {
		t.Fatalf("no token should yield no auth header, got %q", got)
	}
}

func TestSystemTierTargetsOpenAI(t *testing.T) {
	req, body := buildAndDecode(t, Resolution{Tier: TierSystem, SystemKey: "sk-test"})
	if req.URL.String() != openAIChatURL {
		t.Fatalf("system tier URL = %s", req.URL)
	}
	if req.Header.Get("Authorization") != "Bearer sk-test" {
		t.Fatal("system tier must send the system key as a bearer token")
	}
	if _, ok := body["messages"]; !ok {
		t.Fatal("system tier must use the chat-completion shape")
	}
}
