package diagnosis

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"liamed-backend/endpoints"
)

// openAIChatURL is the target of the system-default tier.
const openAIChatURL = "https://api.openai.com/v1/chat/completions"

const chatModel = "gpt-4o-mini"

const sourceTag = "LiaMed-System"

// payload bundles everything a body builder may need.
type payload struct {
	SystemInstruction string
	UserMessage       string
	Request           Request
	Now               time.Time
}

// bodyShape is one named way of serializing a dispatch. Shapes are probed in
// order; the first match builds the body.
type bodyShape struct {
	name    string
	matches func(rawURL string) bool
	build   func(p payload) any
}

// Generic-automation platforms receive the flat payload; everything else gets
// the chat-completion format. Substring matching is ambiguous on purpose: it
// lets one dispatcher serve both kinds of providers without per-provider
// configuration. A real LLM URL containing one of these markers would be
// misclassified; there is no per-endpoint override yet.
var webhookMarkers = []string{"webhook", "n8n", "make.com", "zapier"}

var bodyShapes = []bodyShape{
	{
		name: "webhook-flat",
		matches: func(rawURL string) bool {
			lower := strings.ToLower(rawURL)
			for _, marker := range webhookMarkers {
				if strings.Contains(lower, marker) {
					return true
				}
			}
			return false
		},
		build: webhookBody,
	},
	{
		name:    "chat-completion",
		matches: func(string) bool { return true },
		build:   chatBody,
	},
}

type webhookExam struct {
	Filename string `json:"filename"`
	Text     string `json:"text"`
}

func webhookBody(p payload) any {
	exams := make([]webhookExam, 0, len(p.Request.Exams))
	for _, e := range p.Request.Exams {
		if e.ExtractedText == "" {
			continue
		}
		exams = append(exams, webhookExam{Filename: e.OriginalName, Text: e.ExtractedText})
	}
	return map[string]any{
		"patientName":       p.Request.PatientName,
		"userPrompt":        p.Request.UserPrompt,
		"complementaryData": p.Request.ComplementaryData,
		"exams":             exams,
		"systemInstruction": p.SystemInstruction,
		"message":           p.UserMessage,
		"timestamp":         p.Now.UTC().Format(time.RFC3339),
		"source":            sourceTag,
	}
}

func chatBody(p payload) any {
	return openai.ChatCompletionRequest{
		Model: chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.SystemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: p.UserMessage},
		},
		Temperature: 0.7,
	}
}

// shapeFor returns the first body shape whose predicate accepts the URL. The
// final shape matches everything, so this is total.
func shapeFor(rawURL string) bodyShape {
	for _, s := range bodyShapes {
		if s.matches(rawURL) {
			return s
		}
	}
	return bodyShapes[len(bodyShapes)-1]
}

// BuildRequest produces the authenticated outbound HTTP request for a custom
// or system-default resolution. The simulated tier never reaches here.
func BuildRequest(ctx context.Context, res Resolution, systemInstruction, userMessage string, req Request) (*http.Request, error) {
	url := openAIChatURL
	method := http.MethodPost
	authType := endpoints.AuthBearer
	token := res.SystemKey
	if res.Tier == TierCustom {
		url = res.Endpoint.URL
		if res.Endpoint.Method != "" {
			method = res.Endpoint.Method
		}
		authType = res.Endpoint.AuthType
		token = res.Endpoint.CredentialsToken
	}

	p := payload{
		SystemInstruction: systemInstruction,
		UserMessage:       userMessage,
		Request:           req,
		Now:               time.Now(),
	}
	body, err := json.Marshal(shapeFor(url).build(p))
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	endpoints.ApplyAuth(httpReq.Header, authType, token)
	return httpReq, nil
}
