package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/huangsam/fleetrisk/internal/contract"
)

const (
	chatCompletionsPath = "/v1/chat/completions"
	temperature         = 0.3
	maxSnippetLen       = 240
)

const systemInstruction = "You are a senior fleet safety consultant. Safety is a value that cannot be " +
	"traded off, and you always put accident prevention and driver protection ahead of profit."

const promptGuidelines = `Write a safety management briefing for fleet executives.

Guidelines:
1. Treat safety as the top priority in every recommendation.
2. Focus on accident prevention, driver protection, public safety and carbon reduction rather than revenue.
3. Propose immediate coaching for high-risk (Red) drivers and systemic countermeasures.
4. Keep a professional tone and stay within 3 to 4 paragraphs.

Fleet summary (JSON):
`

var redactionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)"api[-_]?key"\s*:\s*"[^"]+"`),
	regexp.MustCompile(`(?i)"authorization"\s*:\s*"[^"]+"`),
	regexp.MustCompile(`(?i)(?:sk|rk)-[a-z0-9]{8,}`),
}

// StatusError is returned when the endpoint answers with a non-2xx status.
type StatusError struct {
	StatusCode  int
	BodySnippet string
}

func (e *StatusError) Error() string {
	if strings.TrimSpace(e.BodySnippet) == "" {
		return fmt.Sprintf("insight endpoint returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("insight endpoint returned status %d: %s", e.StatusCode, e.BodySnippet)
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// ChatClient is a Generator backed by an OpenAI-compatible endpoint.
type ChatClient struct {
	baseURL string
	model   string
	apiKey  string
	client  *http.Client
}

// NewChatClient creates a ChatClient from validated insight settings.
func NewChatClient(cfg contract.InsightConfig) (*ChatClient, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("insight base URL is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = contract.DefaultInsightModel
	}
	return &ChatClient{
		baseURL: base,
		model:   model,
		apiKey:  strings.TrimSpace(cfg.APIKey),
		client:  &http.Client{},
	}, nil
}

// Generate asks the endpoint for a briefing about summary.
func (c *ChatClient) Generate(ctx context.Context, summary Summary) (string, error) {
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return "", fmt.Errorf("marshal summary: %w", err)
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: promptGuidelines + string(summaryJSON)},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal insight request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatCompletionsPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create insight request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send insight request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read insight response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{StatusCode: resp.StatusCode, BodySnippet: safeBodySnippet(respBody)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("parse insight response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("insight response missing choices")
	}
	text := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("insight response missing choice content")
	}
	return text, nil
}

func safeBodySnippet(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	for _, pattern := range redactionPatterns {
		trimmed = pattern.ReplaceAllString(trimmed, "[REDACTED]")
	}
	if len(trimmed) > maxSnippetLen {
		return trimmed[:maxSnippetLen] + "..."
	}
	return trimmed
}
