package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Ravishyamsingh/Quiz-System/internal/config"
)

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model    string          `json:"model"`
	Messages []AIChatMessage `json:"messages"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// quizPayload is the documented provider response envelope.
type quizPayload struct {
	Questions []GeneratedQuestion `json:"questions"`
}

// ChatProvider generates questions through an OpenAI-compatible chat
// completion endpoint. Any transport, HTTP or parse failure is surfaced as a
// provider error so the generation service can fail over.
type ChatProvider struct {
	name   string
	config config.AIProviderConfig
	client *http.Client
}

func NewChatProvider(name string, cfg config.AIProviderConfig) *ChatProvider {
	return &ChatProvider{
		name:   name,
		config: cfg,
		client: &http.Client{},
	}
}

func (p *ChatProvider) Name() string {
	return p.name
}

func (p *ChatProvider) Generate(ctx context.Context, genReq GenerationRequest) ([]GeneratedQuestion, error) {
	reqBody := ChatCompletionRequest{
		Model: p.config.Model,
		Messages: []AIChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(genReq)},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}
	if result.Error != nil {
		return nil, fmt.Errorf("AI API error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("AI returned no choices")
	}

	return parseQuestions(result.Choices[0].Message.Content)
}

const systemPrompt = "You are a quiz author for an online learning platform. " +
	"You turn lesson content into multiple-choice questions and respond with JSON only, no prose and no markdown."

func buildPrompt(req GenerationRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create %d multiple-choice questions at %s difficulty from the lesson below.\n\n", req.QuestionCount, req.Difficulty)
	b.WriteString("Respond with a JSON object of the form:\n")
	b.WriteString(`{"questions":[{"question":"...","options":["...","...","...","..."],"correct_answer":"A","explanation":"..."}]}` + "\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("- exactly 4 options per question\n")
	b.WriteString("- correct_answer is the letter A, B, C or D of the right option\n")
	b.WriteString("- every question has a short explanation of the right answer\n\n")
	b.WriteString("Lesson content:\n")
	b.WriteString(req.LessonContent)
	return b.String()
}

// parseQuestions tolerates fenced or chatty model output by extracting the
// outermost JSON value before unmarshalling. Both the documented
// {"questions":[...]} envelope and a bare array are accepted.
func parseQuestions(content string) ([]GeneratedQuestion, error) {
	raw := extractJSON(content)
	if raw == "" {
		return nil, fmt.Errorf("no JSON found in AI response")
	}

	if strings.HasPrefix(raw, "[") {
		var items []GeneratedQuestion
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return nil, fmt.Errorf("malformed AI response: %w", err)
		}
		return items, nil
	}

	var payload quizPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("malformed AI response: %w", err)
	}
	return payload.Questions, nil
}

func extractJSON(content string) string {
	content = strings.TrimSpace(content)
	if idx := strings.Index(content, "```"); idx >= 0 {
		content = strings.TrimPrefix(content[idx+3:], "json")
		if end := strings.Index(content, "```"); end >= 0 {
			content = content[:end]
		}
	}
	start := strings.IndexAny(content, "[{")
	if start < 0 {
		return ""
	}
	var end int
	if content[start] == '[' {
		end = strings.LastIndex(content, "]")
	} else {
		end = strings.LastIndex(content, "}")
	}
	if end <= start {
		return ""
	}
	return strings.TrimSpace(content[start : end+1])
}
