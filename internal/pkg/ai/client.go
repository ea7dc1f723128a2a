package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aliounendiaye221/J-ngatub-sub000/config"
)

var ErrMissingAPIKey = errors.New("ai: api key not configured")

// Client is a thin wrapper over an OpenAI-compatible chat completions API,
// used only to turn an exam document into quiz questions.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewClient(cfg *config.AIConfig) *Client {
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
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

// GenerateQuiz asks the model for questionCount multiple-choice questions on
// the given document and returns the raw questions JSON array.
func (c *Client) GenerateQuiz(ctx context.Context, subject, level, documentURL string, questionCount int) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	prompt := fmt.Sprintf(
		"Génère %d questions à choix multiples (4 choix, une seule bonne réponse) à partir de cette épreuve "+
			"de %s niveau %s : %s. Réponds uniquement avec un tableau JSON d'objets "+
			`{"question":"...","choices":["..."],"answer":0}.`,
		questionCount, subject, level, documentURL)

	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ai: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("ai: api error %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("ai: decode response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("ai: empty response")
	}

	content := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	// Validate the model actually returned a JSON array.
	var check []json.RawMessage
	if err := json.Unmarshal([]byte(content), &check); err != nil {
		return "", fmt.Errorf("ai: model did not return a question array: %w", err)
	}

	return content, nil
}
