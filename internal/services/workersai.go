package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/V1K1NGbg/cf-ai-D-D-Dungeon-Master/pkg/chat"
)

const (
	workersAIBaseURL = "https://api.cloudflare.com/client/v4/accounts"

	DefaultWorkersAIMaxTokens = 512
)

// WorkersAIService implements LLMService for Cloudflare Workers AI
var _ LLMService = (*WorkersAIService)(nil)

type WorkersAIService struct {
	accountID  string
	apiToken   string
	modelName  string
	httpClient *http.Client
}

// WorkersAIChatRequest represents the request structure for the
// Workers AI run endpoint
type WorkersAIChatRequest struct {
	Messages  []chat.ChatMessage `json:"messages"`
	MaxTokens int                `json:"max_tokens,omitempty"`
}

// WorkersAIChatResponse represents the response envelope returned by
// the Workers AI run endpoint
type WorkersAIChatResponse struct {
	Result struct {
		Response string `json:"response"`
	} `json:"result"`
	Success bool `json:"success"`
	Errors  []struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"errors,omitempty"`
}

// NewWorkersAIService creates a new Workers AI service
func NewWorkersAIService(accountID, apiToken, modelName string) *WorkersAIService {
	return &WorkersAIService{
		accountID: accountID,
		apiToken:  apiToken,
		modelName: modelName,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// InitModel initializes the model (Workers AI models are served on
// demand and need no explicit initialization)
func (s *WorkersAIService) InitModel(ctx context.Context, modelName string) error {
	if modelName != "" {
		s.modelName = modelName
	}
	return nil
}

// Chat generates a completion using the Workers AI run endpoint
func (s *WorkersAIService) Chat(ctx context.Context, messages []chat.ChatMessage, maxTokens int) (*chat.ChatResponse, error) {
	if maxTokens <= 0 {
		maxTokens = DefaultWorkersAIMaxTokens
	}

	reqBody, err := json.Marshal(WorkersAIChatRequest{
		Messages:  messages,
		MaxTokens: maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/ai/run/%s", workersAIBaseURL, s.accountID, s.modelName)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var aiResp WorkersAIChatResponse
	if err := json.Unmarshal(body, &aiResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if !aiResp.Success {
		if len(aiResp.Errors) > 0 {
			return nil, fmt.Errorf("API error %d: %s", aiResp.Errors[0].Code, aiResp.Errors[0].Message)
		}
		return nil, fmt.Errorf("API request was not successful")
	}

	return &chat.ChatResponse{
		Message: aiResp.Result.Response,
	}, nil
}
