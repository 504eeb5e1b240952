package agents

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/launchforge/accel-api/internal/logger"
)

const (
	defaultTimeout = 60 * time.Second
	maxRetries     = 2
	retryDelay     = 2 * time.Second
)

// HTTPAssessmentAgent calls a remote assessment service over HTTP
type HTTPAssessmentAgent struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     logger.Logger
}

// NewHTTPAssessmentAgent creates an assessment client for the given base URL
func NewHTTPAssessmentAgent(baseURL, apiKey string, log logger.Logger) *HTTPAssessmentAgent {
	return &HTTPAssessmentAgent{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: log,
	}
}

// Assess sends application material to the remote agent and decodes its judgment
func (a *HTTPAssessmentAgent) Assess(ctx context.Context, input AssessmentInput) (*Assessment, error) {
	var assessment Assessment
	if err := postJSON(ctx, a.httpClient, a.logger, a.apiKey, a.baseURL+"/v1/assess", input, &assessment); err != nil {
		return nil, fmt.Errorf("assessment agent: %w", err)
	}
	if assessment.GeneratedAt.IsZero() {
		assessment.GeneratedAt = time.Now()
	}
	return &assessment, nil
}

func postJSON(ctx context.Context, client *http.Client, log logger.Logger, apiKey, url string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			log.Warn("Retrying agent request", "url", url, "attempt", attempt)
			select {
			case <-time.After(retryDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+apiKey)
		}

		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response: %w", err)
			continue
		}

		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("agent returned status %d: %s", resp.StatusCode, string(respBody))
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("agent returned status %d: %s", resp.StatusCode, string(respBody))
		}

		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	}
	return lastErr
}

// HTTPMatchmakingAgent calls a remote matchmaking service over HTTP
type HTTPMatchmakingAgent struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     logger.Logger
}

// NewHTTPMatchmakingAgent creates a matchmaking client for the given base URL
func NewHTTPMatchmakingAgent(baseURL, apiKey string, log logger.Logger) *HTTPMatchmakingAgent {
	return &HTTPMatchmakingAgent{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: log,
	}
}

// FindMatches sends the candidate pool to the remote agent and decodes its ranking
func (a *HTTPMatchmakingAgent) FindMatches(ctx context.Context, input FindMatchesInput) (*FindMatchesOutput, error) {
	var out FindMatchesOutput
	if err := postJSON(ctx, a.httpClient, a.logger, a.apiKey, a.baseURL+"/v1/matches", input, &out); err != nil {
		return nil, fmt.Errorf("matchmaking agent: %w", err)
	}
	return &out, nil
}
