package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/symptom-intake-server/internal/domain"
)

// HuggingFaceClient calls the Hugging Face inference API to run a
// clinical text model over merged symptom text. Results are advisory
// only; the intake path never blocks on them.
type HuggingFaceClient struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
	rateLimit  *rate.Limiter
	retryCount int
}

// NewHuggingFaceClient creates a new inference API client
func NewHuggingFaceClient(config domain.EnrichmentConfig) *HuggingFaceClient {
	limit := config.RateLimit
	if limit <= 0 {
		limit = 1
	}
	return &HuggingFaceClient{
		baseURL: strings.TrimSuffix(config.BaseURL, "/") + "/",
		model:   config.Model,
		apiKey:  config.APIKey,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		rateLimit:  rate.NewLimiter(rate.Limit(limit), limit),
		retryCount: config.RetryCount,
	}
}

// inferenceRequest is the request body for the inference API
type inferenceRequest struct {
	Inputs string `json:"inputs"`
}

// Analyze submits the text to the model and returns the decoded
// response wrapped with the model name.
func (c *HuggingFaceClient) Analyze(ctx context.Context, text string) (map[string]interface{}, error) {
	if err := c.rateLimit.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	body, err := json.Marshal(inferenceRequest{Inputs: text})
	if err != nil {
		return nil, fmt.Errorf("marshaling inference request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.retryCount; attempt++ {
		if attempt > 0 {
			// Model cold starts are the common retry case, back off briefly
			select {
			case <-time.After(time.Duration(attempt) * time.Second):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, retryable, err := c.doRequest(ctx, body)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}

	return nil, lastErr
}

func (c *HuggingFaceClient) doRequest(ctx context.Context, body []byte) (map[string]interface{}, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.model, bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("creating inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("calling inference API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("reading inference response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		// 503 means the model is still loading and is worth retrying
		retryable := resp.StatusCode == http.StatusServiceUnavailable || resp.StatusCode >= 500
		return nil, retryable, fmt.Errorf("inference API returned %d: %s", resp.StatusCode, string(respBody))
	}

	// The API returns either an object or an array depending on the task
	var decoded interface{}
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, false, fmt.Errorf("decoding inference response: %w", err)
	}

	return map[string]interface{}{
		"model":   c.model,
		"results": decoded,
	}, false, nil
}
