package toggle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// APIConfig holds configuration for the HTTP flag-evaluation client.
type APIConfig struct {
	// BaseURL is the base URL of the flag service, e.g.
	// "https://flags.example.com".
	BaseURL string
	// APIKey is sent as a bearer token.
	APIKey string
	// HTTPClient is optional; defaults to a client with a 5 second timeout.
	HTTPClient *http.Client
}

// APIClient implements FlagClient against a flag-evaluation HTTP service.
// Evaluation goes through POST /v1/evaluate with a single-flag request and
// gets back the flag's value together with its native type.
type APIClient struct {
	cfg        APIConfig
	httpClient *http.Client
}

// NewAPIClient returns an HTTP-backed flag client.
func NewAPIClient(cfg APIConfig) *APIClient {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 5 * time.Second}
	}
	return &APIClient{cfg: cfg, httpClient: hc}
}

type wireEvaluateRequest struct {
	FlagKey      string          `json:"flagKey"`
	Context      wireEvalContext `json:"context"`
	DefaultValue any             `json:"defaultValue"`
}

type wireEvalContext struct {
	ID string `json:"id"`
}

type wireEvaluateResponse struct {
	Key   string          `json:"key"`
	Type  string          `json:"type"` // "string" | "boolean"
	Value json.RawMessage `json:"value"`
}

// StringVariation evaluates a string-typed flag. A boolean-typed flag
// yields ErrWrongType; an unknown flag yields ErrFlagNotFound.
func (c *APIClient) StringVariation(ctx context.Context, flag, evalKey, defaultValue string) (string, error) {
	result, err := c.evaluate(ctx, flag, evalKey, defaultValue)
	if err != nil {
		return defaultValue, err
	}
	if result.Type != "string" {
		return defaultValue, fmt.Errorf("%w: flag %q is %s", ErrWrongType, flag, result.Type)
	}
	var value string
	if err := json.Unmarshal(result.Value, &value); err != nil {
		return defaultValue, fmt.Errorf("decode value of flag %q: %w", flag, err)
	}
	return value, nil
}

// BoolVariation evaluates a boolean-typed flag.
func (c *APIClient) BoolVariation(ctx context.Context, flag, evalKey string, defaultValue bool) (bool, error) {
	result, err := c.evaluate(ctx, flag, evalKey, defaultValue)
	if err != nil {
		return defaultValue, err
	}
	if result.Type != "boolean" {
		return defaultValue, fmt.Errorf("%w: flag %q is %s", ErrWrongType, flag, result.Type)
	}
	var value bool
	if err := json.Unmarshal(result.Value, &value); err != nil {
		return defaultValue, fmt.Errorf("decode value of flag %q: %w", flag, err)
	}
	return value, nil
}

func (c *APIClient) evaluate(ctx context.Context, flag, evalKey string, defaultValue any) (*wireEvaluateResponse, error) {
	body, err := json.Marshal(wireEvaluateRequest{
		FlagKey:      flag,
		Context:      wireEvalContext{ID: evalKey},
		DefaultValue: defaultValue,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal evaluate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/evaluate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create evaluate request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("evaluate %q: %w", flag, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrFlagNotFound, flag)
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("evaluate %q: HTTP %d: %s", flag, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var result wireEvaluateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode evaluate response for %q: %w", flag, err)
	}
	return &result, nil
}
