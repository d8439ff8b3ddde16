// Package llm holds the generation client and prompt construction.
package llm

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"

// StatusError reports a non-2xx response from the generation API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("generation API returned %d: %s", e.StatusCode, e.Body)
}

// IsRateLimited reports whether the error chain contains a 429 response.
func IsRateLimited(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusTooManyRequests
}

// Config carries the client settings, normally sourced from config.Config.LLM.
type Config struct {
	APIKey            string
	Endpoint          string
	MaxRetries        int
	RetryBackoff      time.Duration
	RequestTimeout    time.Duration
	RequestsPerMinute int
}

// Client calls a Gemini-style generateContent endpoint. Without an API key it
// produces deterministic mock briefs so the rest of the stack stays testable.
type Client struct {
	config     Config
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewClient(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = time.Second
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 15 * time.Minute
	}

	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 30
	}

	return &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		limiter:    rate.NewLimiter(rate.Limit(float64(rpm)/60.0), rpm),
	}
}

type generateRequest struct {
	Contents []struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"contents"`
	GenerationConfig struct {
		Temperature     float64 `json:"temperature"`
		MaxOutputTokens int     `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate sends the prompt and returns the raw model text. Transient status
// codes are retried with exponential backoff.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.config.APIKey == "" {
		logrus.Debug("No generation API key configured, producing mock output")
		return MockBrief(prompt), nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	body, err := encodeRequest(prompt)
	if err != nil {
		return "", err
	}

	var lastErr error
	backoff := c.config.RetryBackoff

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			logrus.WithFields(logrus.Fields{
				"attempt": attempt,
				"backoff": backoff.String(),
			}).Warn("Retrying generation request")

			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		text, err := c.doRequest(ctx, body)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if !isRetryable(err) {
			return "", err
		}
	}

	return "", fmt.Errorf("generation failed after %d retries: %w", c.config.MaxRetries, lastErr)
}

func (c *Client) doRequest(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{
			StatusCode: resp.StatusCode,
			Body:       truncateBody(string(respBody), 300),
		}
	}

	return extractText(respBody)
}

func encodeRequest(prompt string) ([]byte, error) {
	var req generateRequest
	req.Contents = make([]struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	}, 1)
	req.Contents[0].Parts = make([]struct {
		Text string `json:"text"`
	}, 1)
	req.Contents[0].Parts[0].Text = prompt
	req.GenerationConfig.Temperature = 0.4
	req.GenerationConfig.MaxOutputTokens = 900

	return json.Marshal(req)
}

// extractText pulls candidates[0].content.parts[0].text out of the response.
// A well-formed response without that structure (blocked prompt, empty
// candidates) is returned raw, so the parser downstream still produces a
// degraded brief carrying the diagnostic.
func extractText(body []byte) (string, error) {
	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("could not decode generation response: %w (body: %s)", err, truncateBody(string(body), 300))
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		logrus.WithField("body", truncateBody(string(body), 300)).
			Warn("Generation response had no candidates, passing raw body through")
		return string(body), nil
	}

	return resp.Candidates[0].Content.Parts[0].Text, nil
}

func isRetryable(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	switch se.StatusCode {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

func truncateBody(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// MockBrief returns a deterministic, well-formed brief derived from the
// prompt hash, used whenever no API key is configured.
func MockBrief(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	tag := hex.EncodeToString(sum[:])[:6]

	return fmt.Sprintf(`Title: Mock Brief %s
Overview: This is a mock brief generated without an API key. It exists so the pipeline can run end to end in development.
Bullets:
- Mock bullet one for %s
- Mock bullet two for %s
- Mock bullet three for %s
WhyItMatters: Mock output keeps local development and tests deterministic.`, tag, tag, tag, tag)
}
