package llm

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

	"github.com/avast/retry-go/v4"
	"github.com/tidwall/gjson"

	"github.com/adewidar/storebot/domain"
	"github.com/adewidar/storebot/utils/log"
	"go.uber.org/zap"
)

// GeminiClient calls the generativelanguage REST API directly. The API key
// travels in the x-goog-api-key header, keeping it out of URLs and therefore
// out of wrapped transport errors and logs.
type GeminiClient struct {
	apiKey     string
	url        string
	attempts   int
	httpClient *http.Client
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// NewGeminiClient creates a client for the given generateContent endpoint.
// Transport failures are retried up to attempts times; malformed responses
// are not.
func NewGeminiClient(apiKey, url string, timeout time.Duration, attempts int) *GeminiClient {
	if attempts < 1 {
		attempts = 1
	}
	return &GeminiClient{
		apiKey:   apiKey,
		url:      url,
		attempts: attempts,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling generation request: %w", err)
	}

	var reply string
	err = retry.Do(
		func() error {
			var attemptErr error
			reply, attemptErr = g.generateOnce(ctx, payload)
			return attemptErr
		},
		retry.Context(ctx),
		retry.Attempts(uint(g.attempts)),
		retry.Delay(200*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, domain.ErrTransport)
		}),
		retry.OnRetry(func(n uint, err error) {
			// The hook also fires after the final attempt; only a real
			// upcoming retry is worth a warn.
			if n+1 < uint(g.attempts) {
				log.WithCtx(ctx).Warn("retrying generation", zap.Uint("attempt", n+1), zap.Error(err))
			}
		}),
	)
	return reply, err
}

func (g *GeminiClient) generateOnce(ctx context.Context, payload []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response body: %v", domain.ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d", domain.ErrTransport, resp.StatusCode)
	}

	text := gjson.GetBytes(body, "candidates.0.content.parts.0.text")
	if !text.Exists() {
		return "", fmt.Errorf("%w: missing candidates[0].content.parts[0].text", domain.ErrMalformedResponse)
	}

	return strings.TrimSpace(text.String()), nil
}
