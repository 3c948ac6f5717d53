package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/adewidar/storebot/domain"
	"github.com/adewidar/storebot/utils/log"
)

func geminiReply(text string) string {
	quoted, _ := json.Marshal(text)
	return `{"candidates":[{"content":{"parts":[{"text":` + string(quoted) + `}]}}]}`
}

func TestGenerateSuccessTrimsWhitespace(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("x-goog-api-key"))
		assert.Empty(t, r.URL.Query().Get("key"))
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(geminiReply("  The Widget costs $9.99!\n")))
	}))
	defer srv.Close()

	client := NewGeminiClient("secret", srv.URL, 5*time.Second, 1)
	reply, err := client.Generate(context.Background(), "tell me about the widget")

	require.NoError(t, err)
	assert.Equal(t, "The Widget costs $9.99!", reply)

	// Request carries the prompt as the sole content part.
	prompt := gjson.GetBytes(gotBody, "contents.0.parts.0.text")
	require.True(t, prompt.Exists())
	assert.Equal(t, "tell me about the widget", prompt.String())
}

func TestGenerateNonSuccessStatusIsTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewGeminiClient("k", srv.URL, 5*time.Second, 1)
	_, err := client.Generate(context.Background(), "p")

	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestGenerateConnectionFailureIsTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	client := NewGeminiClient("k", srv.URL, time.Second, 1)
	_, err := client.Generate(context.Background(), "p")

	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestGenerateTimeoutIsTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(geminiReply("too late")))
	}))
	defer srv.Close()

	client := NewGeminiClient("k", srv.URL, 20*time.Millisecond, 1)
	_, err := client.Generate(context.Background(), "p")

	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestGenerateMalformedResponses(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not json", "not json at all"},
		{"empty object", "{}"},
		{"empty candidates", `{"candidates":[]}`},
		{"missing parts", `{"candidates":[{"content":{}}]}`},
		{"missing text", `{"candidates":[{"content":{"parts":[{}]}}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			client := NewGeminiClient("k", srv.URL, 5*time.Second, 1)
			_, err := client.Generate(context.Background(), "p")

			assert.ErrorIs(t, err, domain.ErrMalformedResponse)
		})
	}
}

func TestGenerateRetriesTransportErrors(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(geminiReply("recovered")))
	}))
	defer srv.Close()

	client := NewGeminiClient("k", srv.URL, 5*time.Second, 2)
	reply, err := client.Generate(context.Background(), "p")

	require.NoError(t, err)
	assert.Equal(t, "recovered", reply)
	assert.Equal(t, 2, calls)
}

func TestGenerateErrorsNeverCarryAPIKey(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	restore := log.SetLogger(zap.New(core))
	defer restore()

	// Unroutable endpoint: every attempt fails in transport, where
	// url.Error wraps the full request URL.
	client := NewGeminiClient("SUPERSECRETKEY", "http://127.0.0.1:1", time.Second, 2)
	_, err := client.Generate(context.Background(), "p")

	require.ErrorIs(t, err, domain.ErrTransport)
	assert.NotContains(t, err.Error(), "SUPERSECRETKEY")
	for _, entry := range logs.All() {
		for _, f := range entry.Context {
			if f.Type == zapcore.ErrorType {
				assert.NotContains(t, f.Interface.(error).Error(), "SUPERSECRETKEY")
			}
		}
	}
}

func TestGenerateSingleAttemptEmitsNoRetryWarn(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	restore := log.SetLogger(zap.New(core))
	defer restore()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewGeminiClient("k", srv.URL, time.Second, 1)
	_, err := client.Generate(context.Background(), "p")

	require.ErrorIs(t, err, domain.ErrTransport)
	assert.Zero(t, logs.FilterMessage("retrying generation").Len())
}

func TestGenerateDoesNotRetryMalformedResponses(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte("{}"))
	}))
	defer srv.Close()

	client := NewGeminiClient("k", srv.URL, 5*time.Second, 3)
	_, err := client.Generate(context.Background(), "p")

	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
	assert.Equal(t, 1, calls)
}
