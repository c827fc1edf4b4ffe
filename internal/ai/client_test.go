package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"rental-autotest/internal/config"
	"rental-autotest/internal/vocabulary"
	"rental-autotest/pkg/apperr"
	"strings"
	"testing"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Params{
		Config: &config.Config{LLMConfig: &config.LLMConfig{
			Host:    srv.URL,
			Model:   "tinyllama",
			Timeout: 5 * time.Second,
		}},
		Logger: zap.NewNop(),
		HTTP:   srv.Client(),
	})
	require.NoError(t, err)

	return c
}

func TestSystemPromptListsVocabulary(t *testing.T) {
	prompt := SystemPrompt()

	for i, e := range vocabulary.Entries() {
		assert.Contains(t, prompt, e.Example)
		assert.Contains(t, prompt, fmt.Sprintf("%d. For %s:\n", i+1, e.Purpose))
	}

	assert.True(t, strings.HasPrefix(prompt, "You are a task instruction generator"))
	assert.Contains(t, prompt, "reply **only** with a valid JSON object")
}

func TestGenerate(t *testing.T) {
	var got api.ChatRequest

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_ = json.NewEncoder(w).Encode(api.ChatResponse{
			Model:   "tinyllama",
			Message: api.Message{Role: "assistant", Content: "  {\"action\": \"reset_form\"}\n"},
			Done:    true,
		})
	})

	out, err := c.Generate(context.Background(), "reset the form")

	require.NoError(t, err)
	assert.Equal(t, `{"action": "reset_form"}`, out)
	assert.Equal(t, "tinyllama", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, SystemPrompt(), got.Messages[0].Content)
	assert.Equal(t, "User Instruction: reset the form", got.Messages[1].Content)
	require.NotNil(t, got.Stream)
	assert.False(t, *got.Stream)
	assert.Equal(t, "tinyllama", c.Model())
}

func TestGenerateModelNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model 'tinyllama' not found"}`))
	})

	_, err := c.Generate(context.Background(), "reset the form")

	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
	assert.Equal(t, "model_not_found", apperr.Reason(err))
}

func TestGenerateServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"out of memory"}`))
	})

	_, err := c.Generate(context.Background(), "reset the form")

	require.Error(t, err)
	assert.Equal(t, apperr.CodeAIError, apperr.CodeOf(err))
	assert.Contains(t, err.Error(), "out of memory")
}

func TestGenerateCanceled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(api.ChatResponse{Done: true})
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Generate(ctx, "reset the form")

	require.Error(t, err)
	assert.Equal(t, "canceled", apperr.Reason(err))
}

func TestNewClientRejectsBadHost(t *testing.T) {
	_, err := NewClient(Params{
		Config: &config.Config{LLMConfig: &config.LLMConfig{Host: "://nope"}},
		Logger: zap.NewNop(),
	})

	require.Error(t, err)
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
}
