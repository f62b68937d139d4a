package llms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XiaoConstantine/evoprompt/pkg/core"
	"github.com/XiaoConstantine/evoprompt/pkg/errors"
	"github.com/XiaoConstantine/evoprompt/pkg/llms/openai"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *OpenAILLM) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	llm, err := NewOpenAILLM("test-key", core.ModelID("gpt-4"), WithOpenAIBaseURL(server.URL))
	require.NoError(t, err)
	return server, llm
}

func TestOpenAIGenerate(t *testing.T) {
	var captured openai.ChatCompletionRequest

	_, llm := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		resp := openai.ChatCompletionResponse{
			Choices: []openai.ChatChoice{
				{Message: openai.ChatCompletionMessage{Role: "assistant", Content: "Mutated X"}},
			},
			Usage: openai.CompletionUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	response, err := llm.Generate(context.Background(), "Rephrase this problem", "Problem 1")
	require.NoError(t, err)

	assert.Equal(t, "Mutated X", response.Content)
	assert.Equal(t, 15, response.Usage.TotalTokens)

	// Instruction goes out as the system message, payload as the user message.
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "Rephrase this problem", captured.Messages[0].Content)
	assert.Equal(t, "user", captured.Messages[1].Role)
	assert.Equal(t, "Problem 1", captured.Messages[1].Content)
	assert.Equal(t, "gpt-4", captured.Model)
}

func TestOpenAIGenerateNoChoices(t *testing.T) {
	_, llm := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(openai.ChatCompletionResponse{}))
	})

	_, err := llm.Generate(context.Background(), "instruction", "payload")
	require.Error(t, err)
	assert.Equal(t, errors.InvalidResponse, errors.Code(err))
}

func TestOpenAIGenerateAPIError(t *testing.T) {
	_, llm := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		require.NoError(t, json.NewEncoder(w).Encode(openai.ErrorResponse{
			Error: openai.APIError{Message: "server exploded", Type: "server_error"},
		}))
	})

	_, err := llm.Generate(context.Background(), "instruction", "payload")
	require.Error(t, err)
	assert.Equal(t, errors.LLMGenerationFailed, errors.Code(err))
	assert.Contains(t, err.Error(), "server exploded")
}

func TestOpenAIGenerateRateLimited(t *testing.T) {
	_, llm := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		require.NoError(t, json.NewEncoder(w).Encode(openai.ErrorResponse{
			Error: openai.APIError{Message: "rate limited", Type: "rate_limit_error"},
		}))
	})

	_, err := llm.Generate(context.Background(), "instruction", "payload")
	require.Error(t, err)
	assert.Equal(t, errors.RateLimitExceeded, errors.Code(err))
}

func TestNewOpenAILLMRequiresKeyForOfficialAPI(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	_, err := NewOpenAILLM("", core.ModelID("gpt-4"))
	require.Error(t, err)
	assert.Equal(t, errors.InvalidInput, errors.Code(err))

	// Custom endpoints may run without a key.
	_, err = NewOpenAILLM("", core.ModelID("gpt-4"), WithOpenAIBaseURL("http://localhost:8080"))
	assert.NoError(t, err)
}
