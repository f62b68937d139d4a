package llms

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/XiaoConstantine/evoprompt/pkg/core"
	"github.com/XiaoConstantine/evoprompt/pkg/errors"
	"github.com/XiaoConstantine/evoprompt/pkg/llms/openai"
)

// OpenAILLM implements the core.LLM interface for OpenAI's models.
type OpenAILLM struct {
	*core.BaseLLM
	baseURL    string
	path       string
	headers    map[string]string
	httpClient *http.Client
}

// OpenAIOption is a functional option for configuring the OpenAI provider.
type OpenAIOption func(*OpenAILLM)

// WithOpenAIBaseURL sets the base URL.
func WithOpenAIBaseURL(baseURL string) OpenAIOption {
	return func(o *OpenAILLM) { o.baseURL = baseURL }
}

// WithOpenAIPath sets the endpoint path.
func WithOpenAIPath(path string) OpenAIOption {
	return func(o *OpenAILLM) { o.path = path }
}

// WithOpenAITimeout sets the request timeout.
func WithOpenAITimeout(timeout time.Duration) OpenAIOption {
	return func(o *OpenAILLM) { o.httpClient.Timeout = timeout }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) OpenAIOption {
	return func(o *OpenAILLM) { o.httpClient = client }
}

// NewOpenAILLM creates a new OpenAILLM instance with functional options.
func NewOpenAILLM(apiKey string, modelID core.ModelID, opts ...OpenAIOption) (*OpenAILLM, error) {
	// Environment variable fallback for API key
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	o := &OpenAILLM{
		BaseLLM:    core.NewBaseLLM("openai", modelID),
		baseURL:    "https://api.openai.com", // default
		path:       "/v1/chat/completions",
		headers:    map[string]string{"Content-Type": "application/json"},
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}

	for _, opt := range opts {
		opt(o)
	}

	// API key validation - required for the official OpenAI API endpoint
	if apiKey == "" && o.baseURL == "https://api.openai.com" {
		return nil, errors.WithFields(
			errors.New(errors.InvalidInput, "OpenAI API key is required for api.openai.com"),
			errors.Fields{"env_var": "OPENAI_API_KEY"})
	}
	if apiKey != "" {
		o.headers["Authorization"] = "Bearer " + apiKey
	}

	return o, nil
}

// Generate implements the core.LLM interface. The instruction is sent as the
// system message and the payload as the user message; the first choice's
// content is returned verbatim.
func (o *OpenAILLM) Generate(ctx context.Context, instruction, payload string, options ...core.GenerateOption) (*core.LLMResponse, error) {
	opts := core.NewGenerateOptions()
	for _, opt := range options {
		opt(opts)
	}

	request := &openai.ChatCompletionRequest{
		Model: o.ModelID(),
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    "system",
				Content: instruction,
			},
			{
				Role:    "user",
				Content: payload,
			},
		},
		MaxTokens:   &opts.MaxTokens,
		Temperature: &opts.Temperature,
	}

	response, err := o.makeRequest(ctx, request)
	if err != nil {
		return nil, err
	}

	if len(response.Choices) == 0 {
		return nil, errors.New(errors.InvalidResponse, "no choices returned from OpenAI API")
	}

	usage := &core.TokenInfo{
		PromptTokens:     response.Usage.PromptTokens,
		CompletionTokens: response.Usage.CompletionTokens,
		TotalTokens:      response.Usage.TotalTokens,
	}

	return &core.LLMResponse{
		Content: response.Choices[0].Message.Content,
		Usage:   usage,
	}, nil
}

func (o *OpenAILLM) makeRequest(ctx context.Context, request *openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error) {
	jsonData, err := json.Marshal(request)
	if err != nil {
		return nil, errors.Wrap(err, errors.InvalidInput, "failed to marshal request")
	}

	url := o.baseURL + o.path

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, errors.Wrap(err, errors.Unknown, "failed to create request")
	}

	for key, value := range o.headers {
		req.Header.Set(key, value)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.LLMGenerationFailed, "request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, errors.LLMGenerationFailed, "failed to read response")
	}

	if resp.StatusCode != http.StatusOK {
		code := errors.LLMGenerationFailed
		if resp.StatusCode == http.StatusTooManyRequests {
			code = errors.RateLimitExceeded
		}
		var errorResp openai.ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil || errorResp.Error.Message == "" {
			return nil, errors.WithFields(
				errors.New(code, "API request failed"),
				errors.Fields{"status": resp.StatusCode, "body": string(body)})
		}
		return nil, errors.WithFields(
			errors.New(code, errorResp.Error.Message),
			errors.Fields{"type": errorResp.Error.Type, "code": errorResp.Error.Code})
	}

	var response openai.ChatCompletionResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, errors.Wrap(err, errors.InvalidResponse, "failed to parse response")
	}

	return &response, nil
}
