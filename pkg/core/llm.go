package core

import (
	"context"
)

// ModelID represents a generation model identifier.
type ModelID string

// TokenInfo tracks token usage for a single backend call.
type TokenInfo struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// LLMResponse encapsulates a single completion from the backend.
type LLMResponse struct {
	Content string
	Usage   *TokenInfo
}

// LLM is the generation backend capability: one operation producing a
// completion from a system-role instruction and a user-role payload.
// Implementations take the first returned completion verbatim.
type LLM interface {
	// Generate produces a text completion for the given instruction and payload.
	Generate(ctx context.Context, instruction, payload string, options ...GenerateOption) (*LLMResponse, error)

	ProviderName() string
	ModelID() string
}

// GenerateOption represents an option for text generation.
type GenerateOption func(*GenerateOptions)

// GenerateOptions holds configuration for text generation.
type GenerateOptions struct {
	MaxTokens   int
	Temperature float64
}

// NewGenerateOptions creates GenerateOptions with default values.
func NewGenerateOptions() *GenerateOptions {
	return &GenerateOptions{
		MaxTokens:   2048,
		Temperature: 0.7,
	}
}

// WithMaxTokens sets the maximum number of tokens to generate.
func WithMaxTokens(n int) GenerateOption {
	return func(o *GenerateOptions) {
		o.MaxTokens = n
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temp float64) GenerateOption {
	return func(o *GenerateOptions) {
		o.Temperature = temp
	}
}

// BaseLLM provides common provider/model bookkeeping for LLM implementations.
type BaseLLM struct {
	providerName string
	modelID      ModelID
}

// NewBaseLLM creates a new BaseLLM.
func NewBaseLLM(providerName string, modelID ModelID) *BaseLLM {
	return &BaseLLM{
		providerName: providerName,
		modelID:      modelID,
	}
}

func (b *BaseLLM) ProviderName() string {
	return b.providerName
}

func (b *BaseLLM) ModelID() string {
	return string(b.modelID)
}
