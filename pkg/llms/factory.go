package llms

import (
	"strings"

	"github.com/XiaoConstantine/evoprompt/pkg/core"
	"github.com/XiaoConstantine/evoprompt/pkg/errors"
)

// NewLLM creates a new LLM instance based on the provided model ID.
// Anthropic models are routed by the "claude" prefix; everything else is
// treated as an OpenAI-compatible chat model.
func NewLLM(apiKey string, modelID core.ModelID) (core.LLM, error) {
	switch {
	case strings.HasPrefix(string(modelID), "claude"):
		return NewAnthropicLLM(apiKey, modelID)
	case strings.HasPrefix(string(modelID), "gpt") || strings.HasPrefix(string(modelID), "o"):
		return NewOpenAILLM(apiKey, modelID)
	default:
		return nil, errors.WithFields(
			errors.New(errors.ConfigurationFailed, "unsupported model ID"),
			errors.Fields{"model": modelID})
	}
}
