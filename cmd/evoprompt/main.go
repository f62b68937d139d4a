// Command evoprompt evolves a population of problem statements: each round
// samples variants, mutates them through a generation backend, scores every
// candidate, and keeps the top-K.
package main

import (
	"fmt"
	"os"

	"github.com/XiaoConstantine/evoprompt/pkg/errors"
)

// Exit codes distinguish failure categories for scripting.
const (
	exitUnexpected    = 1
	exitValidation    = 2
	exitConfiguration = 3
	exitResource      = 4
	exitMutation      = 5
)

func exitCodeFor(err error) (int, string) {
	switch errors.Code(err) {
	case errors.ValidationFailed:
		return exitValidation, "Validation error"
	case errors.ConfigurationFailed, errors.InvalidInput:
		return exitConfiguration, "Configuration error"
	case errors.ResourceNotFound, errors.ResourceFailed:
		return exitResource, "Resource error"
	case errors.MutationFailed, errors.LLMGenerationFailed, errors.RateLimitExceeded, errors.Timeout:
		return exitMutation, "Mutation error"
	default:
		return exitUnexpected, "Unexpected error"
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		code, category := exitCodeFor(err)
		fmt.Fprintf(os.Stderr, "%s: %v\n", category, err)
		os.Exit(code)
	}
}
