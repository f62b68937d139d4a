package main

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/XiaoConstantine/evoprompt/pkg/errors"
)

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{errors.New(errors.ValidationFailed, "topK too large"), exitValidation},
		{errors.New(errors.ConfigurationFailed, "template missing"), exitConfiguration},
		{errors.New(errors.InvalidInput, "bad key"), exitConfiguration},
		{errors.New(errors.ResourceNotFound, "seed file missing"), exitResource},
		{errors.New(errors.ResourceFailed, "disk full"), exitResource},
		{errors.New(errors.MutationFailed, "backend down"), exitMutation},
		{errors.New(errors.RateLimitExceeded, "429"), exitMutation},
		{stderrors.New("something else"), exitUnexpected},
	}

	for _, tt := range tests {
		code, category := exitCodeFor(tt.err)
		assert.Equal(t, tt.code, code, "error %v", tt.err)
		assert.NotEmpty(t, category)
	}
}
