// Package testutil provides shared test doubles.
package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/XiaoConstantine/evoprompt/pkg/core"
)

// MockLLM is a mock implementation of core.LLM.
type MockLLM struct {
	mock.Mock
}

func (m *MockLLM) Generate(ctx context.Context, instruction, payload string, options ...core.GenerateOption) (*core.LLMResponse, error) {
	args := m.Called(ctx, instruction, payload, options)
	if resp := args.Get(0); resp != nil {
		return resp.(*core.LLMResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLLM) ProviderName() string {
	return "mock"
}

func (m *MockLLM) ModelID() string {
	return "mock-model"
}

// StubLLM returns a fixed completion for every call, or a fixed error.
// Unlike MockLLM it needs no expectations, which keeps loop-level tests
// independent of call counts.
type StubLLM struct {
	Content string
	Err     error
	Calls   int
}

func (s *StubLLM) Generate(ctx context.Context, instruction, payload string, options ...core.GenerateOption) (*core.LLMResponse, error) {
	s.Calls++
	if s.Err != nil {
		return nil, s.Err
	}
	return &core.LLMResponse{Content: s.Content}, nil
}

func (s *StubLLM) ProviderName() string {
	return "stub"
}

func (s *StubLLM) ModelID() string {
	return "stub-model"
}
