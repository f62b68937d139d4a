package mutation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/XiaoConstantine/evoprompt/internal/testutil"
	"github.com/XiaoConstantine/evoprompt/pkg/core"
	"github.com/XiaoConstantine/evoprompt/pkg/errors"
	"github.com/XiaoConstantine/evoprompt/pkg/variant"
)

// writeTemplates creates template files for the given strategies in a temp dir.
func writeTemplates(t *testing.T, types ...Type) *TemplateStore {
	t.Helper()
	dir := t.TempDir()
	for _, mt := range types {
		path := filepath.Join(dir, string(mt)+".txt")
		content := "Apply " + string(mt) + " to the following problem: {problem}"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return NewTemplateStore(dir)
}

func TestMutateProducesChild(t *testing.T) {
	store := writeTemplates(t, Rephrase)
	parent := variant.New("Problem 1")
	parent.Mutations = []string{"expand"}

	llm := new(testutil.MockLLM)
	llm.On("Generate", mock.Anything,
		"Apply rephrase to the following problem: Problem 1",
		"Problem 1", mock.Anything).
		Return(&core.LLMResponse{Content: "Mutated X"}, nil)

	mutator := NewMutator(llm, store)
	child, err := mutator.Mutate(context.Background(), parent, Rephrase)
	require.NoError(t, err)

	// Completion is taken verbatim, lineage is parent's plus the new label.
	assert.Equal(t, "Mutated X", child.Content)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, parent.ID, *child.ParentID)
	assert.Equal(t, []string{"expand", "rephrase"}, child.Mutations)
	assert.False(t, child.Scored())

	llm.AssertExpectations(t)
}

func TestMutateMissingTemplate(t *testing.T) {
	store := writeTemplates(t, Rephrase) // no expand template
	parent := variant.New("Problem 1")

	mutator := NewMutator(new(testutil.MockLLM), store)
	_, err := mutator.Mutate(context.Background(), parent, Expand)
	require.Error(t, err)
	assert.Equal(t, errors.ConfigurationFailed, errors.Code(err))
}

func TestMutateBackendFailure(t *testing.T) {
	store := writeTemplates(t, Simplify)
	parent := variant.New("Problem 1")

	llm := &testutil.StubLLM{Err: errors.New(errors.LLMGenerationFailed, "backend down")}
	mutator := NewMutator(llm, store)

	_, err := mutator.Mutate(context.Background(), parent, Simplify)
	require.Error(t, err)

	// All backend failures collapse into a single mutation error carrying
	// the original message.
	assert.Equal(t, errors.MutationFailed, errors.Code(err))
	assert.Contains(t, err.Error(), "backend down")
}

func TestAddConstraintsIsDirectOperation(t *testing.T) {
	store := writeTemplates(t, AddConstraints)
	parent := variant.New("Problem 1")

	llm := &testutil.StubLLM{Content: "Constrained problem"}
	mutator := NewMutator(llm, store)

	child, err := mutator.AddConstraints(context.Background(), parent)
	require.NoError(t, err)
	assert.Equal(t, []string{"add_constraints"}, child.Mutations)

	// But the baseline random set excludes it.
	assert.NotContains(t, BaselineTypes(), AddConstraints)
	assert.Contains(t, AllTypes(), AddConstraints)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "Rewrite: X", Format("Rewrite: {problem}", "X"))
	// Templates without a placeholder pass through untouched.
	assert.Equal(t, "static", Format("static", "X"))
}
