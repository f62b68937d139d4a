package mutation

import (
	"context"

	"github.com/XiaoConstantine/evoprompt/pkg/core"
	"github.com/XiaoConstantine/evoprompt/pkg/errors"
	"github.com/XiaoConstantine/evoprompt/pkg/logging"
	"github.com/XiaoConstantine/evoprompt/pkg/variant"
)

// Mutator derives child variants from parents through the generation backend.
type Mutator struct {
	llm       core.LLM
	templates *TemplateStore
}

// NewMutator creates a Mutator using the given backend and template store.
func NewMutator(llm core.LLM, templates *TemplateStore) *Mutator {
	return &Mutator{
		llm:       llm,
		templates: templates,
	}
}

// Mutate produces a child of parent under the named strategy. The formatted
// template is sent as the backend instruction with the parent's content as
// the payload, and the first completion is taken verbatim as the child's
// content. A missing template surfaces as a configuration error; any backend
// failure is re-raised as a single MutationFailed error wrapping the
// original.
func (m *Mutator) Mutate(ctx context.Context, parent *variant.Variant, mutationType Type) (*variant.Variant, error) {
	logger := logging.GetLogger()

	template, err := m.templates.Load(mutationType)
	if err != nil {
		return nil, err
	}
	instruction := Format(template, parent.Content)

	response, err := m.llm.Generate(ctx, instruction, parent.Content)
	if err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.MutationFailed, "mutation failed"),
			errors.Fields{"parent_id": parent.ID, "mutation_type": mutationType})
	}

	child := variant.NewChild(response.Content, parent, string(mutationType))
	logger.Debug(ctx, "Mutated variant %s -> %s (%s)", parent.ID, child.ID, mutationType)

	return child, nil
}

// AddConstraints applies the add_constraints strategy directly. It is not
// part of the selection loop's random draw.
func (m *Mutator) AddConstraints(ctx context.Context, parent *variant.Variant) (*variant.Variant, error) {
	return m.Mutate(ctx, parent, AddConstraints)
}
