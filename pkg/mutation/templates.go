package mutation

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/XiaoConstantine/evoprompt/pkg/errors"
)

// placeholder is the single substitution point in a prompt template.
const placeholder = "{problem}"

// TemplateStore loads prompt templates from a directory, one file per
// strategy named "<type>.txt". A missing file is a hard configuration error.
type TemplateStore struct {
	dir string
}

// NewTemplateStore creates a store rooted at dir.
func NewTemplateStore(dir string) *TemplateStore {
	return &TemplateStore{dir: dir}
}

// Load returns the raw template for the given strategy.
func (s *TemplateStore) Load(mutationType Type) (string, error) {
	path := filepath.Join(s.dir, string(mutationType)+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.WithFields(
				errors.New(errors.ConfigurationFailed, "prompt template not found"),
				errors.Fields{"path": path, "mutation_type": mutationType})
		}
		return "", errors.Wrap(err, errors.ResourceFailed, "failed to read prompt template")
	}
	return string(data), nil
}

// Format substitutes the parent content into the template.
func Format(template, content string) string {
	return strings.ReplaceAll(template, placeholder, content)
}
