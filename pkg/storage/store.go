package storage

import (
	"os"
	"path/filepath"

	"github.com/XiaoConstantine/evoprompt/pkg/errors"
	"github.com/XiaoConstantine/evoprompt/pkg/variant"
)

// Store persists variant content, one file per variant keyed by id. Files
// are written once on creation and never rewritten; variants are never
// deleted during a run.
type Store struct {
	dir string
}

// NewStore creates the output directory if needed and returns a Store.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, errors.ResourceFailed, "failed to create output directory")
	}
	return &Store{dir: dir}, nil
}

// Save writes the variant's raw content to <dir>/<id>.txt.
func (s *Store) Save(v *variant.Variant) error {
	path := filepath.Join(s.dir, v.ID.String()+".txt")
	if err := os.WriteFile(path, []byte(v.Content), 0o644); err != nil {
		return errors.WithFields(
			errors.Wrap(err, errors.ResourceFailed, "failed to save variant"),
			errors.Fields{"id": v.ID})
	}
	return nil
}

// Path returns the file path a variant is stored at.
func (s *Store) Path(v *variant.Variant) string {
	return filepath.Join(s.dir, v.ID.String()+".txt")
}
