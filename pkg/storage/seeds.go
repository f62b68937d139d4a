// Package storage handles durable state for a run: seed input, per-variant
// content files, round snapshots, and the lineage index.
package storage

import (
	"bufio"
	"os"
	"strings"

	"github.com/XiaoConstantine/evoprompt/pkg/errors"
	"github.com/XiaoConstantine/evoprompt/pkg/variant"
)

// LoadSeeds reads seed variants from a newline-delimited text file: one
// variant per non-blank line, with surrounding whitespace trimmed.
func LoadSeeds(path string) ([]*variant.Variant, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WithFields(
				errors.New(errors.ResourceNotFound, "seed file not found"),
				errors.Fields{"path": path})
		}
		return nil, errors.Wrap(err, errors.ResourceFailed, "failed to open seed file")
	}
	defer f.Close()

	var seeds []*variant.Variant
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		seeds = append(seeds, variant.New(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ResourceFailed, "failed to read seed file")
	}

	return seeds, nil
}
