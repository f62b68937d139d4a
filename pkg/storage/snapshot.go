package storage

import (
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/XiaoConstantine/evoprompt/pkg/errors"
	"github.com/XiaoConstantine/evoprompt/pkg/variant"
)

// SnapshotEntry is one variant's row in a round snapshot.
type SnapshotEntry struct {
	ID        string   `yaml:"id"`
	Score     float64  `yaml:"score"`
	Mutations []string `yaml:"mutations"`
}

// Snapshot is the leaderboard document written after each round.
type Snapshot struct {
	Timestamp   string          `yaml:"timestamp"`
	RoundNumber int             `yaml:"round_number"`
	Variants    []SnapshotEntry `yaml:"variants"`
}

// NewSnapshot builds a snapshot of the population for the given round, with
// entries sorted descending by score.
func NewSnapshot(round int, population []*variant.Variant) *Snapshot {
	entries := make([]SnapshotEntry, 0, len(population))
	for _, v := range population {
		mutations := v.Mutations
		if mutations == nil {
			mutations = []string{}
		}
		entries = append(entries, SnapshotEntry{
			ID:        v.ID.String(),
			Score:     v.Score(),
			Mutations: mutations,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})

	return &Snapshot{
		Timestamp:   time.Now().Format(time.RFC3339),
		RoundNumber: round,
		Variants:    entries,
	}
}

// WriteSnapshot marshals the snapshot to YAML at path, replacing any
// previous round's file.
func WriteSnapshot(path string, snapshot *Snapshot) error {
	data, err := yaml.Marshal(snapshot)
	if err != nil {
		return errors.Wrap(err, errors.Unknown, "failed to marshal snapshot")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, errors.ResourceFailed, "failed to write snapshot")
	}
	return nil
}
