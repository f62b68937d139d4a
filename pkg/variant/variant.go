// Package variant defines the problem-statement variant entity: one version
// of a problem with its lineage and fitness score.
package variant

import (
	"time"

	"github.com/google/uuid"
)

// Variant is a single problem statement. Content and lineage are fixed at
// construction; a mutation always produces a new Variant rather than editing
// an existing one. The score is tracked separately from a "has been scored"
// flag so that a legitimate score of 0 is distinguishable from "not yet
// scored".
type Variant struct {
	ID        uuid.UUID
	Content   string
	ParentID  *uuid.UUID // nil for seed variants
	Mutations []string   // mutation-type labels applied along this lineage
	CreatedAt time.Time

	score  float64
	scored bool
}

// New creates a seed Variant with a fresh id, no score, and empty lineage.
func New(content string) *Variant {
	return &Variant{
		ID:        uuid.New(),
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// NewChild creates a Variant derived from parent by the named mutation. The
// child's lineage is the parent's lineage with mutationType appended.
func NewChild(content string, parent *Variant, mutationType string) *Variant {
	parentID := parent.ID
	mutations := make([]string, 0, len(parent.Mutations)+1)
	mutations = append(mutations, parent.Mutations...)
	mutations = append(mutations, mutationType)

	return &Variant{
		ID:        uuid.New(),
		Content:   content,
		ParentID:  &parentID,
		Mutations: mutations,
		CreatedAt: time.Now(),
	}
}

// Score returns the fitness score, or 0 if the variant has not been scored.
func (v *Variant) Score() float64 {
	return v.score
}

// Scored reports whether a score has been assigned.
func (v *Variant) Scored() bool {
	return v.scored
}

// SetScore assigns the fitness score. Re-scoring is tolerated; the latest
// value wins.
func (v *Variant) SetScore(score float64) {
	v.score = score
	v.scored = true
}
