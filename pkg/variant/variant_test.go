package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	v := New("Implement a caching system")

	assert.Equal(t, "Implement a caching system", v.Content)
	assert.Nil(t, v.ParentID)
	assert.Empty(t, v.Mutations)
	assert.Equal(t, 0.0, v.Score())
	assert.False(t, v.Scored())
	assert.False(t, v.CreatedAt.IsZero())
}

func TestNewGeneratesUniqueIDs(t *testing.T) {
	a := New("Problem 1")
	b := New("Problem 1")
	assert.NotEqual(t, a.ID, b.ID)
}

func TestNewChild(t *testing.T) {
	parent := New("Problem 1")
	parent.Mutations = []string{"expand"}

	child := NewChild("Mutated X", parent, "rephrase")

	require.NotNil(t, child.ParentID)
	assert.Equal(t, parent.ID, *child.ParentID)
	assert.Equal(t, []string{"expand", "rephrase"}, child.Mutations)
	assert.Equal(t, "Mutated X", child.Content)
	assert.False(t, child.Scored())

	// The child's lineage is a copy, not an alias of the parent's.
	child.Mutations[0] = "simplify"
	assert.Equal(t, []string{"expand"}, parent.Mutations)
}

func TestSetScore(t *testing.T) {
	v := New("Problem 1")
	v.SetScore(0.42)
	assert.Equal(t, 0.42, v.Score())
	assert.True(t, v.Scored())

	// A genuine zero score is still "scored".
	v.SetScore(0)
	assert.Equal(t, 0.0, v.Score())
	assert.True(t, v.Scored())
}
