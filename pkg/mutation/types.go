// Package mutation produces child variants by asking the generation backend
// to rewrite a parent's content under a named strategy.
package mutation

// Type is a mutation-strategy label. The set is open: adding a strategy only
// requires a new prompt template file.
type Type string

const (
	Rephrase       Type = "rephrase"
	Expand         Type = "expand"
	Simplify       Type = "simplify"
	AddConstraints Type = "add_constraints"
)

// BaselineTypes returns the strategies the selection loop draws from at
// random. AddConstraints is deliberately not in this set; it is applied only
// as an explicitly requested operation.
func BaselineTypes() []Type {
	return []Type{Rephrase, Expand, Simplify}
}

// AllTypes returns every built-in strategy.
func AllTypes() []Type {
	return []Type{Rephrase, Expand, Simplify, AddConstraints}
}
