package domain

// Expr is a node of a structural filter over document fields. Stores translate
// it into their native query form; a nil Expr or an empty And matches every
// document.
type Expr interface{ isExpr() }

// And matches when every child matches.
type And []Expr

// Or matches when at least one child matches. An empty Or matches nothing.
type Or []Expr

// Contains is a case-insensitive literal substring match on a string field.
type Contains struct {
	Field  string
	Substr string
}

// ElemContains matches when any element of an array field contains Substr,
// case-insensitively.
type ElemContains struct {
	Field  string
	Substr string
}

// Range bounds a numeric field inclusively; a nil bound is open.
type Range struct {
	Field    string
	Min, Max *float64
}

// AtLeast matches numeric fields >= Value.
type AtLeast struct {
	Field string
	Value float64
}

func (And) isExpr()          {}
func (Or) isExpr()           {}
func (Contains) isExpr()     {}
func (ElemContains) isExpr() {}
func (Range) isExpr()        {}
func (AtLeast) isExpr()      {}

// MatchAll is the filter selecting every document of a collection.
var MatchAll Expr = And{}
