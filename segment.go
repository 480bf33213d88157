package jpathcache

// SegKind tags a PathSegment's variant.
type SegKind int

const (
	// SegProperty matches an exact key in an object.
	SegProperty SegKind = iota
	// SegIndex selects a single, non-negative array element.
	SegIndex
	// SegAll is the wildcard: every element of an array, every value of an object.
	SegAll
	// SegFilter selects array elements whose materialized object satisfies a Filter.
	SegFilter
)

// PathSegment is one navigation step in a compiled path, per §3.
type PathSegment struct {
	Kind   SegKind
	Name   string  // SegProperty
	Index  int     // SegIndex
	Filter *Filter // SegFilter
}

// LogicalOp combines either the Conditions of a leaf Filter or the
// Children of an internal Filter node.
type LogicalOp int

const (
	LogicalAnd LogicalOp = iota
	LogicalOr
)

// Operator is a filter condition's comparison operator.
type Operator string

const (
	OpLT Operator = "<"
	OpLE Operator = "<="
	OpEQ Operator = "=="
	OpNE Operator = "!="
	OpGE Operator = ">="
	OpGT Operator = ">"
)

// Condition is a single `property operator value` comparison.
type Condition struct {
	Property string
	Operator Operator
	Value    Value
}

// Filter is either a leaf (Conditions combined by Op) or an internal
// node (Children combined by Op) — never both, per §3. An empty leaf
// (no Conditions) and an empty internal node (no Children) both match
// nothing, which is how a malformed filter expression is absorbed
// (§4.2: "Failed parses yield an empty filter").
type Filter struct {
	Op         LogicalOp
	Conditions []Condition
	Children   []*Filter
}

// emptyFilter returns a Filter that never matches — the sink for any
// parse failure in the filter grammar.
func emptyFilter() *Filter {
	return &Filter{Op: LogicalAnd}
}
