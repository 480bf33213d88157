package jpathcache

// Builder is the fluent layer over Query described in §6: Select
// returns an independent builder; From/Limit/Where configure it; the
// terminating operations run the query exactly once. Where predicates
// compose by logical AND and run after streaming completes — they are
// never pushed into the evaluator itself.
type Builder struct {
	handle     *Handle
	path       string
	limit      int
	predicates []func(Value) bool
}

// Select starts a new Builder against h, optionally pre-seeding the
// path (equivalent to an immediate From call).
func (h *Handle) Select(path ...string) *Builder {
	b := &Builder{handle: h, limit: -1}
	if len(path) > 0 {
		b.path = path[0]
	}
	return b
}

// From sets or replaces the query path.
func (b *Builder) From(path string) *Builder {
	b.path = path
	return b
}

// Limit bounds the number of results. n <= 0 means unlimited.
func (b *Builder) Limit(n int) *Builder {
	b.limit = n
	return b
}

// Where adds a predicate; multiple Where calls compose by AND.
func (b *Builder) Where(pred func(Value) bool) *Builder {
	b.predicates = append(b.predicates, pred)
	return b
}

func (b *Builder) combinedPredicate() func(Value) bool {
	if len(b.predicates) == 0 {
		return nil
	}
	preds := append([]func(Value) bool(nil), b.predicates...)
	return func(v Value) bool {
		for _, p := range preds {
			if !p(v) {
				return false
			}
		}
		return true
	}
}

// Execute runs the query and returns every matching result.
func (b *Builder) Execute() []Value {
	opts := []QueryOption{WithLimit(b.limit)}
	if pred := b.combinedPredicate(); pred != nil {
		opts = append(opts, WithPredicate(pred))
	}
	return b.handle.Query(b.path, opts...)
}

// Map runs Execute and applies fn to every result.
func (b *Builder) Map(fn func(Value) Value) []Value {
	results := b.Execute()
	out := make([]Value, len(results))
	for i, v := range results {
		out[i] = fn(v)
	}
	return out
}

// First returns the first matching result and true, or the zero Value
// and false if there were no matches.
func (b *Builder) First() (Value, bool) {
	saved := b.limit
	b.limit = 1
	results := b.Execute()
	b.limit = saved
	if len(results) == 0 {
		return Value{}, false
	}
	return results[0], true
}

// FirstOrNull returns a pointer to the first matching result, or nil.
func (b *Builder) FirstOrNull() *Value {
	v, ok := b.First()
	if !ok {
		return nil
	}
	return &v
}

// Count returns the number of matching results.
func (b *Builder) Count() int {
	return len(b.Execute())
}
