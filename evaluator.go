package jpathcache

import "encoding/json"

// pathEvaluator implements C4: a single-pass, depth-first walker over
// a JSON token stream that enters only the subtrees required by a
// compiled path, honoring a result-count limit and an optional
// caller predicate applied at leaf materializations.
type pathEvaluator struct {
	limit   int // <= 0 means unlimited
	pred    func(Value) bool
	results []Value
}

func newPathEvaluator(limit int, pred func(Value) bool) *pathEvaluator {
	return &pathEvaluator{limit: limit, pred: pred}
}

func (e *pathEvaluator) reachedLimit() bool {
	return e.limit > 0 && len(e.results) >= e.limit
}

func (e *pathEvaluator) emit(v Value) {
	if e.pred != nil && !e.pred(v) {
		return
	}
	e.results = append(e.results, v)
}

// evalStream drives the evaluator over a live *json.Decoder. It is the
// entry point for a full file scan (array-cache miss / cache population).
func (e *pathEvaluator) evalStream(dec *json.Decoder, segs []PathSegment, idx int) error {
	if idx >= len(segs) {
		v, err := readValue(dec)
		if err != nil {
			return err
		}
		e.emit(v)
		return nil
	}

	if e.reachedLimit() {
		return skipValue(dec)
	}

	tok, err := dec.Token()
	if err != nil {
		return err
	}

	delim, isDelim := tok.(json.Delim)
	if !isDelim {
		return nil // scalar: path requires structure, nothing further to do (§4.4)
	}

	seg := segs[idx]
	switch delim {
	case '{':
		return e.evalObjectStream(dec, segs, idx, seg)
	case '[':
		return e.evalArrayStream(dec, segs, idx, seg)
	default:
		return &decodeError{"unexpected closing delimiter at value start"}
	}
}

func (e *pathEvaluator) evalObjectStream(dec *json.Decoder, segs []PathSegment, idx int, seg PathSegment) error {
	switch seg.Kind {
	case SegProperty:
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return err
			}
			key, _ := keyTok.(string)
			if key == seg.Name && !e.reachedLimit() {
				if err := e.evalStream(dec, segs, idx+1); err != nil {
					return err
				}
			} else if err := skipValue(dec); err != nil {
				return err
			}
		}
	case SegAll:
		for dec.More() {
			if _, err := dec.Token(); err != nil { // key
				return err
			}
			if !e.reachedLimit() {
				if err := e.evalStream(dec, segs, idx+1); err != nil {
					return err
				}
			} else if err := skipValue(dec); err != nil {
				return err
			}
		}
	default: // SegIndex, SegFilter: not applicable to an object — drain, no match
		for dec.More() {
			if _, err := dec.Token(); err != nil { // key
				return err
			}
			if err := skipValue(dec); err != nil {
				return err
			}
		}
	}
	_, err := dec.Token() // consume '}'
	return err
}

func (e *pathEvaluator) evalArrayStream(dec *json.Decoder, segs []PathSegment, idx int, seg PathSegment) error {
	switch seg.Kind {
	case SegIndex:
		i := 0
		for dec.More() {
			if i == seg.Index && !e.reachedLimit() {
				if err := e.evalStream(dec, segs, idx+1); err != nil {
					return err
				}
			} else if err := skipValue(dec); err != nil {
				return err
			}
			i++
		}
	case SegAll:
		for dec.More() {
			if !e.reachedLimit() {
				if err := e.evalStream(dec, segs, idx+1); err != nil {
					return err
				}
			} else if err := skipValue(dec); err != nil {
				return err
			}
		}
	case SegFilter:
		for dec.More() {
			val, err := readValue(dec)
			if err != nil {
				return err
			}
			if val.Kind == KindObject && matchesFilter(&val, seg.Filter) && !e.reachedLimit() {
				if err := e.evalValueDirect(val, segs, idx+1); err != nil {
					return err
				}
			}
		}
	default: // SegProperty: not applicable to an array — drain, no match
		for dec.More() {
			if err := skipValue(dec); err != nil {
				return err
			}
		}
	}
	_, err := dec.Token() // consume ']'
	return err
}

// skipValue drains one complete value (scalar or balanced container)
// off dec without materializing it — the mechanism that lets the
// evaluator ignore sibling values on a document it never fully reads.
func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, isDelim := tok.(json.Delim)
	if !isDelim || (delim != '{' && delim != '[') {
		return nil
	}
	depth := 1
	for depth > 0 {
		t, err := dec.Token()
		if err != nil {
			return err
		}
		if d, ok := t.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}

// evalValueDirect continues path evaluation on an already-materialized
// Value — used when a filter segment matches an array element (§9,
// design note: walking the materialized value directly instead of
// round-tripping through a JSON serializer). The array cache (C6) does
// not call it; scanCachedFilter applies matchesFilter to the cached list
// itself.
func (e *pathEvaluator) evalValueDirect(v Value, segs []PathSegment, idx int) error {
	if idx >= len(segs) {
		e.emit(v)
		return nil
	}
	if e.reachedLimit() {
		return nil
	}

	seg := segs[idx]
	switch v.Kind {
	case KindObject:
		switch seg.Kind {
		case SegProperty:
			if child, ok := v.Obj.Get(seg.Name); ok {
				return e.evalValueDirect(child, segs, idx+1)
			}
			return nil
		case SegAll:
			for _, key := range v.Obj.Keys() {
				if e.reachedLimit() {
					return nil
				}
				child, _ := v.Obj.Get(key)
				if err := e.evalValueDirect(child, segs, idx+1); err != nil {
					return err
				}
			}
			return nil
		default:
			return nil
		}
	case KindArray:
		switch seg.Kind {
		case SegIndex:
			if seg.Index >= 0 && seg.Index < len(v.Arr) {
				return e.evalValueDirect(v.Arr[seg.Index], segs, idx+1)
			}
			return nil
		case SegAll:
			for _, elem := range v.Arr {
				if e.reachedLimit() {
					return nil
				}
				if err := e.evalValueDirect(elem, segs, idx+1); err != nil {
					return err
				}
			}
			return nil
		case SegFilter:
			for _, elem := range v.Arr {
				if e.reachedLimit() {
					return nil
				}
				if elem.Kind == KindObject && matchesFilter(&elem, seg.Filter) {
					if err := e.evalValueDirect(elem, segs, idx+1); err != nil {
						return err
					}
				}
			}
			return nil
		default:
			return nil
		}
	default:
		return nil // scalar: path requires structure (§4.4)
	}
}

// flattenResults implements the single-element-unwrap rule (§4.4): a
// results list of exactly one element that is itself an Array is
// unwrapped one level, aligning `$.some.array` with `$.some.array[*]`
// for array targets while leaving scalar/object results intact.
func flattenResults(raw []Value) []Value {
	if len(raw) == 1 && raw[0].Kind == KindArray {
		return raw[0].Arr
	}
	return raw
}
