package jpathcache

import (
	"strconv"
	"strings"
)

// parseFilter compiles the content of a `[?( ... )]` segment into a
// Filter tree, per §4.2. It never fails outright: a malformed
// expression is absorbed into an emptyFilter (matches nothing) and a
// warning is logged, matching §7's ParseFailure handling.
func parseFilter(expr string) *Filter {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return emptyFilter()
	}
	if !parensBalanced(expr) {
		log().WithField("expr", expr).Warn("jpathcache: unbalanced parentheses in filter expression")
		return emptyFilter()
	}
	return parseFilterExpr(expr)
}

func parensBalanced(expr string) bool {
	depth := 0
	var quote byte
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// parseFilterExpr implements the recursive-descent grammar: strip
// fully-wrapping outer parens, split on the lowest-precedence logical
// operator present at paren depth 0 (|| before &&), and otherwise
// parse a single comparison leaf.
func parseFilterExpr(expr string) *Filter {
	expr = stripOuterParens(strings.TrimSpace(expr))

	if idx := findTopLevelOp(expr, "||"); idx >= 0 {
		left := parseFilterExpr(expr[:idx])
		right := parseFilterExpr(expr[idx+2:])
		return &Filter{Op: LogicalOr, Children: []*Filter{left, right}}
	}
	if idx := findTopLevelOp(expr, "&&"); idx >= 0 {
		left := parseFilterExpr(expr[:idx])
		right := parseFilterExpr(expr[idx+2:])
		return &Filter{Op: LogicalAnd, Children: []*Filter{left, right}}
	}

	expr = stripOuterParens(strings.TrimSpace(expr))
	return parseCondition(expr)
}

// stripOuterParens repeatedly removes a pair of outermost parentheses
// iff they are matched and span the whole expression.
func stripOuterParens(expr string) string {
	for {
		expr = strings.TrimSpace(expr)
		if len(expr) < 2 || expr[0] != '(' || expr[len(expr)-1] != ')' {
			return expr
		}
		depth := 0
		var quote byte
		spansWhole := true
		for i := 0; i < len(expr); i++ {
			c := expr[i]
			if quote != 0 {
				if c == quote {
					quote = 0
				}
				continue
			}
			switch c {
			case '\'', '"':
				quote = c
			case '(':
				depth++
			case ')':
				depth--
				if depth == 0 && i != len(expr)-1 {
					spansWhole = false
				}
			}
		}
		if !spansWhole {
			return expr
		}
		expr = expr[1 : len(expr)-1]
	}
}

// findTopLevelOp returns the index of the first occurrence of op at
// paren depth 0 and outside quotes, or -1.
func findTopLevelOp(expr, op string) int {
	depth := 0
	var quote byte
	for i := 0; i+len(op) <= len(expr); i++ {
		c := expr[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
			continue
		case '(':
			depth++
			continue
		case ')':
			depth--
			continue
		}
		if depth == 0 && expr[i:i+len(op)] == op {
			return i
		}
	}
	return -1
}

// parseCondition parses a single `left op right` comparison. Operator
// detection mandatorily tries the two-character operators before the
// one-character ones (§4.2, §9a) — reversing the order would split
// "a<=b" into "a" "<" "=b".
func parseCondition(expr string) *Filter {
	pos, op, ok := findOperator(expr)
	if !ok {
		log().WithField("expr", expr).Warn("jpathcache: could not parse filter condition")
		return emptyFilter()
	}

	left := strings.TrimSpace(expr[:pos])
	right := strings.TrimSpace(expr[pos+len(op):])
	left = strings.TrimPrefix(left, "@.")
	left = strings.TrimPrefix(left, "@")

	if left == "" {
		log().WithField("expr", expr).Warn("jpathcache: filter condition has no property")
		return emptyFilter()
	}
	if right == "" {
		log().WithField("expr", expr).Warn("jpathcache: filter condition has no value")
		return emptyFilter()
	}

	return &Filter{
		Op:         LogicalAnd,
		Conditions: []Condition{{Property: left, Operator: op, Value: parseLiteral(right)}},
	}
}

func findOperator(expr string) (pos int, op Operator, ok bool) {
	var quote byte
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		if c == '\'' || c == '"' {
			quote = c
			continue
		}
		if i+1 < len(expr) {
			switch Operator(expr[i : i+2]) {
			case OpLE, OpGE, OpEQ, OpNE:
				return i, Operator(expr[i : i+2]), true
			}
		}
		switch c {
		case '<':
			return i, OpLT, true
		case '>':
			return i, OpGT, true
		}
	}
	return 0, "", false
}

// parseLiteral coerces a filter's right-hand operand: integer, then
// decimal, then boolean, then a quoted string (quotes stripped), else
// kept as an unquoted bareword string. Never fails (§4.2).
func parseLiteral(s string) Value {
	s = strings.TrimSpace(s)

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Value{Kind: KindInt, Int: i}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Value{Kind: KindFloat, Flt: f}
	}
	if s == "true" {
		return Value{Kind: KindBool, Bool: true}
	}
	if s == "false" {
		return Value{Kind: KindBool, Bool: false}
	}
	if isQuoted(s) {
		return Value{Kind: KindString, Str: s[1 : len(s)-1]}
	}
	return Value{Kind: KindString, Str: s}
}

// matchesFilter implements C5: match an Object value against a Filter
// tree. obj must hold KindObject; a non-object never matches (§3).
func matchesFilter(obj *Value, f *Filter) bool {
	if obj == nil || obj.Kind != KindObject || f == nil {
		return false
	}

	if len(f.Children) > 0 {
		switch f.Op {
		case LogicalOr:
			for _, child := range f.Children {
				if matchesFilter(obj, child) {
					return true
				}
			}
			return false
		default: // LogicalAnd
			for _, child := range f.Children {
				if !matchesFilter(obj, child) {
					return false
				}
			}
			return true
		}
	}

	if len(f.Conditions) == 0 {
		return false
	}
	switch f.Op {
	case LogicalOr:
		for _, c := range f.Conditions {
			if matchCondition(obj, c) {
				return true
			}
		}
		return false
	default: // LogicalAnd
		for _, c := range f.Conditions {
			if !matchCondition(obj, c) {
				return false
			}
		}
		return true
	}
}

func matchCondition(obj *Value, c Condition) bool {
	fieldVal, ok := obj.Obj.Get(c.Property)
	if !ok {
		return false
	}

	switch c.Operator {
	case OpEQ:
		return valuesEqual(fieldVal, c.Value)
	case OpNE:
		return !valuesEqual(fieldVal, c.Value)
	case OpLT, OpLE, OpGT, OpGE:
		lf, lok := asFloat(fieldVal)
		rf, rok := asFloat(c.Value)
		if !lok || !rok {
			return false
		}
		switch c.Operator {
		case OpLT:
			return lf < rf
		case OpLE:
			return lf <= rf
		case OpGT:
			return lf > rf
		case OpGE:
			return lf >= rf
		}
	}
	return false
}

// valuesEqual implements structural equality with numeric promotion:
// Integer and Float compare equal when numerically equal; a
// string/number pairing is always unequal (§4.5).
func valuesEqual(a, b Value) bool {
	af, aIsNum := asFloat(a)
	bf, bIsNum := asFloat(b)
	if aIsNum && bIsNum {
		return af == bf
	}
	if aIsNum != bIsNum {
		return false
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNull:
		return true
	case KindBool:
		return a.Bool == b.Bool
	case KindString:
		return a.Str == b.Str
	default:
		return false
	}
}

func asFloat(v Value) (float64, bool) {
	switch v.Kind {
	case KindInt:
		return float64(v.Int), true
	case KindFloat:
		return v.Flt, true
	default:
		return 0, false
	}
}
