package jpathcache

import (
	"strconv"
	"strings"
)

// compilePath lexes a textual JSONPath into an ordered []PathSegment,
// per §4.2. The leading '$' is consumed and discarded; the remainder
// is scanned left-to-right, flushing an accumulated identifier as a
// Property segment at each '.' or '['. A compiled path must contain
// at least one segment (§3's non-empty-after-'$' invariant).
func compilePath(path string) ([]PathSegment, error) {
	if len(path) == 0 || path[0] != '$' {
		return nil, &Error{Code: ErrInvalidPath, Message: "path must start with '$'"}
	}

	rest := path[1:]
	var segs []PathSegment
	var ident strings.Builder

	flush := func() {
		if ident.Len() == 0 {
			return
		}
		segs = append(segs, PathSegment{Kind: SegProperty, Name: ident.String()})
		ident.Reset()
	}

	i := 0
	for i < len(rest) {
		switch rest[i] {
		case '.':
			flush()
			i++
		case '[':
			flush()
			inner, consumed, err := readBracket(rest[i:])
			if err != nil {
				return nil, err
			}
			seg, err := parseBracketToken(inner)
			if err != nil {
				return nil, err
			}
			segs = append(segs, seg)
			i += consumed
		default:
			ident.WriteByte(rest[i])
			i++
		}
	}
	flush()

	if len(segs) == 0 {
		return nil, &Error{Code: ErrInvalidPath, Message: "path must contain at least one segment after '$'"}
	}
	return segs, nil
}

// readBracket extracts the content of a bracketed token starting at
// s[0] == '['. It tracks quote state (so a quoted key like ['a]b'] is
// not cut short) and paren depth (so a filter's own grouping
// parentheses, including ones nested inside `[?(...)]`, don't close
// the bracket early — the ']' that matters is the one at paren depth
// 0, i.e. outside any filter-mode "(...)"). Returns the content
// between the brackets (exclusive) and the number of bytes consumed
// from s, including both brackets.
func readBracket(s string) (content string, consumed int, err error) {
	depth := 0
	var quote byte
	for i := 1; i < len(s); i++ {
		c := s[i]
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
		case ']':
			if depth == 0 {
				return s[1:i], i + 1, nil
			}
		}
	}
	return "", 0, &Error{Code: ErrInvalidPath, Message: "unclosed '['"}
}

// parseBracketToken disambiguates the content of a bracketed token per
// §4.2: '*' -> wildcard, a '?'-prefixed remainder -> filter, a quoted
// string -> property (quotes stripped), a bare non-negative integer ->
// index, anything else -> property.
func parseBracketToken(inner string) (PathSegment, error) {
	inner = strings.TrimSpace(inner)

	switch {
	case inner == "*":
		return PathSegment{Kind: SegAll}, nil

	case strings.HasPrefix(inner, "?"):
		expr := strings.TrimSpace(inner[1:])
		return PathSegment{Kind: SegFilter, Filter: parseFilter(expr)}, nil

	case isQuoted(inner):
		return PathSegment{Kind: SegProperty, Name: inner[1 : len(inner)-1]}, nil

	default:
		if n, err := strconv.Atoi(inner); err == nil {
			if n < 0 {
				return PathSegment{}, &Error{Code: ErrInvalidPath, Message: "array index must be non-negative: " + inner}
			}
			return PathSegment{Kind: SegIndex, Index: n}, nil
		}
		return PathSegment{Kind: SegProperty, Name: inner}, nil
	}
}

func isQuoted(s string) bool {
	if len(s) < 2 {
		return false
	}
	return (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"')
}
