package jpathcache

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompilePathRequiresDollarPrefix(t *testing.T) {
	_, err := compilePath("store.book")
	require.Error(t, err)
	assert.True(t, IsInvalidPath(err))
}

func TestCompilePathRejectsBareDollar(t *testing.T) {
	_, err := compilePath("$")
	require.Error(t, err)
	assert.True(t, IsInvalidPath(err))
}

func TestCompilePathDottedProperties(t *testing.T) {
	segs, err := compilePath("$.store.bicycle.color")
	require.NoError(t, err)
	require.Len(t, segs, 3)
	assert.Equal(t, PathSegment{Kind: SegProperty, Name: "store"}, segs[0])
	assert.Equal(t, PathSegment{Kind: SegProperty, Name: "bicycle"}, segs[1])
	assert.Equal(t, PathSegment{Kind: SegProperty, Name: "color"}, segs[2])
}

func TestCompilePathBracketedPropertyAndIndex(t *testing.T) {
	segs, err := compilePath(`$['store']["book"][0]`)
	require.NoError(t, err)
	require.Len(t, segs, 3)
	assert.Equal(t, PathSegment{Kind: SegProperty, Name: "store"}, segs[0])
	assert.Equal(t, PathSegment{Kind: SegProperty, Name: "book"}, segs[1])
	assert.Equal(t, PathSegment{Kind: SegIndex, Index: 0}, segs[2])
}

func TestCompilePathWildcard(t *testing.T) {
	segs, err := compilePath("$.store.book[*]")
	require.NoError(t, err)
	require.Len(t, segs, 3)
	assert.Equal(t, SegAll, segs[2].Kind)
}

func TestCompilePathNegativeIndexIsCompileError(t *testing.T) {
	_, err := compilePath("$.store.book[-1]")
	require.Error(t, err)
	assert.True(t, IsInvalidPath(err))
}

func TestCompilePathFilterSegment(t *testing.T) {
	segs, err := compilePath(`$.store.book[?(@.price<10)]`)
	require.NoError(t, err)
	require.Len(t, segs, 3)
	require.Equal(t, SegFilter, segs[2].Kind)
	require.NotNil(t, segs[2].Filter)
	require.Len(t, segs[2].Filter.Conditions, 1)
	assert.Equal(t, "price", segs[2].Filter.Conditions[0].Property)
	assert.Equal(t, OpLT, segs[2].Filter.Conditions[0].Operator)
}

func TestCompilePathFilterWithNestedParens(t *testing.T) {
	segs, err := compilePath(`$.store.book[?((@.price<10)||(@.category=="fiction"))]`)
	require.NoError(t, err)
	f := segs[len(segs)-1].Filter
	require.Equal(t, LogicalOr, f.Op)
	require.Len(t, f.Children, 2)
}

// TestCompilePathIsIdempotent is the compilation idempotence law: compiling
// the same path text twice must produce structurally identical segments.
func TestCompilePathIsIdempotent(t *testing.T) {
	const path = `$.store.book[?(@.category=="fiction" && @.price<20)]`
	a, errA := compilePath(path)
	b, errB := compilePath(path)
	require.NoError(t, errA)
	require.NoError(t, errB)

	if diff := cmp.Diff(a, b, cmpopts.IgnoreUnexported(Object{})); diff != "" {
		t.Fatalf("compiling the same path twice produced different segments (-first +second):\n%s", diff)
	}
}

func TestReadBracketHandlesQuotedKeyContainingBracketChar(t *testing.T) {
	inner, consumed, err := readBracket(`['a]b']`)
	require.NoError(t, err)
	assert.Equal(t, `'a]b'`, inner)
	assert.Equal(t, len(`['a]b']`), consumed)
}

func TestReadBracketUnclosedIsError(t *testing.T) {
	_, _, err := readBracket(`[0`)
	require.Error(t, err)
	assert.True(t, IsInvalidPath(err))
}
