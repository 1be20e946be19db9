package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rcgen/internal/refcount"
	"rcgen/pkg/layout"
)

func TestParseScriptIncDecDecref(t *testing.T) {
	src := `
# a comment, and a blank line above

inc(s, 3) : str
dec(l) : list(str)
decref(u) : int64
`
	lines, err := parseScript(src)
	require.NoError(t, err)
	require.Len(t, lines, 3)

	assert.Equal(t, layout.Str(), lines[0].layout)
	assert.Equal(t, refcount.Inc{Value: "s", Amount: 3}, lines[0].directive)

	assert.Equal(t, layout.List(layout.Str()), lines[1].layout)
	assert.Equal(t, refcount.Dec{Value: "l"}, lines[1].directive)

	assert.Equal(t, layout.Prim(layout.Int64), lines[2].layout)
	assert.Equal(t, refcount.DecRef{Value: "u"}, lines[2].directive)
}

func TestParseScriptStruct(t *testing.T) {
	lines, err := parseScript("dec(p) : struct(int64, list(int64))")
	require.NoError(t, err)
	require.Len(t, lines, 1)

	want := layout.Struct(layout.Plain(layout.Prim(layout.Int64)), layout.Plain(layout.List(layout.Prim(layout.Int64))))
	assert.Equal(t, want, lines[0].layout)
}

func TestParseScriptRejectsUnknownDirective(t *testing.T) {
	_, err := parseScript("frob(x) : str")
	assert.Error(t, err)
}

func TestParseScriptRejectsUnknownLayout(t *testing.T) {
	_, err := parseScript("dec(x) : widget")
	assert.Error(t, err)
}

func TestParseScriptRejectsMissingColon(t *testing.T) {
	_, err := parseScript("dec(x) str")
	assert.Error(t, err)
}

func TestParseScriptSkipsBlankAndCommentLines(t *testing.T) {
	lines, err := parseScript("\n# just a comment\n\n")
	require.NoError(t, err)
	assert.Empty(t, lines)
}
