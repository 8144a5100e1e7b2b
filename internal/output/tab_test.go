package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgenlab/paircall/internal/call"
)

func sampleResult() *call.Result {
	return &call.Result{
		RefPath:   "ref.fa",
		QueryPath: "query.fa",
		RefID:     "ref",
		QueryID:   "query",
		Variants: []call.Variant{
			{Pos: 4, RefPos: 4, Ref: 'C', Alt: 'A', Kind: call.Substitution,
				RefContext: "ATGC", QueryContext: "ATGA"},
			{Pos: 6, RefPos: 5, Ref: '-', Alt: 'T', Kind: call.Insertion,
				RefContext: "TGC-A", QueryContext: "TGATA"},
		},
		Stats: call.Stats{Transitions: 0, Transversions: 1, Ratio: 0},
	}
}

func TestTabWriter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTabWriter(&buf).WriteResult(sampleResult()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)

	assert.Equal(t, "## query vs ref: 2 variants, transitions=0 transversions=1 ts/tv=0.00", lines[0])
	assert.Equal(t, "#Pos\tRef_pos\tType\tRef\tAlt\tRef_context\tQuery_context", lines[1])
	assert.Equal(t, "4\t4\tsubstitution\tC\tA\tATGC\tATGA", lines[2])
	assert.Equal(t, "6\t5\tinsertion\t-\tT\tTGC-A\tTGATA", lines[3])
}

func TestTabWriter_NoVariants(t *testing.T) {
	var buf bytes.Buffer
	res := &call.Result{RefID: "ref", QueryID: "query"}
	require.NoError(t, NewTabWriter(&buf).WriteResult(res))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2, "summary and header only")
	assert.Contains(t, lines[0], "0 variants")
}
