package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVCFWriter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewVCFWriter(&buf).WriteResult(sampleResult()))

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	assert.Equal(t, "##fileformat=VCFv4.2", lines[0])
	assert.Contains(t, out, "##reference=ref.fa")
	assert.Contains(t, out, "##query=query.fa")
	assert.Contains(t, out, "##paircall_stats=transitions=0;transversions=1;ratio=0.00")
	assert.Contains(t, out, "#CHROM\tPOS\tID\tREF\tALT\tINFO")

	assert.Equal(t, "ref\t4\t.\tC\tA\tTYPE=substitution;COL=4", lines[len(lines)-2])
	assert.Equal(t, "ref\t5\t.\t-\tT\tTYPE=insertion;COL=6", lines[len(lines)-1])
}

func TestVCFWriter_HeaderOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewVCFWriter(&buf).WriteResult(sampleResult()))

	lines := strings.Split(buf.String(), "\n")

	var chromIdx, firstDataIdx int
	for i, line := range lines {
		if strings.HasPrefix(line, "#CHROM") {
			chromIdx = i
		}
		if strings.HasPrefix(line, "ref\t") && firstDataIdx == 0 {
			firstDataIdx = i
		}
	}
	assert.Greater(t, firstDataIdx, chromIdx, "data lines must follow the column header")
}
