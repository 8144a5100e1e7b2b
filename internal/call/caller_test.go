package call

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgenlab/paircall/internal/align"
)

func writeFasta(t *testing.T, dir, name, id, seq string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(">"+id+"\n"+seq+"\n"), 0644))
	return path
}

func callPair(t *testing.T, refSeq, querySeq string) *Result {
	t.Helper()
	dir := t.TempDir()
	refPath := writeFasta(t, dir, "ref.fa", "ref", refSeq)
	queryPath := writeFasta(t, dir, "query.fa", "query", querySeq)

	res, err := NewCaller(align.DefaultOptions()).Call(context.Background(), refPath, queryPath)
	require.NoError(t, err)
	return res
}

func TestCall_IdenticalSequences(t *testing.T) {
	res := callPair(t, "ATGC", "ATGC")

	assert.Equal(t, "ATGC", res.Alignment.Ref)
	assert.Equal(t, "ATGC", res.Alignment.Query)
	assert.Empty(t, res.Variants)
	assert.Equal(t, Stats{}, res.Stats)
}

func TestCall_SingleTransversion(t *testing.T) {
	res := callPair(t, "ATGC", "ATGA")

	require.Len(t, res.Variants, 1)
	v := res.Variants[0]
	assert.Equal(t, 4, v.Pos)
	assert.Equal(t, byte('C'), v.Ref)
	assert.Equal(t, byte('A'), v.Alt)
	assert.Equal(t, Substitution, v.Kind)

	assert.Equal(t, Stats{Transitions: 0, Transversions: 1, Ratio: 0}, res.Stats)
}

func TestCall_TransversionTtoG(t *testing.T) {
	res := callPair(t, "ATGC", "AGGC")

	require.Len(t, res.Variants, 1)
	assert.Equal(t, 2, res.Variants[0].Pos)
	assert.Equal(t, byte('T'), res.Variants[0].Ref)
	assert.Equal(t, byte('G'), res.Variants[0].Alt)
	assert.Equal(t, Stats{Transitions: 0, Transversions: 1, Ratio: 0}, res.Stats)
}

func TestCall_TransitionRatioZeroWithoutTransversions(t *testing.T) {
	res := callPair(t, "AAGC", "AGGC")

	require.Len(t, res.Variants, 1)
	assert.Equal(t, 2, res.Variants[0].Pos)
	assert.Equal(t, byte('A'), res.Variants[0].Ref)
	assert.Equal(t, byte('G'), res.Variants[0].Alt)
	assert.Equal(t, Stats{Transitions: 1, Transversions: 0, Ratio: 0}, res.Stats)
}

func TestCall_MissingReference(t *testing.T) {
	dir := t.TempDir()
	queryPath := writeFasta(t, dir, "query.fa", "query", "ATGC")

	_, err := NewCaller(align.DefaultOptions()).Call(context.Background(),
		filepath.Join(dir, "missing.fa"), queryPath)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCall_TruncatesBeyondCap(t *testing.T) {
	dir := t.TempDir()
	// Differences past the cap are never observed.
	refPath := writeFasta(t, dir, "ref.fa", "ref", "ATGCTTTT")
	queryPath := writeFasta(t, dir, "query.fa", "query", "ATGCGGGG")

	opts := align.DefaultOptions()
	opts.MaxLength = 4
	res, err := NewCaller(opts).Call(context.Background(), refPath, queryPath)
	require.NoError(t, err)

	assert.Equal(t, 4, res.Alignment.Len())
	assert.Empty(t, res.Variants)
}

func TestCall_StrictLengthFails(t *testing.T) {
	dir := t.TempDir()
	refPath := writeFasta(t, dir, "ref.fa", "ref", "ATGCTTTT")
	queryPath := writeFasta(t, dir, "query.fa", "query", "ATGC")

	opts := align.DefaultOptions()
	opts.MaxLength = 4
	opts.Strict = true
	_, err := NewCaller(opts).Call(context.Background(), refPath, queryPath)
	require.ErrorIs(t, err, align.ErrSequenceTooLong)
}

func TestCall_Canceled(t *testing.T) {
	dir := t.TempDir()
	refPath := writeFasta(t, dir, "ref.fa", "ref", "ATGCATGC")
	queryPath := writeFasta(t, dir, "query.fa", "query", "ATGCATGC")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCaller(align.DefaultOptions()).Call(ctx, refPath, queryPath)
	require.ErrorIs(t, err, context.Canceled)
}

func TestCall_IndelWithContext(t *testing.T) {
	res := callPair(t, "ACGTACGTAC", "ACGTAC")

	require.Len(t, res.Variants, 4)
	for _, v := range res.Variants {
		assert.Equal(t, Deletion, v.Kind)
		assert.Equal(t, byte(align.Gap), v.Alt)
		assert.LessOrEqual(t, len(v.RefContext), 2*ContextRadius+1)
		assert.Equal(t, len(v.RefContext), len(v.QueryContext))
	}
	// Deletions are excluded from both transition and transversion counts.
	assert.Equal(t, Stats{}, res.Stats)
}
