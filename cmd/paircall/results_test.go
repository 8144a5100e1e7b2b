package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgenlab/paircall/internal/store"
)

func TestOpenResultStore_MissingPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.duckdb")

	_, err := openResultStore(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no result store at")

	// The listing path must not have created an empty store as a side
	// effect.
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestOpenResultStore_ExistingStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.duckdb")

	st, err := store.Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st, err = openResultStore(path)
	require.NoError(t, err)
	defer st.Close()

	runs, err := st.Runs(0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
