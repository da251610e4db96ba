package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bekirdag/cragbook/internal/logger"
)

func TestCatalogWatcher(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "catalog.sqlite")
	require.NoError(t, os.WriteFile(db, nil, 0o644))

	cw, err := watchCatalog(db, 20*time.Millisecond, logger.Discard())
	require.NoError(t, err)
	defer cw.Close()

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	select {
	case <-cw.Changes():
		t.Fatal("unexpected change for an unrelated file")
	case <-time.After(100 * time.Millisecond):
	}

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(db+"-wal", []byte{byte(i)}, 0o644))
	}
	select {
	case <-cw.Changes():
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}
	select {
	case <-cw.Changes():
		t.Fatal("burst of writes was not coalesced")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWaitForCatalogChange(t *testing.T) {
	assert.Nil(t, waitForCatalogChange(nil))

	dir := t.TempDir()
	db := filepath.Join(dir, "catalog.sqlite")
	cw, err := watchCatalog(db, 10*time.Millisecond, logger.Discard())
	require.NoError(t, err)

	cmd := waitForCatalogChange(cw)
	require.NotNil(t, cmd)
	require.NoError(t, os.WriteFile(db, []byte("x"), 0o644))
	assert.Equal(t, catalogChangedMsg{}, cmd())

	require.NoError(t, cw.Close())
	require.NoError(t, cw.Close())
	assert.Nil(t, waitForCatalogChange(cw)())
}
