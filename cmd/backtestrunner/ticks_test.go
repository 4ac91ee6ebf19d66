package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTickCSV_ParsesValidRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ticks.csv")
	contents := "EURUSD,1.1995,1.2005,100,100,2026-01-01T00:00:00Z\n" +
		"EURUSD,1.1996,1.2006,200,150,2026-01-01T00:00:01Z\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	ticks, err := loadTickCSV(path)
	require.NoError(t, err)
	require.Len(t, ticks, 2)
	assert.Equal(t, "EURUSD", string(ticks[0].Symbol))
	assert.True(t, ticks[1].Timestamp.After(ticks[0].Timestamp))
}

func TestLoadTickCSV_RejectsMalformedRow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ticks.csv")
	require.NoError(t, os.WriteFile(path, []byte("EURUSD,1.1995,1.2005\n"), 0o600))

	_, err := loadTickCSV(path)
	assert.Error(t, err)
}

func TestLoadTickCSV_MissingFile(t *testing.T) {
	_, err := loadTickCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
