package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/piwi3910/platelayout/internal/log/logtest"
	"github.com/piwi3910/platelayout/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic_ReturnsDefaultBoards(t *testing.T) {
	s := NewStatic(0)

	boards, err := s.ListBoards(context.Background())
	require.NoError(t, err)
	require.Len(t, boards, 2)
	assert.Equal(t, "Chapa A", boards[0].Name)
	assert.Equal(t, 2750, boards[0].Width)
	assert.Equal(t, 1840, boards[0].Height)
	assert.Equal(t, 2000, boards[1].Width)
	assert.Equal(t, 1000, boards[1].Height)

	boards[0].Name = "changed"
	again, err := s.ListBoards(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Chapa A", again[0].Name, "callers get a copy")
}

func TestStatic_WaitsForDelay(t *testing.T) {
	s := NewStatic(20 * time.Millisecond)

	start := time.Now()
	_, err := s.ListBoards(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestStatic_Cancelled(t *testing.T) {
	s := NewStatic(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ListBoards(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFile_CreatesDefaultCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boards.json")
	f := &File{Path: path}

	boards, err := f.ListBoards(context.Background())
	require.NoError(t, err)
	assert.Len(t, boards, 2)
	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}

func TestFile_SkipsInvalidBoards(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boards.json")
	data := `[
		{"id": "ok", "name": "Good", "width": 100, "height": 50},
		{"id": "flat", "name": "Flat", "width": 100, "height": 0},
		{"id": "", "name": "Anonymous", "width": 10, "height": 10}
	]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	logger := new(logtest.Logger)
	f := &File{Path: path, Log: logger}

	boards, err := f.ListBoards(context.Background())
	require.NoError(t, err)
	require.Len(t, boards, 1)
	assert.Equal(t, "ok", boards[0].ID)
	assert.Contains(t, logger.String(), "Flat")
}

func TestFile_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boards.json")
	require.NoError(t, os.WriteFile(path, []byte("{{"), 0644))

	_, err := (&File{Path: path}).ListBoards(context.Background())
	assert.Error(t, err)
}

func TestFromConfig(t *testing.T) {
	cfg := model.DefaultAppConfig()

	p, err := FromConfig(cfg, nil)
	require.NoError(t, err)
	static, ok := p.(*Static)
	require.True(t, ok, "default source is static")
	assert.Equal(t, 400*time.Millisecond, static.Delay)

	cfg.CatalogSource = model.CatalogFile
	cfg.CatalogFile = "/tmp/boards.json"
	p, err = FromConfig(cfg, nil)
	require.NoError(t, err)
	file, ok := p.(*File)
	require.True(t, ok)
	assert.Equal(t, "/tmp/boards.json", file.Path)

	cfg.CatalogSource = model.CatalogSQL
	cfg.DatabaseURL = ""
	_, err = FromConfig(cfg, nil)
	assert.Error(t, err, "sql catalog without a url")

	cfg.CatalogSource = "carrier-pigeon"
	_, err = FromConfig(cfg, nil)
	assert.Error(t, err)
}
