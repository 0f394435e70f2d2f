package config

import (
	"os"
	"path/filepath"
	"testing"

	"dgrsdt/journals/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://www.dgrsdt.dz/fr/revues_A", cfg.Directory.CategoryAURL)
	assert.Equal(t, "https://www.dgrsdt.dz/fr/revues_B", cfg.Directory.CategoryBURL)
	assert.Equal(t, domain.DefaultSubcategories(), cfg.Directory.SubcategoryOrder())
	assert.Equal(t, "input.input-search-job", cfg.Directory.Selectors.SearchInput)
	assert.Equal(t, `div[data-label="Journal_Title"]`, cfg.Directory.Selectors.Title)
	assert.InDelta(t, 0.85, cfg.Matcher.Threshold, 1e-9)
	assert.Equal(t, 1, cfg.Converter.Workers)
	assert.False(t, cfg.Database.Enabled)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
directory:
  category_a_url: http://localhost:9000/a
  subcategories: [SCOPUS, CNRS]
  timeout: 5
matcher:
  threshold: 0.9
converter:
  workers: 4
redis:
  enabled: true
  port: 6380
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000/a", cfg.Directory.CategoryAURL)
	assert.Equal(t, "https://www.dgrsdt.dz/fr/revues_B", cfg.Directory.CategoryBURL)
	assert.Equal(t, []domain.SubcategoryID{domain.SubcategorySCOPUS, domain.SubcategoryCNRS}, cfg.Directory.SubcategoryOrder())
	assert.Equal(t, 5, cfg.Directory.Timeout)
	assert.InDelta(t, 0.9, cfg.Matcher.Threshold, 1e-9)
	assert.Equal(t, 4, cfg.Converter.Workers)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 6380, cfg.Redis.Port)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("MATCHER_THRESHOLD", "0.7")
	t.Setenv("CONVERTER_OUTPUT_DIR", "/tmp/out")

	cfg, err := Load(writeConfig(t, "matcher:\n  threshold: 0.9\n"))
	require.NoError(t, err)

	assert.InDelta(t, 0.7, cfg.Matcher.Threshold, 1e-9)
	assert.Equal(t, "/tmp/out", cfg.Converter.OutputDir)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("explicit path must exist", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("threshold out of range", func(t *testing.T) {
		_, err := Load(writeConfig(t, "matcher:\n  threshold: 1.5\n"))
		assert.ErrorContains(t, err, "matcher.threshold")
	})

	t.Run("workers must be positive", func(t *testing.T) {
		_, err := Load(writeConfig(t, "converter:\n  workers: 0\n"))
		assert.ErrorContains(t, err, "converter.workers")
	})
}
