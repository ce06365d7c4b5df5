package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "etl.json5"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, "code_log.txt", cfg.LogFile)
	require.Equal(t, "Largest_banks", cfg.Banks.Table)
	require.Equal(t, []string{"Barcelona", "Espanyol", "Girona"}, cfg.Laliga.Teams)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etl.json5")
	err := os.WriteFile(path, []byte(`{
		log_file: "etl.log",
		http: {timeout: "45s"},
		banks: {database: {url: "libsql://banks.example.turso.io"}},
		laliga: {teams: ["Girona"]},
	}`), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "etl.log", cfg.LogFile)
	require.Equal(t, "libsql://banks.example.turso.io", cfg.Banks.Database.Url)
	require.Equal(t, "Banks.db", cfg.Banks.Database.File)
	require.Equal(t, []string{"Girona"}, cfg.Laliga.Teams)
	require.Equal(t, "calendar_LaLiga.csv", cfg.Laliga.CsvPath)

	opts, err := cfg.Http.FetcherOptions()
	require.NoError(t, err)
	require.Equal(t, 45*time.Second, opts.Timeout)
}

func TestFetcherOptionsInvalidTimeout(t *testing.T) {
	_, err := HttpConfig{Timeout: "soon"}.FetcherOptions()
	require.Error(t, err)
}

func TestShippedConfigHasNoFetchTimeout(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "..", "etl.json5"))
	require.NoError(t, err)
	require.Equal(t, "code_log.txt", cfg.LogFile)

	opts, err := cfg.Http.FetcherOptions()
	require.NoError(t, err)
	require.Zero(t, opts.Timeout)
}
