package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	// Register engines so connection types validate.
	_ "github.com/leapstack-labs/leapdb/pkg/engines/all"
)

const sampleConfig = `
default_connection: main
connections:
  - id: main
    type: postgres
    host: ${LEAPDB_TEST_HOST}
    user: app
    password: ${LEAPDB_TEST_PASSWORD}
    database: shop
  - id: local
    type: sqlite
    path: data/local.db
`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("config", "", "")
	fs.StringP("connection", "c", "", "")
	fs.StringP("output", "o", "", "")
	fs.BoolP("verbose", "v", false, "")
	return fs
}

func TestLoadConfig_File(t *testing.T) {
	t.Cleanup(ResetConfig)
	t.Setenv("LEAPDB_TEST_HOST", "db.internal")
	t.Setenv("LEAPDB_TEST_PASSWORD", "s3cret")

	path := writeConfig(t, "leapdb.yaml", sampleConfig)
	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, path, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.False(t, cfg.Verbose)
	require.Len(t, cfg.Connections, 2)

	primary := cfg.Connections[0]
	assert.Equal(t, "db.internal", primary.Host)
	assert.Equal(t, "s3cret", primary.Password)
	assert.Equal(t, 5432, primary.Port)

	local := cfg.Connections[1]
	assert.Equal(t, filepath.Join(filepath.Dir(path), "data", "local.db"), local.Path)

	sel, err := cfg.SelectedConnection()
	require.NoError(t, err)
	assert.Equal(t, "main", sel.ID)
}

func TestLoadConfig_Precedence(t *testing.T) {
	t.Cleanup(ResetConfig)
	path := writeConfig(t, "leapdb.yaml", sampleConfig+"output: csv\n")

	t.Setenv("LEAPDB_OUTPUT", "json")
	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.OutputFormat, "env overrides file")

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"-o", "md", "-c", "local", "-v"}))
	cfg, err = LoadConfig(path, flags)
	require.NoError(t, err)
	assert.Equal(t, "md", cfg.OutputFormat, "flags override env")
	assert.True(t, cfg.Verbose)

	sel, err := cfg.SelectedConnection()
	require.NoError(t, err)
	assert.Equal(t, "local", sel.ID)
}

func TestLoadConfig_TOML(t *testing.T) {
	t.Cleanup(ResetConfig)
	path := writeConfig(t, "leapdb.toml", `
output = "json"

[[connections]]
id = "cache"
type = "redis"
`)
	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.OutputFormat)
	require.Len(t, cfg.Connections, 1)
	assert.Equal(t, 6379, cfg.Connections[0].Port)

	sel, err := cfg.SelectedConnection()
	require.NoError(t, err)
	assert.Equal(t, "cache", sel.ID, "single connection is selected implicitly")
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Cleanup(ResetConfig)
	tests := []struct {
		name      string
		content   string
		errSubstr string
	}{
		{"unknown engine", "connections:\n  - id: a\n    type: oracle\n", "unknown engine type"},
		{"duplicate id", "connections:\n  - {id: a, type: redis}\n  - {id: a, type: redis}\n", "duplicate connection id"},
		{"bad output", "output: xml\n", "invalid output format"},
		{"bad default", "default_connection: nope\n", "default_connection"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, "leapdb.yaml", tt.content), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	t.Cleanup(ResetConfig)
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestSelectedConnection_NoneSelected(t *testing.T) {
	cfg := &Config{Connections: []ConnectionEntry{{ID: "a"}, {ID: "b"}}}
	_, err := cfg.SelectedConnection()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--connection")
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("LEAPDB_TEST_USER", "alice")

	tests := []struct {
		in   string
		want string
	}{
		{"${LEAPDB_TEST_USER}", "alice"},
		{"pre-${LEAPDB_TEST_USER}-post", "pre-alice-post"},
		{"${LEAPDB_TEST_UNSET_VAR}", "${LEAPDB_TEST_UNSET_VAR}"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, expandEnvVars(tt.in))
	}
}

func TestGetLogger_Fallback(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))
}
