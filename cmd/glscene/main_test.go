package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/glscene/internal/config"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	overrides = config.Overrides{}
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestConfigCommandPrintsMergedConfig(t *testing.T) {
	out := execute(t, "config", "--width", "1024", "--debug")

	var cfg config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, 1024, cfg.Graphics.Width)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestConfigCommandWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "config.yaml")
	execute(t, "config", path, "--fullscreen")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var cfg config.Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.True(t, cfg.Graphics.Fullscreen)
}
