package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootOutputFormat(t *testing.T) {
	t.Run("yaml by default", func(t *testing.T) {
		out, _, err := execute(t, "parse", "https://example.com/a")
		require.NoError(t, err)

		var rec map[string]any
		require.NoError(t, yaml.Unmarshal([]byte(out), &rec))
		assert.Equal(t, "https://example.com/a", rec["href"])
	})

	t.Run("json", func(t *testing.T) {
		out, _, err := execute(t, "-o", "json", "parse", "https://example.com/a")
		require.NoError(t, err)

		var rec urlRecord
		require.NoError(t, json.Unmarshal([]byte(out), &rec))
		assert.Equal(t, "https://example.com/a", rec.Href)
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, _, err := execute(t, "-o", "toml", "parse", "https://example.com/")
		assert.Error(t, err)
	})
}

func TestVerboseLogging(t *testing.T) {
	_, stderr, err := execute(t, "-v", "parse", "https://example.com/")
	require.NoError(t, err)
	assert.Contains(t, stderr, "parsed URL")

	_, stderr, err = execute(t, "parse", "https://example.com/")
	require.NoError(t, err)
	assert.NotContains(t, stderr, "parsed URL")
}
