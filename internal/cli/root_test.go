package cli

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embersql/embersql/internal/cli/config"
)

func TestRootCmd_Version(t *testing.T) {
	t.Chdir(t.TempDir())
	config.ResetConfig()

	cmd := NewRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "EmberSQL v")
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	cmd := NewRootCmd()

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["lsp"])
	assert.True(t, names["scan"])
	assert.True(t, names["version"])
}

func TestRootCmd_InvalidConfigFails(t *testing.T) {
	t.Chdir(t.TempDir())
	config.ResetConfig()
	writeConfigFile(t, "detection:\n  max_paren_scan: 0\n")

	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"version"})

	require.Error(t, cmd.Execute())
}

func writeConfigFile(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile("embersql.yaml", []byte(content), 0o644))
}
