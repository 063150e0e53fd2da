package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treeflat/pkg/config"
	"treeflat/pkg/filter"
	"treeflat/pkg/version"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := runCapture(t, args...)
	return out, err
}

// runCapture executes the root command and returns stdout and stderr.
func runCapture(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(config.EnvConfig, "")
	var out, errOut bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&errOut)
	RootCmd.SetArgs(args)
	t.Cleanup(func() {
		RootCmd.SetOut(nil)
		RootCmd.SetErr(nil)
		RootCmd.SetArgs(nil)
	})
	err := RootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRulesDefaults(t *testing.T) {
	out, err := run(t, "rules", "defaults")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, len(filter.DefaultRules()))
	assert.Contains(t, lines, `\.min\.(js|css)$`)
}

func TestRulesCheck(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.rules")
	require.NoError(t, os.WriteFile(good, []byte("# comment\n\\.md$\n^build$\n"), 0644))
	bad := filepath.Join(dir, "bad.rules")
	require.NoError(t, os.WriteFile(bad, []byte("ok$\n(open\n[z-a]\n"), 0644))

	out, err := run(t, "rules", "check", good)
	require.NoError(t, err)
	assert.Contains(t, out, "2: \\.md$\n")
	assert.Contains(t, out, "3: ^build$\n")
	assert.Contains(t, out, "2 rule(s) OK")

	out, err = run(t, "rules", "check", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 invalid rule(s)")
	assert.Contains(t, out, `2: invalid "(open"`)
	assert.Contains(t, out, `3: invalid "[z-a]"`)
}

func TestVersionShort(t *testing.T) {
	out, err := run(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, version.Version+"\n", out)
}

func TestCombineToStdout(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("hello"), 0644))

	out, err := run(t, "combine", root)
	require.NoError(t, err)
	assert.Equal(t, "├───"+filepath.Base(root)+"/\n│   ├───a.txt\n│   │       hello\n", out)
}

func TestCombineProgressOnTerminal(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("hello"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.txt"), []byte("bye"), 0644))

	prev := isTerminal
	isTerminal = func(io.Writer) bool { return true }
	t.Cleanup(func() {
		isTerminal = prev
		require.NoError(t, combineCmd.Flags().Set("progress", "false"))
	})

	out, errOut, err := runCapture(t, "combine", "--progress", root)
	require.NoError(t, err)
	assert.Contains(t, out, "hello")
	assert.Contains(t, errOut, "Processing a.txt")
	assert.Contains(t, errOut, "Processing b.txt")
	assert.NotContains(t, out, "Processing")
}

func TestCombineProgressNotATerminal(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("hello"), 0644))
	t.Cleanup(func() {
		require.NoError(t, combineCmd.Flags().Set("progress", "false"))
	})

	_, errOut, err := runCapture(t, "combine", "--progress", root)
	require.NoError(t, err)
	assert.NotContains(t, errOut, "Processing")
}
