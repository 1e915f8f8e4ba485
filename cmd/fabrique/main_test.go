package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, cmd *cobra.Command, args []string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRunCmd_WritesDebugBackendOutput(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "main.fab")
	require.NoError(t, os.WriteFile(root, []byte(`
srcs = files(a.c);
obj = action('cc -c $in -o $out', in: file[in], out: file[out]);
out = foreach s <= srcs in obj(in = s, out = s + '.o');
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.c"), []byte(""), 0o644))

	cmd := newRunCmd()
	out, errOut, err := runCmd(t, cmd, []string{root, "--out", filepath.Join(dir, "build")})
	require.NoError(t, err, errOut)
	assert.Contains(t, out, "rule(s)")

	debugOut, readErr := os.ReadFile(filepath.Join(dir, "build", "fabrique.debug"))
	require.NoError(t, readErr)
	assert.Contains(t, string(debugOut), "rules (1):")
}

func TestRunCmd_UnknownBackendWarnsButDoesNotFail(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "main.fab")
	require.NoError(t, os.WriteFile(root, []byte(`x = 1;`), 0o644))

	cmd := newRunCmd()
	_, errOut, err := runCmd(t, cmd, []string{root, "--backend", "ninja"})
	require.NoError(t, err)
	assert.Contains(t, errOut, "unknown backend")
}

func TestCheckCmd_ReportsParseErrorsAndFails(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "main.fab")
	require.NoError(t, os.WriteFile(root, []byte(`x = ;`), 0o644))

	cmd := newCheckCmd()
	_, errOut, err := runCmd(t, cmd, []string{root})
	require.Error(t, err)
	assert.NotEmpty(t, errOut)
}

func TestCheckCmd_SucceedsOnValidFile(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "main.fab")
	require.NoError(t, os.WriteFile(root, []byte(`x = 1 + 2;`), 0o644))

	cmd := newCheckCmd()
	out, _, err := runCmd(t, cmd, []string{root})
	require.NoError(t, err)
	assert.Contains(t, out, "no errors")
}

func TestPrintASTCmd_RendersPlainText(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "main.fab")
	require.NoError(t, os.WriteFile(root, []byte(`x = 1 + 2;`), 0o644))

	cmd := newPrintASTCmd()
	out, _, err := runCmd(t, cmd, []string{root})
	require.NoError(t, err)
	assert.Contains(t, out, "x")
	assert.Contains(t, out, "1")
}
