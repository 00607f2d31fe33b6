package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectKind(t *testing.T) {
	tests := []struct {
		filename string
		want     InputKind
	}{
		{filename: "frob.pp", want: KindPackage},
		{filename: "/var/lib/selinux/frob.pp.bz2", want: KindPackage},
		{filename: "frob.pp.gz", want: KindPackage},
		{filename: "FROB.PP", want: KindPackage},
		{filename: "frob.fc", want: KindFileContexts},
		{filename: "policy/frob.FC", want: KindFileContexts},
		{filename: "frob.te", want: KindUnknown},
		{filename: "frob", want: KindUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectKind(tt.filename), "file %q", tt.filename)
	}
}

// runCheckCommand executes "semtrim check" with the given extra args and
// returns stdout.
func runCheckCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"check", "--no-color", "--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestCheckFCFile(t *testing.T) {
	dir := t.TempDir()
	usefulPath := filepath.Join(dir, "etc.fc")
	require.NoError(t, os.WriteFile(usefulPath,
		[]byte("/etc(/.*)?\tgen_context(system_u:object_r:etc_t,s0)\n"), 0o644))

	uselessPath := filepath.Join(dir, "ghost.fc")
	require.NoError(t, os.WriteFile(uselessPath,
		[]byte("/this/path/does/not/exist123\t<<none>>\n"), 0o644))

	out, err := runCheckCommand(t, usefulPath, uselessPath)
	require.NoError(t, err)
	assert.Contains(t, out, "useful\t"+usefulPath)
	assert.Contains(t, out, "not needed\t"+uselessPath)
}

func TestCheckFailsFastOnBadPattern(t *testing.T) {
	dir := t.TempDir()
	badPath := filepath.Join(dir, "bad.fc")
	require.NoError(t, os.WriteFile(badPath, []byte("/foo)\t<<none>>\n"), 0o644))
	goodPath := filepath.Join(dir, "etc.fc")
	require.NoError(t, os.WriteFile(goodPath, []byte("/etc(/.*)?\t<<none>>\n"), 0o644))

	out, err := runCheckCommand(t, badPath, goodPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), badPath)
	assert.Contains(t, err.Error(), "missing '('")
	// The batch aborts before the second file is reported.
	assert.NotContains(t, out, goodPath)
}

func TestCheckRejectsUnknownFileType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frob.te")
	require.NoError(t, os.WriteFile(path, []byte("policy_module(frob, 1.0)\n"), 0o644))

	_, err := runCheckCommand(t, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestCheckWritesReport(t *testing.T) {
	dir := t.TempDir()
	fcPath := filepath.Join(dir, "etc.fc")
	require.NoError(t, os.WriteFile(fcPath, []byte("/etc(/.*)?\t<<none>>\n"), 0o644))
	reportPath := filepath.Join(dir, "useful.txt")

	_, err := runCheckCommand(t, "--output", reportPath, fcPath)
	require.NoError(t, err)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Equal(t, fcPath+"\n", string(data))
}
