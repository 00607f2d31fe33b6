package semtrim

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsefulFromFCText(t *testing.T) {
	useful, err := UsefulFromFCText("/etc(/.*)?\tgen_context(system_u:object_r:etc_t,s0)\n")
	require.NoError(t, err)
	assert.True(t, useful)

	useful, err = UsefulFromFCText("/this/path/does/not/exist123\t<<none>>\n")
	require.NoError(t, err)
	assert.False(t, useful)
}

func TestUsefulFromPackage(t *testing.T) {
	writePkg := func(fc string) string {
		var buf bytes.Buffer
		w := func(v uint32) {
			require.NoError(t, binary.Write(&buf, binary.LittleEndian, v))
		}
		w(0xf97cff8f) // package magic
		w(1)          // version
		w(1)          // one section
		w(16)         // its offset
		w(0xf97cff90) // file-context section tag
		buf.WriteString(fc)

		path := filepath.Join(t.TempDir(), "mod.pp")
		require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
		return path
	}

	useful, err := UsefulFromPackage(writePkg("/etc(/.*)?\tsystem_u:object_r:etc_t:s0\n"))
	require.NoError(t, err)
	assert.True(t, useful)

	useful, err = UsefulFromPackage(writePkg("/no/such/path/at/all789\t<<none>>\n"))
	require.NoError(t, err)
	assert.False(t, useful)
}

func TestUsefulFromPackageBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pp")
	require.NoError(t, os.WriteFile(path, []byte("not a module package"), 0o644))

	_, err := UsefulFromPackage(path)
	require.Error(t, err)
}
