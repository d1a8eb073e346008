package relversion

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()
	testcases := map[string]bool{
		"1.0.2":       true,
		"0.0.0":       true,
		"12.34.56":    true,
		"1.0":         false,
		"1":           false,
		"1.2.3.4":     false,
		"1.0.2-rc1":   false,
		"1.0.2+build": false,
		"v1.0.2x":     false,
		"":            false,
		"banana":      false,
	}
	for in, ok := range testcases {
		in, ok := in, ok
		t.Run(fmt.Sprintf("%q", in), func(t *testing.T) {
			t.Parallel()
			v, err := Parse(in)
			if ok {
				require.NoError(t, err)
				assert.Equal(t, in, v.String())
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestFileRoundTrip(t *testing.T) {
	t.Parallel()
	filename := filepath.Join(t.TempDir(), ".version")

	err := quick.Check(func(major, minor, patch uint8) bool {
		in, err := Parse(fmt.Sprintf("%d.%d.%d", major, minor, patch))
		if err != nil {
			return false
		}
		if err := WriteFile(filename, in); err != nil {
			return false
		}
		out, err := ReadFile(filename)
		return err == nil && out.Equal(in) && out.String() == in.String()
	}, nil)
	assert.NoError(t, err)
}

func TestReadFile(t *testing.T) {
	t.Parallel()
	tmpdir := t.TempDir()

	filename := filepath.Join(tmpdir, ".version")
	require.NoError(t, os.WriteFile(filename, []byte("1.2.3\n"), 0o644))
	v, err := ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", v.String())

	bad := filepath.Join(tmpdir, ".version-bad")
	require.NoError(t, os.WriteFile(bad, []byte("not a version\n"), 0o644))
	_, err = ReadFile(bad)
	assert.Error(t, err)

	_, err = ReadFile(filepath.Join(tmpdir, "does-not-exist"))
	assert.Error(t, err)
}

func TestBump(t *testing.T) {
	t.Parallel()
	start, err := Parse("1.2.3")
	require.NoError(t, err)

	testcases := map[Part]string{
		Patch: "1.2.4",
		Minor: "1.3.0",
		Major: "2.0.0",
	}
	for part, expected := range testcases {
		next, err := Bump(start, part)
		require.NoError(t, err)
		assert.Equal(t, expected, next.String())
	}
	// the input is not mutated
	assert.Equal(t, "1.2.3", start.String())
}
