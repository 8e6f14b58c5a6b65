package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestEnsureSubdDir_CreatesDirectoryInCWD(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	got, err := EnsureSubdDir("archives")
	require.NoError(t, err)

	want := filepath.Join(tmp, "archives")
	require.Equal(t, want, got)

	fi, err := os.Stat(want)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		perm := fi.Mode().Perm()
		require.Equal(t, os.FileMode(0o700), perm&0o700)
	}
}

func TestEnsureSubdDir_Idempotent(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	first, err := EnsureSubdDir("archives")
	require.NoError(t, err)

	second, err := EnsureSubdDir("archives")
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestSaveToSubdDir(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	path, err := SaveToSubdDir("archives", "timelines/1/2026/01/02/abc.json", []byte("{}"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(tmp, "archives", "abc.json"), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "{}", string(b))
}

func TestSaveToSubdDir_InvalidName(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	_, err := SaveToSubdDir("archives", "", []byte("{}"))
	require.Error(t, err)
}

func TestSaveToSubdDir_DirIsAFile(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	require.NoError(t, os.WriteFile(filepath.Join(tmp, "archives"), []byte("x"), 0o600))

	_, err := SaveToSubdDir("archives", "a.json", []byte("{}"))
	require.Error(t, err)
}
