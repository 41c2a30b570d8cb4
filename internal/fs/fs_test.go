package fs_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typewright/typewright/internal/fs"
)

func TestMemFSFileLifecycle(t *testing.T) {
	mem := fs.NewMemFS()
	require.NoError(t, mem.WriteFile("/proj/pkg/mod.py", []byte("x = 1")))

	assert.True(t, mem.FileExists("/proj/pkg/mod.py"))
	assert.False(t, mem.FileExists("/proj/pkg"))
	assert.True(t, mem.DirectoryExists("/proj/pkg"))
	assert.True(t, mem.DirectoryExists("/proj"))

	data, err := mem.ReadFile("/proj/pkg/mod.py")
	require.NoError(t, err)
	assert.Equal(t, "x = 1", string(data))

	_, err = mem.ReadFile("/proj/absent.py")
	assert.Error(t, err)
}

func TestMemFSEntriesAreSortedAndDirect(t *testing.T) {
	mem := fs.NewMemFS()
	require.NoError(t, mem.WriteFile("/proj/b.py", nil))
	require.NoError(t, mem.WriteFile("/proj/a.py", nil))
	require.NoError(t, mem.WriteFile("/proj/sub/c.py", nil))

	entries, err := mem.GetFileSystemEntries("/proj")
	require.NoError(t, err)
	assert.Equal(t, []string{"/proj/a.py", "/proj/b.py", "/proj/sub"}, entries,
		"entries are lexically sorted and do not recurse")
}

func TestMemFSPathHelpers(t *testing.T) {
	mem := fs.NewMemFS()
	assert.Equal(t, "/proj/pkg", mem.GetDirectoryName("/proj/pkg/mod.py"))
	assert.Equal(t, "mod.py", mem.GetFileName("/proj/pkg/mod.py"))
	assert.Equal(t, filepath.Join("/proj", "pkg", "mod.py"), mem.CombinePath("/proj", "pkg", "mod.py"))

	full, err := mem.GetFullPath("proj/./a.py")
	require.NoError(t, err)
	assert.Equal(t, "/proj/a.py", full)
}

func TestOSFileSystemRoundTrip(t *testing.T) {
	osfs := fs.NewOSFileSystem()
	dir := t.TempDir()

	path := osfs.CombinePath(dir, "a.py")
	require.NoError(t, osfs.WriteFile(path, []byte("x = 1")))

	assert.True(t, osfs.FileExists(path))
	assert.True(t, osfs.DirectoryExists(dir))
	assert.False(t, osfs.DirectoryExists(path))

	data, err := osfs.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x = 1", string(data))

	entries, err := osfs.GetFileSystemEntries(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, entries)

	sub := osfs.CombinePath(dir, "nested", "deep")
	require.NoError(t, osfs.CreateDirectory(sub))
	assert.True(t, osfs.DirectoryExists(sub))

	assert.NotEmpty(t, osfs.GetSystemTempDir())
}
