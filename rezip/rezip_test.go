package rezip_test

import (
	"archive/zip"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/Defacto2/rpfsort/command"
	"github.com/Defacto2/rpfsort/rezip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resource writes the named files, each holding repeated text, under dir.
func resource(t *testing.T, dir string, names ...string) int64 {
	t.Helper()
	var size int64
	for _, name := range names {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		b := []byte(strings.Repeat(name+"\n", 512))
		require.NoError(t, os.WriteFile(path, b, 0o644))
		size += int64(len(b))
	}
	return size
}

func entries(t *testing.T, name string) []string {
	t.Helper()
	r, err := zip.OpenReader(name)
	require.NoError(t, err)
	defer r.Close()
	var names []string
	for _, f := range r.File {
		assert.Equal(t, zip.Deflate, f.Method)
		names = append(names, f.Name)
	}
	slices.Sort(names)
	return names
}

func TestFolders(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"stream", "data"}, rezip.Folders())
}

func TestPack(t *testing.T) {
	t.Parallel()
	output := t.TempDir()
	want := resource(t, output, "stream/car.ytd", "stream/vehicles/car.yft", "data/handling.meta")
	resource(t, output, "readme.txt", "inner.rpf")
	dest := filepath.Join(t.TempDir(), "mycar.zip")

	size, err := rezip.Pack(output, dest)
	require.NoError(t, err)
	assert.Equal(t, want, size)
	assert.Equal(t, []string{"data/handling.meta", "stream/car.ytd", "stream/vehicles/car.yft"}, entries(t, dest))

	inf, err := os.Stat(dest)
	require.NoError(t, err)
	assert.Less(t, inf.Size(), size, "the zip should be smaller than its content")

	// confirm pack fails when the file already exists
	size, err = rezip.Pack(output, dest)
	require.Error(t, err)
	assert.Zero(t, size)
}

func TestPackEmpty(t *testing.T) {
	t.Parallel()
	output := t.TempDir()
	resource(t, output, "readme.txt")
	dest := filepath.Join(t.TempDir(), "empty.zip")
	_, err := rezip.Pack(output, dest)
	require.ErrorIs(t, err, rezip.ErrEmpty)
	_, err = os.Stat(dest)
	assert.True(t, os.IsNotExist(err), "no file is created when there is nothing to pack")
}

func TestTest(t *testing.T) {
	t.Parallel()
	if _, err := exec.LookPath(command.Unzip); err != nil {
		t.Skip("unzip is not installed")
	}
	ctx := context.Background()
	output := t.TempDir()
	resource(t, output, "stream/car.ytd")
	dest := filepath.Join(t.TempDir(), "mycar.zip")
	_, err := rezip.Pack(output, dest)
	require.NoError(t, err)
	require.NoError(t, rezip.Test(ctx, dest))

	err = rezip.Test(ctx, output)
	require.ErrorIs(t, err, rezip.ErrTest)

	empty := filepath.Join(t.TempDir(), "empty.zip")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	err = rezip.Test(ctx, empty)
	require.ErrorIs(t, err, rezip.ErrTest)

	bad := filepath.Join(t.TempDir(), "bad.zip")
	require.NoError(t, os.WriteFile(bad, []byte("not a zip file at all"), 0o644))
	err = rezip.Test(ctx, bad)
	require.ErrorIs(t, err, rezip.ErrTest)
}
