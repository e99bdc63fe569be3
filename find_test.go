package rpfsort_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/Defacto2/helper"
	"github.com/Defacto2/rpfsort"
	"github.com/Defacto2/rpfsort/command"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ExamplePackage() {
	name := rpfsort.Package("MYCAR.ZIP", "readme.txt", "mycar/extra.rpf",
		"mycar/dlc.rpf", "mycar.rpf")
	fmt.Println(name)
	// Output: mycar.rpf
}

func TestPackage(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		filename string
		files    []string
		want     string
	}{
		{"dlc root", "car.zip", []string{"car.rpf", "dlc.rpf", "x/dlc.rpf"}, "dlc.rpf"},
		{"dlc case", "car.zip", []string{"car.rpf", "DLC.RPF"}, "DLC.RPF"},
		{"container root", "car.zip", []string{"other.rpf", "car.rpf"}, "car.rpf"},
		{"dlc folder", "car.zip", []string{"x/car.rpf", "x/dlc.rpf"}, "x/dlc.rpf"},
		{"dlc folder over random root", "car.zip", []string{"other.rpf", "x/dlc.rpf"}, "x/dlc.rpf"},
		{"random root", "car.zip", []string{"x/car.rpf", "other.rpf"}, "other.rpf"},
		{"container folder", "car.zip", []string{"x/other.rpf", "x/car.rpf"}, "x/car.rpf"},
		{"random folder", "car.zip", []string{"x/b.rpf", "x/a.rpf"}, "x/a.rpf"},
		{"none", "car.zip", []string{"readme.txt", "car.ytd"}, ""},
		{"empty", "car.zip", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rpfsort.Package(tt.filename, tt.files...)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindsBestMatch(t *testing.T) {
	t.Parallel()
	assert.Empty(t, rpfsort.Finds{}.BestMatch())
	f := rpfsort.Finds{"b.rpf": rpfsort.Lvl4, "a.rpf": rpfsort.Lvl4, "x/dlc.rpf": rpfsort.Lvl3}
	assert.Equal(t, "x/dlc.rpf", f.BestMatch())
	delete(f, "x/dlc.rpf")
	assert.Equal(t, "a.rpf", f.BestMatch())
}

func TestPackages(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	for _, name := range []string{
		"dlc.rpf", "x/y/inner.RPF", "readme.txt", "stream/kept.rpf", "data/kept.rpf", "x/stream/found.rpf",
	} {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), rpfsort.DirMode))
		require.NoError(t, helper.Touch(path))
	}
	files, err := rpfsort.Packages(root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"dlc.rpf", "x/y/inner.RPF", "x/stream/found.rpf"}, files)

	_, err = rpfsort.Packages(filepath.Join(root, "missing"))
	require.ErrorIs(t, err, rpfsort.ErrPathNotFound)
}

func TestLocate(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	tool := filepath.Join(dir, command.RPFCLI)
	require.NoError(t, helper.Touch(tool))

	got, err := rpfsort.Locate(dir)
	require.NoError(t, err)
	assert.Equal(t, tool, got)

	// a directory with the tool name is not a tool
	other := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(other, command.RPFCLIExe), rpfsort.DirMode))
	got, err = rpfsort.Locate(other, dir)
	require.NoError(t, err)
	assert.Equal(t, tool, got)
}
