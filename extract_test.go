package rpfsort_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/Defacto2/helper"
	"github.com/Defacto2/rpfsort"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTool writes a shell script that stands in for the extraction tool.
// The script runs with the output directory as the working directory
// and gets the archive as its second argument.
func fakeTool(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script tools are not supported on windows")
	}
	name := filepath.Join(t.TempDir(), "rpf-cli")
	err := os.WriteFile(name, []byte("#!/bin/sh\n"+body+"\n"), 0o755)
	require.NoError(t, err)
	return name
}

// fakePackage writes a stand in RPF package.
func fakePackage(t *testing.T, name string) string {
	t.Helper()
	src := filepath.Join(t.TempDir(), name)
	err := os.WriteFile(src, []byte("RPF7\x00\x00\x00\x00"), 0o644)
	require.NoError(t, err)
	return src
}

func exists(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}

const sortable = `mkdir -p vehicles sub
echo x > vehicles/car.yft
echo x > sub/handling.meta
echo x > readme.txt`

func TestDefaultArgs(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"extract", rpfsort.ArchiveArg}, rpfsort.DefaultArgs())
}

func TestExpand(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"default", nil, []string{"extract", "dlc.rpf"}},
		{"empty", []string{}, []string{"extract", "dlc.rpf"}},
		{"output", []string{"x", "{archive}", "-o", "{output}"}, []string{"x", "dlc.rpf", "-o", "/tmp/out"}},
		{"joined", []string{"--in={archive}"}, []string{"--in=dlc.rpf"}},
		{"plain", []string{"--help"}, []string{"--help"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rpfsort.Expand(tt.args, "dlc.rpf", "/tmp/out")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractor(t *testing.T) {
	t.Parallel()
	tool := fakeTool(t, sortable+"\necho \"$2\" > args.txt")
	src := fakePackage(t, "dlc.rpf")
	dst := t.TempDir()

	x := rpfsort.Extractor{Tool: tool, Source: src, Destination: dst}
	err := x.Extract(context.Background())
	require.NoError(t, err)
	assert.True(t, exists(filepath.Join(dst, "vehicles", "car.yft")))
	assert.True(t, exists(filepath.Join(dst, "sub", "handling.meta")))
	assert.False(t, exists(filepath.Join(dst, "dlc.rpf")), "the duplicate should be removed")
	assert.True(t, exists(src), "the source must never be removed")

	b, err := os.ReadFile(filepath.Join(dst, "args.txt"))
	require.NoError(t, err)
	assert.Equal(t, "dlc.rpf", strings.TrimSpace(string(b)))
}

func TestExtractorInPlace(t *testing.T) {
	t.Parallel()
	tool := fakeTool(t, `echo "$2" > args.txt`)
	src := fakePackage(t, "dlc.rpf")
	dst := t.TempDir()

	x := rpfsort.Extractor{Tool: tool, Source: src, Destination: dst, InPlace: true}
	err := x.Extract(context.Background())
	require.NoError(t, err)
	b, err := os.ReadFile(filepath.Join(dst, "args.txt"))
	require.NoError(t, err)
	abs, err := filepath.Abs(src)
	require.NoError(t, err)
	assert.Equal(t, abs, strings.TrimSpace(string(b)))
}

func TestExtractorSourceInDestination(t *testing.T) {
	t.Parallel()
	tool := fakeTool(t, "true")
	dst := t.TempDir()
	src := filepath.Join(dst, "dlc.rpf")
	err := helper.Touch(src)
	require.NoError(t, err)

	x := rpfsort.Extractor{Tool: tool, Source: src, Destination: dst}
	err = x.Extract(context.Background())
	require.NoError(t, err)
	assert.True(t, exists(src), "a package already in the output must be kept")
}

func TestExtractorNameTaken(t *testing.T) {
	t.Parallel()
	tool := fakeTool(t, `echo "$2" > args.txt`)
	src := fakePackage(t, "dlc.rpf")
	dst := t.TempDir()
	taken := filepath.Join(dst, "dlc.rpf")
	require.NoError(t, os.WriteFile(taken, []byte("user file"), 0o644))

	x := rpfsort.Extractor{Tool: tool, Source: src, Destination: dst}
	err := x.Extract(context.Background())
	require.NoError(t, err)

	b, err := os.ReadFile(filepath.Join(dst, "args.txt"))
	require.NoError(t, err)
	arg := strings.TrimSpace(string(b))
	assert.NotEqual(t, "dlc.rpf", arg)
	assert.True(t, strings.HasPrefix(arg, "dlc-"), arg)
	assert.Equal(t, ".rpf", filepath.Ext(arg))
	assert.False(t, exists(filepath.Join(dst, arg)), "the unique copy should be removed")

	b, err = os.ReadFile(taken)
	require.NoError(t, err)
	assert.Equal(t, "user file", string(b))
}

func TestExtractorStage(t *testing.T) {
	t.Parallel()
	tool := fakeTool(t, "true")
	x := rpfsort.Extractor{
		Tool:        tool,
		Source:      filepath.Join(t.TempDir(), "missing.rpf"),
		Destination: t.TempDir(),
	}
	err := x.Extract(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, rpfsort.ErrExtractionFailed, "the tool never ran")
	assert.NotContains(t, err.Error(), "duplicate duplicate")
}

func TestExtractorFailed(t *testing.T) {
	t.Parallel()
	tool := fakeTool(t, "echo 'corrupt package header' >&2\nexit 1")
	src := fakePackage(t, "dlc.rpf")
	dst := t.TempDir()

	x := rpfsort.Extractor{Tool: tool, Source: src, Destination: dst}
	err := x.Extract(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, rpfsort.ErrExtractionFailed)
	assert.Contains(t, err.Error(), "corrupt package header")
	assert.False(t, exists(filepath.Join(dst, "dlc.rpf")))
}

func TestExtractorTimeout(t *testing.T) {
	t.Parallel()
	tool := fakeTool(t, "exec sleep 10")
	src := fakePackage(t, "dlc.rpf")

	x := rpfsort.Extractor{
		Tool:        tool,
		Source:      src,
		Destination: t.TempDir(),
		Timeout:     100 * time.Millisecond,
	}
	err := x.Extract(context.Background())
	require.ErrorIs(t, err, rpfsort.ErrExtractionFailed)
	assert.Contains(t, err.Error(), "timed out")
}

func TestExtractorErrors(t *testing.T) {
	t.Parallel()
	src := fakePackage(t, "dlc.rpf")
	ctx := context.Background()

	x := rpfsort.Extractor{Tool: "rpf-cli", Source: src}
	err := x.Extract(ctx)
	require.ErrorIs(t, err, rpfsort.ErrDest)

	x.Destination = filepath.Join(t.TempDir(), "missing")
	err = x.Extract(ctx)
	require.ErrorIs(t, err, rpfsort.ErrPathNotFound)

	x.Destination = t.TempDir()
	x.Tool = "rpfsort-no-such-tool"
	err = x.Extract(ctx)
	require.ErrorIs(t, err, rpfsort.ErrExtractionFailed)

	x.Tool = filepath.Join(t.TempDir(), "rpf-cli")
	err = x.Extract(ctx)
	require.ErrorIs(t, err, rpfsort.ErrExtractionFailed)

	x.Tool = ""
	err = x.Extract(ctx)
	require.ErrorIs(t, err, rpfsort.ErrExtractionFailed)
	require.ErrorIs(t, err, rpfsort.ErrToolMissing)
}
