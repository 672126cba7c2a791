package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectProject_FindsGoModUpwards(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/widget\n\ngo 1.23\n"), 0644))

	nested := filepath.Join(root, "internal", "pkg")
	require.NoError(t, os.MkdirAll(nested, 0755))

	d := NewDetector()
	project, err := d.DetectProject(context.Background(), nested)
	require.NoError(t, err)
	assert.Equal(t, root, project.RootPath)
	assert.Equal(t, "example.com/widget", project.Module)
}

func TestDetectProject_NoGoModFallsBackToDirName(t *testing.T) {
	root := t.TempDir()
	d := NewDetector()
	project, err := d.DetectProject(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, root, project.RootPath)
	assert.Equal(t, filepath.Base(root), project.Module)
}

func TestListSourceFiles_FiltersByExtension(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte("package main\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("hi\n"), 0644))
	sub := filepath.Join(root, "sub")
	require.NoError(t, os.MkdirAll(sub, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "util.go"), []byte("package sub\n"), 0644))

	d := NewDetector()
	files, err := d.ListSourceFiles(context.Background(), root, ".go")
	require.NoError(t, err)
	assert.Len(t, files, 2)
	for _, f := range files {
		assert.Equal(t, ".go", filepath.Ext(f))
	}
}
