// Package repository discovers a project's root and enumerates its source
// files over an afs.Service, adapted from the project-detection idiom used
// elsewhere in this codebase (inspector/repository/detector.go) and narrowed
// to what the analysis engine needs: a root directory, a module name, and a
// flat file listing.
package repository

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/viant/afs"
	"github.com/viant/afs/option"
	"golang.org/x/mod/modfile"
)

// Project describes a detected source tree.
type Project struct {
	RootPath string
	Module   string
}

// Detector walks up from a starting path looking for a go.mod marker.
type Detector struct {
	fs afs.Service
}

// NewDetector constructs a Detector backed by the default afs service.
func NewDetector() *Detector {
	return &Detector{fs: afs.New()}
}

// DetectProject walks up from path looking for go.mod and returns the
// directory that contains it (or path itself if none is found) together
// with the module name declared there.
func (d *Detector) DetectProject(ctx context.Context, path string) (*Project, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	dir := absPath
	if !info.IsDir() {
		dir = filepath.Dir(absPath)
	}

	for {
		modPath := filepath.Join(dir, "go.mod")
		if content, downloadErr := d.fs.DownloadWithURL(ctx, modPath); downloadErr == nil && len(content) > 0 {
			name := dir
			if mod, parseErr := modfile.Parse(modPath, content, nil); parseErr == nil && mod.Module != nil {
				name = mod.Module.Mod.Path
			}
			return &Project{RootPath: dir, Module: name}, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return &Project{RootPath: absPath, Module: filepath.Base(absPath)}, nil
}

// ListSourceFiles returns every regular file under root whose name has one
// of the given extensions (e.g. ".go"), sorted by path.
func (d *Detector) ListSourceFiles(ctx context.Context, root string, extensions ...string) ([]string, error) {
	want := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		want[ext] = true
	}

	objects, err := d.fs.List(ctx, root, option.NewRecursive(true))
	if err != nil {
		return nil, err
	}
	var files []string
	for _, obj := range objects {
		if obj.IsDir() {
			continue
		}
		if want[filepath.Ext(obj.Name())] {
			files = append(files, obj.URL())
		}
	}
	sort.Strings(files)
	return files, nil
}
