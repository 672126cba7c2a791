//go:build !unix

package memstore

import (
	"os"

	"github.com/viant/codescan/errs"
)

// MappedFile is a fallback, non-mmap implementation for platforms without a
// unix-style mmap syscall: it reads the whole file into a regular heap
// buffer and exposes the same read-only view/slice/advise API. Slices are
// still only valid while the MappedFile is open.
type MappedFile struct {
	path       string
	data       []byte
	lineStarts []int
}

// OpenMapped reads path fully and indexes line boundaries.
func OpenMapped(path string) (*MappedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.New(errs.FileNotFound, path, err)
		}
		return nil, errs.New(errs.IOError, path, err)
	}
	if len(data) == 0 {
		return nil, errs.New(errs.FileEmpty, path, nil)
	}
	mf := &MappedFile{path: path, data: data}
	mf.indexLines()
	return mf, nil
}

func (m *MappedFile) indexLines() {
	m.lineStarts = append(m.lineStarts, 0)
	for i, b := range m.data {
		if b == '\n' && i+1 < len(m.data) {
			m.lineStarts = append(m.lineStarts, i+1)
		}
	}
}

func (m *MappedFile) Path() string               { return m.path }
func (m *MappedFile) Size() int                  { return len(m.data) }
func (m *MappedFile) Byte(offset int) byte       { return m.data[offset] }
func (m *MappedFile) Slice(start, end int) []byte { return m.data[start:end] }
func (m *MappedFile) LineCount() int             { return len(m.lineStarts) }

func (m *MappedFile) LineRange(line int) (int, int) {
	start := m.lineStarts[line]
	if line+1 < len(m.lineStarts) {
		return start, m.lineStarts[line+1]
	}
	return start, len(m.data)
}

type Advise int

const (
	AdviseSequential Advise = iota
	AdviseWillNeed
	AdviseDontNeed
)

// Advise is a no-op on platforms without madvise.
func (m *MappedFile) Advise(hint Advise) error { return nil }

// Close releases the in-memory copy.
func (m *MappedFile) Close() error {
	m.data = nil
	return nil
}
