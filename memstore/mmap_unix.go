//go:build unix

package memstore

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/viant/codescan/errs"
)

// MappedFile is a read-only mmap of an entire file. Slices handed out via
// Slice stay valid only as long as the MappedFile itself is alive
// (spec.md §3 ownership: "a memory-mapped file exclusively owns its
// mapping and outlives every slice derived from it").
type MappedFile struct {
	path string
	fd   int
	data []byte
	// lineStarts[i] is the byte offset of the start of line i (0-based).
	lineStarts []int
}

// OpenMapped memory-maps path read-only and indexes line boundaries.
func OpenMapped(path string) (*MappedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.New(errs.FileNotFound, path, err)
		}
		return nil, errs.New(errs.IOError, path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errs.New(errs.IOError, path, err)
	}
	size := info.Size()
	if size == 0 {
		return nil, errs.New(errs.FileEmpty, path, nil)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, errs.NewMappingFailed(path, int(errnoOf(err)), err)
	}

	mf := &MappedFile{path: path, data: data}
	mf.indexLines()
	return mf, nil
}

func errnoOf(err error) unix.Errno {
	if errno, ok := err.(unix.Errno); ok {
		return errno
	}
	return 0
}

func (m *MappedFile) indexLines() {
	m.lineStarts = append(m.lineStarts, 0)
	for i, b := range m.data {
		if b == '\n' && i+1 < len(m.data) {
			m.lineStarts = append(m.lineStarts, i+1)
		}
	}
}

// Path returns the mapped file's path.
func (m *MappedFile) Path() string { return m.path }

// Size returns the mapped length in bytes.
func (m *MappedFile) Size() int { return len(m.data) }

// Byte returns the byte at offset.
func (m *MappedFile) Byte(offset int) byte { return m.data[offset] }

// Slice returns a non-owning view into [start, end). The returned slice is
// only valid while m has not been closed.
func (m *MappedFile) Slice(start, end int) []byte { return m.data[start:end] }

// LineCount returns the number of indexed lines.
func (m *MappedFile) LineCount() int { return len(m.lineStarts) }

// LineRange returns the [start, end) byte range of the given 0-based line.
func (m *MappedFile) LineRange(line int) (int, int) {
	start := m.lineStarts[line]
	if line+1 < len(m.lineStarts) {
		return start, m.lineStarts[line+1]
	}
	return start, len(m.data)
}

// Advise hints the kernel about the access pattern the caller intends.
type Advise int

const (
	AdviseSequential Advise = iota
	AdviseWillNeed
	AdviseDontNeed
)

// Advise applies a madvise hint to the mapping.
func (m *MappedFile) Advise(hint Advise) error {
	var a int
	switch hint {
	case AdviseSequential:
		a = unix.MADV_SEQUENTIAL
	case AdviseWillNeed:
		a = unix.MADV_WILLNEED
	case AdviseDontNeed:
		a = unix.MADV_DONTNEED
	}
	if err := unix.Madvise(m.data, a); err != nil {
		return errs.New(errs.IOError, m.path, err)
	}
	return nil
}

// Close unmaps the file. Any slice derived from this mapping must not be
// used afterwards.
func (m *MappedFile) Close() error {
	if m.data == nil {
		return nil
	}
	err := unix.Munmap(m.data)
	m.data = nil
	if err != nil {
		return errs.New(errs.IOError, m.path, err)
	}
	return nil
}
