// Package memstore implements the cache-conscious memory substrate: a
// bump-pointer arena, read-only memory-mapped files, struct-of-arrays
// token storage, and plain/atomic bitmaps (spec.md §4.J).
package memstore

import "github.com/viant/codescan/errs"

const (
	defaultBlockSize = 65536
	defaultAlignment = 8
)

type block struct {
	data   []byte
	offset int
}

// Arena is a bump-pointer allocator. It is not safe for concurrent use by
// multiple goroutines; a per-goroutine Arena is the concurrency story for
// temporary allocations (spec.md §4.J, §5).
type Arena struct {
	blockSize int
	alignment int
	blocks    []*block
}

// NewArena creates an arena with the given block size and alignment,
// falling back to the documented defaults (64KiB blocks, 8-byte alignment)
// for non-positive values.
func NewArena(blockSize, alignment int) *Arena {
	if blockSize <= 0 {
		blockSize = defaultBlockSize
	}
	if alignment <= 0 {
		alignment = defaultAlignment
	}
	return &Arena{blockSize: blockSize, alignment: alignment}
}

func alignUp(offset, alignment int) int {
	rem := offset % alignment
	if rem == 0 {
		return offset
	}
	return offset + (alignment - rem)
}

// Alloc returns a zeroed byte slice of size bytes, backed by arena storage.
// Arena exhaustion (inability to grow a new block) is a fatal program
// invariant violation per spec.md §7, reported as *errs.Error{Kind: ResourceExhausted}.
func (a *Arena) Alloc(size int) ([]byte, error) {
	if size < 0 {
		return nil, errs.New(errs.ResourceExhausted, "", nil)
	}
	if size == 0 {
		return nil, nil
	}
	if len(a.blocks) > 0 {
		b := a.blocks[len(a.blocks)-1]
		start := alignUp(b.offset, a.alignment)
		if start+size <= len(b.data) {
			b.offset = start + size
			return b.data[start : start+size], nil
		}
	}
	newSize := a.blockSize
	if size+a.alignment > newSize {
		newSize = size + a.alignment
	}
	nb := &block{data: make([]byte, newSize)}
	start := alignUp(0, a.alignment)
	if start+size > len(nb.data) {
		return nil, errs.New(errs.ResourceExhausted, "", nil)
	}
	nb.offset = start + size
	a.blocks = append(a.blocks, nb)
	return nb.data[start : start+size], nil
}

// Reset rewinds every block's offset to zero, retaining the underlying
// storage for reuse.
func (a *Arena) Reset() {
	for _, b := range a.blocks {
		b.offset = 0
	}
}

// Release drops all block storage, allowing it to be garbage collected.
func (a *Arena) Release() {
	a.blocks = nil
}

// scopeMark captures the arena's position for WithScope.
type scopeMark struct {
	blockCount int
	offset     int
}

func (a *Arena) mark() scopeMark {
	if len(a.blocks) == 0 {
		return scopeMark{}
	}
	return scopeMark{blockCount: len(a.blocks), offset: a.blocks[len(a.blocks)-1].offset}
}

func (a *Arena) rewind(m scopeMark) {
	if m.blockCount == 0 {
		a.blocks = nil
		return
	}
	if m.blockCount < len(a.blocks) {
		a.blocks = a.blocks[:m.blockCount]
	}
	if len(a.blocks) > 0 {
		a.blocks[len(a.blocks)-1].offset = m.offset
	}
}

// WithScope runs body, then rewinds every allocation body made back to the
// arena's position before the call.
func (a *Arena) WithScope(body func()) {
	m := a.mark()
	body()
	a.rewind(m)
}
