// Package cache persists declaration/reference indexes between runs so an
// incremental invocation can skip re-parsing files whose content hash and
// size haven't changed. Layout follows spec.md §6: a single versioned JSON
// document, silently discarded on version mismatch or corruption.
package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/minio/highwayhash"
	"github.com/viant/afs"

	"github.com/viant/codescan/errs"
	"github.com/viant/codescan/syntax"
)

// CurrentVersion is the only cache schema version this build understands.
const CurrentVersion = 1

// highwayhashKey is a fixed all-zero key: the cache only needs a fast,
// collision-resistant fingerprint, not a keyed MAC, so a constant key keeps
// hashes reproducible across runs and machines.
var highwayhashKey = make([]byte, 32)

// FileState records what the cache last saw for a given source file.
type FileState struct {
	ContentHash      uint64    `json:"contentHash"`
	ModificationTime time.Time `json:"modificationTime"`
	Size             int64     `json:"size"`
}

// CachedDeclaration and CachedReference are aliases of syntax.Declaration and
// syntax.Reference, so the on-disk schema carries exactly the fields of the
// in-memory parser contract.
type CachedDeclaration = syntax.Declaration
type CachedReference = syntax.Reference

// Document is the full on-disk cache payload.
type Document struct {
	Version      int                           `json:"version"`
	Timestamp    time.Time                     `json:"timestamp"`
	FileStates   map[string]FileState          `json:"fileStates"`
	Declarations map[string][]CachedDeclaration `json:"declarations"`
	References   map[string][]CachedReference   `json:"references"`
}

// New returns an empty, current-version document.
func New() *Document {
	return &Document{
		Version:      CurrentVersion,
		FileStates:   map[string]FileState{},
		Declarations: map[string][]CachedDeclaration{},
		References:   map[string][]CachedReference{},
	}
}

// ContentHash fingerprints file content for change detection.
func ContentHash(content []byte) uint64 {
	sum := highwayhash.Sum64(content, highwayhashKey)
	return sum
}

// IsFresh reports whether path's cached state still matches its current
// content hash and size, meaning the cached declarations/references for it
// can be reused without re-parsing.
func (d *Document) IsFresh(path string, content []byte) bool {
	state, ok := d.FileStates[path]
	if !ok {
		return false
	}
	if state.Size != int64(len(content)) {
		return false
	}
	return state.ContentHash == ContentHash(content)
}

// Put records a freshly parsed file's state and index entries.
func (d *Document) Put(path string, content []byte, modTime time.Time, decls []syntax.Declaration, refs []syntax.Reference) {
	d.FileStates[path] = FileState{
		ContentHash:      ContentHash(content),
		ModificationTime: modTime,
		Size:             int64(len(content)),
	}
	d.Declarations[path] = decls
	d.References[path] = refs
}

// Delete removes a file's cached state and index entries, used when a file
// is detected as removed from the project between runs.
func (d *Document) Delete(path string) {
	delete(d.FileStates, path)
	delete(d.Declarations, path)
	delete(d.References, path)
}

// Store loads and saves Document payloads through an afs.Service.
type Store struct {
	fs afs.Service
}

// NewStore constructs a Store backed by the default afs service.
func NewStore() *Store {
	return &Store{fs: afs.New()}
}

// Load reads and decodes the document at url. A version mismatch or decode
// failure is not an error the caller needs to branch on: it returns a fresh
// empty Document, matching the "silent rebuild" behavior of a missing cache.
func (s *Store) Load(ctx context.Context, url string) (*Document, error) {
	content, err := s.fs.DownloadWithURL(ctx, url)
	if err != nil {
		return New(), nil
	}
	if len(content) == 0 {
		return New(), nil
	}
	var doc Document
	if err := json.Unmarshal(content, &doc); err != nil {
		return New(), nil
	}
	if doc.Version != CurrentVersion {
		return New(), nil
	}
	if doc.FileStates == nil {
		doc.FileStates = map[string]FileState{}
	}
	if doc.Declarations == nil {
		doc.Declarations = map[string][]CachedDeclaration{}
	}
	if doc.References == nil {
		doc.References = map[string][]CachedReference{}
	}
	return &doc, nil
}

// Save stamps the document's timestamp and writes it to url as JSON.
func (s *Store) Save(ctx context.Context, url string, doc *Document, now time.Time) error {
	doc.Version = CurrentVersion
	doc.Timestamp = now
	content, err := json.Marshal(doc)
	if err != nil {
		return errs.New(errs.DecodeError, url, err)
	}
	if err := s.fs.Upload(ctx, url, 0644, bytes.NewReader(content)); err != nil {
		return errs.New(errs.IOError, url, err)
	}
	return nil
}

// Clear removes a file's entries from the document without deleting the
// backing store object.
func (s *Store) Clear(doc *Document, path string) {
	doc.Delete(path)
}

// DeleteStore removes the backing cache object entirely.
func (s *Store) DeleteStore(ctx context.Context, url string) error {
	return s.fs.Delete(ctx, url)
}
