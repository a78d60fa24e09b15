// Package index maintains the persisted set of content hashes that
// identifies which entries exist in a Pareto store. The index file is the
// source of truth for membership; storage names and distance prefixes are
// derived state.
package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/hupe1980/paretogo/internal/fs"
)

// FileName is the on-disk name of the index file: a sorted JSON array of
// hash strings with no duplicates.
const FileName = "index.json"

// ErrCorrupt indicates the index file exists but could not be parsed.
//
// Callers are expected to recover by proceeding with an empty index.
// Entry files on disk are deliberately left untouched in that case, so a
// rescan remains possible as an operational remedy.
type ErrCorrupt struct {
	Path  string
	cause error
}

func (e *ErrCorrupt) Error() string {
	return fmt.Sprintf("corrupt index file %s: %v", e.Path, e.cause)
}

func (e *ErrCorrupt) Unwrap() error { return e.cause }

// Index is the persisted hash set with atomic save semantics.
type Index struct {
	fs   fs.FileSystem
	path string

	mu     sync.Mutex
	hashes map[string]struct{}
}

// New creates an index stored under dir. Call Load before first use.
func New(fsys fs.FileSystem, dir string) *Index {
	if fsys == nil {
		fsys = fs.Default
	}
	return &Index{
		fs:     fsys,
		path:   filepath.Join(dir, FileName),
		hashes: make(map[string]struct{}),
	}
}

// Path returns the location of the index file.
func (x *Index) Path() string { return x.path }

// Load reads the persisted hash list. A missing file yields an empty
// index and no error. An unreadable or unparsable file yields an empty
// index and an *ErrCorrupt so the caller can log and proceed.
func (x *Index) Load() error {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.hashes = make(map[string]struct{})

	data, err := fs.ReadFile(x.fs, x.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return &ErrCorrupt{Path: x.path, cause: err}
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return &ErrCorrupt{Path: x.path, cause: err}
	}
	for _, h := range list {
		x.hashes[h] = struct{}{}
	}
	return nil
}

// Save atomically writes the full sorted hash list: the list is written
// to a temporary file, synced, then renamed over the index file, so the
// index is never observed in a partially-written state.
func (x *Index) Save() error {
	x.mu.Lock()
	list := x.sortedLocked()
	x.mu.Unlock()

	data, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return fs.WriteFileAtomic(x.fs, x.path, data, 0644)
}

// Add inserts h into the in-memory set. Returns false if already present.
// Callers must Save to persist.
func (x *Index) Add(h string) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	if _, ok := x.hashes[h]; ok {
		return false
	}
	x.hashes[h] = struct{}{}
	return true
}

// Remove deletes h from the in-memory set. Returns whether it was present.
// Callers must Save to persist.
func (x *Index) Remove(h string) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	if _, ok := x.hashes[h]; !ok {
		return false
	}
	delete(x.hashes, h)
	return true
}

// Has reports membership of h.
func (x *Index) Has(h string) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	_, ok := x.hashes[h]
	return ok
}

// Len returns the number of known hashes.
func (x *Index) Len() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return len(x.hashes)
}

// Sorted returns all known hashes in sorted order.
func (x *Index) Sorted() []string {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.sortedLocked()
}

// Reset empties the in-memory set without touching the index file.
func (x *Index) Reset() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.hashes = make(map[string]struct{})
}

func (x *Index) sortedLocked() []string {
	list := make([]string, 0, len(x.hashes))
	for h := range x.hashes {
		list = append(list, h)
	}
	sort.Strings(list)
	return list
}
