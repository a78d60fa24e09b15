package paretogo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hupe1980/paretogo/codec"
	"github.com/hupe1980/paretogo/entry"
	"github.com/hupe1980/paretogo/ideal"
	"github.com/hupe1980/paretogo/index"
	"github.com/hupe1980/paretogo/internal/fs"
)

// EntriesDirName is the subdirectory holding one file per stored entry.
const EntriesDirName = "pareto"

const entryExt = ".json"

// Store is a content-addressed Pareto front store rooted at a directory.
//
// Store is not safe for concurrent use; it follows the single-writer
// model described in the package documentation.
type Store struct {
	dir        string
	entriesDir string
	sigDigits  int
	codec      codec.Codec
	fsys       fs.FileSystem
	logger     *Logger
	ranker     *ranker

	idx *index.Index

	// names maps each hash to its current storage name, maintained
	// transactionally on write/rename/remove so lookups never need a
	// directory scan after Open.
	names map[string]string
}

// Open creates or opens a store rooted at dir.
//
// A present but unparsable index file is logged and treated as empty.
// Entry files on disk are left untouched in that case; they will look
// like new entries to dedup until re-added or removed.
func Open(dir string, optFns ...Option) (*Store, error) {
	o := options{
		sigDigits: DefaultSigDigits,
		codec:     codec.Default,
		fsys:      fs.Default,
		logger:    NewLogger(nil),
		mode:      ideal.ModeWeighted,
	}
	for _, fn := range optFns {
		fn(&o)
	}

	s := &Store{
		dir:        dir,
		entriesDir: filepath.Join(dir, EntriesDirName),
		sigDigits:  o.sigDigits,
		codec:      o.codec,
		fsys:       o.fsys,
		logger:     o.logger,
		idx:        index.New(o.fsys, dir),
		names:      make(map[string]string),
	}
	s.ranker = &ranker{store: s, mode: o.mode, weights: o.weights}

	if err := s.fsys.MkdirAll(s.entriesDir, 0755); err != nil {
		return nil, fmt.Errorf("create entries dir: %w", err)
	}

	if err := s.idx.Load(); err != nil {
		s.logger.Warn("failed to load pareto index, starting empty",
			"path", s.idx.Path(), "error", err)
	}
	if err := s.scanNames(); err != nil {
		return nil, fmt.Errorf("scan entries dir: %w", err)
	}
	return s, nil
}

// Dir returns the store's root directory.
func (s *Store) Dir() string { return s.dir }

// Hash returns the content hash an entry would be stored under, after
// rounding to the store's significant digits.
func (s *Store) Hash(e entry.Entry) (string, error) {
	return entry.Sum(entry.Round(e, s.sigDigits))
}

// Add rounds e to the configured significant digits and stores it under
// its content hash. It returns false with a nil error when an entry with
// identical rounded content already exists, and false with a non-nil
// error when persisting failed; a failed write never leaves the index
// referencing a missing file. On success every stored entry is re-ranked
// by distance to the current ideal point.
func (s *Store) Add(e entry.Entry) (bool, error) {
	rounded := entry.Round(e, s.sigDigits)
	h, err := entry.Sum(rounded)
	if err != nil {
		return false, fmt.Errorf("hash entry: %w", err)
	}
	if s.idx.Has(h) {
		return false, nil
	}

	// The fresh file carries no distance prefix; the rank pass below
	// assigns one.
	name := h + entryExt
	path := filepath.Join(s.entriesDir, name)
	if err := s.writeEntry(path, rounded); err != nil {
		s.logger.Error("failed to write pareto entry", "hash", h, "error", err)
		return false, fmt.Errorf("write entry %s: %w", h, err)
	}

	s.idx.Add(h)
	if err := s.idx.Save(); err != nil {
		// Roll back so index and directory stay consistent.
		s.idx.Remove(h)
		if rerr := s.fsys.Remove(path); rerr != nil {
			s.logger.Error("failed to roll back entry file", "hash", h, "error", rerr)
		}
		s.logger.Error("failed to save pareto index", "hash", h, "error", err)
		return false, fmt.Errorf("save index: %w", err)
	}
	s.names[h] = name

	if err := s.ranker.run(); err != nil {
		// Ranking is derived state; the add itself already succeeded.
		s.logger.Warn("distance ranking failed", "error", err)
	}
	return true, nil
}

// Remove deletes the entry file(s) for the given hash and drops the hash
// from the index. There should be exactly one file per hash; multiple
// matches (a pre-existing inconsistency) are all deleted defensively.
// It returns whether any file was actually removed.
func (s *Store) Remove(hash string) (bool, error) {
	dirEntries, err := s.fsys.ReadDir(s.entriesDir)
	if err != nil {
		return false, fmt.Errorf("read entries dir: %w", err)
	}

	var removed bool
	var firstErr error
	for _, de := range dirEntries {
		if !nameMatchesHash(de.Name(), hash) {
			continue
		}
		if err := s.fsys.Remove(filepath.Join(s.entriesDir, de.Name())); err != nil {
			s.logger.Error("failed to remove entry file", "file", de.Name(), "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		removed = true
	}
	delete(s.names, hash)

	if s.idx.Remove(hash) {
		if err := s.idx.Save(); err != nil {
			return removed, fmt.Errorf("save index: %w", err)
		}
	}
	return removed, firstErr
}

// Load returns the parsed entry stored under the given hash.
// It wraps ErrNotFound when no file matches either the distance-prefixed
// or the bare naming convention.
func (s *Store) Load(hash string) (entry.Entry, error) {
	name, ok := s.names[hash]
	if !ok {
		name, ok = s.findName(hash)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, hash)
		}
		s.names[hash] = name
	}

	data, err := fs.ReadFile(s.fsys, filepath.Join(s.entriesDir, name))
	if err != nil {
		return nil, fmt.Errorf("read entry %s: %w", hash, err)
	}
	var e entry.Entry
	if err := s.codec.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decode entry %s: %w", hash, err)
	}
	return e, nil
}

// List returns all known hashes in sorted order.
func (s *Store) List() []string {
	return s.idx.Sorted()
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	return s.idx.Len()
}

// Clear removes every stored entry and the index file, resetting the
// store to the empty state.
func (s *Store) Clear() error {
	var firstErr error
	for _, h := range s.idx.Sorted() {
		if _, err := s.Remove(h); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := s.fsys.Remove(s.idx.Path()); err != nil && !os.IsNotExist(err) {
		if firstErr == nil {
			firstErr = err
		}
	}
	s.idx.Reset()
	s.names = make(map[string]string)
	return firstErr
}

// Rank recomputes every entry's distance to the current ideal point and
// rewrites the distance prefixes of all storage names. It runs
// automatically after every successful Add.
func (s *Store) Rank() error {
	return s.ranker.run()
}

// writeEntry persists the rounded entry in the stable on-disk form:
// pretty-printed JSON with sorted keys, written atomically.
func (s *Store) writeEntry(path string, e entry.Entry) error {
	data, err := codec.MarshalPretty(map[string]any(e))
	if err != nil {
		return err
	}
	return fs.WriteFileAtomic(s.fsys, path, data, 0644)
}

// scanNames rebuilds the hash-to-storage-name map from the directory.
func (s *Store) scanNames() error {
	dirEntries, err := s.fsys.ReadDir(s.entriesDir)
	if err != nil {
		return err
	}
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, entryExt) {
			continue
		}
		h := hashFromName(name)
		if len(h) != entry.HashLen {
			continue
		}
		s.names[h] = name
	}
	return nil
}

// findName scans the directory for the file belonging to hash, covering
// both the prefixed and the bare naming convention.
func (s *Store) findName(hash string) (string, bool) {
	dirEntries, err := s.fsys.ReadDir(s.entriesDir)
	if err != nil {
		return "", false
	}
	for _, de := range dirEntries {
		if nameMatchesHash(de.Name(), hash) {
			return de.Name(), true
		}
	}
	return "", false
}

// hashFromName extracts the content hash from a storage name: the text
// after the last underscore, before the extension.
func hashFromName(name string) string {
	base := strings.TrimSuffix(name, entryExt)
	if i := strings.LastIndex(base, "_"); i >= 0 {
		return base[i+1:]
	}
	return base
}

func nameMatchesHash(name, hash string) bool {
	return name == hash+entryExt || strings.HasSuffix(name, "_"+hash+entryExt)
}
