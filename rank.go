package paretogo

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/hupe1980/paretogo/entry"
	"github.com/hupe1980/paretogo/ideal"
)

// ranker rewrites every entry's storage name with the zero-padded
// distance to the current ideal point, so lexical sort of the entries
// directory equals ranked nearness order.
//
// Every pass is O(total entries) in time and file operations. Front
// sizes are small (tens to low hundreds), so a full rescan after each
// insert stays cheap; the external contract would survive an incremental
// implementation if that ever changes.
type ranker struct {
	store   *Store
	mode    ideal.Mode
	weights []float64
}

func (r *ranker) run() error {
	s := r.store

	hashes := s.idx.Sorted()
	if len(hashes) == 0 {
		s.logger.Info("no entries to rank")
		return nil
	}

	entries := make(map[string]entry.Entry, len(hashes))
	for _, h := range hashes {
		e, err := s.Load(h)
		if err != nil {
			s.logger.WithHash(h).Warn("skipping unreadable entry during ranking", "error", err)
			continue
		}
		entries[h] = e
	}

	// Objective keys come from the first loadable entry; all entries are
	// expected to share the same objective layout.
	wKeys := r.objectiveKeys(hashes, entries)
	if len(wKeys) == 0 {
		s.logger.Warn("no objective keys found, skipping ranking")
		return nil
	}

	bounds, points := collectObjectives(hashes, entries, wKeys)
	if len(points) == 0 {
		s.logger.Warn("no complete objective vectors, skipping ranking")
		return nil
	}

	ip, err := ideal.Compute(points, r.mode, func(o *ideal.Options) {
		o.Weights = r.weightsFor(len(wKeys))
	})
	if err != nil {
		return fmt.Errorf("compute ideal point: %w", err)
	}
	idealNorm := bounds.Normalize(ip)

	for _, h := range hashes {
		e, ok := entries[h]
		if !ok {
			continue
		}
		vec := make([]float64, len(wKeys))
		for i, key := range wKeys {
			v, ok := e.Objective(key)
			if !ok {
				// Missing objectives rank as maximally far.
				v = math.Inf(1)
			}
			vec[i] = v
		}
		dist := ideal.Distance(bounds.Normalize(vec), idealNorm)
		if err := r.rename(h, dist); err != nil {
			s.logger.WithHash(h).Warn("failed to rename entry", "error", err)
		}
	}
	return nil
}

// rename moves the entry file for h to its new distance-prefixed name.
// A missing file is skipped rather than failing the whole pass.
func (r *ranker) rename(h string, dist float64) error {
	s := r.store

	newName := formatDistance(dist) + "_" + h + entryExt
	cur, ok := s.names[h]
	if !ok {
		cur, ok = s.findName(h)
		if !ok {
			return fmt.Errorf("%w: no file for hash", ErrNotFound)
		}
	}
	if cur == newName {
		return nil
	}
	oldPath := filepath.Join(s.entriesDir, cur)
	newPath := filepath.Join(s.entriesDir, newName)
	if err := s.fsys.Rename(oldPath, newPath); err != nil {
		return err
	}
	s.names[h] = newName
	return nil
}

func (r *ranker) objectiveKeys(hashes []string, entries map[string]entry.Entry) []string {
	for _, h := range hashes {
		if e, ok := entries[h]; ok {
			return e.ObjectiveKeys()
		}
	}
	return nil
}

// weightsFor returns the configured weights, defaulting to all zeros so
// that weighted mode degenerates to min mode.
func (r *ranker) weightsFor(dims int) []float64 {
	if len(r.weights) == 0 {
		return ideal.Zeros(dims)
	}
	return r.weights
}

// collectObjectives derives per-objective bounds from every present value
// and the matrix of complete rows used for the ideal point.
func collectObjectives(hashes []string, entries map[string]entry.Entry, wKeys []string) (ideal.Bounds, [][]float64) {
	columns := make([][]float64, len(wKeys))
	var points [][]float64
	for _, h := range hashes {
		e, ok := entries[h]
		if !ok {
			continue
		}
		row := make([]float64, len(wKeys))
		complete := true
		for i, key := range wKeys {
			v, ok := e.Objective(key)
			if !ok {
				complete = false
				continue
			}
			columns[i] = append(columns[i], v)
			row[i] = v
		}
		if complete {
			points = append(points, row)
		}
	}
	return ideal.NewBounds(columns), points
}

// formatDistance renders a distance as the fixed-width zero-padded
// prefix, 4 fractional digits. Infinite distances (missing objectives)
// clamp to the largest 8-character prefix so they sort last without
// widening the name.
func formatDistance(d float64) string {
	if math.IsInf(d, 1) || d > 999.9999 {
		return "999.9999"
	}
	if math.IsNaN(d) || d < 0 {
		d = 0
	}
	return fmt.Sprintf("%08.4f", d)
}
