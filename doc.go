// Package paretogo persists the set of non-dominated solutions produced
// by a multi-objective optimizer, deduplicates them by content, and keeps
// a human-browsable ranking by distance to a computed ideal point.
//
// Entries are arbitrary JSON-shaped optimizer results carrying their
// objective values under "analyses_combined" as "w_<i>" keys (lower is
// better). Before hashing, every floating-point leaf is rounded to a
// configured number of significant digits so numerically-negligible
// differences collapse to the same identity.
//
// On disk a store is laid out as:
//
//	<dir>/index.json                       sorted JSON array of content hashes
//	<dir>/pareto/<distance>_<hash>.json    one pretty-printed file per entry
//
// The distance prefix is a zero-padded fixed-point rendering of the
// entry's Euclidean distance to the ideal point in per-objective
// normalized space; plain lexical sort of the directory therefore equals
// nearness order. The prefix is derived state: it is recomputed from the
// index plus all entries' objective vectors after every successful Add.
//
// # Quick start
//
//	store, err := paretogo.Open("./results")
//	if err != nil {
//		log.Fatal(err)
//	}
//	added, err := store.Add(entry.Entry{
//		"analyses_combined": map[string]any{"w_0": 1.0, "w_1": 2.0},
//	})
//
// # Concurrency
//
// A store is single-writer and synchronous. Persisted mutations use
// write-to-temporary-then-rename so a crash leaves either the old or the
// new state. There is no cross-process locking: two processes adding
// entries concurrently can lose an index update or rank against a stale
// entry set. This is an accepted limitation of the single-writer usage
// pattern.
package paretogo
