package paretogo

import (
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/paretogo/entry"
	"github.com/hupe1980/paretogo/ideal"
	"github.com/hupe1980/paretogo/internal/fs"
)

func testEntry(objectives map[string]any) entry.Entry {
	return entry.Entry{"analyses_combined": objectives}
}

func openTestStore(t *testing.T, optFns ...Option) *Store {
	t.Helper()
	opts := append([]Option{WithLogger(NoopLogger())}, optFns...)
	s, err := Open(t.TempDir(), opts...)
	require.NoError(t, err)
	return s
}

func entryFiles(t *testing.T, s *Store) []string {
	t.Helper()
	dirEntries, err := os.ReadDir(filepath.Join(s.Dir(), EntriesDirName))
	require.NoError(t, err)
	var names []string
	for _, de := range dirEntries {
		names = append(names, de.Name())
	}
	sort.Strings(names)
	return names
}

func TestAddSingleEntryRanksAtZero(t *testing.T) {
	s := openTestStore(t)

	e := testEntry(map[string]any{"w_0": 1.0, "w_1": 2.0})
	added, err := s.Add(e)
	require.NoError(t, err)
	assert.True(t, added)

	h, err := s.Hash(e)
	require.NoError(t, err)

	// Single entry: min == max on every objective, normalized distance 0.
	assert.Equal(t, []string{"000.0000_" + h + ".json"}, entryFiles(t, s))
	assert.Equal(t, []string{h}, s.List())
}

func TestAddIsIdempotent(t *testing.T) {
	s := openTestStore(t)

	e := testEntry(map[string]any{"w_0": 1.0, "w_1": 2.0})
	added, err := s.Add(e)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.Add(e)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, 1, s.Len())
	assert.Len(t, entryFiles(t, s), 1)
}

func TestAddDedupsAcrossRounding(t *testing.T) {
	s := openTestStore(t)

	added, err := s.Add(testEntry(map[string]any{"w_0": 1.0}))
	require.NoError(t, err)
	assert.True(t, added)

	// Differs only past the sixth significant digit.
	added, err = s.Add(testEntry(map[string]any{"w_0": 1.0000001}))
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, 1, s.Len())
}

func TestRoundTrip(t *testing.T) {
	s := openTestStore(t)

	e := entry.Entry{
		"analyses_combined": map[string]any{"w_0": 1.23456789, "w_1": 2.0},
		"optimize":          map[string]any{"scoring": []any{"adg", "drawdown"}},
	}
	added, err := s.Add(e)
	require.NoError(t, err)
	require.True(t, added)

	h, err := s.Hash(e)
	require.NoError(t, err)

	got, err := s.Load(h)
	require.NoError(t, err)
	assert.Equal(t, entry.Round(e, DefaultSigDigits), got)
}

func TestLoadNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Load("deadbeefdeadbeef")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTwoEntryRanking(t *testing.T) {
	s := openTestStore(t)

	e1 := testEntry(map[string]any{"w_0": 1.0, "w_1": 2.0})
	e2 := testEntry(map[string]any{"w_0": 0.0, "w_1": 3.0})

	for _, e := range []entry.Entry{e1, e2} {
		added, err := s.Add(e)
		require.NoError(t, err)
		require.True(t, added)
	}

	// mins={0,2}, maxs={1,3}, default ideal = weighted(0) = min = {0,2}.
	// e1 normalizes to (1,0), e2 to (0,1): both at distance 1.0.
	h1, err := s.Hash(e1)
	require.NoError(t, err)
	h2, err := s.Hash(e2)
	require.NoError(t, err)

	want := []string{"001.0000_" + h1 + ".json", "001.0000_" + h2 + ".json"}
	sort.Strings(want)
	assert.Equal(t, want, entryFiles(t, s))
}

func TestDistanceOrderMatchesLexicalOrder(t *testing.T) {
	s := openTestStore(t)

	far := testEntry(map[string]any{"w_0": 1.0, "w_1": 2.0})
	farther := testEntry(map[string]any{"w_0": 0.0, "w_1": 3.0})
	near := testEntry(map[string]any{"w_0": 0.0, "w_1": 2.0}) // the per-axis minimum

	for _, e := range []entry.Entry{far, farther, near} {
		added, err := s.Add(e)
		require.NoError(t, err)
		require.True(t, added)
	}

	hNear, err := s.Hash(near)
	require.NoError(t, err)

	files := entryFiles(t, s)
	require.Len(t, files, 3)
	// The closest entry sorts first by plain string order.
	assert.Equal(t, "000.0000_"+hNear+".json", files[0])
	assert.True(t, strings.HasPrefix(files[1], "001.0000_"))
	assert.True(t, strings.HasPrefix(files[2], "001.0000_"))
}

func TestMissingObjectiveRanksLast(t *testing.T) {
	s := openTestStore(t)

	full1 := testEntry(map[string]any{"w_0": 1.0, "w_1": 2.0})
	full2 := testEntry(map[string]any{"w_0": 0.0, "w_1": 3.0})
	partial := testEntry(map[string]any{"w_0": 0.4}) // no w_1

	for _, e := range []entry.Entry{full1, full2, partial} {
		added, err := s.Add(e)
		require.NoError(t, err)
		require.True(t, added)
	}

	hPartial, err := s.Hash(partial)
	require.NoError(t, err)

	// The missing objective yields an infinite distance, clamped to the
	// largest prefix so the entry sorts after every finite one.
	files := entryFiles(t, s)
	require.Len(t, files, 3)
	assert.Equal(t, "999.9999_"+hPartial+".json", files[2])
	assert.True(t, strings.HasPrefix(files[0], "001.0000_"))
	assert.True(t, strings.HasPrefix(files[1], "001.0000_"))
}

func TestRankSurvivesDeletedEntryFile(t *testing.T) {
	s := openTestStore(t)

	kept := testEntry(map[string]any{"w_0": 1.0, "w_1": 2.0})
	doomed := testEntry(map[string]any{"w_0": 0.0, "w_1": 3.0})
	for _, e := range []entry.Entry{kept, doomed} {
		added, err := s.Add(e)
		require.NoError(t, err)
		require.True(t, added)
	}

	hKept, err := s.Hash(kept)
	require.NoError(t, err)
	hDoomed, err := s.Hash(doomed)
	require.NoError(t, err)

	// Delete one entry file directly, bypassing the store.
	for _, name := range entryFiles(t, s) {
		if strings.HasSuffix(name, "_"+hDoomed+".json") {
			require.NoError(t, os.Remove(filepath.Join(s.Dir(), EntriesDirName, name)))
		}
	}

	// The pass skips the missing file and still ranks the survivor.
	require.NoError(t, s.Rank())

	files := entryFiles(t, s)
	require.Len(t, files, 1)
	assert.Equal(t, "000.0000_"+hKept+".json", files[0])
	assert.Equal(t, 2, s.Len())
}

func TestIdealModeOption(t *testing.T) {
	s := openTestStore(t, WithIdealMode(ideal.ModeMidrange))

	for _, e := range []entry.Entry{
		testEntry(map[string]any{"w_0": 0.0}),
		testEntry(map[string]any{"w_0": 1.0}),
	} {
		added, err := s.Add(e)
		require.NoError(t, err)
		require.True(t, added)
	}

	// Midrange ideal normalizes to 0.5: both entries at distance 0.5.
	for _, name := range entryFiles(t, s) {
		assert.True(t, strings.HasPrefix(name, "000.5000_"), name)
	}
}

func TestIdealWeightsOption(t *testing.T) {
	s := openTestStore(t, WithIdealWeights([]float64{1}))

	lo := testEntry(map[string]any{"w_0": 0.0})
	hi := testEntry(map[string]any{"w_0": 1.0})
	for _, e := range []entry.Entry{lo, hi} {
		added, err := s.Add(e)
		require.NoError(t, err)
		require.True(t, added)
	}

	hHi, err := s.Hash(hi)
	require.NoError(t, err)

	// Weight 1 targets the column maximum, so the high entry ranks first.
	files := entryFiles(t, s)
	assert.Equal(t, "000.0000_"+hHi+".json", files[0])
}

func TestRemove(t *testing.T) {
	s := openTestStore(t)

	e := testEntry(map[string]any{"w_0": 1.0})
	added, err := s.Add(e)
	require.NoError(t, err)
	require.True(t, added)

	h, err := s.Hash(e)
	require.NoError(t, err)

	removed, err := s.Remove(h)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Empty(t, s.List())
	assert.Empty(t, entryFiles(t, s))
}

func TestRemoveUnknownHash(t *testing.T) {
	s := openTestStore(t)

	added, err := s.Add(testEntry(map[string]any{"w_0": 1.0}))
	require.NoError(t, err)
	require.True(t, added)
	before := s.List()

	removed, err := s.Remove("deadbeefdeadbeef")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, before, s.List())
}

func TestClear(t *testing.T) {
	s := openTestStore(t)

	for _, e := range []entry.Entry{
		testEntry(map[string]any{"w_0": 1.0}),
		testEntry(map[string]any{"w_0": 2.0}),
	} {
		added, err := s.Add(e)
		require.NoError(t, err)
		require.True(t, added)
	}

	require.NoError(t, s.Clear())
	assert.Empty(t, s.List())
	assert.Empty(t, entryFiles(t, s))

	_, err := os.Stat(filepath.Join(s.Dir(), "index.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestIndexFileConsistency(t *testing.T) {
	s := openTestStore(t)

	entries := []entry.Entry{
		testEntry(map[string]any{"w_0": 1.0, "w_1": 5.0}),
		testEntry(map[string]any{"w_0": 2.0, "w_1": 4.0}),
		testEntry(map[string]any{"w_0": 3.0, "w_1": 3.0}),
	}
	for _, e := range entries {
		added, err := s.Add(e)
		require.NoError(t, err)
		require.True(t, added)
	}
	h0, err := s.Hash(entries[0])
	require.NoError(t, err)
	removed, err := s.Remove(h0)
	require.NoError(t, err)
	require.True(t, removed)

	hashes := s.List()
	files := entryFiles(t, s)
	require.Len(t, files, len(hashes))

	// Every indexed hash has exactly one file and vice versa.
	for _, h := range hashes {
		matches := 0
		for _, f := range files {
			if strings.HasSuffix(f, "_"+h+".json") || f == h+".json" {
				matches++
			}
		}
		assert.Equal(t, 1, matches, h)
	}

	// A fresh store sees the same membership.
	s2, err := Open(s.Dir(), WithLogger(NoopLogger()))
	require.NoError(t, err)
	assert.Equal(t, hashes, s2.List())
}

func TestWriteFailureLeavesIndexUntouched(t *testing.T) {
	ffs := fs.NewFaultyFS(nil)
	dir := t.TempDir()
	s, err := Open(dir, WithLogger(NoopLogger()), WithFileSystem(ffs))
	require.NoError(t, err)

	e := testEntry(map[string]any{"w_0": 1.0})
	h, err := s.Hash(e)
	require.NoError(t, err)

	ffs.AddRule(h, fs.Fault{FailWrites: true})
	added, err := s.Add(e)
	assert.False(t, added)
	assert.Error(t, err)

	// The index must never reference a missing file.
	assert.Empty(t, s.List())
	assert.Empty(t, entryFiles(t, s))

	ffs.ClearRules()
	added, err = s.Add(e)
	require.NoError(t, err)
	assert.True(t, added)
}

func TestIndexSaveFailureRollsBackEntry(t *testing.T) {
	ffs := fs.NewFaultyFS(nil)
	s, err := Open(t.TempDir(), WithLogger(NoopLogger()), WithFileSystem(ffs))
	require.NoError(t, err)

	ffs.AddRule("index.json.tmp", fs.Fault{FailWrites: true})

	added, err := s.Add(testEntry(map[string]any{"w_0": 1.0}))
	assert.False(t, added)
	assert.Error(t, err)
	assert.Empty(t, s.List())
	assert.Empty(t, entryFiles(t, s))

	ffs.ClearRules()
	added, err = s.Add(testEntry(map[string]any{"w_0": 1.0}))
	require.NoError(t, err)
	assert.True(t, added)
}

func TestCorruptIndexRecoversEmpty(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir, WithLogger(NoopLogger()))
	require.NoError(t, err)
	added, err := s.Add(testEntry(map[string]any{"w_0": 1.0}))
	require.NoError(t, err)
	require.True(t, added)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.json"), []byte("{broken"), 0644))

	// Fail-soft: the store opens empty, existing entry files stay on disk.
	s2, err := Open(dir, WithLogger(NoopLogger()))
	require.NoError(t, err)
	assert.Empty(t, s2.List())
	assert.Len(t, entryFiles(t, s2), 1)
}

func TestEntryFileIsPrettyPrinted(t *testing.T) {
	s := openTestStore(t)

	e := testEntry(map[string]any{"w_1": 2.0, "w_0": 1.0})
	added, err := s.Add(e)
	require.NoError(t, err)
	require.True(t, added)

	files := entryFiles(t, s)
	require.Len(t, files, 1)
	data, err := os.ReadFile(filepath.Join(s.Dir(), EntriesDirName, files[0]))
	require.NoError(t, err)

	// Sorted keys, 4-space indent: stable diffable output.
	want := "{\n    \"analyses_combined\": {\n        \"w_0\": 1,\n        \"w_1\": 2\n    }\n}"
	assert.Equal(t, want, string(data))
}

func TestHashFromName(t *testing.T) {
	assert.Equal(t, "abcdef", hashFromName("000.1234_abcdef.json"))
	assert.Equal(t, "abcdef", hashFromName("abcdef.json"))
	assert.Equal(t, "abcdef", hashFromName("001.0000_x_abcdef.json"))
}

func TestFormatDistance(t *testing.T) {
	assert.Equal(t, "000.0000", formatDistance(0))
	assert.Equal(t, "001.0000", formatDistance(1))
	assert.Equal(t, "012.3457", formatDistance(12.34567))
	assert.Equal(t, "999.9999", formatDistance(1e18))
	assert.Equal(t, "999.9999", formatDistance(math.Inf(1)))
}
