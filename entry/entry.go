// Package entry defines the optimizer result record kept in a Pareto
// front store, together with the rounding and content-identity helpers
// used to deduplicate records.
//
// An Entry is an arbitrary JSON-shaped mapping. The only structural
// requirement is a nested "analyses_combined" mapping whose "w_<i>" keys
// hold the numeric objective values (lower is better). An optional
// "optimize.scoring" list carries human-readable objective names used
// for display only.
package entry

import (
	"math"
	"sort"
	"strings"
)

// ObjectivePrefix marks objective value keys inside "analyses_combined".
const ObjectivePrefix = "w_"

// Entry is a single optimizer result as decoded from JSON.
type Entry map[string]any

// AnalysesCombined returns the nested objective mapping, or nil if absent.
func (e Entry) AnalysesCombined() map[string]any {
	m, _ := e["analyses_combined"].(map[string]any)
	return m
}

// ObjectiveKeys returns the sorted "w_<i>" keys of the entry.
func (e Entry) ObjectiveKeys() []string {
	var keys []string
	for k := range e.AnalysesCombined() {
		if strings.HasPrefix(k, ObjectivePrefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Objective returns the numeric value stored under the given key of
// "analyses_combined". The second result is false when the key is absent
// or not numeric.
func (e Entry) Objective(key string) (float64, bool) {
	v, ok := e.AnalysesCombined()[key]
	if !ok {
		return 0, false
	}
	f, ok := toFloat(v)
	return f, ok
}

// ScoringNames returns the "optimize.scoring" display names, one per
// objective index, or nil if the entry carries none.
func (e Entry) ScoringNames() []string {
	opt, _ := e["optimize"].(map[string]any)
	raw, _ := opt["scoring"].([]any)
	if len(raw) == 0 {
		return nil
	}
	names := make([]string, 0, len(raw))
	for _, v := range raw {
		s, _ := v.(string)
		names = append(names, s)
	}
	return names
}

// Round returns a copy of e with every floating-point leaf rounded to
// sigDigits significant digits. Rounding happens before hashing so that
// numerically-negligible differences collapse to the same identity.
func Round(e Entry, sigDigits int) Entry {
	return roundValue(map[string]any(e), sigDigits).(map[string]any)
}

// RoundFloat rounds v to sigDigits significant digits.
// Zero, NaN and infinities are returned unchanged.
func RoundFloat(v float64, sigDigits int) float64 {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	decimals := sigDigits - 1 - int(math.Floor(math.Log10(math.Abs(v))))
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}

func roundValue(v any, sigDigits int) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = roundValue(val, sigDigits)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = roundValue(val, sigDigits)
		}
		return out
	case float64:
		return RoundFloat(t, sigDigits)
	case float32:
		return RoundFloat(float64(t), sigDigits)
	default:
		return v
	}
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	default:
		return 0, false
	}
}
