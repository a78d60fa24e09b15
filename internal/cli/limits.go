package cli

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// limitCheck is one parsed objective filter, e.g. "w_0<1.0".
type limitCheck struct {
	Key   string
	Token string
	Op    func(a, b float64) bool
	Value float64
}

// Token scan order matters: two-character operators must match before
// their one-character prefixes.
var operators = []struct {
	token string
	fn    func(a, b float64) bool
}{
	{"<=", func(a, b float64) bool { return a <= b }},
	{">=", func(a, b float64) bool { return a >= b }},
	{"<", func(a, b float64) bool { return a < b }},
	{">", func(a, b float64) bool { return a > b }},
	{"==", func(a, b float64) bool { return a == b }},
	{"=", func(a, b float64) bool { return a == b }},
}

// parseLimit splits an expression like "w_0<=1.0" into a check. The key
// gets a "_mean" suffix appended: filters target the aggregated
// statistics the optimizer writes alongside each objective.
func parseLimit(expr string) (limitCheck, error) {
	for _, op := range operators {
		i := strings.Index(expr, op.token)
		if i < 0 {
			continue
		}
		key := strings.TrimSpace(expr[:i])
		val, err := strconv.ParseFloat(strings.TrimSpace(expr[i+len(op.token):]), 64)
		if err != nil {
			return limitCheck{}, fmt.Errorf("invalid limit expression %q: %w", expr, err)
		}
		return limitCheck{
			Key:   key + "_mean",
			Token: op.token,
			Op:    op.fn,
			Value: val,
		}, nil
	}
	return limitCheck{}, fmt.Errorf("invalid limit expression %q", expr)
}

// parseLimits parses all expressions, skipping invalid ones with a note.
func parseLimits(exprs []string) []limitCheck {
	var checks []limitCheck
	for _, expr := range exprs {
		check, err := parseLimit(expr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skipping invalid limit expression %q: %v\n", expr, err)
			continue
		}
		checks = append(checks, check)
	}
	return checks
}

// applyLimits keeps the members passing every check. A member missing the
// filtered field counts as +Inf, so "less than" filters exclude it.
func applyLimits(members []member, checks []limitCheck) []member {
	if len(checks) == 0 {
		return members
	}
	out := members[:0]
	for _, m := range members {
		keep := true
		for _, c := range checks {
			v, ok := m.Entry.Objective(c.Key)
			if !ok {
				v = math.Inf(1)
			}
			if !c.Op(v, c.Value) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, m)
		}
	}
	return out
}
