// Package ideal computes reference "ideal" objective vectors for ranking
// Pareto front members, plus the min/max normalization used to compare
// entries against them.
//
// All objectives are minimized: a smaller value is a better value, and
// the ideal point is the (possibly hypothetical) best-case vector under
// the selected strategy.
package ideal

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrUnknownMode is returned by ParseMode for unrecognized mode strings.
var ErrUnknownMode = errors.New("unknown ideal point mode")

// ErrNoPoints is returned by Compute when the input matrix is empty.
var ErrNoPoints = errors.New("no points to compute ideal from")

// Mode selects the ideal point strategy.
type Mode int

const (
	// ModeMin is the per-objective minimum across all points.
	ModeMin Mode = iota
	// ModeWeighted is min + weights*(max-min) per objective.
	ModeWeighted
	// ModeUtopian is min - eps*range, strictly better than any observed point.
	ModeUtopian
	// ModePercentile is the p-th percentile of each objective column.
	ModePercentile
	// ModeMidrange is the average of per-objective min and max.
	ModeMidrange
	// ModeGeomedian is the geometric median via Weiszfeld's algorithm.
	ModeGeomedian
)

func (m Mode) String() string {
	switch m {
	case ModeMin:
		return "min"
	case ModeWeighted:
		return "weighted"
	case ModeUtopian:
		return "utopian"
	case ModePercentile:
		return "percentile"
	case ModeMidrange:
		return "midrange"
	case ModeGeomedian:
		return "geomedian"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// ParseMode resolves a mode name or its short alias.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "min", "m":
		return ModeMin, nil
	case "weighted", "w":
		return ModeWeighted, nil
	case "utopian", "u":
		return ModeUtopian, nil
	case "percentile", "p":
		return ModePercentile, nil
	case "midrange", "mi":
		return ModeMidrange, nil
	case "geomedian", "g":
		return ModeGeomedian, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Options tune mode-specific parameters.
type Options struct {
	// Weights is required for ModeWeighted. A single value broadcasts to
	// all objectives; otherwise the length must match the column count.
	Weights []float64
	// Epsilon is the utopian shift factor.
	Epsilon float64
	// Percentile is the column percentile for ModePercentile, in [0,100].
	Percentile float64
}

// DefaultOptions returns the standard mode parameters.
func DefaultOptions() Options {
	return Options{
		Epsilon:    1e-3,
		Percentile: 10,
	}
}

const (
	weiszfeldMaxIter = 10
	weiszfeldTol     = 1e-9
)

// Compute returns the ideal point of the given (n_points x n_objectives)
// matrix under the selected mode. All rows must have equal length.
func Compute(points [][]float64, mode Mode, optFns ...func(o *Options)) ([]float64, error) {
	if len(points) == 0 || len(points[0]) == 0 {
		return nil, ErrNoPoints
	}

	opts := DefaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	dims := len(points[0])

	switch mode {
	case ModeMin:
		return columnMin(points, dims), nil

	case ModeWeighted:
		weights, err := BroadcastWeights(opts.Weights, dims)
		if err != nil {
			return nil, err
		}
		mins := columnMin(points, dims)
		maxs := columnMax(points, dims)
		out := make([]float64, dims)
		for i := range out {
			out[i] = mins[i] + weights[i]*(maxs[i]-mins[i])
		}
		return out, nil

	case ModeUtopian:
		mins := columnMin(points, dims)
		maxs := columnMax(points, dims)
		out := make([]float64, dims)
		for i := range out {
			out[i] = mins[i] - opts.Epsilon*(maxs[i]-mins[i])
		}
		return out, nil

	case ModePercentile:
		out := make([]float64, dims)
		for i := range out {
			out[i] = percentile(column(points, i), opts.Percentile)
		}
		return out, nil

	case ModeMidrange:
		mins := columnMin(points, dims)
		maxs := columnMax(points, dims)
		out := make([]float64, dims)
		for i := range out {
			out[i] = 0.5 * (mins[i] + maxs[i])
		}
		return out, nil

	case ModeGeomedian:
		return geomedian(points, dims), nil

	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownMode, mode)
	}
}

// BroadcastWeights validates weights against the objective count.
// A single weight is replicated across all objectives.
func BroadcastWeights(weights []float64, dims int) ([]float64, error) {
	switch len(weights) {
	case 0:
		return nil, errors.New("weights required for weighted mode")
	case 1:
		out := make([]float64, dims)
		for i := range out {
			out[i] = weights[0]
		}
		return out, nil
	case dims:
		return weights, nil
	default:
		return nil, fmt.Errorf("got %d weights for %d objectives", len(weights), dims)
	}
}

// Zeros returns an all-zero weight vector of the given length.
func Zeros(dims int) []float64 {
	return make([]float64, dims)
}

// geomedian approximates the geometric median with Weiszfeld iteration:
// start at the column-wise mean, then repeatedly take the 1/distance
// weighted average of all points. Points coincident with the current
// estimate contribute zero weight.
func geomedian(points [][]float64, dims int) []float64 {
	z := make([]float64, dims)
	for _, p := range points {
		for i, v := range p {
			z[i] += v
		}
	}
	for i := range z {
		z[i] /= float64(len(points))
	}

	next := make([]float64, dims)
	for iter := 0; iter < weiszfeldMaxIter; iter++ {
		var wsum float64
		for i := range next {
			next[i] = 0
		}
		for _, p := range points {
			d := Distance(p, z)
			if d == 0 {
				continue
			}
			w := 1.0 / d
			wsum += w
			for i, v := range p {
				next[i] += w * v
			}
		}
		if wsum == 0 {
			break
		}
		converged := true
		for i := range next {
			next[i] /= wsum
			if math.Abs(next[i]-z[i]) > weiszfeldTol {
				converged = false
			}
		}
		copy(z, next)
		if converged {
			break
		}
	}
	return z
}

// percentile is the linearly-interpolated p-th percentile of vals.
func percentile(vals []float64, p float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo < 0 {
		lo, hi = 0, 0
	}
	if hi > len(sorted)-1 {
		lo, hi = len(sorted)-1, len(sorted)-1
	}
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

func column(points [][]float64, i int) []float64 {
	out := make([]float64, 0, len(points))
	for _, p := range points {
		out = append(out, p[i])
	}
	return out
}

func columnMin(points [][]float64, dims int) []float64 {
	out := make([]float64, dims)
	for i := range out {
		out[i] = math.Inf(1)
	}
	for _, p := range points {
		for i, v := range p {
			if v < out[i] {
				out[i] = v
			}
		}
	}
	return out
}

func columnMax(points [][]float64, dims int) []float64 {
	out := make([]float64, dims)
	for i := range out {
		out[i] = math.Inf(-1)
	}
	for _, p := range points {
		for i, v := range p {
			if v > out[i] {
				out[i] = v
			}
		}
	}
	return out
}
