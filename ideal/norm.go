package ideal

import "math"

// Bounds holds the observed per-objective minima and maxima used to
// rescale every objective to a common [0,1] range.
type Bounds struct {
	Min []float64
	Max []float64
}

// NewBounds derives bounds from per-column value slices. A column with no
// observed values gets min == max == 0, which normalizes to 0.
func NewBounds(columns [][]float64) Bounds {
	b := Bounds{
		Min: make([]float64, len(columns)),
		Max: make([]float64, len(columns)),
	}
	for i, vals := range columns {
		if len(vals) == 0 {
			continue
		}
		lo, hi := vals[0], vals[0]
		for _, v := range vals[1:] {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		b.Min[i], b.Max[i] = lo, hi
	}
	return b
}

// BoundsOf derives bounds from a full (n_points x n_objectives) matrix.
func BoundsOf(points [][]float64) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}
	dims := len(points[0])
	return Bounds{
		Min: columnMin(points, dims),
		Max: columnMax(points, dims),
	}
}

// Normalize rescales p into per-objective [0,1] space: (v-min)/(max-min)
// where max > min, else 0. A +Inf coordinate stays +Inf so that entries
// with missing objectives rank as maximally far.
func (b Bounds) Normalize(p []float64) []float64 {
	out := make([]float64, len(p))
	for i, v := range p {
		denom := b.Max[i] - b.Min[i]
		if denom > 0 {
			out[i] = (v - b.Min[i]) / denom
		}
	}
	return out
}

// Distance is the Euclidean distance between two equal-length vectors.
func Distance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
