package paretogo

import (
	"github.com/hupe1980/paretogo/codec"
	"github.com/hupe1980/paretogo/ideal"
	"github.com/hupe1980/paretogo/internal/fs"
)

// DefaultSigDigits is the store-wide significant-digit precision applied
// to every floating-point leaf before hashing.
const DefaultSigDigits = 6

type options struct {
	sigDigits int
	codec     codec.Codec
	fsys      fs.FileSystem
	logger    *Logger
	mode      ideal.Mode
	weights   []float64
}

// Option configures Open behavior.
type Option func(*options)

// WithSigDigits configures the significant-digit rounding applied before
// hashing. Changing it on an existing store changes entry identities, so
// previously stored entries may no longer deduplicate against new ones.
func WithSigDigits(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.sigDigits = n
		}
	}
}

// WithCodec configures the codec used for decoding persisted entries.
// If nil is passed, codec.Default is used. The pretty on-disk entry
// format is codec-independent.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithFileSystem injects a FileSystem implementation, primarily for
// fault-injection tests.
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		if fsys == nil {
			fsys = fs.Default
		}
		o.fsys = fsys
	}
}

// WithLogger configures the structured logger used for warnings during
// index recovery and ranking passes. Pass NoopLogger() to silence.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NewLogger(nil)
		}
		o.logger = l
	}
}

// WithIdealMode selects the ideal point strategy used by the ranking
// pass. The default is ideal.ModeWeighted with all-zero weights, which
// is equivalent to ideal.ModeMin.
func WithIdealMode(m ideal.Mode) Option {
	return func(o *options) {
		o.mode = m
	}
}

// WithIdealWeights sets the per-objective weights for weighted mode.
// A single weight broadcasts to all objectives.
func WithIdealWeights(weights []float64) Option {
	return func(o *options) {
		o.weights = weights
	}
}
