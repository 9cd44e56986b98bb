package hnsw

import (
	"math"

	"github.com/mohit67890/realm-core-hnsw/distance"
)

// Metric re-exports distance.Metric so callers configuring an index
// don't need a second import for the three-value enum.
type Metric = distance.Metric

const (
	Euclidean = distance.Euclidean
	Cosine    = distance.Cosine
	NegDot    = distance.NegDot
)

// Config holds the tunable parameters of an index. Metric is a closed
// enum selected once at Create or Open time — never a pluggable
// interface.
type Config struct {
	Metric           Metric
	M                int
	M0               int
	EFConstruction   int
	EFSearch         int
	Ml               float64
	RandomSeed       int64
	UseHeuristic     bool
	OverFetch        int
	MetricsCollector MetricsCollector
	Logger           *Logger

	// metricSet distinguishes an explicit WithMetric(Euclidean) from a
	// caller who never called WithMetric at all; Metric's zero value is
	// itself a valid metric, so this flag is the only way Open can tell
	// the two apart.
	metricSet bool
}

// DefaultConfig returns the library's baseline defaults. Metric must still be set
// by the caller; a zero-value Metric is Euclidean, which is a valid
// default but callers needing Cosine or NegDot must say so explicitly.
func DefaultConfig() Config {
	m := 16
	return Config{
		Metric:           Euclidean,
		M:                m,
		M0:               2 * m,
		EFConstruction:   200,
		EFSearch:         efSearchDefault(m),
		Ml:               1 / math.Log(2),
		RandomSeed:       1,
		UseHeuristic:     true,
		OverFetch:        10,
		MetricsCollector: NoopMetricsCollector{},
		Logger:           NoopLogger(),
	}
}

func efSearchDefault(m int) int {
	if v := 8 * m; v > 64 {
		return v
	}
	return 64
}

// Option configures a Config via functional options (teacher pattern:
// small closures applied over a base struct).
type Option func(*Config)

// WithMetric sets the distance metric.
func WithMetric(m Metric) Option {
	return func(c *Config) {
		c.Metric = m
		c.metricSet = true
	}
}

// WithM sets the target neighbor count for layers >= 1; M0 follows as
// 2*M unless WithM0 is given afterward.
func WithM(m int) Option {
	return func(c *Config) {
		c.M = m
		c.M0 = 2 * m
		c.EFSearch = efSearchDefault(m)
	}
}

// WithM0 overrides the layer-0 target neighbor count independently of M.
func WithM0(m0 int) Option { return func(c *Config) { c.M0 = m0 } }

// WithEFConstruction sets the candidate-set size used during insertion.
func WithEFConstruction(ef int) Option { return func(c *Config) { c.EFConstruction = ef } }

// WithEFSearch sets the default candidate-set size used during k-NN query.
func WithEFSearch(ef int) Option { return func(c *Config) { c.EFSearch = ef } }

// WithMl overrides the layer-sampling scale (default 1/ln2).
func WithMl(ml float64) Option { return func(c *Config) { c.Ml = ml } }

// WithRandomSeed fixes the layer sampler's seed for determinism.
func WithRandomSeed(seed int64) Option { return func(c *Config) { c.RandomSeed = seed } }

// WithHeuristic toggles the diversity heuristic for upper layers; false
// falls back to simple top-M selection at every layer.
func WithHeuristic(use bool) Option { return func(c *Config) { c.UseHeuristic = use } }

// WithOverFetch sets Config.OverFetch. FilteredSearch in the query
// package does not read it: it takes its multiplier as an argument and
// falls back to query.DefaultOverFetch.
func WithOverFetch(factor int) Option { return func(c *Config) { c.OverFetch = factor } }

// WithMetricsCollector installs a MetricsCollector; default is a no-op.
func WithMetricsCollector(m MetricsCollector) Option {
	return func(c *Config) { c.MetricsCollector = m }
}

// WithLogger installs a *Logger; default discards everything.
func WithLogger(l *Logger) Option { return func(c *Config) { c.Logger = l } }
