package writer

import (
	"time"

	"github.com/weftlib/weft/internal/options"
	"github.com/weftlib/weft/section"
	"github.com/weftlib/weft/trace"
)

// BlockConfig holds the sample count and polynomial degree used to fit
// one block kind (§6.2).
type BlockConfig struct {
	Enabled          bool
	SampleCount      uint32
	PolynomialDegree uint32
}

// Config configures a Write call (§6.2). The zero value is not usable
// directly; start from DefaultConfig.
type Config struct {
	MultiYear      BlockConfig
	Monthly        BlockConfig
	FortyEightHour BlockConfig

	ForceFortyEightHourBlocks bool
	CustomTimespan            string

	ID            string
	DataSource    string
	Quantity      string
	ValueBehavior section.ValueBehavior

	// Now supplies the clock stamped into generated_at; defaults to
	// time.Now for production use and is overridable for deterministic
	// tests.
	Now func() time.Time

	Sink trace.Sink
}

// DefaultConfig returns a Config with every block kind's sample count
// and polynomial degree set to the format's defaults (§4.5 step 5),
// but every kind disabled: callers (or Recommend) must opt each
// kind in explicitly.
func DefaultConfig() *Config {
	return &Config{
		MultiYear:      BlockConfig{SampleCount: 50, PolynomialDegree: 14},
		Monthly:        BlockConfig{SampleCount: 48, PolynomialDegree: 9},
		FortyEightHour: BlockConfig{SampleCount: 48, PolynomialDegree: 5},
		ValueBehavior:  section.NewUnbounded(),
		Now:            time.Now,
		Sink:           trace.NopSink{},
	}
}

// Option configures a Config via the functional-options pattern (§6.2).
type Option = options.Option[*Config]

// WithMultiYear enables multi-year blocks with the given fit parameters.
func WithMultiYear(sampleCount, polynomialDegree uint32) Option {
	return options.NoError(func(c *Config) {
		c.MultiYear = BlockConfig{Enabled: true, SampleCount: sampleCount, PolynomialDegree: polynomialDegree}
	})
}

// WithMonthly enables monthly blocks with the given fit parameters.
func WithMonthly(sampleCount, polynomialDegree uint32) Option {
	return options.NoError(func(c *Config) {
		c.Monthly = BlockConfig{Enabled: true, SampleCount: sampleCount, PolynomialDegree: polynomialDegree}
	})
}

// WithFortyEightHour enables 48h blocks with the given fit parameters.
func WithFortyEightHour(sampleCount, polynomialDegree uint32) Option {
	return options.NoError(func(c *Config) {
		c.FortyEightHour = BlockConfig{Enabled: true, SampleCount: sampleCount, PolynomialDegree: polynomialDegree}
	})
}

// WithForceFortyEightHourBlocks bypasses the 48h coverage and sample
// density thresholds (§4.7).
func WithForceFortyEightHourBlocks(force bool) Option {
	return options.NoError(func(c *Config) { c.ForceFortyEightHourBlocks = force })
}

// WithCustomTimespan overrides the inferred preamble timespan field.
func WithCustomTimespan(timespan string) Option {
	return options.NoError(func(c *Config) { c.CustomTimespan = timespan })
}

// WithIdentity sets the preamble's id, data source, and quantity literals.
func WithIdentity(id, dataSource, quantity string) Option {
	return options.NoError(func(c *Config) {
		c.ID, c.DataSource, c.Quantity = id, dataSource, quantity
	})
}

// WithValueBehavior sets the quantity's range semantics (§3.3).
func WithValueBehavior(vb section.ValueBehavior) Option {
	return options.NoError(func(c *Config) { c.ValueBehavior = vb })
}

// WithTrace installs a trace sink that receives a Skipped event for
// every block a coverage or density threshold rejects.
func WithTrace(sink trace.Sink) Option {
	return options.NoError(func(c *Config) {
		if sink == nil {
			sink = trace.NopSink{}
		}
		c.Sink = sink
	})
}

// WithClock overrides the clock used to stamp generated_at; production
// callers never need this.
func WithClock(now func() time.Time) Option {
	return options.NoError(func(c *Config) { c.Now = now })
}

// Apply applies opts to c in order.
func (c *Config) Apply(opts ...Option) error {
	return options.Apply(c, opts...)
}
