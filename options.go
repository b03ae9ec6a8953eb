package taa

// Config holds the host-tunable parameters of the resolve stage.
// Use functional options with NewConfig or NewPipeline to customize it.
type Config struct {
	// BlendWeight is the exponential history weight in [0, 1]:
	// output = current*(1-w) + history*w at full confidence. Typical
	// values are in the 0.85 to 0.95 range.
	BlendWeight float64

	// DepthRejectionThreshold is the depth discrepancy at which the
	// reprojected history is considered disoccluded and its weight driven
	// to zero. Zero disables depth rejection.
	DepthRejectionThreshold float64

	// VelocityRejectionThreshold is the NDC velocity magnitude at which
	// history confidence reaches zero. Zero disables velocity rejection.
	VelocityRejectionThreshold float64

	// ClampRadius is the neighborhood radius, in pixels, of the min/max
	// window used to clamp history color. Radius 1 is the classic 3x3
	// block. Minimum 1.
	ClampRadius int
}

// DefaultConfig returns the default resolve parameters.
func DefaultConfig() Config {
	return Config{
		BlendWeight:             0.9,
		DepthRejectionThreshold: 0.01,
		ClampRadius:             1,
	}
}

// Option configures a Config during creation.
type Option func(*Config)

// WithBlendWeight sets the exponential history blend weight.
// Values are clamped to [0, 1].
func WithBlendWeight(a float64) Option {
	return func(c *Config) {
		c.BlendWeight = a
	}
}

// WithDepthRejection sets the disocclusion depth threshold.
// Negative values disable depth rejection.
func WithDepthRejection(t float64) Option {
	return func(c *Config) {
		c.DepthRejectionThreshold = t
	}
}

// WithVelocityRejection sets the velocity-magnitude rejection threshold.
// Negative values disable velocity rejection.
func WithVelocityRejection(t float64) Option {
	return func(c *Config) {
		c.VelocityRejectionThreshold = t
	}
}

// WithClampRadius sets the neighborhood clamp radius in pixels.
// Values below 1 are raised to 1.
func WithClampRadius(r int) Option {
	return func(c *Config) {
		c.ClampRadius = r
	}
}

// NewConfig builds a Config from the defaults plus the given options,
// then normalizes every field to its legal range.
func NewConfig(opts ...Option) Config {
	c := DefaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	if c.BlendWeight < 0 {
		c.BlendWeight = 0
	}
	if c.BlendWeight > 1 {
		c.BlendWeight = 1
	}
	if c.DepthRejectionThreshold < 0 {
		c.DepthRejectionThreshold = 0
	}
	if c.VelocityRejectionThreshold < 0 {
		c.VelocityRejectionThreshold = 0
	}
	if c.ClampRadius < 1 {
		c.ClampRadius = 1
	}
	return c
}
