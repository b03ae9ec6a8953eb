package taa

// RGBA represents a color with red, green, blue, and alpha components.
// Each component is nominally in [0, 1], but intermediate pipeline values
// (HDR input, unclamped history) may exceed that range.
type RGBA struct {
	R, G, B, A float64
}

// Common colors.
var (
	Transparent = RGBA{}
	Black       = RGBA{A: 1}
	White       = RGBA{R: 1, G: 1, B: 1, A: 1}
)

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1}
}

// Min returns the componentwise minimum of two colors.
func (c RGBA) Min(o RGBA) RGBA {
	return RGBA{
		R: min(c.R, o.R),
		G: min(c.G, o.G),
		B: min(c.B, o.B),
		A: min(c.A, o.A),
	}
}

// Max returns the componentwise maximum of two colors.
func (c RGBA) Max(o RGBA) RGBA {
	return RGBA{
		R: max(c.R, o.R),
		G: max(c.G, o.G),
		B: max(c.B, o.B),
		A: max(c.A, o.A),
	}
}

// ClampTo restricts each component to the [lo, hi] box.
// This is the neighborhood clamp primitive: a history sample forced into
// the current frame's local color range cannot introduce trailing artifacts.
func (c RGBA) ClampTo(lo, hi RGBA) RGBA {
	return c.Max(lo).Min(hi)
}

// Lerp linearly interpolates from c to o by t: c*(1-t) + o*t.
func (c RGBA) Lerp(o RGBA, t float64) RGBA {
	return RGBA{
		R: c.R + (o.R-c.R)*t,
		G: c.G + (o.G-c.G)*t,
		B: c.B + (o.B-c.B)*t,
		A: c.A + (o.A-c.A)*t,
	}
}
