package taa

import "math"

// Filter defines how a buffer is sampled between texel centers.
type Filter uint8

const (
	// FilterNearest selects the closest texel (no interpolation).
	FilterNearest Filter = iota

	// FilterBilinear performs linear interpolation between the 4
	// neighboring texels.
	FilterBilinear
)

// String returns a string representation of the filter.
func (f Filter) String() string {
	switch f {
	case FilterNearest:
		return "Nearest"
	case FilterBilinear:
		return "Bilinear"
	default:
		return "Unknown"
	}
}

// AddressMode defines how out-of-range coordinates are resolved.
// History reprojection must never wrap: a coordinate past the edge refers
// to a surface that was off-screen last frame, so edge texels are the only
// defensible answer when a caller samples there anyway.
type AddressMode uint8

const (
	// AddressClampToEdge clamps coordinates to the edge texel.
	AddressClampToEdge AddressMode = iota
)

// String returns a string representation of the address mode.
func (m AddressMode) String() string {
	switch m {
	case AddressClampToEdge:
		return "ClampToEdge"
	default:
		return "Unknown"
	}
}

// Sampler is a sampling policy for a read-only buffer: filter plus address
// mode. Stages receive each image resource together with its sampler
// explicitly; there is no global binding state.
type Sampler struct {
	Filter  Filter
	Address AddressMode
}

// LinearClamp returns the sampler used for history color: bilinear
// filtering with edge clamping.
func LinearClamp() Sampler {
	return Sampler{Filter: FilterBilinear, Address: AddressClampToEdge}
}

// NearestClamp returns the sampler used for history depth: nearest
// filtering with edge clamping.
func NearestClamp() Sampler {
	return Sampler{Filter: FilterNearest, Address: AddressClampToEdge}
}

// SampleColor samples a color buffer at normalized coordinates (u, v),
// where (0,0) is the top-left corner and (1,1) the bottom-right.
func (s Sampler) SampleColor(buf *ColorBuffer, u, v float64) RGBA {
	w, h := buf.Width(), buf.Height()
	switch s.Filter {
	case FilterBilinear:
		fx := u*float64(w) - 0.5
		fy := v*float64(h) - 0.5
		x0 := int(math.Floor(fx))
		y0 := int(math.Floor(fy))
		tx := fx - float64(x0)
		ty := fy - float64(y0)

		x1 := clampInt(x0+1, 0, w-1)
		y1 := clampInt(y0+1, 0, h-1)
		x0 = clampInt(x0, 0, w-1)
		y0 = clampInt(y0, 0, h-1)

		c00 := buf.At(x0, y0)
		c10 := buf.At(x1, y0)
		c01 := buf.At(x0, y1)
		c11 := buf.At(x1, y1)

		top := c00.Lerp(c10, tx)
		bot := c01.Lerp(c11, tx)
		return top.Lerp(bot, ty)
	default:
		x, y := nearestTexel(u, v, w, h)
		return buf.At(x, y)
	}
}

// SampleDepth samples a depth buffer at normalized coordinates (u, v).
// Depth is always point-sampled: interpolating across a depth edge would
// fabricate a depth belonging to neither surface.
func (s Sampler) SampleDepth(buf *DepthBuffer, u, v float64) float64 {
	x, y := nearestTexel(u, v, buf.Width(), buf.Height())
	return buf.At(x, y)
}

func nearestTexel(u, v float64, w, h int) (int, int) {
	x := int(math.Floor(u * float64(w)))
	y := int(math.Floor(v * float64(h)))
	return clampInt(x, 0, w-1), clampInt(y, 0, h-1)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
