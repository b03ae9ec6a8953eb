package taa

import (
	"github.com/gogpu/taa/internal/parallel"
)

// ResolveInputs bundles the read-only per-frame resources of a resolve
// pass. Every input is exclusively owned by its producing stage and must
// not be mutated while Resolve runs.
type ResolveInputs struct {
	// Color is the current frame's color buffer.
	Color *ColorBuffer

	// Depth is the current frame's depth buffer.
	Depth *DepthBuffer

	// Velocity is the velocity buffer produced by the motion vector stage
	// for this frame. The motion vector stage must have fully completed.
	Velocity *VelocityBuffer

	// History is the previous frame's resolved output, as exposed by
	// HistoryBufferManager.BeginFrame.
	History History
}

// TemporalResolveStage blends the current frame with reprojected history.
//
// Per pixel it reprojects along the velocity vector, samples last frame's
// color (bilinear) and depth (nearest) there, derives a history confidence
// from depth and velocity discrepancy, clamps the history color into the
// current frame's neighborhood min/max box, and blends exponentially.
// Missing, out-of-bounds or disoccluded history degrades to the current
// color; the stage never fails.
type TemporalResolveStage struct {
	cfg          Config
	pool         *parallel.Pool
	colorSampler Sampler
	depthSampler Sampler
}

// NewTemporalResolveStage creates a resolve stage with the given
// configuration, using the given pool.
func NewTemporalResolveStage(cfg Config, pool *parallel.Pool) *TemporalResolveStage {
	return &TemporalResolveStage{
		cfg:          cfg,
		pool:         pool,
		colorSampler: LinearClamp(),
		depthSampler: NearestClamp(),
	}
}

// Config returns the stage's configuration.
func (s *TemporalResolveStage) Config() Config {
	return s.cfg
}

// Resolve produces the resolved color for the frame into out, which must
// match the input dimensions. Pixels are independent; rows are processed
// in parallel bands.
func (s *TemporalResolveStage) Resolve(in ResolveInputs, out *ColorBuffer) {
	w, h := in.Color.Width(), in.Color.Height()

	if !in.History.Valid {
		// Cold history: pure pass-through, exact by contract.
		out.CopyFrom(in.Color)
		return
	}

	s.pool.ForRows(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				out.Set(x, y, s.resolvePixel(in, x, y, w, h))
			}
		}
	})
}

// resolvePixel runs the full resolve kernel for one pixel.
func (s *TemporalResolveStage) resolvePixel(in ResolveInputs, x, y, w, h int) RGBA {
	cur := in.Color.At(x, y)

	// NDC velocity to texture space: X spans 2 NDC units per UV unit,
	// Y additionally flips because texture V grows downward.
	vel := in.Velocity.At(x, y)
	u := (float64(x) + 0.5) / float64(w)
	v := (float64(y) + 0.5) / float64(h)
	ru := u - vel.X*0.5
	rv := v + vel.Y*0.5

	// Boundary-exact coordinates count as off-screen: the bilinear
	// footprint would already extend past the image.
	if ru <= 0 || ru >= 1 || rv <= 0 || rv >= 1 {
		return cur
	}

	histColor := s.colorSampler.SampleColor(in.History.Color, ru, rv)
	histDepth := s.depthSampler.SampleDepth(in.History.Depth, ru, rv)

	weight := s.cfg.BlendWeight
	weight *= s.depthConfidence(in.Depth.At(x, y), histDepth)
	weight *= s.velocityConfidence(vel)
	if weight <= 0 {
		return cur
	}

	lo, hi := neighborhoodBounds(in.Color, x, y, s.cfg.ClampRadius)
	clamped := histColor.ClampTo(lo, hi)

	return cur.Lerp(clamped, weight)
}

// depthConfidence maps the discrepancy between the current depth and the
// depth implied by the reprojected history sample to [0, 1]. Confidence
// reaches zero at the rejection threshold: the surface visible last frame
// is not the surface visible now.
func (s *TemporalResolveStage) depthConfidence(cur, hist float64) float64 {
	t := s.cfg.DepthRejectionThreshold
	if t <= 0 {
		return 1
	}
	delta := cur - hist
	if delta < 0 {
		delta = -delta
	}
	c := 1 - delta/t
	if c < 0 {
		return 0
	}
	return c
}

// velocityConfidence attenuates history by velocity magnitude, reaching
// zero at the rejection threshold. Disabled when the threshold is zero.
func (s *TemporalResolveStage) velocityConfidence(vel Vec2) float64 {
	t := s.cfg.VelocityRejectionThreshold
	if t <= 0 {
		return 1
	}
	c := 1 - vel.Length()/t
	if c < 0 {
		return 0
	}
	return c
}

// neighborhoodBounds returns the componentwise min and max color over the
// (2r+1) by (2r+1) window around (x, y), with the window clamped to the image.
func neighborhoodBounds(buf *ColorBuffer, x, y, r int) (lo, hi RGBA) {
	w, h := buf.Width(), buf.Height()
	lo = buf.At(x, y)
	hi = lo
	for dy := -r; dy <= r; dy++ {
		yy := clampInt(y+dy, 0, h-1)
		for dx := -r; dx <= r; dx++ {
			c := buf.At(clampInt(x+dx, 0, w-1), yy)
			lo = lo.Min(c)
			hi = hi.Max(c)
		}
	}
	return lo, hi
}
