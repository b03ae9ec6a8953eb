package taa

import (
	"math"
	"testing"

	"github.com/gogpu/taa/internal/parallel"
)

func newResolveStage(t *testing.T, opts ...Option) *TemporalResolveStage {
	t.Helper()
	pool := parallel.New(2)
	t.Cleanup(pool.Close)
	return NewTemporalResolveStage(NewConfig(opts...), pool)
}

// gradientBuffer fills a buffer with a deterministic per-pixel pattern so
// blending errors cannot hide behind uniform colors.
func gradientBuffer(w, h int) *ColorBuffer {
	b := NewColorBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			b.Set(x, y, RGBA{
				R: float64(x) / float64(w),
				G: float64(y) / float64(h),
				B: float64(x+y) / float64(w+h),
				A: 1,
			})
		}
	}
	return b
}

func resolveInputs(w, h int) ResolveInputs {
	return ResolveInputs{
		Color:    gradientBuffer(w, h),
		Depth:    NewDepthBuffer(w, h),
		Velocity: NewVelocityBuffer(w, h),
		History: History{
			Color: NewColorBuffer(w, h),
			Depth: NewDepthBuffer(w, h),
			Valid: true,
		},
	}
}

func TestResolveInvalidHistoryIsExactPassThrough(t *testing.T) {
	stage := newResolveStage(t)
	const w, h = 8, 6

	in := resolveInputs(w, h)
	in.History.Valid = false
	// Poison the other inputs: none of them may matter.
	in.History.Color.Fill(RGB(1, 0, 1))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			in.Velocity.Set(x, y, V2(0.5, -0.5))
		}
	}

	out := NewColorBuffer(w, h)
	stage.Resolve(in, out)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if out.At(x, y) != in.Color.At(x, y) {
				t.Fatalf("pixel (%d,%d) = %v, want exact current color %v",
					x, y, out.At(x, y), in.Color.At(x, y))
			}
		}
	}
}

func TestResolveStaticSceneMatchesCurrent(t *testing.T) {
	// Zero velocity, history identical to current: the neighborhood clamp
	// must be a no-op and the output must equal the current color for any
	// blend weight.
	for _, alpha := range []float64{0, 0.5, 0.9, 1} {
		stage := newResolveStage(t, WithBlendWeight(alpha))
		const w, h = 8, 8

		in := resolveInputs(w, h)
		in.History.Color.CopyFrom(in.Color)
		in.Depth.Fill(0.5)
		in.History.Depth.Fill(0.5)

		out := NewColorBuffer(w, h)
		stage.Resolve(in, out)

		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if !colorsClose(out.At(x, y), in.Color.At(x, y), 1e-9) {
					t.Fatalf("alpha=%v: pixel (%d,%d) = %v, want %v",
						alpha, x, y, out.At(x, y), in.Color.At(x, y))
				}
			}
		}
	}
}

func TestResolveClampBoundsHistory(t *testing.T) {
	stage := newResolveStage(t, WithBlendWeight(1), WithDepthRejection(-1))
	const w, h = 8, 8

	in := resolveInputs(w, h)
	// History far outside the current frame's color range.
	in.History.Color.Fill(RGBA{R: 10, G: -10, B: 10, A: 1})

	out := NewColorBuffer(w, h)
	stage.Resolve(in, out)

	// With full blend weight the output is exactly the clamped history,
	// which must lie inside the 3x3 neighborhood box of the current frame.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			lo, hi := neighborhoodBounds(in.Color, x, y, 1)
			c := out.At(x, y)
			if c.R < lo.R-eps || c.R > hi.R+eps ||
				c.G < lo.G-eps || c.G > hi.G+eps ||
				c.B < lo.B-eps || c.B > hi.B+eps {
				t.Fatalf("pixel (%d,%d) = %v escapes neighborhood box [%v, %v]", x, y, c, lo, hi)
			}
		}
	}
}

func TestResolveDisocclusionRejectsHistory(t *testing.T) {
	stage := newResolveStage(t, WithBlendWeight(0.9), WithDepthRejection(0.01))
	const w, h = 8, 8

	in := resolveInputs(w, h)
	in.History.Color.Fill(RGB(0, 1, 0))
	// Depth discrepancy far beyond the threshold at every pixel: the
	// surface visible last frame is not the surface visible now.
	in.Depth.Fill(0.9)
	in.History.Depth.Fill(0.1)

	out := NewColorBuffer(w, h)
	stage.Resolve(in, out)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if out.At(x, y) != in.Color.At(x, y) {
				t.Fatalf("disoccluded pixel (%d,%d) = %v, want exact current %v",
					x, y, out.At(x, y), in.Color.At(x, y))
			}
		}
	}
}

func TestResolveDepthConfidenceIsContinuous(t *testing.T) {
	stage := newResolveStage(t, WithBlendWeight(1), WithDepthRejection(0.1))

	tests := []struct {
		name string
		cur  float64
		hist float64
		want float64
	}{
		{"identical depth full confidence", 0.5, 0.5, 1},
		{"half threshold half confidence", 0.5, 0.55, 0.5},
		{"at threshold zero confidence", 0.5, 0.6, 0},
		{"beyond threshold clamped to zero", 0.5, 0.9, 0},
		{"sign of discrepancy irrelevant", 0.55, 0.5, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stage.depthConfidence(tt.cur, tt.hist)
			if !almostEqual(got, tt.want, eps) {
				t.Errorf("depthConfidence(%v, %v) = %v, want %v", tt.cur, tt.hist, got, tt.want)
			}
		})
	}
}

func TestResolveVelocityConfidence(t *testing.T) {
	stage := newResolveStage(t, WithVelocityRejection(0.5))

	tests := []struct {
		name string
		vel  Vec2
		want float64
	}{
		{"zero velocity full confidence", Vec2{}, 1},
		{"half threshold half confidence", V2(0.25, 0), 0.5},
		{"at threshold zero confidence", V2(0.5, 0), 0},
		{"beyond threshold clamped", V2(0, 2), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stage.velocityConfidence(tt.vel)
			if !almostEqual(got, tt.want, eps) {
				t.Errorf("velocityConfidence(%v) = %v, want %v", tt.vel, got, tt.want)
			}
		})
	}

	disabled := newResolveStage(t)
	if got := disabled.velocityConfidence(V2(100, 100)); got != 1 {
		t.Errorf("disabled velocity rejection returned %v, want 1", got)
	}
}

func TestResolveOutOfBoundsReprojectionFallsBack(t *testing.T) {
	stage := newResolveStage(t, WithBlendWeight(0.9))
	const w, h = 8, 8

	in := resolveInputs(w, h)
	in.History.Color.Fill(RGB(0, 1, 0))
	// Velocity pushes every reprojected coordinate far off-screen.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			in.Velocity.Set(x, y, V2(4, 0))
		}
	}

	out := NewColorBuffer(w, h)
	stage.Resolve(in, out)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if out.At(x, y) != in.Color.At(x, y) {
				t.Fatalf("off-screen history blended at (%d,%d)", x, y)
			}
		}
	}
}

func TestResolveBoundaryExactCoordinateIsOutOfBounds(t *testing.T) {
	stage := newResolveStage(t, WithBlendWeight(1), WithDepthRejection(-1))
	const w, h = 8, 8

	in := resolveInputs(w, h)
	in.History.Color.Fill(RGB(0, 1, 0))

	// Pixel (0, y) has center u = 0.5/w; this velocity reprojects it to
	// exactly u = 0, which must count as missing history.
	in.Velocity.Set(0, 3, V2(1.0/w, 0))

	out := NewColorBuffer(w, h)
	stage.Resolve(in, out)

	if out.At(0, 3) != in.Color.At(0, 3) {
		t.Errorf("boundary-exact reprojection blended history: %v", out.At(0, 3))
	}
}

func TestResolveBlendWeightInterpolates(t *testing.T) {
	const w, h = 8, 8
	// Uniform scene: current gray, history white (inside the clamp box
	// only if the box contains it; use history equal to a neighborhood
	// color so the clamp passes it through).
	cur := RGB(0.4, 0.4, 0.4)
	hist := RGB(0.6, 0.6, 0.6)

	for _, alpha := range []float64{0, 0.25, 0.9} {
		stage := newResolveStage(t, WithBlendWeight(alpha), WithDepthRejection(-1))

		in := resolveInputs(w, h)
		in.Color.Fill(cur)
		// One bright pixel widens the neighborhood box so hist survives
		// the clamp around it.
		in.Color.Set(4, 4, RGB(0.8, 0.8, 0.8))
		in.History.Color.Fill(hist)

		out := NewColorBuffer(w, h)
		stage.Resolve(in, out)

		// Neighbor of the bright pixel: box is [0.4, 0.8], hist = 0.6
		// passes through, blend is exact.
		got := out.At(3, 4)
		want := cur.Lerp(hist, alpha)
		if !colorsClose(got, want, 1e-9) {
			t.Errorf("alpha=%v: blended pixel = %v, want %v", alpha, got, want)
		}

		// Far from the bright pixel the box collapses to the current
		// color, so any blend weight yields the current color.
		got = out.At(1, 1)
		if !colorsClose(got, cur, 1e-9) {
			t.Errorf("alpha=%v: collapsed-box pixel = %v, want %v", alpha, got, cur)
		}
	}
}

func TestNeighborhoodBoundsWindow(t *testing.T) {
	b := NewColorBuffer(5, 5)
	b.Fill(RGB(0.5, 0.5, 0.5))
	b.Set(1, 1, RGB(0.1, 0.9, 0.5))
	b.Set(3, 3, RGB(0.9, 0.1, 0.5))

	lo, hi := neighborhoodBounds(b, 2, 2, 1)
	if !almostEqual(lo.R, 0.1, eps) || !almostEqual(hi.R, 0.9, eps) {
		t.Errorf("radius-1 box R = [%v, %v], want [0.1, 0.9]", lo.R, hi.R)
	}

	// Radius 1 at (0,0) must not see (3,3) even though the window clamps
	// at the image edge.
	_, hi = neighborhoodBounds(b, 0, 0, 1)
	if hi.R > 0.5+eps {
		t.Errorf("corner box leaked a distant pixel: hi.R = %v", hi.R)
	}

	// Larger radius widens the window.
	lo, hi = neighborhoodBounds(b, 0, 0, 3)
	if !almostEqual(lo.R, 0.1, eps) || !almostEqual(hi.R, 0.9, eps) {
		t.Errorf("radius-3 box R = [%v, %v], want [0.1, 0.9]", lo.R, hi.R)
	}
}

func TestResolveIsDeterministicAcrossWorkerCounts(t *testing.T) {
	const w, h = 32, 24
	in := resolveInputs(w, h)
	in.History.Color.CopyFrom(in.Color)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			in.Velocity.Set(x, y, V2(math.Sin(float64(x))*0.01, math.Cos(float64(y))*0.01))
		}
	}

	run := func(workers int) *ColorBuffer {
		pool := parallel.New(workers)
		defer pool.Close()
		stage := NewTemporalResolveStage(NewConfig(), pool)
		out := NewColorBuffer(w, h)
		stage.Resolve(in, out)
		return out
	}

	serial := run(1)
	wide := run(8)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if serial.At(x, y) != wide.At(x, y) {
				t.Fatalf("worker count changed pixel (%d,%d)", x, y)
			}
		}
	}
}
