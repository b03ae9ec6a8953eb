package taa

import (
	"math"

	"github.com/gogpu/taa/internal/parallel"
)

// minClipW is the minimum magnitude allowed for the homogeneous W component
// before the perspective divide. Points at or behind the camera plane make
// the divide ill-conditioned; clamping W keeps velocities finite so a NaN
// or Inf can never poison the resolve stage's neighborhood clamp.
const minClipW = 1e-4

// depthSplatBias is the tolerance of the greater-or-equal visibility test
// a splat runs against the current depth buffer (reverse-Z).
const depthSplatBias = 1e-3

// MeshInstance pairs one object's geometry with its transform history for
// the velocity pass.
type MeshInstance struct {
	// Positions are object-space vertex positions.
	Positions []Vec3

	// Transform holds the current and previous model transforms.
	Transform MeshPair
}

// splat is one vertex projected into the current frame, carrying the
// velocity to write at its pixel.
type splat struct {
	x, y     int
	depth    float64
	velocity Vec2
}

// MotionVectorStage computes the per-pixel velocity buffer.
//
// For each vertex it evaluates the current-frame clip position through
// the current ViewProj and Model and the previous-frame clip position
// through the previous pair, converts both to NDC with a guarded
// perspective divide, and writes velocity = currentNDC.xy - previousNDC.xy
// at the pixel covered by the current NDC position.
//
// Projection is embarrassingly parallel and runs across instances on the
// worker pool; the buffer writes happen afterwards on the calling
// goroutine so overlapping instances resolve deterministically.
type MotionVectorStage struct {
	pool *parallel.Pool
}

// NewMotionVectorStage creates a motion vector stage using the given pool.
func NewMotionVectorStage(pool *parallel.Pool) *MotionVectorStage {
	return &MotionVectorStage{pool: pool}
}

// Render writes the velocity for every instance vertex into out. The
// buffer is cleared first: pixels covered by no geometry report zero
// velocity.
//
// depth may be nil. When the current frame's depth buffer is supplied, a
// splat only lands if its NDC depth passes a greater-or-equal test
// (reverse-Z) against the buffer, so vertices occluded this frame do not
// overwrite the velocity of the surface in front of them.
//
// Render returns only after every pixel is written; the caller may start
// the resolve stage immediately afterwards.
func (s *MotionVectorStage) Render(view ViewPair, instances []MeshInstance, depth *DepthBuffer, out *VelocityBuffer) {
	out.Clear()
	if len(instances) == 0 {
		return
	}

	w, h := out.Width(), out.Height()
	results := make([][]splat, len(instances))

	work := make([]func(), len(instances))
	for i := range instances {
		i := i
		work[i] = func() {
			results[i] = projectInstance(view, instances[i], w, h)
		}
	}
	s.pool.ExecuteAll(work)

	for _, splats := range results {
		for _, sp := range splats {
			if depth != nil && sp.depth < depth.At(sp.x, sp.y)-depthSplatBias {
				continue
			}
			out.Set(sp.x, sp.y, sp.velocity)
		}
	}
}

// projectInstance projects every vertex of one instance and collects the
// splats that land on screen.
func projectInstance(view ViewPair, inst MeshInstance, w, h int) []splat {
	curMVP := view.Current.ViewProj.Mul(inst.Transform.Current.Model)
	prevMVP := view.Previous.ViewProj.Mul(inst.Transform.Previous.Model)

	splats := make([]splat, 0, len(inst.Positions))
	for _, p := range inst.Positions {
		curClip := curMVP.MulPoint(p)
		if curClip.W <= 0 {
			// Behind the camera plane this frame: not visible, no splat.
			continue
		}
		curNDC := perspectiveDivide(curClip)
		prevNDC := perspectiveDivide(prevMVP.MulPoint(p))

		x := int(math.Floor((curNDC.X*0.5 + 0.5) * float64(w)))
		y := int(math.Floor((0.5 - curNDC.Y*0.5) * float64(h)))
		if x < 0 || x >= w || y < 0 || y >= h {
			continue
		}

		splats = append(splats, splat{
			x:        x,
			y:        y,
			depth:    curNDC.Z,
			velocity: Vec2{X: curNDC.X - prevNDC.X, Y: curNDC.Y - prevNDC.Y},
		})
	}
	return splats
}

// perspectiveDivide converts a clip-space position to NDC, clamping the
// magnitude of W to minClipW (sign preserved) so the result stays finite.
func perspectiveDivide(clip Vec4) Vec3 {
	w := clip.W
	if math.Abs(w) < minClipW {
		if math.Signbit(w) {
			w = -minClipW
		} else {
			w = minClipW
		}
	}
	return Vec3{X: clip.X / w, Y: clip.Y / w, Z: clip.Z / w}
}
