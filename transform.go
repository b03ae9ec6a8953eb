package taa

// ViewTransform is an immutable per-frame snapshot of camera state.
type ViewTransform struct {
	// ViewProj is the combined view-projection matrix.
	ViewProj Mat4

	// Proj is the projection matrix alone.
	Proj Mat4

	// CameraPos is the camera position in world space.
	CameraPos Vec3
}

// MeshTransform is an immutable per-frame snapshot of one renderable
// object's transform state.
type MeshTransform struct {
	// Model is the object-to-world matrix.
	Model Mat4

	// InverseTransposeModel transforms normals; kept alongside Model so a
	// host that shades from the same snapshot stays consistent.
	InverseTransposeModel Mat4

	// Flags is a host-defined per-object bitfield.
	Flags uint32
}

// ViewPair holds the current and previous frame's camera snapshots.
//
// The previous snapshot must be the exact state that was current one frame
// earlier; any skip or duplication corrupts velocity. Construct with
// NewViewPair and roll frames with Advance so that invariant holds by
// construction.
type ViewPair struct {
	Current  ViewTransform
	Previous ViewTransform
}

// NewViewPair creates a pair for the first frame, where no prior state
// exists: previous is a copy of current, which yields zero camera velocity.
func NewViewPair(v ViewTransform) ViewPair {
	return ViewPair{Current: v, Previous: v}
}

// Advance rolls the pair forward one frame: the current snapshot becomes
// previous and next becomes current.
func (p *ViewPair) Advance(next ViewTransform) {
	p.Previous = p.Current
	p.Current = next
}

// MeshPair holds the current and previous frame's transform snapshots for
// one object, with the same one-frame-lag invariant as ViewPair.
type MeshPair struct {
	Current  MeshTransform
	Previous MeshTransform
}

// NewMeshPair creates a pair for an object's first visible frame:
// previous is a copy of current, which yields zero object velocity.
func NewMeshPair(m MeshTransform) MeshPair {
	return MeshPair{Current: m, Previous: m}
}

// Advance rolls the pair forward one frame.
func (p *MeshPair) Advance(next MeshTransform) {
	p.Previous = p.Current
	p.Current = next
}
