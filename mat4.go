package taa

import "math"

// Mat4 is a 4x4 matrix stored row-major:
//
//	| m[0]  m[1]  m[2]  m[3]  |
//	| m[4]  m[5]  m[6]  m[7]  |
//	| m[8]  m[9]  m[10] m[11] |
//	| m[12] m[13] m[14] m[15] |
//
// Used for model, view-projection and projection transforms.
type Mat4 [16]float64

// Mat4Identity returns the identity matrix.
func Mat4Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mat4Translate returns a translation matrix.
func Mat4Translate(t Vec3) Mat4 {
	return Mat4{
		1, 0, 0, t.X,
		0, 1, 0, t.Y,
		0, 0, 1, t.Z,
		0, 0, 0, 1,
	}
}

// Mat4Scale returns a scaling matrix.
func Mat4Scale(s Vec3) Mat4 {
	return Mat4{
		s.X, 0, 0, 0,
		0, s.Y, 0, 0,
		0, 0, s.Z, 0,
		0, 0, 0, 1,
	}
}

// Mat4RotateY returns a rotation matrix about the Y axis (angle in radians).
func Mat4RotateY(angle float64) Mat4 {
	c := math.Cos(angle)
	s := math.Sin(angle)
	return Mat4{
		c, 0, s, 0,
		0, 1, 0, 0,
		-s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// Mul returns m times n.
func (m Mat4) Mul(n Mat4) Mat4 {
	var out Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[r*4+c] = m[r*4+0]*n[0*4+c] + m[r*4+1]*n[1*4+c] +
				m[r*4+2]*n[2*4+c] + m[r*4+3]*n[3*4+c]
		}
	}
	return out
}

// MulVec4 transforms a homogeneous coordinate by the matrix.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		X: m[0]*v.X + m[1]*v.Y + m[2]*v.Z + m[3]*v.W,
		Y: m[4]*v.X + m[5]*v.Y + m[6]*v.Z + m[7]*v.W,
		Z: m[8]*v.X + m[9]*v.Y + m[10]*v.Z + m[11]*v.W,
		W: m[12]*v.X + m[13]*v.Y + m[14]*v.Z + m[15]*v.W,
	}
}

// MulPoint transforms a 3D point (W = 1) and returns the clip-space result
// before the perspective divide.
func (m Mat4) MulPoint(p Vec3) Vec4 {
	return m.MulVec4(Vec4{X: p.X, Y: p.Y, Z: p.Z, W: 1})
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	var out Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[c*4+r] = m[r*4+c]
		}
	}
	return out
}

// Mat4Perspective returns a right-handed, reverse-Z, infinite-far perspective
// projection. Depth maps to [0, 1] with 1 at the near plane, matching the
// greater-or-equal depth convention used throughout the pipeline.
// fovY is the vertical field of view in radians.
func Mat4Perspective(fovY, aspect, near float64) Mat4 {
	f := 1 / math.Tan(fovY/2)
	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, 0, near,
		0, 0, -1, 0,
	}
}

// Mat4LookAt returns a right-handed view matrix with the camera at eye
// looking toward target.
func Mat4LookAt(eye, target, up Vec3) Mat4 {
	f := target.Sub(eye).Normalize()
	s := f.Cross(up).Normalize()
	u := s.Cross(f)
	return Mat4{
		s.X, s.Y, s.Z, -s.Dot(eye),
		u.X, u.Y, u.Z, -u.Dot(eye),
		-f.X, -f.Y, -f.Z, f.Dot(eye),
		0, 0, 0, 1,
	}
}
