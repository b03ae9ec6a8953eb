package taa

import (
	"image"
	"image/color"

	"github.com/gogpu/gputypes"
)

// ColorBuffer is a rectangular float color buffer, four components per pixel.
// It is the CPU analogue of an RGBA float render target.
//
// Out-of-bounds reads return the zero color; out-of-bounds writes are
// silently ignored.
type ColorBuffer struct {
	width  int
	height int
	pix    []float64 // RGBA interleaved, len = width*height*4
}

// NewColorBuffer creates a color buffer with the given dimensions.
// Returns nil if width or height is not positive.
func NewColorBuffer(width, height int) *ColorBuffer {
	if width <= 0 || height <= 0 {
		return nil
	}
	return &ColorBuffer{
		width:  width,
		height: height,
		pix:    make([]float64, width*height*4),
	}
}

// Width returns the width of the buffer.
func (b *ColorBuffer) Width() int { return b.width }

// Height returns the height of the buffer.
func (b *ColorBuffer) Height() int { return b.height }

// Format returns the texture format this buffer corresponds to.
func (b *ColorBuffer) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA32Float
}

// At returns the color of a single pixel.
func (b *ColorBuffer) At(x, y int) RGBA {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return Transparent
	}
	i := (y*b.width + x) * 4
	return RGBA{R: b.pix[i], G: b.pix[i+1], B: b.pix[i+2], A: b.pix[i+3]}
}

// Set sets the color of a single pixel.
func (b *ColorBuffer) Set(x, y int, c RGBA) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	i := (y*b.width + x) * 4
	b.pix[i] = c.R
	b.pix[i+1] = c.G
	b.pix[i+2] = c.B
	b.pix[i+3] = c.A
}

// Fill sets every pixel to c.
func (b *ColorBuffer) Fill(c RGBA) {
	for i := 0; i < len(b.pix); i += 4 {
		b.pix[i] = c.R
		b.pix[i+1] = c.G
		b.pix[i+2] = c.B
		b.pix[i+3] = c.A
	}
}

// CopyFrom copies the contents of src into b.
// The buffers must have identical dimensions; mismatched copies are ignored.
func (b *ColorBuffer) CopyFrom(src *ColorBuffer) {
	if src == nil || src.width != b.width || src.height != b.height {
		return
	}
	copy(b.pix, src.pix)
}

// Clone returns a deep copy of the buffer.
func (b *ColorBuffer) Clone() *ColorBuffer {
	out := NewColorBuffer(b.width, b.height)
	copy(out.pix, b.pix)
	return out
}

// ToImage converts the buffer to an 8-bit image.RGBA, clamping each
// component to [0, 1].
func (b *ColorBuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.width, b.height))
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			c := b.At(x, y)
			img.SetRGBA(x, y, color.RGBA{
				R: clamp255(c.R),
				G: clamp255(c.G),
				B: clamp255(c.B),
				A: clamp255(c.A),
			})
		}
	}
	return img
}

// FromImage creates a color buffer from an image.
func FromImage(img image.Image) *ColorBuffer {
	bounds := img.Bounds()
	b := NewColorBuffer(bounds.Dx(), bounds.Dy())
	if b == nil {
		return nil
	}
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			r, g, bl, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			b.Set(x, y, RGBA{
				R: float64(r) / 65535,
				G: float64(g) / 65535,
				B: float64(bl) / 65535,
				A: float64(a) / 65535,
			})
		}
	}
	return b
}

func clamp255(v float64) uint8 {
	v *= 255
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// DepthBuffer is a rectangular scalar depth buffer.
// Depth follows the reverse-Z convention: 1 at the near plane, 0 at
// infinity. A cleared buffer therefore reads as "infinitely far".
type DepthBuffer struct {
	width  int
	height int
	depth  []float64 // len = width*height
}

// NewDepthBuffer creates a depth buffer with the given dimensions.
// Returns nil if width or height is not positive.
func NewDepthBuffer(width, height int) *DepthBuffer {
	if width <= 0 || height <= 0 {
		return nil
	}
	return &DepthBuffer{
		width:  width,
		height: height,
		depth:  make([]float64, width*height),
	}
}

// Width returns the width of the buffer.
func (b *DepthBuffer) Width() int { return b.width }

// Height returns the height of the buffer.
func (b *DepthBuffer) Height() int { return b.height }

// Format returns the texture format this buffer corresponds to.
func (b *DepthBuffer) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatDepth32Float
}

// At returns the depth of a single pixel. Out-of-bounds reads return 0
// (infinitely far).
func (b *DepthBuffer) At(x, y int) float64 {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return 0
	}
	return b.depth[y*b.width+x]
}

// Set sets the depth of a single pixel.
func (b *DepthBuffer) Set(x, y int, d float64) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	b.depth[y*b.width+x] = d
}

// Fill sets every pixel to d.
func (b *DepthBuffer) Fill(d float64) {
	for i := range b.depth {
		b.depth[i] = d
	}
}

// CopyFrom copies the contents of src into b.
// The buffers must have identical dimensions; mismatched copies are ignored.
func (b *DepthBuffer) CopyFrom(src *DepthBuffer) {
	if src == nil || src.width != b.width || src.height != b.height {
		return
	}
	copy(b.depth, src.depth)
}

// VelocityBuffer is a rectangular buffer of 2D motion vectors, one per
// pixel, in NDC units. It is produced fresh each frame by the motion
// vector stage and read-only afterwards.
type VelocityBuffer struct {
	width  int
	height int
	vel    []float64 // XY interleaved, len = width*height*2
}

// NewVelocityBuffer creates a velocity buffer with the given dimensions.
// Returns nil if width or height is not positive.
func NewVelocityBuffer(width, height int) *VelocityBuffer {
	if width <= 0 || height <= 0 {
		return nil
	}
	return &VelocityBuffer{
		width:  width,
		height: height,
		vel:    make([]float64, width*height*2),
	}
}

// Width returns the width of the buffer.
func (b *VelocityBuffer) Width() int { return b.width }

// Height returns the height of the buffer.
func (b *VelocityBuffer) Height() int { return b.height }

// Format returns the texture format this buffer corresponds to.
func (b *VelocityBuffer) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRG32Float
}

// At returns the velocity of a single pixel. Out-of-bounds reads return
// the zero vector.
func (b *VelocityBuffer) At(x, y int) Vec2 {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return Vec2{}
	}
	i := (y*b.width + x) * 2
	return Vec2{X: b.vel[i], Y: b.vel[i+1]}
}

// Set sets the velocity of a single pixel.
func (b *VelocityBuffer) Set(x, y int, v Vec2) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	i := (y*b.width + x) * 2
	b.vel[i] = v.X
	b.vel[i+1] = v.Y
}

// Clear zeroes every velocity.
func (b *VelocityBuffer) Clear() {
	for i := range b.vel {
		b.vel[i] = 0
	}
}
