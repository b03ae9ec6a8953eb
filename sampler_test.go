package taa

import (
	"math"
	"testing"
)

func TestSampleColorConstantBuffer(t *testing.T) {
	b := NewColorBuffer(8, 8)
	c := RGB(0.3, 0.6, 0.9)
	b.Fill(c)

	for _, s := range []Sampler{LinearClamp(), NearestClamp()} {
		for _, uv := range [][2]float64{{0.5, 0.5}, {0.01, 0.99}, {0.125, 0.625}} {
			got := s.SampleColor(b, uv[0], uv[1])
			if !colorsClose(got, c, eps) {
				t.Errorf("%v sample at %v = %v, want %v", s.Filter, uv, got, c)
			}
		}
	}
}

func TestSampleColorBilinearMidpoint(t *testing.T) {
	// Two texels: black then white. The midpoint between their centers
	// must interpolate to exactly half gray.
	b := NewColorBuffer(2, 1)
	b.Set(0, 0, Black)
	b.Set(1, 0, White)

	got := LinearClamp().SampleColor(b, 0.5, 0.5)
	want := RGBA{R: 0.5, G: 0.5, B: 0.5, A: 1}
	if !colorsClose(got, want, eps) {
		t.Errorf("midpoint sample = %v, want %v", got, want)
	}
}

func TestSampleColorBilinearAtTexelCenterIsExact(t *testing.T) {
	b := NewColorBuffer(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			b.Set(x, y, RGB(float64(x)/4, float64(y)/4, 0))
		}
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			u := (float64(x) + 0.5) / 4
			v := (float64(y) + 0.5) / 4
			got := LinearClamp().SampleColor(b, u, v)
			if !colorsClose(got, b.At(x, y), eps) {
				t.Fatalf("center sample at (%d,%d) = %v, want %v", x, y, got, b.At(x, y))
			}
		}
	}
}

func TestSampleColorNearestPicksCoveringTexel(t *testing.T) {
	b := NewColorBuffer(2, 2)
	b.Set(0, 0, RGB(1, 0, 0))
	b.Set(1, 0, RGB(0, 1, 0))
	b.Set(0, 1, RGB(0, 0, 1))
	b.Set(1, 1, White)

	tests := []struct {
		name string
		u, v float64
		want RGBA
	}{
		{"top left quadrant", 0.2, 0.2, RGB(1, 0, 0)},
		{"top right quadrant", 0.8, 0.2, RGB(0, 1, 0)},
		{"bottom left quadrant", 0.2, 0.8, RGB(0, 0, 1)},
		{"bottom right quadrant", 0.8, 0.8, White},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NearestClamp().SampleColor(b, tt.u, tt.v); got != tt.want {
				t.Errorf("sample(%v, %v) = %v, want %v", tt.u, tt.v, got, tt.want)
			}
		})
	}
}

func TestSampleClampsToEdge(t *testing.T) {
	b := NewColorBuffer(2, 2)
	b.Set(0, 0, RGB(1, 0, 0))
	b.Set(1, 1, RGB(0, 0, 1))

	// Coordinates far outside [0,1] must clamp to the corner texels, not wrap.
	if got := NearestClamp().SampleColor(b, -5, -5); got != RGB(1, 0, 0) {
		t.Errorf("negative overshoot = %v, want top-left texel", got)
	}
	if got := NearestClamp().SampleColor(b, 5, 5); got != RGB(0, 0, 1) {
		t.Errorf("positive overshoot = %v, want bottom-right texel", got)
	}
	if got := LinearClamp().SampleColor(b, -5, -5); !colorsClose(got, RGB(1, 0, 0), eps) {
		t.Errorf("bilinear negative overshoot = %v, want top-left texel", got)
	}
}

func TestSampleDepthNearest(t *testing.T) {
	b := NewDepthBuffer(2, 1)
	b.Set(0, 0, 0.25)
	b.Set(1, 0, 0.75)

	s := NearestClamp()
	if got := s.SampleDepth(b, 0.2, 0.5); got != 0.25 {
		t.Errorf("depth sample left = %v, want 0.25", got)
	}
	if got := s.SampleDepth(b, 0.8, 0.5); got != 0.75 {
		t.Errorf("depth sample right = %v, want 0.75", got)
	}
	// Depth never interpolates, even with a bilinear filter configured.
	if got := LinearClamp().SampleDepth(b, 0.5, 0.5); got != 0.25 && got != 0.75 {
		t.Errorf("depth sample at seam = %v, want one of the source texels", got)
	}
}

func TestFilterAndAddressModeStrings(t *testing.T) {
	if FilterNearest.String() != "Nearest" || FilterBilinear.String() != "Bilinear" {
		t.Error("Filter.String mismatch")
	}
	if Filter(99).String() != "Unknown" {
		t.Error("unknown filter should stringify as Unknown")
	}
	if AddressClampToEdge.String() != "ClampToEdge" {
		t.Error("AddressMode.String mismatch")
	}
}

func colorsClose(a, b RGBA, tol float64) bool {
	return math.Abs(a.R-b.R) <= tol &&
		math.Abs(a.G-b.G) <= tol &&
		math.Abs(a.B-b.B) <= tol &&
		math.Abs(a.A-b.A) <= tol
}
