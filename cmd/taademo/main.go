// Command taademo runs the TAA pipeline over a synthetic animated scene
// and writes the resolved frames as WebP images.
//
// The scene is a solid background with a textured quad translating across
// it; each frame is rasterized here (no external renderer), fed through
// the pipeline, and encoded. Comparing frame_000 (cold history) with later
// frames shows the temporal accumulation.
package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"

	"github.com/gogpu/taa"
)

func main() {
	var (
		width   = flag.Int("width", 320, "frame width")
		height  = flag.Int("height", 240, "frame height")
		frames  = flag.Int("frames", 24, "number of frames to render")
		scale   = flag.Int("scale", 1, "integer nearest-neighbor upscale of the output")
		outDir  = flag.String("out", "taademo_out", "output directory")
		verbose = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	taa.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(*width, *height, *frames, *scale, *outDir); err != nil {
		log.Fatal(err)
	}
}

func run(width, height, frames, scale int, outDir string) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	p, err := taa.NewPipeline(width, height)
	if err != nil {
		return err
	}
	defer p.Close()

	aspect := float64(width) / float64(height)
	proj := taa.Mat4Perspective(math.Pi/3, aspect, 0.1)
	camera := taa.V3(0, 0, 3)
	viewMat := taa.Mat4LookAt(camera, taa.V3(0, 0, 0), taa.V3(0, 1, 0))

	view := taa.NewViewPair(taa.ViewTransform{
		ViewProj:  proj.Mul(viewMat),
		Proj:      proj,
		CameraPos: camera,
	})

	mesh := taa.NewMeshPair(meshAt(0))

	color := taa.NewColorBuffer(width, height)
	depth := taa.NewDepthBuffer(width, height)

	for frame := 0; frame < frames; frame++ {
		t := float64(frame) / float64(frames)
		rasterize(color, depth, view.Current, mesh.Current)

		instances := []taa.MeshInstance{{
			Positions: quadGrid(16),
			Transform: mesh,
		}}
		resolved := p.RenderFrame(view, instances, color, depth)

		if err := writeFrame(outDir, frame, resolved, scale); err != nil {
			return err
		}

		// Camera is static in this demo; only the quad moves.
		view.Advance(view.Current)
		mesh.Advance(meshAt(t + 1/float64(frames)))
	}

	log.Printf("wrote %d frames to %s", frames, outDir)
	return nil
}

// meshAt returns the quad transform at animation parameter t in [0, 1]:
// a horizontal sweep with a slight vertical bob.
func meshAt(t float64) taa.MeshTransform {
	pos := taa.V3(-1.2+2.4*t, 0.3*math.Sin(2*math.Pi*t), 0)
	model := taa.Mat4Translate(pos)
	return taa.MeshTransform{
		Model:                 model,
		InverseTransposeModel: model, // pure translation: normals unaffected
	}
}

// quadGrid returns an n by n grid of object-space points across the unit quad,
// dense enough that the velocity splats cover its screen footprint.
func quadGrid(n int) []taa.Vec3 {
	pts := make([]taa.Vec3, 0, n*n)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			pts = append(pts, taa.V3(
				-0.5+float64(i)/float64(n-1),
				-0.5+float64(j)/float64(n-1),
				0,
			))
		}
	}
	return pts
}

// rasterize draws the background and the quad into the color/depth buffers,
// standing in for the host renderer. The quad is a pure translation, so its
// screen rect comes from projecting two opposite corners.
func rasterize(color *taa.ColorBuffer, depth *taa.DepthBuffer, view taa.ViewTransform, mesh taa.MeshTransform) {
	w, h := color.Width(), color.Height()

	// Background: flat dark blue at the far plane (reverse-Z: depth 0).
	color.Fill(taa.RGB(0.05, 0.07, 0.12))
	depth.Fill(0)

	mvp := view.ViewProj.Mul(mesh.Model)
	lo, loZ, okLo := project(mvp, taa.V3(-0.5, -0.5, 0), w, h)
	hi, _, okHi := project(mvp, taa.V3(0.5, 0.5, 0), w, h)
	if !okLo || !okHi {
		return
	}

	x0, x1 := minInt(lo[0], hi[0]), maxInt(lo[0], hi[0])
	y0, y1 := minInt(lo[1], hi[1]), maxInt(lo[1], hi[1])
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			// Checker texture so aliasing (and its removal) is visible.
			if (x/4+y/4)%2 == 0 {
				color.Set(x, y, taa.RGB(0.9, 0.6, 0.1))
			} else {
				color.Set(x, y, taa.RGB(0.8, 0.2, 0.1))
			}
			depth.Set(x, y, loZ)
		}
	}
}

// project maps an object-space point to pixel coordinates and NDC depth.
func project(mvp taa.Mat4, p taa.Vec3, w, h int) ([2]int, float64, bool) {
	clip := mvp.MulPoint(p)
	if clip.W <= 0 {
		return [2]int{}, 0, false
	}
	ndc := clip.XYZ().Mul(1 / clip.W)
	x := int((ndc.X*0.5 + 0.5) * float64(w))
	y := int((0.5 - ndc.Y*0.5) * float64(h))
	return [2]int{clampInt(x, 0, w-1), clampInt(y, 0, h-1)}, ndc.Z, true
}

func writeFrame(dir string, frame int, buf *taa.ColorBuffer, scale int) error {
	img := buf.ToImage()
	if scale > 1 {
		big := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx()*scale, img.Bounds().Dy()*scale))
		draw.NearestNeighbor.Scale(big, big.Bounds(), img, img.Bounds(), draw.Src, nil)
		img = big
	}

	f, err := os.Create(filepath.Join(dir, fmt.Sprintf("frame_%03d.webp", frame)))
	if err != nil {
		return err
	}
	defer f.Close()

	return nativewebp.Encode(f, img, nil)
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

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
