// Package taa implements temporal anti-aliasing for real-time renderers.
//
// # Overview
//
// Temporal anti-aliasing (TAA) reduces spatial aliasing and temporal flicker
// by blending each frame's color with a reprojected history of prior frames.
// Per-pixel motion vectors keep the blend spatially correct under camera and
// object motion; neighborhood clamping bounds ghosting from stale history.
//
// The package is the CPU reference implementation of the two per-pixel
// kernels that make TAA work, plus the buffer lifecycle around them:
//
//   - MotionVectorStage: computes a screen-space velocity buffer from paired
//     current/previous transform state.
//   - TemporalResolveStage: reprojects history, rejects disoccluded samples,
//     clamps against the current frame's local color range, and blends.
//   - HistoryBufferManager: owns the double-buffered history color/depth
//     pair and its validity across frames.
//   - Pipeline: wires the stages together with the required completion
//     barrier between them.
//
// # Quick Start
//
//	p, err := taa.NewPipeline(800, 600)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close()
//
//	view := taa.NewViewPair(currentView)
//	for frame := 0; running; frame++ {
//	    resolved := p.RenderFrame(view, instances, color, depth)
//	    present(resolved)
//	    view.Advance(nextView)
//	}
//
// # Host Renderer Contract
//
// Scene traversal, rasterization of the current color/depth buffers, camera
// matrices and presentation are the host renderer's job. The host hands each
// frame's buffers and transform snapshots to the pipeline and receives the
// resolved color, which the pipeline also stores as next frame's history.
//
// # Coordinate Conventions
//
// Clip space follows the WebGPU convention: after the perspective divide,
// X and Y are in [-1, 1] with Y up, depth is in [0, 1] and reversed (1 at
// the near plane). Velocities are NDC-space deltas; the resolve stage owns
// the conversion to texture coordinates (Y down, [0, 1]).
package taa
