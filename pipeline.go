package taa

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/taa/internal/parallel"
)

// Pipeline wires the motion vector stage, the resolve stage and the
// history manager into the per-frame TAA pass.
//
// Stage ordering inside RenderFrame is the hard barrier the algorithm
// requires: the velocity buffer is fully written before the resolve stage
// reads it, and the history commit happens only after the resolve output
// exists.
//
// Pipeline follows the host's frame loop and is not safe for concurrent
// use; the stages parallelize internally across the worker pool.
type Pipeline struct {
	cfg      Config
	pool     *parallel.Pool
	motion   *MotionVectorStage
	resolve  *TemporalResolveStage
	history  *HistoryBufferManager
	velocity *VelocityBuffer
	width    int
	height   int
}

// NewPipeline creates a TAA pipeline for the given resolution.
func NewPipeline(width, height int, opts ...Option) (*Pipeline, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("taa: invalid pipeline size %dx%d", width, height)
	}
	cfg := NewConfig(opts...)
	pool := parallel.New(0)
	p := &Pipeline{
		cfg:      cfg,
		pool:     pool,
		motion:   NewMotionVectorStage(pool),
		resolve:  NewTemporalResolveStage(cfg, pool),
		history:  NewHistoryBufferManager(width, height),
		velocity: NewVelocityBuffer(width, height),
		width:    width,
		height:   height,
	}
	Logger().Info("taa: pipeline created",
		slog.Int("width", width), slog.Int("height", height),
		slog.Int("workers", pool.Workers()),
		slog.Float64("blendWeight", cfg.BlendWeight))
	return p, nil
}

// Config returns the pipeline's resolve configuration.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Velocity returns the velocity buffer written by the most recent
// RenderFrame. Read-only until the next frame overwrites it.
func (p *Pipeline) Velocity() *VelocityBuffer {
	return p.velocity
}

// History returns the history manager, e.g. to inspect its state.
func (p *Pipeline) History() *HistoryBufferManager {
	return p.history
}

// RenderFrame runs one full TAA pass and returns the resolved color
// buffer, freshly allocated so the caller may keep it across frames.
//
// color and depth are the host rasterizer's output for the current frame
// and must share dimensions. A resolution change relative to the previous
// frame is detected here: the velocity buffer is reallocated and the
// history invalidated, so the frame resolves as a pass-through.
func (p *Pipeline) RenderFrame(view ViewPair, instances []MeshInstance, color *ColorBuffer, depth *DepthBuffer) *ColorBuffer {
	w, h := color.Width(), color.Height()
	if w != p.width || h != p.height {
		Logger().Info("taa: frame resized",
			slog.Int("oldWidth", p.width), slog.Int("oldHeight", p.height),
			slog.Int("width", w), slog.Int("height", h))
		p.width = w
		p.height = h
		p.velocity = NewVelocityBuffer(w, h)
	}

	// Velocity pass. Render returns only when every pixel is written.
	p.motion.Render(view, instances, depth, p.velocity)

	hist := p.history.BeginFrame(w, h)
	Logger().Debug("taa: resolving frame",
		slog.String("history", p.history.State().String()))

	out := NewColorBuffer(w, h)
	p.resolve.Resolve(ResolveInputs{
		Color:    color,
		Depth:    depth,
		Velocity: p.velocity,
		History:  hist,
	}, out)

	p.history.CommitFrame(out, depth)
	return out
}

// Invalidate forces the history cold; the next frame resolves as a pure
// current-color pass-through. Call on scene cuts and camera teleports.
func (p *Pipeline) Invalidate() {
	p.history.Invalidate()
}

// Close releases the worker pool. The pipeline degrades to serial
// execution if used after Close.
func (p *Pipeline) Close() {
	p.pool.Close()
}
