package taa

import "log/slog"

// HistoryState describes the history buffer lifecycle state.
type HistoryState uint8

const (
	// HistoryCold means no valid history exists: startup, after a resize,
	// or after an explicit invalidation. The next resolve passes the
	// current color through unchanged.
	HistoryCold HistoryState = iota

	// HistoryWarm means the previous frame's resolved output is available
	// for reprojection.
	HistoryWarm
)

// String returns a string representation of the state.
func (s HistoryState) String() string {
	switch s {
	case HistoryCold:
		return "Cold"
	case HistoryWarm:
		return "Warm"
	default:
		return "Unknown"
	}
}

// History is the read-only view of the previous frame handed to the
// resolve stage for one frame.
type History struct {
	Color *ColorBuffer
	Depth *DepthBuffer
	Valid bool
}

// historyTarget is one half of the double buffer.
type historyTarget struct {
	color *ColorBuffer
	depth *DepthBuffer
}

// HistoryBufferManager owns the double-buffered history color/depth pair
// and its validity flag.
//
// One buffer is exposed read-only as "previous" while the other receives
// the frame's commit; the swap at commit time means the resolve stage can
// never observe a half-written history without any locking.
//
// The manager follows the frame loop and is not safe for concurrent use;
// the stages it feeds parallelize internally.
type HistoryBufferManager struct {
	targets [2]historyTarget
	front   int // index currently exposed as previous
	valid   bool
	width   int
	height  int
}

// NewHistoryBufferManager creates a manager for the given resolution.
// History starts cold. Returns nil if width or height is not positive.
func NewHistoryBufferManager(width, height int) *HistoryBufferManager {
	if width <= 0 || height <= 0 {
		return nil
	}
	m := &HistoryBufferManager{width: width, height: height}
	m.alloc()
	return m
}

func (m *HistoryBufferManager) alloc() {
	for i := range m.targets {
		m.targets[i] = historyTarget{
			color: NewColorBuffer(m.width, m.height),
			depth: NewDepthBuffer(m.width, m.height),
		}
	}
}

// BeginFrame exposes the previous frame's buffers for the resolve stage.
// If the frame resolution differs from the stored history, the history is
// invalidated, reallocated at the new size and flushed before being
// returned: stale texels from the old resolution must never be sampled.
func (m *HistoryBufferManager) BeginFrame(width, height int) History {
	if width != m.width || height != m.height {
		Logger().Info("taa: history resolution mismatch, invalidating",
			slog.Int("oldWidth", m.width), slog.Int("oldHeight", m.height),
			slog.Int("width", width), slog.Int("height", height))
		m.width = width
		m.height = height
		m.alloc()
		m.valid = false
	}
	t := m.targets[m.front]
	return History{Color: t.color, Depth: t.depth, Valid: m.valid}
}

// CommitFrame stores the frame's resolved color and current depth as the
// new previous frame and marks the history warm. It writes into the buffer
// not currently exposed as previous and swaps, so a resolve still holding
// this frame's History view keeps reading consistent data.
//
// A commit at a resolution other than the current one is a host pacing
// bug; it is absorbed by adopting the committed size with cold history.
func (m *HistoryBufferManager) CommitFrame(resolved *ColorBuffer, depth *DepthBuffer) {
	if resolved == nil || depth == nil {
		return
	}
	if resolved.Width() != m.width || resolved.Height() != m.height {
		Logger().Warn("taa: commit at unexpected resolution",
			slog.Int("width", resolved.Width()), slog.Int("height", resolved.Height()),
			slog.Int("historyWidth", m.width), slog.Int("historyHeight", m.height))
		m.width = resolved.Width()
		m.height = resolved.Height()
		m.alloc()
	}
	back := 1 - m.front
	m.targets[back].color.CopyFrom(resolved)
	m.targets[back].depth.CopyFrom(depth)
	m.front = back
	m.valid = true
}

// Invalidate forces the history cold, e.g. on a camera teleport or level
// load. The next resolve passes the current color through, eliminating
// streaking from a discontinuous history. Buffer contents are flushed.
func (m *HistoryBufferManager) Invalidate() {
	Logger().Info("taa: history invalidated",
		slog.Int("width", m.width), slog.Int("height", m.height))
	for i := range m.targets {
		m.targets[i].color.Fill(Transparent)
		m.targets[i].depth.Fill(0)
	}
	m.valid = false
}

// Valid reports whether a valid history exists.
func (m *HistoryBufferManager) Valid() bool {
	return m.valid
}

// State returns the lifecycle state: Cold until the first successful
// commit after creation or invalidation, Warm afterwards.
func (m *HistoryBufferManager) State() HistoryState {
	if m.valid {
		return HistoryWarm
	}
	return HistoryCold
}

// Width returns the history resolution width.
func (m *HistoryBufferManager) Width() int { return m.width }

// Height returns the history resolution height.
func (m *HistoryBufferManager) Height() int { return m.height }
