package app

import (
	"sync/atomic"
	"time"
)

// FrameStats tracks frame timing for the main loop.
type FrameStats struct {
	frameCount   atomic.Uint64
	frameTotalNs atomic.Int64
	frameMinNs   atomic.Int64
	frameMaxNs   atomic.Int64
	lastFrameNs  atomic.Int64
	eventCount   atomic.Uint64
	startTime    time.Time
}

// NewFrameStats creates a new frame tracker.
func NewFrameStats() *FrameStats {
	m := &FrameStats{startTime: time.Now()}
	// Initialize min to max int64 so first frame will be smaller
	m.frameMinNs.Store(1<<63 - 1)
	return m
}

// RecordFrame records one frame's duration and how many events it
// flushed.
func (m *FrameStats) RecordFrame(duration time.Duration, events int) {
	ns := duration.Nanoseconds()

	m.frameCount.Add(1)
	m.frameTotalNs.Add(ns)
	m.lastFrameNs.Store(ns)
	m.eventCount.Add(uint64(events))

	for {
		old := m.frameMinNs.Load()
		if ns >= old || m.frameMinNs.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.frameMaxNs.Load()
		if ns <= old || m.frameMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// Snapshot returns a snapshot of current timings.
func (m *FrameStats) Snapshot() FrameSnapshot {
	frameCount := m.frameCount.Load()

	var avgFrameNs int64
	if frameCount > 0 {
		avgFrameNs = m.frameTotalNs.Load() / int64(frameCount)
	}

	minFrameNs := m.frameMinNs.Load()
	if minFrameNs == 1<<63-1 {
		minFrameNs = 0
	}

	return FrameSnapshot{
		Uptime:      time.Since(m.startTime),
		Frames:      frameCount,
		Events:      m.eventCount.Load(),
		AvgFrameNs:  avgFrameNs,
		MinFrameNs:  minFrameNs,
		MaxFrameNs:  m.frameMaxNs.Load(),
		LastFrameNs: m.lastFrameNs.Load(),
	}
}

// FrameSnapshot is a point-in-time view of frame timings.
type FrameSnapshot struct {
	Uptime      time.Duration
	Frames      uint64
	Events      uint64
	AvgFrameNs  int64
	MinFrameNs  int64
	MaxFrameNs  int64
	LastFrameNs int64
}

// AvgFPS returns the average frames per second.
func (s FrameSnapshot) AvgFPS() float64 {
	if s.AvgFrameNs == 0 {
		return 0
	}
	return 1e9 / float64(s.AvgFrameNs)
}

// CurrentFPS returns the FPS based on last frame time.
func (s FrameSnapshot) CurrentFPS() float64 {
	if s.LastFrameNs == 0 {
		return 0
	}
	return 1e9 / float64(s.LastFrameNs)
}
