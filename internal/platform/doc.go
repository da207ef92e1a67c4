// Package platform connects the engine to a native surface.
//
// A Backend owns the surface (a terminal via tcell, a GLFW window, or an
// in-memory NullBackend) and produces RawEvents. A Window wraps a Backend,
// runs its message pump on a dedicated goroutine, and translates raw input
// into typed events on the event bus:
//
//   - close requests are published immediately (PublishNow) so the frame
//     loop sees them before its next iteration;
//   - everything else is published deferred and delivered on the frame
//     goroutine by ProcessEvents.
package platform
