// Package renderer draws the frame onto a cell surface.
//
// The Renderer is a layer: the application pushes it onto the layer stack
// and it clears the surface, paints the clear color and draws every
// submitted Renderable during OnRender. Primitives (Square, Text, Box) draw
// through a Canvas that clips to the surface bounds and measures text by
// grapheme cluster.
package renderer
