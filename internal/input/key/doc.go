// Package key defines the engine's platform-neutral keyboard and mouse
// identifiers.
//
// Backends translate their native codes into these values before events
// are published:
//   - Key: a physical key (letters, digits, punctuation, special keys)
//   - Modifier: a bitmask of held modifier keys (Shift, Ctrl, Alt, Meta)
//   - MouseButton: a mouse button
package key
