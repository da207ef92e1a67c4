// Package core provides the cell, color and geometry types shared by the
// renderer and the platform backends. It has no dependencies on either, so
// both can import it.
package core
