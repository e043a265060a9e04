// Package animation implements the weather particle animation: a controller
// that owns a per-category particle set and a continuous redraw loop over an
// abstract 2D drawing surface.
package animation

// Surface is the 2D drawing target for the animation. Implementations exist
// for the terminal preview and for tests; the browser renders the same
// animation from a static script.
//
// Bounds is re-read every frame, so an implementation may resize at any time.
// All coordinates are in surface units with the origin at the top-left.
type Surface interface {
	// Bounds returns the current drawable width and height.
	Bounds() (width, height float64)

	// Clear erases the whole surface before a frame is drawn.
	Clear()

	// StrokeLine draws a translucent line segment (rain streaks).
	StrokeLine(x1, y1, x2, y2, opacity float64)

	// FillCircle draws a translucent filled circle (snow and ambient motes).
	FillCircle(x, y, radius, opacity float64)
}
