// Package reflow lays variable-length text into fixed-width lines on a
// paginated drawing surface. The engine is a pure, single-pass transform: it
// holds no state between calls and is safe to use from concurrent callers as
// long as each call gets its own Surface.
package reflow

import "fmt"

// Color is an RGB color with 0-255 components. The zero value is black.
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// FontSpec identifies a registered font family at a size in points. The pair
// controls both width measurement and line height.
type FontSpec struct {
	Family string  `json:"family"`
	Size   float64 `json:"size"`
}

// Surface is the drawing sink the engine renders into. Implementations must
// register width metrics for every family they accept in SetFont; the engine
// relies on SetFont failing fast for unknown families so that a bad font spec
// is caught before any drawing happens.
type Surface interface {
	// MeasureWidth returns the rendered width of s in the given font.
	MeasureWidth(s string, font FontSpec) float64

	// SetFont selects the active font for subsequent draws. It fails when
	// the family has no registered metrics.
	SetFont(font FontSpec) error

	// SetFillColor selects the text color for subsequent draws.
	SetFillColor(c Color)

	// DrawText draws s with its baseline starting at (x, y). Coordinates are
	// page coordinates with the origin at the bottom-left corner, y
	// increasing upward.
	DrawText(x, y float64, s string)

	// BeginNewPage finishes the current page and starts a fresh one.
	BeginNewPage()

	// Err reports the first failure the surface has encountered, if any.
	// Once non-nil, any partially written output must be discarded.
	Err() error

	// Finalize closes the document and returns its encoded bytes.
	Finalize() ([]byte, error)
}

// Geometry describes a fixed page size with a uniform margin, in points.
type Geometry struct {
	PageWidth  float64 `json:"page_width"`
	PageHeight float64 `json:"page_height"`
	Margin     float64 `json:"margin"`
}

// MaxWidth returns the usable line width between the left and right margins.
func (g Geometry) MaxWidth() float64 {
	return g.PageWidth - 2*g.Margin
}

// Validate checks that the geometry leaves room to draw at all.
func (g Geometry) Validate() error {
	if g.PageWidth <= 0 || g.PageHeight <= 0 {
		return fmt.Errorf("reflow: page size %gx%g is not positive", g.PageWidth, g.PageHeight)
	}
	if g.Margin < 0 {
		return fmt.Errorf("reflow: margin %g is negative", g.Margin)
	}
	if g.MaxWidth() <= 0 {
		return fmt.Errorf("reflow: margins %g leave no usable width on a %g-wide page", g.Margin, g.PageWidth)
	}
	return nil
}

// US Letter in points.
const (
	LetterWidth  = 612.0
	LetterHeight = 792.0
)

// Layout defaults. These mirror what the service has always produced but are
// plain configuration, not fixed behavior.
const (
	DefaultMargin       = 72.0
	DefaultLinePadding  = 4.0
	DefaultTitleDelta   = 6.0
	DefaultTitleAdvance = 36.0
)
