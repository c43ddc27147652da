package reflow

import "strings"

// Options control a single Render pass.
type Options struct {
	Geometry Geometry

	// Font is the body font used to measure and draw every paragraph line.
	Font FontSpec

	// LinePadding is added below Font.Size to form the per-line cursor
	// advance.
	LinePadding float64

	// Title, when non-empty, is drawn once at the very top of the first page
	// at Font.Size+TitleDelta in TitleColor. It never repeats on later pages.
	Title        string
	TitleColor   Color
	TitleDelta   float64
	TitleAdvance float64
}

// DefaultOptions returns Letter-page options with the standard one-inch
// margins and line padding.
func DefaultOptions(font FontSpec) Options {
	return Options{
		Geometry: Geometry{
			PageWidth:  LetterWidth,
			PageHeight: LetterHeight,
			Margin:     DefaultMargin,
		},
		Font:         font,
		LinePadding:  DefaultLinePadding,
		TitleDelta:   DefaultTitleDelta,
		TitleAdvance: DefaultTitleAdvance,
	}
}

// cursor is the vertical draw position on the active page. It is threaded
// through a single Render call and never shared.
type cursor struct {
	y float64
}

// Render converts text into draw calls against s, honoring the maximum line
// width and breaking pages automatically. Paragraphs are newline-delimited;
// an empty or whitespace-only paragraph keeps its vertical space as one
// blank-line advance with no draw call.
//
// The cursor starts at the top margin and drops by Font.Size+LinePadding per
// line. Before each draw, a cursor below the bottom margin triggers a page
// break: the surface starts a new page, the body font is re-asserted, and the
// cursor resets to the top margin.
//
// Render aborts on the first surface failure; the caller must then discard
// any partially written output.
func Render(s Surface, text string, opts Options) error {
	if err := opts.Geometry.Validate(); err != nil {
		return err
	}
	// Precondition: an unregistered font must fail before any drawing.
	if err := s.SetFont(opts.Font); err != nil {
		return err
	}

	g := opts.Geometry
	top := g.PageHeight - g.Margin
	cur := cursor{y: top}
	advance := opts.Font.Size + opts.LinePadding

	if opts.Title != "" {
		titleFont := FontSpec{Family: opts.Font.Family, Size: opts.Font.Size + opts.TitleDelta}
		if err := s.SetFont(titleFont); err != nil {
			return err
		}
		s.SetFillColor(opts.TitleColor)
		s.DrawText(g.Margin, cur.y, opts.Title)
		cur.y -= opts.TitleAdvance

		if err := s.SetFont(opts.Font); err != nil {
			return err
		}
		s.SetFillColor(Color{})
	}

	measure := func(line string) float64 {
		return s.MeasureWidth(line, opts.Font)
	}

	for _, paragraph := range strings.Split(text, "\n") {
		lines := Wrap(strings.TrimSpace(paragraph), measure, g.MaxWidth())
		if len(lines) == 0 {
			cur.y -= advance
			continue
		}
		for _, line := range lines {
			if cur.y < g.Margin {
				s.BeginNewPage()
				if err := s.SetFont(opts.Font); err != nil {
					return err
				}
				cur.y = top
			}
			s.DrawText(g.Margin, cur.y, line)
			cur.y -= advance
			if err := s.Err(); err != nil {
				return err
			}
		}
	}

	return s.Err()
}
