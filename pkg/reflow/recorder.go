package reflow

import (
	"encoding/json"
	"unicode/utf8"
)

// Op identifies a recorded drawing instruction.
type Op string

const (
	OpSetFont      Op = "set_font"
	OpSetFillColor Op = "set_fill_color"
	OpDrawText     Op = "draw_text"
	OpPageBreak    Op = "page_break"
)

// Instruction is one entry in a recorded draw stream.
type Instruction struct {
	Op    Op        `json:"op"`
	X     float64   `json:"x,omitempty"`
	Y     float64   `json:"y,omitempty"`
	Text  string    `json:"text,omitempty"`
	Font  *FontSpec `json:"font,omitempty"`
	Color *Color    `json:"color,omitempty"`
}

// Recorder is an in-memory Surface that captures the instruction stream
// instead of rasterizing it. It backs the layout preview endpoint and lets
// tests assert on exactly what the engine emitted.
type Recorder struct {
	Instructions []Instruction

	// Measure overrides width measurement. When nil, every rune (including
	// spaces) is charged CharWidth units.
	Measure   func(s string, font FontSpec) float64
	CharWidth float64

	// Families restricts which font families SetFont accepts. A nil map
	// accepts everything.
	Families map[string]bool

	// FailAfterDraws, when positive, poisons the surface after that many
	// draw calls. Used to exercise abort paths.
	FailAfterDraws int

	draws int
	err   error
}

// NewRecorder returns a Recorder with unit-width measurement.
func NewRecorder() *Recorder {
	return &Recorder{CharWidth: 1}
}

// MeasureWidth implements Surface.
func (r *Recorder) MeasureWidth(s string, font FontSpec) float64 {
	if r.Measure != nil {
		return r.Measure(s, font)
	}
	return float64(utf8.RuneCountInString(s)) * r.CharWidth
}

// SetFont implements Surface. It fails for families outside Families.
func (r *Recorder) SetFont(font FontSpec) error {
	if r.Families != nil && !r.Families[font.Family] {
		r.err = &UnknownFamilyError{Family: font.Family}
		return r.err
	}
	f := font
	r.Instructions = append(r.Instructions, Instruction{Op: OpSetFont, Font: &f})
	return nil
}

// SetFillColor implements Surface.
func (r *Recorder) SetFillColor(c Color) {
	col := c
	r.Instructions = append(r.Instructions, Instruction{Op: OpSetFillColor, Color: &col})
}

// DrawText implements Surface.
func (r *Recorder) DrawText(x, y float64, s string) {
	if r.err != nil {
		return
	}
	r.Instructions = append(r.Instructions, Instruction{Op: OpDrawText, X: x, Y: y, Text: s})
	r.draws++
	if r.FailAfterDraws > 0 && r.draws >= r.FailAfterDraws {
		r.err = errSinkFailed
	}
}

// BeginNewPage implements Surface.
func (r *Recorder) BeginNewPage() {
	r.Instructions = append(r.Instructions, Instruction{Op: OpPageBreak})
}

// Err implements Surface.
func (r *Recorder) Err() error {
	return r.err
}

// Finalize implements Surface by encoding the instruction stream as JSON.
func (r *Recorder) Finalize() ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	return json.Marshal(r.Instructions)
}

// PageCount returns the number of pages the stream spans.
func (r *Recorder) PageCount() int {
	pages := 1
	for _, in := range r.Instructions {
		if in.Op == OpPageBreak {
			pages++
		}
	}
	return pages
}

// DrawnLines returns the text of every draw_text instruction in order.
func (r *Recorder) DrawnLines() []string {
	var lines []string
	for _, in := range r.Instructions {
		if in.Op == OpDrawText {
			lines = append(lines, in.Text)
		}
	}
	return lines
}
