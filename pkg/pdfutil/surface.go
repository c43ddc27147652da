// Package pdfutil provides the PDF ends of the rework pipeline: text
// extraction from uploaded documents and a gofpdf-backed drawing surface for
// the reflow engine.
package pdfutil

import (
	"bytes"

	"github.com/jung-kurt/gofpdf"

	"github.com/yourorg/doc-rework-service/pkg/fonts"
	"github.com/yourorg/doc-rework-service/pkg/reflow"
)

// DocumentSurface implements reflow.Surface on top of gofpdf. The engine
// works in bottom-left page coordinates; gofpdf draws top-down, so DrawText
// flips the y axis.
type DocumentSurface struct {
	pdf     *gofpdf.Fpdf
	catalog *fonts.Catalog
	height  float64
	current reflow.FontSpec
}

// NewLetterSurface returns a surface for a portrait US Letter page measured
// in points. Every file-backed family in the catalog is registered as a
// UTF-8 font; core families need no registration.
func NewLetterSurface(catalog *fonts.Catalog) *DocumentSurface {
	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)
	for _, family := range catalog.FileFamilies() {
		if path, ok := catalog.Path(family); ok {
			pdf.AddUTF8Font(family, "", path)
		}
	}
	pdf.AddPage()

	_, height := pdf.GetPageSize()
	return &DocumentSurface{
		pdf:     pdf,
		catalog: catalog,
		height:  height,
	}
}

// PageSize returns the page dimensions in points.
func (d *DocumentSurface) PageSize() (width, height float64) {
	return d.pdf.GetPageSize()
}

// MeasureWidth implements reflow.Surface.
func (d *DocumentSurface) MeasureWidth(s string, font reflow.FontSpec) float64 {
	d.ensureFont(font)
	return d.pdf.GetStringWidth(s)
}

// SetFont implements reflow.Surface. Unknown families fail before touching
// the document so a bad font spec cannot poison a half-written page.
func (d *DocumentSurface) SetFont(font reflow.FontSpec) error {
	if !d.catalog.Registered(font.Family) {
		return &reflow.UnknownFamilyError{Family: font.Family}
	}
	d.pdf.SetFont(font.Family, "", font.Size)
	d.current = font
	return d.pdf.Error()
}

func (d *DocumentSurface) ensureFont(font reflow.FontSpec) {
	if font != d.current {
		d.pdf.SetFont(font.Family, "", font.Size)
		d.current = font
	}
}

// SetFillColor implements reflow.Surface.
func (d *DocumentSurface) SetFillColor(c reflow.Color) {
	d.pdf.SetTextColor(c.R, c.G, c.B)
}

// DrawText implements reflow.Surface.
func (d *DocumentSurface) DrawText(x, y float64, s string) {
	d.pdf.Text(x, d.height-y, s)
}

// BeginNewPage implements reflow.Surface.
func (d *DocumentSurface) BeginNewPage() {
	d.pdf.AddPage()
}

// Err implements reflow.Surface.
func (d *DocumentSurface) Err() error {
	return d.pdf.Error()
}

// PageCount returns the number of pages started so far.
func (d *DocumentSurface) PageCount() int {
	return d.pdf.PageCount()
}

// Finalize implements reflow.Surface: it closes the document and returns the
// PDF bytes. A surface that has recorded an error produces no output.
func (d *DocumentSurface) Finalize() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
