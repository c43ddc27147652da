package pdfutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/doc-rework-service/pkg/fonts"
	"github.com/yourorg/doc-rework-service/pkg/reflow"
)

func letterSurface(t *testing.T) *DocumentSurface {
	t.Helper()
	return NewLetterSurface(fonts.NewCatalog(t.TempDir()))
}

func TestDocumentSurface_PageSize(t *testing.T) {
	s := letterSurface(t)

	w, h := s.PageSize()
	assert.InDelta(t, reflow.LetterWidth, w, 0.5)
	assert.InDelta(t, reflow.LetterHeight, h, 0.5)
}

func TestDocumentSurface_MeasureWidthGrowsWithText(t *testing.T) {
	s := letterSurface(t)
	font := reflow.FontSpec{Family: "Helvetica", Size: 10}

	short := s.MeasureWidth("hi", font)
	long := s.MeasureWidth("hi there, much longer line", font)

	assert.Greater(t, short, 0.0)
	assert.Greater(t, long, short)
}

func TestDocumentSurface_MeasureWidthScalesWithSize(t *testing.T) {
	s := letterSurface(t)

	at10 := s.MeasureWidth("sample text", reflow.FontSpec{Family: "Helvetica", Size: 10})
	at20 := s.MeasureWidth("sample text", reflow.FontSpec{Family: "Helvetica", Size: 20})

	assert.InDelta(t, 2*at10, at20, 0.01)
}

func TestDocumentSurface_SetFontUnknownFamily(t *testing.T) {
	s := letterSurface(t)

	err := s.SetFont(reflow.FontSpec{Family: "NoSuchFamily", Size: 10})
	require.Error(t, err)

	var famErr *reflow.UnknownFamilyError
	assert.ErrorAs(t, err, &famErr)
}

func TestDocumentSurface_RenderProducesPDF(t *testing.T) {
	s := letterSurface(t)

	opts := reflow.DefaultOptions(reflow.FontSpec{Family: "Helvetica", Size: 10})
	opts.Title = "Reworked Document"
	opts.TitleColor = reflow.Color{R: 0, G: 51, B: 102}

	err := reflow.Render(s, "First paragraph of the document.\n\nSecond paragraph.", opts)
	require.NoError(t, err)

	data, err := s.Finalize()
	require.NoError(t, err)
	assert.True(t, IsPDF(data))
	assert.Equal(t, 1, s.PageCount())
}

func TestDocumentSurface_LongTextBreaksPages(t *testing.T) {
	s := letterSurface(t)
	opts := reflow.DefaultOptions(reflow.FontSpec{Family: "Helvetica", Size: 10})

	// Enough paragraphs to overflow a Letter page at 14pt per line.
	text := ""
	for i := 0; i < 80; i++ {
		text += "A paragraph line that occupies one row of the page.\n"
	}

	require.NoError(t, reflow.Render(s, text, opts))
	assert.Greater(t, s.PageCount(), 1)

	data, err := s.Finalize()
	require.NoError(t, err)
	assert.True(t, IsPDF(data))
}

func TestExtractText_RejectsGarbage(t *testing.T) {
	_, err := ExtractText([]byte("definitely not a pdf"))
	assert.Error(t, err)
}

func TestIsPDF(t *testing.T) {
	assert.True(t, IsPDF([]byte("%PDF-1.7 rest of file")))
	assert.False(t, IsPDF([]byte("plain text")))
	assert.False(t, IsPDF(nil))
}
