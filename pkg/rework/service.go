// Package rework wires the document pipeline together: extract text from an
// uploaded PDF, run it through the transform service, and reflow the result
// onto a fresh paged document. Finished artifacts are pushed to blob storage
// and announced on the service bus when those clients are configured.
package rework

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/yourorg/doc-rework-service/pkg/blobclient"
	"github.com/yourorg/doc-rework-service/pkg/errors"
	"github.com/yourorg/doc-rework-service/pkg/fonts"
	"github.com/yourorg/doc-rework-service/pkg/llm"
	"github.com/yourorg/doc-rework-service/pkg/logging"
	"github.com/yourorg/doc-rework-service/pkg/pdfutil"
	"github.com/yourorg/doc-rework-service/pkg/reflow"
	"github.com/yourorg/doc-rework-service/pkg/servicebusclient"
	"github.com/yourorg/doc-rework-service/pkg/utils"
)

// DefaultTitleColor is the heading color on generated documents.
var DefaultTitleColor = reflow.Color{R: 0, G: 51, B: 102}

// Options describe one rework request.
type Options struct {
	Action         llm.Action
	Tone           string
	TargetLanguage string

	// Title overrides the document heading. Empty means the configured
	// default.
	Title string

	// TitleColor is a "#RRGGBB" hex value for the heading. Empty means
	// DefaultTitleColor.
	TitleColor string

	// FontSize overrides the body size in points. Zero means the configured
	// default.
	FontSize float64

	// SourceName is the original file name, carried into completion events.
	SourceName string
}

// Result is the outcome of a successful rework.
type Result struct {
	PDF          []byte     `json:"-"`
	Text         string     `json:"text,omitempty"`
	Action       llm.Action `json:"action"`
	FontFamily   string     `json:"font_family"`
	Pages        int        `json:"pages"`
	ArtifactName string     `json:"artifact_name,omitempty"`
	ArtifactURL  string     `json:"artifact_url,omitempty"`
}

// ServiceConfig carries the layout defaults and the artifact destinations.
type ServiceConfig struct {
	ArtifactContainer string
	CompletedQueue    string

	DefaultTitle string
	BodyFontSize float64
	PageMargin   float64
	LinePadding  float64
}

// Service runs the extract, transform, and render pipeline.
type Service struct {
	transformer llm.Transformer
	catalog     *fonts.Catalog
	blob        blobclient.BlobClient
	bus         servicebusclient.ServiceBusClient
	logger      logging.Logger
	cfg         ServiceConfig
}

// NewService constructs the pipeline. Blob and bus clients may be nil; the
// pipeline then returns artifacts inline without publishing them.
func NewService(
	transformer llm.Transformer,
	catalog *fonts.Catalog,
	blob blobclient.BlobClient,
	bus servicebusclient.ServiceBusClient,
	logger logging.Logger,
	cfg ServiceConfig,
) *Service {
	if cfg.DefaultTitle == "" {
		cfg.DefaultTitle = "AI-Generated Document"
	}
	if cfg.BodyFontSize <= 0 {
		cfg.BodyFontSize = 10
	}
	if cfg.PageMargin <= 0 {
		cfg.PageMargin = reflow.DefaultMargin
	}
	if cfg.LinePadding <= 0 {
		cfg.LinePadding = reflow.DefaultLinePadding
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Service{
		transformer: transformer,
		catalog:     catalog,
		blob:        blob,
		bus:         bus,
		logger:      logger,
		cfg:         cfg,
	}
}

// ProcessPDF extracts text from an uploaded PDF and runs ProcessText on it.
func (s *Service) ProcessPDF(ctx context.Context, pdfData []byte, opts Options) (*Result, error) {
	if !pdfutil.IsPDF(pdfData) {
		return nil, errors.NewBadRequestError("Uploaded file is not a PDF")
	}

	text, err := pdfutil.ExtractText(pdfData)
	if err != nil {
		if stderrors.Is(err, pdfutil.ErrNoTextContent) {
			return nil, errors.NewNoTextContentError(err)
		}
		return nil, errors.NewAppErrorWithErr(
			errors.ErrorCodeBadRequest,
			"Failed to read the uploaded PDF",
			http.StatusBadRequest,
			err,
		)
	}

	return s.ProcessText(ctx, text, opts)
}

// ProcessText transforms raw text and renders the result onto a fresh
// document. Uploading the artifact and emitting the completion event are best
// effort: a publish failure is logged, not returned, so the caller still gets
// the PDF bytes.
func (s *Service) ProcessText(ctx context.Context, text string, opts Options) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.NewValidationError("Text to rework must not be empty")
	}

	logger := s.logger.With(
		logging.NewField("operation", "rework.process"),
		logging.NewField("action", string(opts.Action)),
	)

	start := time.Now()
	reworked, err := s.transformer.Transform(ctx, llm.Request{
		Action:         opts.Action,
		Tone:           opts.Tone,
		TargetLanguage: opts.TargetLanguage,
		Text:           text,
	})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, appErr
		}
		return nil, errors.NewTransformFailedError(err)
	}

	surface := pdfutil.NewLetterSurface(s.catalog)
	renderOpts, family := s.renderOptions(opts)
	if err := reflow.Render(surface, reworked, renderOpts); err != nil {
		return nil, renderError(family, err)
	}

	data, err := surface.Finalize()
	if err != nil {
		return nil, errors.NewAppErrorWithErr(
			errors.ErrorCodeInternal,
			"Failed to finalize the generated document",
			http.StatusInternalServerError,
			err,
		)
	}

	result := &Result{
		PDF:        data,
		Text:       reworked,
		Action:     opts.Action,
		FontFamily: family,
		Pages:      surface.PageCount(),
	}

	s.publish(ctx, result, opts, logger)

	logger.Info("Rework completed",
		logging.NewField("pages", result.Pages),
		logging.NewField("font_family", family),
		logging.NewField("duration_ms", time.Since(start).Milliseconds()),
	)
	return result, nil
}

// Preview runs the same layout pass as ProcessText but records the draw
// stream instead of rasterizing it, using real font metrics for measurement.
// No transform call is made; the text lays out as given.
func (s *Service) Preview(text string, opts Options) ([]reflow.Instruction, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.NewValidationError("Text to preview must not be empty")
	}

	metrics := pdfutil.NewLetterSurface(s.catalog)
	recorder := reflow.NewRecorder()
	recorder.Measure = metrics.MeasureWidth
	recorder.Families = s.registeredFamilies()

	renderOpts, family := s.renderOptions(opts)
	if err := reflow.Render(recorder, text, renderOpts); err != nil {
		return nil, renderError(family, err)
	}
	return recorder.Instructions, nil
}

func (s *Service) registeredFamilies() map[string]bool {
	families := map[string]bool{
		"Helvetica": true,
		"Arial":     true,
		"Courier":   true,
		"Times":     true,
	}
	for _, f := range s.catalog.FileFamilies() {
		families[f] = true
	}
	return families
}

func (s *Service) renderOptions(opts Options) (reflow.Options, string) {
	family := s.catalog.ForLanguage(opts.TargetLanguage)
	size := opts.FontSize
	if size <= 0 {
		size = s.cfg.BodyFontSize
	}
	title := opts.Title
	if title == "" {
		title = s.cfg.DefaultTitle
	}
	titleColor := DefaultTitleColor
	if opts.TitleColor != "" {
		if c, err := reflow.ParseHexColor(opts.TitleColor); err == nil {
			titleColor = c
		}
	}

	renderOpts := reflow.DefaultOptions(reflow.FontSpec{Family: family, Size: size})
	renderOpts.Geometry.Margin = s.cfg.PageMargin
	renderOpts.LinePadding = s.cfg.LinePadding
	renderOpts.Title = title
	renderOpts.TitleColor = titleColor
	return renderOpts, family
}

func renderError(family string, err error) *errors.AppError {
	var famErr *reflow.UnknownFamilyError
	if stderrors.As(err, &famErr) {
		return errors.NewFontNotRegisteredError(famErr.Family, err)
	}
	return errors.NewAppErrorWithErr(
		errors.ErrorCodeInternal,
		fmt.Sprintf("Failed to render the document with font %q", family),
		http.StatusInternalServerError,
		err,
	)
}

// publish uploads the artifact and emits the completion event. Failures are
// logged and swallowed so the synchronous caller still receives the document.
func (s *Service) publish(ctx context.Context, result *Result, opts Options, logger logging.Logger) {
	if s.blob == nil {
		return
	}

	name := utils.GenerateArtifactName(string(result.Action), "pdf")
	url, err := s.blob.Upload(ctx, s.cfg.ArtifactContainer, name, bytes.NewReader(result.PDF), "application/pdf")
	if err != nil {
		logger.Warn("Artifact upload failed", logging.NewField("error", err))
		return
	}
	result.ArtifactName = name
	result.ArtifactURL = url

	if s.bus == nil || s.cfg.CompletedQueue == "" {
		return
	}
	event := CompletionEvent{
		Action:       result.Action,
		SourceName:   opts.SourceName,
		ArtifactName: name,
		ArtifactURL:  url,
		Pages:        result.Pages,
		CompletedAt:  time.Now().UTC(),
	}
	if err := s.sendEvent(ctx, event); err != nil {
		logger.Warn("Completion event publish failed", logging.NewField("error", err))
	}
}
