package rework

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/doc-rework-service/pkg/blobclient"
	"github.com/yourorg/doc-rework-service/pkg/errors"
	"github.com/yourorg/doc-rework-service/pkg/fonts"
	"github.com/yourorg/doc-rework-service/pkg/llm"
	"github.com/yourorg/doc-rework-service/pkg/pdfutil"
	"github.com/yourorg/doc-rework-service/pkg/reflow"
	"github.com/yourorg/doc-rework-service/pkg/servicebusclient"
)

type pipeline struct {
	svc         *Service
	transformer *llm.MockTransformer
	blob        *blobclient.MockBlobClient
	bus         *servicebusclient.MockServiceBusClient
}

func newPipeline(t *testing.T) *pipeline {
	t.Helper()
	p := &pipeline{
		transformer: llm.NewMockTransformer(),
		blob:        blobclient.NewMockBlobClient(),
		bus:         servicebusclient.NewMockServiceBusClient(),
	}
	p.svc = NewService(
		p.transformer,
		fonts.NewCatalog(t.TempDir()),
		p.blob,
		p.bus,
		nil,
		ServiceConfig{
			ArtifactContainer: "reworked",
			CompletedQueue:    "completed",
		},
	)
	return p
}

func TestProcessText_ProducesArtifactAndEvent(t *testing.T) {
	p := newPipeline(t)
	p.transformer.Response = "Shorter version of the document."

	result, err := p.svc.ProcessText(context.Background(), "A long document body.", Options{
		Action:     llm.ActionSummarize,
		SourceName: "report.pdf",
	})
	require.NoError(t, err)

	assert.True(t, pdfutil.IsPDF(result.PDF))
	assert.Equal(t, "Shorter version of the document.", result.Text)
	assert.Equal(t, 1, result.Pages)
	assert.Equal(t, fonts.CoreFallback, result.FontFamily)

	// Artifact landed in blob storage under an action-prefixed name.
	require.NotEmpty(t, result.ArtifactName)
	assert.Contains(t, result.ArtifactName, "summarize/")
	exists, err := p.blob.Exists(context.Background(), "reworked", result.ArtifactName)
	require.NoError(t, err)
	assert.True(t, exists)

	// Completion event announces the artifact.
	msgs, err := p.bus.Receive(context.Background(), "completed", 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	var event CompletionEvent
	require.NoError(t, json.Unmarshal(msgs[0].Body, &event))
	assert.Equal(t, llm.ActionSummarize, event.Action)
	assert.Equal(t, "report.pdf", event.SourceName)
	assert.Equal(t, result.ArtifactName, event.ArtifactName)
	assert.Equal(t, result.Pages, event.Pages)
}

func TestProcessText_WithoutPublishers(t *testing.T) {
	p := newPipeline(t)
	svc := NewService(p.transformer, fonts.NewCatalog(t.TempDir()), nil, nil, nil, ServiceConfig{})

	result, err := svc.ProcessText(context.Background(), "body", Options{Action: llm.ActionSummarize})
	require.NoError(t, err)

	assert.True(t, pdfutil.IsPDF(result.PDF))
	assert.Empty(t, result.ArtifactName)
	assert.Empty(t, result.ArtifactURL)
}

func TestProcessText_EmptyText(t *testing.T) {
	p := newPipeline(t)

	_, err := p.svc.ProcessText(context.Background(), "   \n  ", Options{Action: llm.ActionSummarize})
	require.Error(t, err)
	assert.Equal(t, errors.ErrorCodeValidation, errors.FromError(err).Code)
}

func TestProcessText_TransformFailure(t *testing.T) {
	p := newPipeline(t)
	p.transformer.Err = assert.AnError

	_, err := p.svc.ProcessText(context.Background(), "body", Options{Action: llm.ActionSummarize})
	require.Error(t, err)

	appErr := errors.FromError(err)
	assert.Equal(t, errors.ErrorCodeTransformFailed, appErr.Code)

	// Nothing was published.
	msgs, recvErr := p.bus.Receive(context.Background(), "completed", 10)
	require.NoError(t, recvErr)
	assert.Empty(t, msgs)
}

func TestProcessText_UnsupportedAction(t *testing.T) {
	p := newPipeline(t)

	_, err := p.svc.ProcessText(context.Background(), "body", Options{Action: "redact"})
	require.Error(t, err)
}

func TestProcessPDF_RejectsNonPDF(t *testing.T) {
	p := newPipeline(t)

	_, err := p.svc.ProcessPDF(context.Background(), []byte("plain text upload"), Options{
		Action: llm.ActionSummarize,
	})
	require.Error(t, err)
	assert.Equal(t, errors.ErrorCodeBadRequest, errors.FromError(err).Code)
}

func TestPreview_RecordsDrawStream(t *testing.T) {
	p := newPipeline(t)

	instructions, err := p.svc.Preview("First paragraph.\n\nSecond paragraph.", Options{
		Title: "Preview",
	})
	require.NoError(t, err)
	require.NotEmpty(t, instructions)

	var drawn []string
	for _, in := range instructions {
		if in.Op == reflow.OpDrawText {
			drawn = append(drawn, in.Text)
		}
	}
	require.Len(t, drawn, 3)
	assert.Equal(t, "Preview", drawn[0])
	assert.Equal(t, "First paragraph.", drawn[1])
	assert.Equal(t, "Second paragraph.", drawn[2])

	// Preview never calls the transform service.
	assert.Empty(t, p.transformer.Requests())
}

func TestPreview_CustomTitleColor(t *testing.T) {
	p := newPipeline(t)

	instructions, err := p.svc.Preview("Body.", Options{
		Title:      "Tinted",
		TitleColor: "#336699",
	})
	require.NoError(t, err)

	var colors []reflow.Color
	for _, in := range instructions {
		if in.Op == reflow.OpSetFillColor && in.Color != nil {
			colors = append(colors, *in.Color)
		}
	}
	require.NotEmpty(t, colors)
	assert.Equal(t, reflow.Color{R: 0x33, G: 0x66, B: 0x99}, colors[0])
}

func TestHandleJob_DecodeFailure(t *testing.T) {
	p := newPipeline(t)

	err := p.svc.HandleJob(context.Background(), []byte("{not json"))
	assert.Error(t, err)
}

func TestHandleJob_MissingBlobName(t *testing.T) {
	p := newPipeline(t)

	body, _ := json.Marshal(Job{DocumentID: "doc-1", Action: "summarize"})
	err := p.svc.HandleJob(context.Background(), body)
	assert.Error(t, err)
}

func TestHandleJob_MissingSourceBlob(t *testing.T) {
	p := newPipeline(t)

	body, _ := json.Marshal(Job{
		DocumentID: "doc-1",
		Container:  "uploads",
		BlobName:   "missing.pdf",
		Action:     "summarize",
	})
	err := p.svc.HandleJob(context.Background(), body)
	assert.Error(t, err)
}
