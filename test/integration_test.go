package test

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/doc-rework-service/pkg/blobclient"
	"github.com/yourorg/doc-rework-service/pkg/fonts"
	"github.com/yourorg/doc-rework-service/pkg/llm"
	"github.com/yourorg/doc-rework-service/pkg/pdfutil"
	"github.com/yourorg/doc-rework-service/pkg/rework"
	"github.com/yourorg/doc-rework-service/pkg/servicebusclient"
)

func setupService(t *testing.T) (*rework.Service, *blobclient.MockBlobClient, *servicebusclient.MockServiceBusClient) {
	t.Helper()
	blob := blobclient.NewMockBlobClient()
	bus := servicebusclient.NewMockServiceBusClient()
	svc := rework.NewService(
		llm.NewMockTransformer(),
		fonts.NewCatalog(t.TempDir()),
		blob,
		bus,
		nil,
		rework.ServiceConfig{
			ArtifactContainer: "reworked-documents",
			CompletedQueue:    "rework-completed",
		},
	)
	return svc, blob, bus
}

// The full text path: transform, render, upload, announce, and the artifact
// fetched back out of storage matches what the pipeline returned.
func TestIntegration_TextReworkFlow(t *testing.T) {
	ctx := context.Background()
	svc, blob, bus := setupService(t)

	result, err := svc.ProcessText(ctx, "Quarterly revenue grew in every region.", rework.Options{
		Action:     llm.ActionSummarize,
		SourceName: "q3-report.pdf",
	})
	require.NoError(t, err)
	require.True(t, pdfutil.IsPDF(result.PDF))

	// Artifact round-trips through storage.
	reader, err := blob.Get(ctx, "reworked-documents", result.ArtifactName)
	require.NoError(t, err)
	defer reader.Close()

	stored, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, result.PDF, stored)

	// Completion event names the same artifact.
	msgs, err := bus.Receive(ctx, "rework-completed", 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	var event rework.CompletionEvent
	require.NoError(t, json.Unmarshal(msgs[0].Body, &event))
	assert.Equal(t, result.ArtifactName, event.ArtifactName)
	assert.Equal(t, "q3-report.pdf", event.SourceName)
}

// Preview shares layout behavior with the render path: same text, same
// options, identical instruction streams across calls.
func TestIntegration_PreviewIsDeterministic(t *testing.T) {
	svc, _, _ := setupService(t)

	text := "First paragraph with enough words to wrap across several lines on a Letter page when the body font is small.\n\nSecond paragraph."

	first, err := svc.Preview(text, rework.Options{Title: "Draft"})
	require.NoError(t, err)
	second, err := svc.Preview(text, rework.Options{Title: "Draft"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}

// A queued job whose source blob exists flows end to end through the worker
// entry point. The source here is not a valid PDF, so the pipeline must
// reject it without publishing anything.
func TestIntegration_JobRejectsCorruptSource(t *testing.T) {
	ctx := context.Background()
	svc, blob, bus := setupService(t)

	_, err := blob.Upload(ctx, "uploads", "bad.pdf", strings.NewReader("not a pdf"), "application/pdf")
	require.NoError(t, err)

	body, err := json.Marshal(rework.Job{
		DocumentID: "doc-42",
		Container:  "uploads",
		BlobName:   "bad.pdf",
		Action:     "summarize",
	})
	require.NoError(t, err)

	require.Error(t, svc.HandleJob(ctx, body))

	msgs, err := bus.Receive(ctx, "rework-completed", 10)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
