package rework

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/yourorg/doc-rework-service/pkg/llm"
	"github.com/yourorg/doc-rework-service/pkg/logging"
	"github.com/yourorg/doc-rework-service/pkg/servicebusclient"
)

// Job is a queued rework request. The source document already lives in blob
// storage; the worker fetches it, runs the pipeline, and lets the pipeline
// publish the artifact and completion event.
type Job struct {
	DocumentID     string `json:"document_id"`
	Container      string `json:"container"`
	BlobName       string `json:"blob_name"`
	Action         string `json:"action"`
	Tone           string `json:"tone,omitempty"`
	TargetLanguage string `json:"target_language,omitempty"`
	Title          string `json:"title,omitempty"`
	TitleColor     string `json:"title_color,omitempty"`
}

// CompletionEvent announces a finished artifact on the completed queue.
type CompletionEvent struct {
	Action       llm.Action `json:"action"`
	SourceName   string     `json:"source_name,omitempty"`
	ArtifactName string     `json:"artifact_name"`
	ArtifactURL  string     `json:"artifact_url"`
	Pages        int        `json:"pages"`
	CompletedAt  time.Time  `json:"completed_at"`
}

func (s *Service) sendEvent(ctx context.Context, event CompletionEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode completion event: %w", err)
	}
	_, err = s.bus.Send(ctx, s.cfg.CompletedQueue, body,
		servicebusclient.WithContentType("application/json"))
	return err
}

// HandleJob processes one queued rework message. A decode failure or a
// missing source blob is terminal; the consumer should complete the message
// rather than redeliver it forever.
func (s *Service) HandleJob(ctx context.Context, body []byte) error {
	var job Job
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("failed to decode rework job: %w", err)
	}
	if job.BlobName == "" {
		return fmt.Errorf("rework job %s has no source blob", job.DocumentID)
	}
	if s.blob == nil {
		return fmt.Errorf("rework job %s requires blob storage, none configured", job.DocumentID)
	}

	logger := s.logger.With(
		logging.NewField("operation", "rework.job"),
		logging.NewField("document_id", job.DocumentID),
		logging.NewField("blob_name", job.BlobName),
	)
	logger.Info("Processing rework job")

	container := job.Container
	if container == "" {
		container = s.cfg.ArtifactContainer
	}
	reader, err := s.blob.Get(ctx, container, job.BlobName)
	if err != nil {
		return fmt.Errorf("failed to fetch source blob %s/%s: %w", container, job.BlobName, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read source blob %s/%s: %w", container, job.BlobName, err)
	}

	_, err = s.ProcessPDF(ctx, data, Options{
		Action:         llm.Action(job.Action),
		Tone:           job.Tone,
		TargetLanguage: job.TargetLanguage,
		Title:          job.Title,
		TitleColor:     job.TitleColor,
		SourceName:     job.BlobName,
	})
	if err != nil {
		logger.Error("Rework job failed", logging.NewField("error", err))
		return err
	}

	logger.Info("Rework job completed")
	return nil
}
