package blobclient

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestMockBlobClient_UploadAndGet(t *testing.T) {
	client := NewMockBlobClient()
	ctx := context.Background()

	url, err := client.Upload(ctx, "reworked-documents", "summarize/abc.pdf", strings.NewReader("%PDF-1.7 body"), "application/pdf")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if url == "" {
		t.Error("Expected URL to be returned")
	}

	reader, err := client.Get(ctx, "reworked-documents", "summarize/abc.pdf")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	defer reader.Close()

	content, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(content) != "%PDF-1.7 body" {
		t.Errorf("Stored artifact does not round-trip, got %q", string(content))
	}
}

func TestMockBlobClient_GetMissing(t *testing.T) {
	client := NewMockBlobClient()

	if _, err := client.Get(context.Background(), "reworked-documents", "missing.pdf"); err == nil {
		t.Error("Expected error for missing artifact")
	}
}

func TestMockBlobClient_Exists(t *testing.T) {
	client := NewMockBlobClient()
	ctx := context.Background()

	exists, err := client.Exists(ctx, "reworked-documents", "translate/xyz.pdf")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("Expected artifact to not exist")
	}

	if _, err = client.Upload(ctx, "reworked-documents", "translate/xyz.pdf", strings.NewReader("pdf"), "application/pdf"); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	exists, err = client.Exists(ctx, "reworked-documents", "translate/xyz.pdf")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("Expected artifact to exist")
	}
}

func TestMockBlobClient_ListByActionPrefix(t *testing.T) {
	client := NewMockBlobClient()
	ctx := context.Background()

	for _, name := range []string{"summarize/a.pdf", "summarize/b.pdf", "rewrite/c.pdf"} {
		if _, err := client.Upload(ctx, "reworked-documents", name, strings.NewReader("pdf"), "application/pdf"); err != nil {
			t.Fatalf("Upload failed: %v", err)
		}
	}

	blobs, err := client.List(ctx, "reworked-documents", "summarize/")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(blobs) != 2 {
		t.Errorf("Expected 2 summarize artifacts, got %d", len(blobs))
	}

	all, err := client.List(ctx, "reworked-documents", "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 artifacts, got %d", len(all))
	}
}
