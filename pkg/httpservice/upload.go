package httpservice

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourorg/doc-rework-service/pkg/logging"
)

// RequestSizeLimitMiddleware limits the maximum size of request bodies.
func RequestSizeLimitMiddleware(maxBytes int64, logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			logger.Warn("Request body too large",
				logging.NewField("content_length", c.Request.ContentLength),
				logging.NewField("max_bytes", maxBytes),
				logging.NewField("ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": "Request body too large",
			})
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// ReadUploadedFile reads a multipart file field into memory and returns its
// bytes and original filename. Size enforcement beyond maxBytes happens here
// because multipart parts carry no reliable Content-Length.
func ReadUploadedFile(c *gin.Context, field string, maxBytes int64) ([]byte, string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, "", fmt.Errorf("missing file field %q: %w", field, err)
	}
	if maxBytes > 0 && fileHeader.Size > maxBytes {
		return nil, "", fmt.Errorf("file %q exceeds the %d byte limit", fileHeader.Filename, maxBytes)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	reader := io.Reader(file)
	if maxBytes > 0 {
		reader = io.LimitReader(file, maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, "", fmt.Errorf("file %q exceeds the %d byte limit", fileHeader.Filename, maxBytes)
	}

	return data, fileHeader.Filename, nil
}
