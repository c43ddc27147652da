package httpservice

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/doc-rework-service/pkg/logging"
)

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// Allow 2 requests per second with burst of 2
	cfg := RateLimitConfig{RPS: 2, Burst: 2}
	router := gin.New()
	router.Use(RateLimitMiddleware(cfg))
	router.GET("/", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// First 2 requests should succeed
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	// 3rd request should fail (too fast)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// Wait for token refill
	time.Sleep(600 * time.Millisecond)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(SecurityHeadersMiddleware())
	router.GET("/", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "1; mode=block", w.Header().Get("X-XSS-Protection"))
	assert.Equal(t, "default-src 'self'", w.Header().Get("Content-Security-Policy"))
}

func TestRequestSizeLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestSizeLimitMiddleware(16, logging.Nop()))
	router.POST("/", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/", strings.NewReader("small"))
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/", strings.NewReader(strings.Repeat("x", 64)))
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestReadUploadedFile(t *testing.T) {
	gin.SetMode(gin.TestMode)

	buildUpload := func(content string) (*bytes.Buffer, string) {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, _ := writer.CreateFormFile("file", "doc.pdf")
		part.Write([]byte(content))
		writer.Close()
		return body, writer.FormDataContentType()
	}

	var gotData []byte
	var gotName string
	var gotErr error

	router := gin.New()
	router.POST("/", func(c *gin.Context) {
		gotData, gotName, gotErr = ReadUploadedFile(c, "file", 1024)
		c.Status(http.StatusOK)
	})

	body, contentType := buildUpload("%PDF-1.7 content")
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	require.NoError(t, gotErr)
	assert.Equal(t, "doc.pdf", gotName)
	assert.Equal(t, []byte("%PDF-1.7 content"), gotData)

	// Oversized upload is rejected.
	router2 := gin.New()
	router2.POST("/", func(c *gin.Context) {
		_, _, gotErr = ReadUploadedFile(c, "file", 4)
		c.Status(http.StatusOK)
	})
	body, contentType = buildUpload("way past the limit")
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", contentType)
	router2.ServeHTTP(w, req)
	assert.Error(t, gotErr)

	// Missing field is an error.
	router3 := gin.New()
	router3.POST("/", func(c *gin.Context) {
		_, _, gotErr = ReadUploadedFile(c, "file", 1024)
		c.Status(http.StatusOK)
	})
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/", strings.NewReader(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	router3.ServeHTTP(w, req)
	assert.Error(t, gotErr)
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		cfg            CORSConfig
		origin         string
		expectedOrigin string
	}{
		{
			name:           "Allow All",
			cfg:            CORSConfig{AllowedOrigins: []string{"*"}},
			origin:         "http://example.com",
			expectedOrigin: "*",
		},
		{
			name:           "Allow Specific",
			cfg:            CORSConfig{AllowedOrigins: []string{"http://example.com"}},
			origin:         "http://example.com",
			expectedOrigin: "http://example.com",
		},
		{
			name:           "Disallow Specific",
			cfg:            CORSConfig{AllowedOrigins: []string{"http://example.com"}},
			origin:         "http://evil.com",
			expectedOrigin: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CORSMiddleware(tt.cfg))
			router.GET("/", func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/", nil)
			req.Header.Set("Origin", tt.origin)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
