package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/doc-rework-service/pkg/utils"
)

func TestBuildPrompt_Summarize(t *testing.T) {
	prompt, err := BuildPrompt(Request{Action: ActionSummarize, Text: "body text"})
	require.NoError(t, err)
	assert.Equal(t, "Summarize the following document clearly and briefly:\n\nbody text", prompt)
}

func TestBuildPrompt_Rewrite(t *testing.T) {
	prompt, err := BuildPrompt(Request{Action: ActionRewrite, Tone: "Legalese", Text: "body"})
	require.NoError(t, err)
	assert.Equal(t, "Rewrite the following text in a legalese tone:\n\nbody", prompt)

	// Missing tone falls back to professional.
	prompt, err = BuildPrompt(Request{Action: ActionRewrite, Text: "body"})
	require.NoError(t, err)
	assert.Contains(t, prompt, "professional tone")
}

func TestBuildPrompt_Translate(t *testing.T) {
	prompt, err := BuildPrompt(Request{Action: ActionTranslate, TargetLanguage: "Japanese", Text: "body"})
	require.NoError(t, err)
	assert.Equal(t, "Translate the following text into Japanese:\n\nbody", prompt)

	_, err = BuildPrompt(Request{Action: ActionTranslate, Text: "body"})
	assert.Error(t, err)
}

func TestBuildPrompt_UnsupportedAction(t *testing.T) {
	_, err := BuildPrompt(Request{Action: "redact", Text: "body"})
	assert.Error(t, err)
}

func TestClient_Transform(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "  reworked text \n"}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "test-model",
	})
	require.NoError(t, err)

	out, err := client.Transform(context.Background(), Request{
		Action: ActionSummarize,
		Text:   "long document",
	})
	require.NoError(t, err)

	assert.Equal(t, "reworked text", out)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "test-model", gotReq.Model)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.True(t, strings.HasPrefix(gotReq.Messages[1].Content, "Summarize the following document"))
}

func TestClient_TransformRetriesServerErrors(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]string{"message": "overloaded"},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "ok"}},
			},
		})
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{
		APIKey:  "k",
		BaseURL: server.URL,
		Retry:   utils.RetryConfig{MaxAttempts: 3, InitialDelay: 1, MaxDelay: 5, Multiplier: 2},
	})
	require.NoError(t, err)

	out, err := client.Transform(context.Background(), Request{Action: ActionSummarize, Text: "x"})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 3, calls)
}

func TestClient_TransformAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "bad key"},
		})
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{
		APIKey:  "k",
		BaseURL: server.URL,
		Retry:   utils.RetryConfig{MaxAttempts: 1, InitialDelay: 1, MaxDelay: 1, Multiplier: 1},
	})
	require.NoError(t, err)

	_, err = client.Transform(context.Background(), Request{Action: ActionSummarize, Text: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad key")
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(ClientConfig{})
	assert.Error(t, err)
}

func TestMockTransformer(t *testing.T) {
	mock := NewMockTransformer()

	out, err := mock.Transform(context.Background(), Request{Action: ActionSummarize, Text: "echo me"})
	require.NoError(t, err)
	assert.Equal(t, "echo me", out)

	mock.Response = "canned"
	out, err = mock.Transform(context.Background(), Request{Action: ActionRewrite, Text: "x"})
	require.NoError(t, err)
	assert.Equal(t, "canned", out)

	_, err = mock.Transform(context.Background(), Request{Action: "bogus", Text: "x"})
	assert.Error(t, err)

	assert.Len(t, mock.Requests(), 3)
}
