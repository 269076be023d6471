package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rpggio/focuslog/internal/domain/classify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPrompt() classify.Prompt {
	return classify.Prompt{
		Task:   classify.TaskDistraction,
		System: "system text",
		User:   `{"dailyGoal":"ship"}`,
		Schema: classify.Schema{Name: "distraction_status", Definition: map[string]any{"type": "object"}},
	}
}

func completion(content, refusal string) chatResponse {
	return chatResponse{Choices: []chatChoice{{Message: chatMessage{Role: "assistant", Content: content, Refusal: refusal}}}}
}

func TestClassify_SendsStructuredRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			return
		}
		assert.Equal(t, "small-model", req.Model)
		if assert.Len(t, req.Messages, 2) {
			assert.Equal(t, "system", req.Messages[0].Role)
		}
		if !assert.NotNil(t, req.ResponseFormat) || !assert.NotNil(t, req.ResponseFormat.JSONSchema) {
			return
		}
		assert.Equal(t, "json_schema", req.ResponseFormat.Type)
		assert.Equal(t, "distraction_status", req.ResponseFormat.JSONSchema.Name)
		assert.True(t, req.ResponseFormat.JSONSchema.Strict)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completion(`{"distractionStatus":"no","motivationalMessage":"go"}`, ""))
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL + "/v1/", Model: "small-model", APIKey: "test-key"})
	require.NoError(t, err)

	result, err := client.Classify(context.Background(), testPrompt())
	require.NoError(t, err)
	require.JSONEq(t, `{"distractionStatus":"no","motivationalMessage":"go"}`, string(result.Payload))
}

func TestClassify_Refusal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(completion("", "I can't help with that"))
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL, APIKey: "k"})
	require.NoError(t, err)

	result, err := client.Classify(context.Background(), testPrompt())
	require.NoError(t, err)
	require.Equal(t, "I can't help with that", result.Refusal)
	require.Empty(t, result.Payload)
}

func TestClassify_Errors(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		},
		"api error": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"error":{"message":"bad model","type":"invalid_request_error"}}`))
		},
		"no choices": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		},
		"not json content": func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(completion("sure, here you go", ""))
		},
	}

	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(handler)
			defer server.Close()

			client, err := NewClient(Config{BaseURL: server.URL, APIKey: "k"})
			require.NoError(t, err)
			_, err = client.Classify(context.Background(), testPrompt())
			require.Error(t, err)
		})
	}
}

func TestClassify_HonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL, APIKey: "k"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = client.Classify(ctx, testPrompt())
	require.Error(t, err)
}

func TestNewClient_APIKeyFromEnv(t *testing.T) {
	t.Setenv("FOCUSLOG_TEST_KEY", "")
	_, err := NewClient(Config{BaseURL: "http://localhost", APIKeyEnv: "FOCUSLOG_TEST_KEY"})
	require.ErrorIs(t, err, ErrNoAPIKey)

	t.Setenv("FOCUSLOG_TEST_KEY", "from-env")
	client, err := NewClient(Config{BaseURL: "http://localhost", APIKeyEnv: "FOCUSLOG_TEST_KEY"})
	require.NoError(t, err)
	require.Equal(t, "from-env", client.apiKey)
}
