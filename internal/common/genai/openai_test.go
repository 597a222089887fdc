package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatServer(t *testing.T, status int, content string, captured *map[string]interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		if captured != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			w.Write([]byte(`{"error":{"message":"upstream unavailable","type":"server_error"}}`))
			return
		}
		resp := map[string]interface{}{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "test-model",
			"choices": []map[string]interface{}{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]interface{}{"role": "assistant", "content": content},
			}},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestNewOpenAIClient_Validation(t *testing.T) {
	_, err := NewOpenAIClient(OpenAISettings{Model: "m"})
	assert.Error(t, err)

	_, err = NewOpenAIClient(OpenAISettings{APIKey: "k"})
	assert.Error(t, err)
}

func TestOpenAIClient_Complete_Success(t *testing.T) {
	var body map[string]interface{}
	server := newChatServer(t, http.StatusOK, `{"headline":"Glow"}`, &body)
	defer server.Close()

	client, err := NewOpenAIClient(OpenAISettings{BaseURL: server.URL + "/v1/", APIKey: "test-key", Model: "test-model"})
	require.NoError(t, err)

	text, err := client.Complete(context.Background(), Prompt{System: "be terse", User: "write"})
	require.NoError(t, err)
	assert.Equal(t, `{"headline":"Glow"}`, text)

	assert.Equal(t, "test-model", body["model"])
	msgs, ok := body["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]interface{})["role"])
	assert.Equal(t, "user", msgs[1].(map[string]interface{})["role"])
}

func TestOpenAIClient_Complete_ServerError(t *testing.T) {
	server := newChatServer(t, http.StatusInternalServerError, "", nil)
	defer server.Close()

	client, err := NewOpenAIClient(OpenAISettings{BaseURL: server.URL + "/v1/", APIKey: "test-key", Model: "test-model"})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), Prompt{User: "write"})
	assert.Error(t, err)
}
