package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroqClient_GenerateContent(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

			var req groqRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, groqModel, req.Model)
			assert.Equal(t, int32(150), req.MaxTokens)
			require.Len(t, req.Messages, 1)
			assert.Equal(t, "suggest dinner", req.Messages[0].Content)

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"model": "llama-test",
				"choices": [{"message": {"role": "assistant", "content": "Lemon Chicken"}}],
				"usage": {"prompt_tokens": 12, "completion_tokens": 3, "total_tokens": 15}
			}`))
		}))
		defer srv.Close()

		c := newGroqClient("secret", srv.URL, DefaultSettings)
		resp, err := c.GenerateContent(context.Background(), "suggest dinner")
		require.NoError(t, err)
		assert.Equal(t, "Lemon Chicken", resp.Content)
		assert.Equal(t, 15, resp.Usage.TotalTokens)
		assert.Equal(t, "llama-test", resp.Usage.Model)
	})

	t.Run("APIError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		_, err := newGroqClient("secret", srv.URL, DefaultSettings).GenerateContent(context.Background(), "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status=429")
	})

	t.Run("NoChoices", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices": []}`))
		}))
		defer srv.Close()

		_, err := newGroqClient("secret", srv.URL, DefaultSettings).GenerateContent(context.Background(), "x")
		assert.EqualError(t, err, "no content generated")
	})
}
