package reasoning

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geminiReply(text, finish string) map[string]interface{} {
	return map[string]interface{}{
		"candidates": []interface{}{
			map[string]interface{}{
				"content":      map[string]interface{}{"parts": []interface{}{map[string]interface{}{"text": text}}},
				"finishReason": finish,
			},
		},
	}
}

func TestGeminiClientInvoke(t *testing.T) {
	var captured geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-2.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "g-key", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(geminiReply(`[{"ingredient_name":"rice","ingredient_weight_kg":0.1}]`, "STOP"))
	}))
	defer srv.Close()

	c := NewGeminiClient(Options{Model: "gemini-2.5-flash", APIKey: "g-key", BaseURL: srv.URL})
	res := c.Invoke(context.Background(), Request{
		System: "sys",
		User:   "list ingredients",
		Image:  &Image{Data: []byte("img"), MIMEType: "image/webp"},
		Schema: ingredientListSchema,
	})

	require.Equal(t, StatusOK, res.Status, res.Detail)
	assert.JSONEq(t, `{"ingredients":[{"ingredient_name":"rice","ingredient_weight_kg":0.1}]}`, string(res.Payload))

	require.NotNil(t, captured.SystemInstruction)
	assert.Equal(t, "sys", captured.SystemInstruction.Parts[0].Text)
	assert.Equal(t, "application/json", captured.GenerationConfig.ResponseMimeType)
	require.Len(t, captured.Contents[0].Parts, 2)
	assert.Equal(t, "image/webp", captured.Contents[0].Parts[1].InlineData.MimeType)
	assert.Equal(t, "aW1n", captured.Contents[0].Parts[1].InlineData.Data)
}

func TestGeminiClientFailures(t *testing.T) {
	tests := []struct {
		name string
		body interface{}
		code int
		want Status
	}{
		{"blocked", map[string]interface{}{"promptFeedback": map[string]interface{}{"blockReason": "SAFETY"}}, 200, StatusProviderError},
		{"safety stop", geminiReply(`{}`, "SAFETY"), 200, StatusProviderError},
		{"max tokens", geminiReply(`{"a"`, "MAX_TOKENS"), 200, StatusProviderError},
		{"bad request", map[string]interface{}{"error": map[string]interface{}{"code": 400, "message": "bad"}}, 400, StatusProviderError},
		{"all null", geminiReply(`{"dish_name":null}`, "STOP"), 200, StatusEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.code)
				_ = json.NewEncoder(w).Encode(tt.body)
			}))
			defer srv.Close()

			res := NewGeminiClient(Options{Model: "m", BaseURL: srv.URL}).Invoke(context.Background(), Request{User: "x", Schema: dishNameSchema})
			assert.Equal(t, tt.want, res.Status, res.Detail)
		})
	}
}
