package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateGemini_RoundTrip(t *testing.T) {
	clearBackendEnv(t)
	t.Setenv(EnvGeminiKey, "gm-test")

	var gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, "gm-test", r.Header.Get("x-goog-api-key"))

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates": [{"content": {"role": "model", "parts": [{"text": "gemini reply"}]}}]}`))
	}))
	defer srv.Close()
	t.Setenv("GOOGLE_GEMINI_BASE_URL", srv.URL)

	a, err := New(Options{ModelOverride: "gemini-2.5-pro"})
	require.NoError(t, err)

	conv := Conversation{}.WithUser("prove it").WithModel("a draft").WithUser("tighten step 2")
	text, err := a.Generate(context.Background(), "Be rigorous.", conv)
	require.NoError(t, err)
	assert.Equal(t, "gemini reply", text)

	assert.True(t, strings.HasSuffix(gotPath, "gemini-2.5-pro:generateContent"), "path: %s", gotPath)

	contents, ok := gotBody["contents"].([]any)
	require.True(t, ok, "body: %v", gotBody)
	require.Len(t, contents, 3)
	roles := make([]string, 0, len(contents))
	for _, c := range contents {
		roles = append(roles, c.(map[string]any)["role"].(string))
	}
	assert.Equal(t, []string{"user", "model", "user"}, roles)
	assert.Contains(t, string(mustJSON(t, gotBody["systemInstruction"])), "Be rigorous.")
}

func TestGenerateGemini_MissingCredential(t *testing.T) {
	clearBackendEnv(t)

	a, err := New(Options{ModelOverride: "gemini-2.5-pro"})
	require.NoError(t, err)

	_, err = a.Generate(context.Background(), "", Conversation{}.WithUser("hello"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvGeminiKey)
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}
