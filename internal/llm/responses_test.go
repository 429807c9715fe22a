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

func decodeRaw(t *testing.T, s string) map[string]any {
	t.Helper()
	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &raw))
	return raw
}

func TestExtractOutputText_DirectField(t *testing.T) {
	raw := decodeRaw(t, `{"output_text": "direct answer"}`)
	assert.Equal(t, "direct answer", extractOutputText(raw))
}

func TestExtractOutputText_OutputMessages(t *testing.T) {
	raw := decodeRaw(t, `{
		"output": [
			{"type": "reasoning", "summary": []},
			{"type": "message", "content": [
				{"type": "output_text", "text": "part one "},
				{"type": "output_text", "text": "part two"}
			]}
		]
	}`)
	assert.Equal(t, "part one part two", extractOutputText(raw))
}

func TestExtractOutputText_ContentArray(t *testing.T) {
	raw := decodeRaw(t, `{"content": [{"type": "text", "text": "bare content"}]}`)
	assert.Equal(t, "bare content", extractOutputText(raw))
}

func TestExtractOutputText_NoMatchIsEmpty(t *testing.T) {
	raw := decodeRaw(t, `{"id": "resp_123", "usage": {"total_tokens": 7}}`)
	assert.Equal(t, "", extractOutputText(raw))
}

func TestGenerateResponses_RoundTrip(t *testing.T) {
	t.Setenv(EnvOpenAIKey, "sk-test")
	t.Setenv(EnvReasoningEffort, "")

	var gotPayload responsesPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/responses", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"output": [{"type": "message", "content": [{"type": "output_text", "text": "hello from responses"}]}]}`))
	}))
	defer srv.Close()

	a, err := New(Options{ModelOverride: "openai:gpt-5-nano", BaseURL: srv.URL})
	require.NoError(t, err)

	conv := Conversation{}.WithUser("prove something").WithModel("a draft").WithUser("improve it")
	text, err := a.Generate(context.Background(), "be rigorous", conv)
	require.NoError(t, err)
	assert.Equal(t, "hello from responses", text)

	assert.Equal(t, "gpt-5-nano", gotPayload.Model)
	assert.Equal(t, "be rigorous", gotPayload.Instructions)
	require.NotNil(t, gotPayload.Reasoning)
	assert.Equal(t, "low", gotPayload.Reasoning.Effort)
	require.Len(t, gotPayload.Input, 3)
	assert.Equal(t, "user", gotPayload.Input[0].Role)
	assert.Equal(t, "assistant", gotPayload.Input[1].Role)
	assert.Equal(t, "output_text", gotPayload.Input[1].Content[0].Type)
}

func TestGenerateResponses_HTTPError(t *testing.T) {
	t.Setenv(EnvOpenAIKey, "sk-test")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limited"}}`))
	}))
	defer srv.Close()

	a, err := New(Options{ModelOverride: "openai:gpt-5-nano", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = a.Generate(context.Background(), "", Conversation{}.WithUser("hi"))
	assert.ErrorContains(t, err, "429")
}

func TestGenerate_MissingCredential(t *testing.T) {
	t.Setenv(EnvOpenAIKey, "")

	a, err := New(Options{ModelOverride: "openai:gpt-5-nano"})
	require.NoError(t, err, "resolution itself does not need the credential")

	_, err = a.Generate(context.Background(), "", Conversation{}.WithUser("hi"))
	assert.ErrorContains(t, err, EnvOpenAIKey)
}

func TestGenerate_CancelledContext(t *testing.T) {
	t.Setenv(EnvOpenAIKey, "sk-test")

	a, err := New(Options{ModelOverride: "openai:gpt-5-nano"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = a.Generate(ctx, "", Conversation{}.WithUser("hi"))
	assert.ErrorIs(t, err, context.Canceled)
}
