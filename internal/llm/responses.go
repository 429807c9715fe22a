package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
)

// The reasoning-model families speak the /v1/responses endpoint, which the
// chat client library does not cover, so the request is built by hand.

type responsesPayload struct {
	Model        string              `json:"model"`
	Instructions string              `json:"instructions,omitempty"`
	Input        []responsesItem     `json:"input"`
	Reasoning    *responsesReasoning `json:"reasoning,omitempty"`
	Store        bool                `json:"store"`
}

type responsesItem struct {
	Role    string             `json:"role"`
	Content []responsesContent `json:"content"`
}

type responsesContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type responsesReasoning struct {
	Effort string `json:"effort"`
}

// generateResponses speaks the reasoning-effort request/response shape.
func (a *Adapter) generateResponses(ctx context.Context, b OpenAI, systemInstruction string, conv Conversation) (string, error) {
	apiKey := os.Getenv(EnvOpenAIKey)
	if apiKey == "" {
		return "", fmt.Errorf("%s not set", EnvOpenAIKey)
	}

	input := make([]responsesItem, 0, conv.Len())
	for _, t := range conv.Turns {
		role, contentType := "user", "input_text"
		if t.Role == RoleModel {
			role, contentType = "assistant", "output_text"
		}
		input = append(input, responsesItem{
			Role:    role,
			Content: []responsesContent{{Type: contentType, Text: t.Text}},
		})
	}

	payload := responsesPayload{
		Model:        b.Model,
		Instructions: systemInstruction,
		Input:        input,
		Reasoning:    &responsesReasoning{Effort: string(b.Effort)},
		Store:        false,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/responses", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai responses: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var raw map[string]any
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return "", fmt.Errorf("openai responses: decode body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("openai responses: HTTP %d: %v", resp.StatusCode, raw["error"])
	}

	return extractOutputText(raw), nil
}

// extractOutputText recovers the reply text from a responses body. Three
// shapes are tolerated: a top-level output_text string, an output array of
// typed message items, and a bare content array. An unrecognized body
// yields an empty string, not an error.
func extractOutputText(raw map[string]any) string {
	if text, ok := raw["output_text"].(string); ok && text != "" {
		return text
	}

	if out, ok := raw["output"].([]any); ok {
		var buf bytes.Buffer
		for _, itemAny := range out {
			item, ok := itemAny.(map[string]any)
			if !ok {
				continue
			}
			if typ, _ := item["type"].(string); typ != "" && typ != "message" {
				// reasoning traces, tool calls, etc.
				continue
			}
			content, ok := item["content"].([]any)
			if !ok {
				continue
			}
			appendContentText(&buf, content)
		}
		if buf.Len() > 0 {
			return buf.String()
		}
	}

	if content, ok := raw["content"].([]any); ok {
		var buf bytes.Buffer
		appendContentText(&buf, content)
		if buf.Len() > 0 {
			return buf.String()
		}
	}

	return ""
}

func appendContentText(buf *bytes.Buffer, content []any) {
	for _, cAny := range content {
		c, ok := cAny.(map[string]any)
		if !ok {
			continue
		}
		if typ, _ := c["type"].(string); typ != "" && typ != "output_text" && typ != "text" {
			continue
		}
		if text, _ := c["text"].(string); text != "" {
			buf.WriteString(text)
		}
	}
}
