package llm

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"
)

// geminiFor returns the lazily constructed Gemini client.
func (a *Adapter) geminiFor(ctx context.Context) (*genai.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.geminiClient != nil {
		return a.geminiClient, nil
	}

	apiKey := os.Getenv(EnvGeminiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%s not set", EnvGeminiKey)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	a.geminiClient = client
	return client, nil
}

func (a *Adapter) generateGemini(ctx context.Context, b Gemini, systemInstruction string, conv Conversation) (string, error) {
	client, err := a.geminiFor(ctx)
	if err != nil {
		return "", err
	}

	contents := make([]*genai.Content, 0, conv.Len())
	for _, t := range conv.Turns {
		role := genai.Role(genai.RoleUser)
		if t.Role == RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(t.Text, role))
	}

	cfg := &genai.GenerateContentConfig{}
	if systemInstruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(systemInstruction, genai.RoleUser)
	}

	resp, err := client.Models.GenerateContent(ctx, b.Model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if resp == nil {
		return "", fmt.Errorf("gemini generate: empty response")
	}
	return resp.Text(), nil
}
