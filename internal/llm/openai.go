package llm

import (
	"context"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// openaiFor returns the lazily constructed OpenAI chat client.
func (a *Adapter) openaiFor() (*openai.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.openaiClient != nil {
		return a.openaiClient, nil
	}

	apiKey := os.Getenv(EnvOpenAIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%s not set", EnvOpenAIKey)
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = a.baseURL + "/v1"
	cfg.HTTPClient = a.httpClient
	client := openai.NewClientWithConfig(cfg)
	a.openaiClient = client
	return client, nil
}

func (a *Adapter) generateOpenAI(ctx context.Context, b OpenAI, systemInstruction string, conv Conversation) (string, error) {
	switch b.Shape {
	case ShapeResponses:
		return a.generateResponses(ctx, b, systemInstruction, conv)
	default:
		return a.generateChat(ctx, b, systemInstruction, conv)
	}
}

// generateChat speaks the conventional chat-messages shape.
func (a *Adapter) generateChat(ctx context.Context, b OpenAI, systemInstruction string, conv Conversation) (string, error) {
	client, err := a.openaiFor()
	if err != nil {
		return "", err
	}

	messages := make([]openai.ChatCompletionMessage, 0, conv.Len()+1)
	if systemInstruction != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemInstruction,
		})
	}
	for _, t := range conv.Turns {
		role := openai.ChatMessageRoleUser
		if t.Role == RoleModel {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: t.Text})
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    b.Model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai chat: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
