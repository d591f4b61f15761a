package devserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const systemPrompt = `You are Khedut Saathi, an assistant for farmers and the businesses that buy from them.
Answer in plain, short sentences. Prefer practical advice about crops, weather, prices and selling.
If you do not know something, say so.`

// Responder produces an answer for one utterance.
type Responder interface {
	Respond(ctx context.Context, utterance string) (string, error)
}

var errEmptyCompletion = errors.New("completion returned no choices")

// OpenAIResponder answers through the chat completions API.
type OpenAIResponder struct {
	client *openai.Client
	model  string
}

func NewOpenAIResponder(apiKey, baseURL, model string) *OpenAIResponder {
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	return &OpenAIResponder{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}
}

func (r *OpenAIResponder) Respond(ctx context.Context, utterance string) (string, error) {
	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: utterance},
		},
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errEmptyCompletion
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// EchoResponder is used when no API key is configured.
type EchoResponder struct{}

func (EchoResponder) Respond(_ context.Context, utterance string) (string, error) {
	return fmt.Sprintf("You said: %s", utterance), nil
}
