package llm

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAICompleter talks to an OpenAI-compatible chat-completion endpoint.
// Pointing BaseURL at a local server (ollama, vllm, llama.cpp) works the
// same way.
type OpenAICompleter struct {
	client *openai.Client
	model  string
}

// NewOpenAICompleter builds a completer. baseURL may be empty for the
// hosted API.
func NewOpenAICompleter(token, baseURL, model string) *OpenAICompleter {
	cfg := openai.DefaultConfig(token)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAICompleter{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Ping issues a minimal completion to verify the backend answers.
func (o *OpenAICompleter) Ping(ctx context.Context) error {
	_, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.model,
		MaxTokens: 1,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: "ping"},
		},
	})
	return err
}

// Complete runs one chat completion and returns the first choice.
func (o *OpenAICompleter) Complete(ctx context.Context, systemPrompt, prompt string, opts Options) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       o.model,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if systemPrompt != "" {
		req.Messages = append([]openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		}, req.Messages...)
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}
