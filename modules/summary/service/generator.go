package service

import (
	"context"
	stderrors "errors"
	"io"

	"calendar-digest/core/config"

	"github.com/sashabaranov/go-openai"
)

// Generator streams a completion for prompt, calling onDelta for each chunk of text.
type Generator interface {
	Stream(ctx context.Context, prompt string, onDelta func(string) error) error
}

type openAIGenerator struct {
	client *openai.Client
	model  string
}

func NewOpenAIGenerator(cfg config.OpenAIConfig) Generator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &openAIGenerator{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}
}

func (g *openAIGenerator) Stream(ctx context.Context, prompt string, onDelta func(string) error) error {
	stream, err := g.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Stream: true,
	})
	if err != nil {
		return err
	}
	defer stream.Close()

	for {
		resp, err := stream.Recv()
		if stderrors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		for _, choice := range resp.Choices {
			if choice.Delta.Content == "" {
				continue
			}
			if err := onDelta(choice.Delta.Content); err != nil {
				return err
			}
		}
	}
}
