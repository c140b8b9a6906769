package fetcher

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

const condensePrompt = `You are a helpful assistant for a video headline site. The user gives you the headline and the YouTube description of a video.
Reply with a teaser of at most two sentences that describes what the video is about. Leave out links, sponsor messages, timestamps and calls to subscribe.
Do not add introductory phrases like "This video is about".`

type OpenAI struct {
	client *openai.Client
}

func NewOpenAI(apiKey string) *OpenAI {
	return &OpenAI{
		client: openai.NewClient(apiKey),
	}
}

func (o *OpenAI) Summarize(ctx context.Context, headline, description string) (string, error) {
	resp, err := o.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT3Dot5Turbo,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: condensePrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: fmt.Sprintf("%s\n\n%s", headline, description),
				},
			},
		})
	if err != nil {
		return "", fmt.Errorf("failed to fetch summary: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("failed to fetch summary: no choices returned")
	}

	return resp.Choices[len(resp.Choices)-1].Message.Content, nil
}
