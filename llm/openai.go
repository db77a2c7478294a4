package llm

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"

	"github.com/EasterCompany/dex-voice-agent/fault"
)

// OpenAI generates responses through the chat completion API. The flattened
// prompt travels as a single user message; conversation structure is already
// encoded in it.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates the adapter. With an empty apiKey the client is left nil
// and the missing credential is reported at request time.
func NewOpenAI(apiKey, model string) *OpenAI {
	c := &OpenAI{model: model}
	if apiKey != "" {
		c.client = openai.NewClient(apiKey)
	}
	return c
}

// Respond sends the prompt as one user message and returns the first choice.
// An empty completion yields Placeholder, never an error.
func (c *OpenAI) Respond(ctx context.Context, prompt string) (string, error) {
	if c.client == nil {
		return "", fault.New(fault.Config, fault.StageLLM, "OpenAI API key not found")
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			fe := fault.Wrap(fault.Upstream, fault.StageLLM, "OpenAI request failed", err)
			fe.Upstream = map[string]any{"message": apiErr.Message, "type": apiErr.Type}
			return "", fe
		}
		return "", fault.FromNetErr(fault.StageLLM, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return Placeholder, nil
	}
	return resp.Choices[0].Message.Content, nil
}
