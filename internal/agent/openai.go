package agent

import (
	"context"
	"errors"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

const chatSystemPrompt = "You are the CopyFlow support assistant. Answer questions about " +
	"e-commerce platform detection, spreadsheet column mapping, confidence scores and " +
	"export structure. Be concise. If a question is outside that scope, say so."

// OpenAIResponder answers support-chat queries with a language model.
// It is a boundary client: only the chat surface uses it, with the
// rule-based responder as fallback when the call fails.
type OpenAIResponder struct {
	client   *openai.Client
	model    string
	fallback Responder
}

func NewOpenAIResponder(apiKey, model string, fallback Responder) *OpenAIResponder {
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}
	cl := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIResponder{client: &cl, model: model, fallback: fallback}
}

func (a *OpenAIResponder) Respond(ctx context.Context, query string) (ChatResponse, error) {
	chat, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(chatSystemPrompt),
			openai.UserMessage(query),
		},
		Model: a.model,
	})
	if err != nil || len(chat.Choices) == 0 {
		if a.fallback != nil {
			return a.fallback.Respond(ctx, query)
		}
		if err == nil {
			err = errors.New("openai: empty choices")
		}
		return ChatResponse{}, err
	}
	return ChatResponse{Message: chat.Choices[0].Message.Content}, nil
}
