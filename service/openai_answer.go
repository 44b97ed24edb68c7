package service

import (
	"context"
	"errors"

	"github.com/docqa/docqa-be/database"
	"github.com/docqa/docqa-be/types"
	"github.com/sashabaranov/go-openai"
)

var systemMessageGroundedQA = openai.ChatCompletionMessage{
	Role:    openai.ChatMessageRoleSystem,
	Content: "You are a document question-answering assistant. You answer strictly from the context supplied in the user message and respond with a single JSON object.",
}

// OpenAIAnswerService composes answers through an OpenAI-compatible chat
// completion endpoint (including local servers exposing that API).
type OpenAIAnswerService struct {
	client *openai.Client
	model  string
}

func NewOpenAIAnswerService(baseURL, apiKey, model string) *OpenAIAnswerService {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL // Set this to your local LLM server URL
	}
	client := openai.NewClientWithConfig(config)
	return &OpenAIAnswerService{
		client: client,
		model:  model,
	}
}

func (s *OpenAIAnswerService) ComposeAnswer(ctx context.Context, question string, hits []database.ScoredChunk) (*types.Answer, error) {
	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Messages: []openai.ChatCompletionMessage{
				systemMessageGroundedQA,
				{
					Role:    openai.ChatMessageRoleUser,
					Content: buildAnswerPrompt(question, hits),
				},
			},
			Model:       s.model,
			Temperature: 0,
		},
	)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("no response generated")
	}
	return parseAnswer(resp.Choices[0].Message.Content), nil
}
