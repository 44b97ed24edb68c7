package service

import (
	"context"
	"errors"
	"sync"

	"github.com/docqa/docqa-be/database"
	"github.com/docqa/docqa-be/types"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiAnswerService is the alternate composer backend. It rotates across
// API keys when a request fails, rebuilding the client on rotation.
type GeminiAnswerService struct {
	apiKeys    []string
	currentKey int
	client     *genai.Client
	model      *genai.GenerativeModel
	modelName  string
	mu         sync.Mutex
}

func NewGeminiAnswerService(apiKeys []string, modelName string) (*GeminiAnswerService, error) {
	if len(apiKeys) == 0 {
		return nil, errors.New("no API keys provided")
	}

	service := &GeminiAnswerService{
		apiKeys:    apiKeys,
		currentKey: 0,
		modelName:  modelName,
	}

	if err := service.initClient(); err != nil {
		return nil, err
	}
	return service, nil
}

func (s *GeminiAnswerService) initClient() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(s.apiKeys[s.currentKey]))
	if err != nil {
		return err
	}
	s.client = client
	s.model = client.GenerativeModel(s.modelName)
	return nil
}

func (s *GeminiAnswerService) rotateAPIKey() error {
	s.mu.Lock()
	s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
	if err := s.client.Close(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()
	return s.initClient()
}

func (s *GeminiAnswerService) ComposeAnswer(ctx context.Context, question string, hits []database.ScoredChunk) (*types.Answer, error) {
	prompt := genai.Text(buildAnswerPrompt(question, hits))

	resp, err := s.model.GenerateContent(ctx, prompt)
	if err != nil {
		// Try rotating API key if there's an error
		if err := s.rotateAPIKey(); err != nil {
			return nil, err
		}
		resp, err = s.model.GenerateContent(ctx, prompt)
		if err != nil {
			return nil, err
		}
	}

	if len(resp.Candidates) == 0 {
		return nil, errors.New("no response generated")
	}

	content := ""
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if text, ok := part.(genai.Text); ok {
					content += string(text)
				}
			}
		}
	}
	return parseAnswer(content), nil
}
