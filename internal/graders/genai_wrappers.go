package graders

import (
	"context"

	"google.golang.org/genai"
)

//go:generate go tool mockgen -destination=mock_content_generator_test.go -package=graders . contentGenerator

// contentGenerator is just an interface over [genai.Models]
type contentGenerator interface {
	// GenerateContent maps to [genai.Models.GenerateContent]
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

func newContentGenerator(ctx context.Context, apiKey string) (contentGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return client.Models, nil
}
