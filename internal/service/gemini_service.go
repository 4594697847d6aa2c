package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/quillmont/satprep/config"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// CompletionService sends exactly one request per call to the hosted
// text-generation endpoint and returns the raw text payload. No retries.
type CompletionService interface {
	GenerateText(ctx context.Context, prompt string, temperature float32) (string, error)
}

type geminiService struct {
	client *genai.Client
	cfg    *config.Config
}

const completionSystemRole = "You are an expert SAT tutor and etymologist. " +
	"Respond only with the content requested, never with surrounding commentary."

const completionModelName = "gemini-1.5-flash"

// NewGeminiService initializes the Gemini client. The API key is required;
// an absent key is a constructor error rather than a degraded client.
func NewGeminiService(cfg *config.Config) (CompletionService, error) {
	if cfg.GeminiApiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required to initialize the completion client")
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	return &geminiService{client: client, cfg: cfg}, nil
}

func (s *geminiService) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	model := s.client.GenerativeModel(completionModelName)
	model.SetTemperature(temperature)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(completionSystemRole)}}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Error().Err(err).Msg("Gemini API error")
		return "", fmt.Errorf("generation failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Warn().Msg("Gemini returned no candidates or parts in response")
		return "", fmt.Errorf("generation failed: empty response")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("generation failed: response contained no text")
	}
	return sb.String(), nil
}
