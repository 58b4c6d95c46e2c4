package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/Tomas-vilte/semrel/internal/ai"
	"github.com/Tomas-vilte/semrel/internal/config"
	domainErrors "github.com/Tomas-vilte/semrel/internal/errors"
	"github.com/Tomas-vilte/semrel/internal/logger"
	"github.com/Tomas-vilte/semrel/internal/models"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

var _ ai.ReleaseSummarizer = (*ReleaseSummarizer)(nil)

// contentGenerator is the part of *genai.GenerativeModel the summarizer uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type ReleaseSummarizer struct {
	client *genai.Client
	model  contentGenerator
	lang   string
}

func NewReleaseSummarizer(ctx context.Context, cfg config.AIConfig, lang string) (*ReleaseSummarizer, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, domainErrors.ErrAPIKeyMissing
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, domainErrors.ErrAIGeneration.WithError(err)
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = config.DefaultModelForAI(config.AIGemini)
	}

	model := client.GenerativeModel(string(modelName))
	model.SetTemperature(0.3)

	s := NewReleaseSummarizerWithModel(model, lang)
	s.client = client
	return s, nil
}

func NewReleaseSummarizerWithModel(model contentGenerator, lang string) *ReleaseSummarizer {
	return &ReleaseSummarizer{model: model, lang: lang}
}

func (s *ReleaseSummarizer) Summarize(ctx context.Context, release *models.Release) (string, error) {
	prompt, err := ai.BuildReleaseSummaryPrompt(s.lang, release)
	if err != nil {
		return "", domainErrors.ErrAIGeneration.WithError(err)
	}

	logger.Debug(ctx, "requesting release summary", "tag", release.Version, "prompt_length", len(prompt))

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", domainErrors.ErrAIGeneration.WithError(err)
	}

	summary := strings.TrimSpace(formatResponse(resp))
	if summary == "" {
		return "", domainErrors.ErrAIGeneration.WithError(fmt.Errorf("empty response"))
	}
	return summary, nil
}

// Close releases the underlying client when one was created.
func (s *ReleaseSummarizer) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

func formatResponse(resp *genai.GenerateContentResponse) string {
	if resp == nil || resp.Candidates == nil {
		return ""
	}

	var formattedContent strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				formattedContent.WriteString(fmt.Sprintf("%v", part))
			}
		}
	}
	return formattedContent.String()
}
