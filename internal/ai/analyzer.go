// Package ai implements the optional findings analyzer behind the
// model.Analyzer interface, backed by an OpenAI-compatible endpoint.
package ai

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"FlowScope/internal/config"
)

// FindingsAnalyzer turns raw detector output into an analyst-facing
// assessment via a chat-completion call.
type FindingsAnalyzer struct {
	cfg    *config.AIConfig
	client *openai.Client
}

// NewFindingsAnalyzer creates a new analyzer from the AI configuration.
func NewFindingsAnalyzer(cfg *config.AIConfig) (*FindingsAnalyzer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("AI API key is not configured")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &FindingsAnalyzer{
		cfg:    cfg,
		client: openai.NewClientWithConfig(clientConfig),
	}, nil
}

// AnalyzeFindings sends the report text to the model and returns its
// assessment.
func (a *FindingsAnalyzer) AnalyzeFindings(ctx context.Context, input string) (string, error) {
	prompt := fmt.Sprintf(
		"You are a senior network security analyst. "+
			"Review the following detector output from a flow-analysis session. "+
			"Assess the potential threat, its severity, and the next investigative steps, "+
			"briefly and concretely.\n\n"+
			"--- Findings ---\n%s\n--- End of Findings ---", input,
	)

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     a.cfg.Model,
		MaxTokens: 1024,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
