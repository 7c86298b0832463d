package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

// contentGenerator is the slice of the genai SDK the client uses. Kept as an
// interface so tests can stub responses without network access.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client is the gateway to the generative-AI collaborator. It exposes the
// interview operations (skill extraction, question generation, answer
// evaluation, summarization) plus text-to-speech. All operations fail closed:
// transport or parse errors surface as typed errors and fallback behavior is
// the caller's responsibility.
type Client struct {
	models        contentGenerator
	questionModel string
	evalModel     string
	ttsModel      string
	voice         string
	timeout       time.Duration
}

type Options struct {
	APIKey        string
	QuestionModel string
	EvalModel     string
	TTSModel      string
	Voice         string
	Timeout       time.Duration
}

func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Client{
		models:        client.Models,
		questionModel: opts.QuestionModel,
		evalModel:     opts.EvalModel,
		ttsModel:      opts.TTSModel,
		voice:         opts.Voice,
		timeout:       opts.Timeout,
	}, nil
}

// callCtx applies the configured per-request deadline.
func (c *Client) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return context.WithCancel(ctx)
}

// generateText sends the prompt and returns the concatenated candidate text.
func (c *Client) generateText(ctx context.Context, model, prompt string, config *genai.GenerateContentConfig) (string, error) {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	resp, err := c.models.GenerateContent(ctx, model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}

func systemInstruction(text string) *genai.Content {
	return &genai.Content{Parts: []*genai.Part{{Text: text}}}
}
