package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/arjunmehta/mockview/pkg/model"
	"google.golang.org/genai"
)

const summarySystemMsg = "You are an expert HR analyst. Your summary should be professional, balanced, and directly based on the provided transcript."

// Summarize produces a short (2-3 sentence) performance summary of the
// interview transcript.
func (c *Client) Summarize(ctx context.Context, transcript []model.Message) (string, error) {
	lines := make([]string, 0, len(transcript))
	for _, m := range transcript {
		lines = append(lines, fmt.Sprintf("%s: %s", m.Sender, m.Text))
	}

	prompt := fmt.Sprintf(`Based on the following interview transcript, please generate a concise summary (2-3 sentences) of the candidate's performance, highlighting strengths and areas for improvement.

Transcript:
%s`, strings.Join(lines, "\n"))

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: systemInstruction(summarySystemMsg),
	}

	summary, err := c.generateText(ctx, c.evalModel, prompt, cfg)
	if err != nil {
		return "", analysisErr("summarize", err)
	}
	return strings.TrimSpace(summary), nil
}
