package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/arjunmehta/mockview/pkg/model"
	"google.golang.org/genai"
)

var feedbackSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"feedback":   {Type: genai.TypeString},
		"score":      {Type: genai.TypeInteger},
		"confidence": {Type: genai.TypeInteger},
	},
	Required: []string{"feedback", "score", "confidence"},
}

// EvaluateAnswer scores one answer against the question it was given for.
func (c *Client) EvaluateAnswer(ctx context.Context, question, answer string) (model.Feedback, error) {
	prompt := fmt.Sprintf(`A candidate was asked the following interview question: %q. They provided this answer: %q.

Please evaluate their answer based on clarity, relevance, and depth. Provide:
1. A short, constructive feedback sentence (max 20 words).
2. A score for their answer from 0 to 100.
3. A confidence score (0-100) based on the answer's certainty and detail.`, question, answer)

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   feedbackSchema,
	}

	raw, err := c.generateText(ctx, c.evalModel, prompt, cfg)
	if err != nil {
		return model.Feedback{}, analysisErr("evaluate answer", err)
	}

	fb, err := parseFeedback(raw)
	if err != nil {
		return model.Feedback{}, analysisErr("evaluate answer", err)
	}
	return fb, nil
}

func parseFeedback(raw string) (model.Feedback, error) {
	var fb model.Feedback
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &fb); err != nil {
		return model.Feedback{}, fmt.Errorf("parse feedback response: %w", err)
	}
	fb.Score = clampScore(fb.Score)
	fb.Confidence = clampScore(fb.Confidence)
	return fb, nil
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
