package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/arjunmehta/mockview/pkg/model"
	"google.golang.org/genai"
)

const questionSystemMsg = "You are an expert interviewer for technical and behavioral roles. Your questions should be insightful and encourage detailed responses. Do not repeat questions. Only return the question itself."

// NextQuestion generates one open-ended interview question based on the job
// role, the extracted skills and the conversation so far. Avoiding repeats is
// the model's responsibility; the client only forwards the appended context.
func (c *Client) NextQuestion(ctx context.Context, jobRole string, skills []model.Skill, priorContext string) (string, error) {
	skillParts := make([]string, 0, len(skills))
	for _, s := range skills {
		skillParts = append(skillParts, fmt.Sprintf("%s (Proficiency: %d/100)", s.Skill, s.Level))
	}

	prompt := fmt.Sprintf(`Based on the job role of %q, the candidate's skills (%s), and the previous conversation context below, generate a single, relevant, open-ended interview question.

Context:
%s`, jobRole, strings.Join(skillParts, ", "), priorContext)

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: systemInstruction(questionSystemMsg),
		Temperature:       genai.Ptr[float32](0.8),
	}

	question, err := c.generateText(ctx, c.questionModel, prompt, cfg)
	if err != nil {
		return "", analysisErr("next question", err)
	}
	return strings.TrimSpace(question), nil
}
