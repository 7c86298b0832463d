package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/arjunmehta/mockview/pkg/model"
	"google.golang.org/genai"
)

var skillsSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"skills": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"skill": {
						Type:        genai.TypeString,
						Description: "The name of the skill, e.g. 'React', 'Project Management'.",
					},
					"level": {
						Type:        genai.TypeInteger,
						Description: "The proficiency level from 0 to 100.",
					},
					"justification": {
						Type:        genai.TypeString,
						Description: "A brief justification for the assigned level.",
					},
				},
				Required: []string{"skill", "level", "justification"},
			},
		},
	},
	Required: []string{"skills"},
}

// ExtractSkills analyzes resume text and returns the candidate's top 5-7
// skills with proficiency levels and justifications.
func (c *Client) ExtractSkills(ctx context.Context, resumeText string) ([]model.Skill, error) {
	prompt := fmt.Sprintf(`Analyze the following resume text and extract the candidate's top 5-7 skills. For each skill, provide a proficiency level from 0 to 100 based on the experience described, and a brief justification.

Resume:
%s`, resumeText)

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   skillsSchema,
	}

	raw, err := c.generateText(ctx, c.evalModel, prompt, cfg)
	if err != nil {
		return nil, analysisErr("extract skills", err)
	}

	skills, err := parseSkills(raw)
	if err != nil {
		return nil, analysisErr("extract skills", err)
	}
	return skills, nil
}

func parseSkills(raw string) ([]model.Skill, error) {
	var parsed struct {
		Skills []model.Skill `json:"skills"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("parse skills response: %w", err)
	}
	if len(parsed.Skills) == 0 {
		return nil, fmt.Errorf("no skills in response")
	}
	return parsed.Skills, nil
}
