package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// SpeechAudio synthesizes speech for the given utterance and returns the raw
// PCM sample data (16-bit, 24 kHz mono). Returns ErrQuotaExceeded when the
// collaborator reports a rate-limit condition; callers must not retry for the
// remainder of the session.
func (c *Client) SpeechAudio(ctx context.Context, text string) ([]byte, error) {
	prompt := fmt.Sprintf("Say with a professional and clear voice: %s", text)

	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: c.voice},
			},
		},
	}

	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	resp, err := c.models.GenerateContent(ctx, c.ttsModel, genai.Text(prompt), cfg)
	if err != nil {
		if isQuotaError(err) {
			return nil, fmt.Errorf("text to speech: %w", ErrQuotaExceeded)
		}
		return nil, fmt.Errorf("text to speech: %w", err)
	}

	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, nil
			}
		}
	}

	return nil, errors.New("no audio data received from api")
}
