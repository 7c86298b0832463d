package gemini

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// ErrQuotaExceeded is returned by SpeechAudio when the collaborator reports a
// rate-limit condition. Callers are expected to stop issuing speech requests
// for the rest of the session instead of retrying.
var ErrQuotaExceeded = errors.New("speech quota exceeded")

// AnalysisError wraps any transport or parse failure from the text
// operations. The orchestrator decides the user-facing fallback.
type AnalysisError struct {
	Op  string
	Err error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

func analysisErr(op string, err error) error {
	return &AnalysisError{Op: op, Err: err}
}

// isQuotaError reports whether the SDK error is a rate-limit response.
func isQuotaError(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED"
	}
	return false
}
