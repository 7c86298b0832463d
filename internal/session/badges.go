package session

import "github.com/arjunmehta/mockview/pkg/model"

// Badge thresholds. Assignment is deterministic: each badge is earned by a
// measurable property of the session, never by chance.
const (
	badgeStrongCommunicator = "Strong Communicator"
	badgeQuickThinker       = "Quick Thinker"
	badgeDetailOriented     = "Detail-Oriented"

	strongCommunicatorMinScore = 75
	quickThinkerMinConfidence  = 70
	detailOrientedMinBest      = 90
)

// AssignBadges derives the badge list from the overall score, the best
// per-answer score, and the mean confidence.
func AssignBadges(overallScore int, transcript []model.Message, confidences []int) []string {
	badges := []string{}

	if overallScore >= strongCommunicatorMinScore {
		badges = append(badges, badgeStrongCommunicator)
	}

	if len(confidences) > 0 {
		sum := 0
		for _, c := range confidences {
			sum += c
		}
		if sum/len(confidences) >= quickThinkerMinConfidence {
			badges = append(badges, badgeQuickThinker)
		}
	}

	for _, m := range transcript {
		if m.Sender == model.SenderCandidate && m.Feedback != nil && m.Feedback.Score >= detailOrientedMinBest {
			badges = append(badges, badgeDetailOriented)
			break
		}
	}

	return badges
}
