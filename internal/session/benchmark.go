package session

import (
	"math"

	"github.com/arjunmehta/mockview/pkg/model"
)

// ComputePeerBenchmark maps the candidate's skills onto the average level of
// the same skill across historical interviews for the job title. Skills with
// no history fall back to defaultAverage; with no history at all every skill
// gets the default, so a first-ever interview is never blocked.
func ComputePeerBenchmark(current []model.Skill, past [][]model.Skill, defaultAverage int) []model.PeerBenchmark {
	type agg struct {
		total int
		count int
	}
	averages := make(map[string]*agg)
	for _, skills := range past {
		for _, s := range skills {
			a, ok := averages[s.Skill]
			if !ok {
				a = &agg{}
				averages[s.Skill] = a
			}
			a.total += s.Level
			a.count++
		}
	}

	out := make([]model.PeerBenchmark, 0, len(current))
	for _, s := range current {
		peer := defaultAverage
		if a, ok := averages[s.Skill]; ok && a.count > 0 {
			peer = int(math.Round(float64(a.total) / float64(a.count)))
		}
		out = append(out, model.PeerBenchmark{Skill: s.Skill, Level: s.Level, PeerAverage: peer})
	}
	return out
}
