package stats

import (
	"sort"

	"github.com/verte-zerg/classboard/internal/model"
)

// StrugglingStudents selects the lowest-completion-rate students that made
// at least minAttempts attempts.
func StrugglingStudents(progress []model.StudentProgress, minAttempts, top int) []model.StudentProgress {
	candidates := make([]model.StudentProgress, 0, len(progress))
	for _, p := range progress {
		if p.Attempts >= minAttempts {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		ri := CompletionRate(candidates[i].Attempts, candidates[i].Completions)
		rj := CompletionRate(candidates[j].Attempts, candidates[j].Completions)
		if ri == rj {
			return candidates[i].StudentID < candidates[j].StudentID
		}
		return ri < rj
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	return candidates[:top]
}
