package stats

import (
	"sort"

	"github.com/verte-zerg/classboard/internal/model"
)

// TopStudents returns the n students with the most completions.
func TopStudents(progress []model.StudentProgress, n int) []model.StudentProgress {
	if n <= 0 || len(progress) == 0 {
		return nil
	}
	items := make([]model.StudentProgress, len(progress))
	copy(items, progress)
	sort.Slice(items, func(i, j int) bool {
		if items[i].Completions == items[j].Completions {
			ri := CompletionRate(items[i].Attempts, items[i].Completions)
			rj := CompletionRate(items[j].Attempts, items[j].Completions)
			if ri == rj {
				return items[i].StudentID < items[j].StudentID
			}
			return ri > rj
		}
		return items[i].Completions > items[j].Completions
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}
