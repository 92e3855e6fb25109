package reports

import (
	"errors"
	"strings"

	domain "github.com/example/todo-backend/domain/task"
)

var (
	// ErrNoTasks is returned when the user has no tasks to compare.
	ErrNoTasks = errors.New("tasks do not exist")
	// ErrOnlyOneTask is returned when there is a single task and nothing to
	// compare it against.
	ErrOnlyOneTask = errors.New("cannot find similar tasks, only one task exists")
)

// SimilarTasks scans all task pairs for similar titles. Two titles are
// similar when every word of the shorter title (by character length, first
// one on a tie) occurs in the other title's word set. Deliberately O(n²);
// the 50-task cap bounds the pair count.
//
// Pairs come back in visit order: outer index ascending, inner ascending,
// both following the store's default list ordering.
func (e *Engine) SimilarTasks(tasks []domain.Task) ([]SimilarPair, error) {
	if len(tasks) == 0 {
		return nil, ErrNoTasks
	}
	if len(tasks) == 1 {
		return nil, ErrOnlyOneTask
	}

	var pairs []SimilarPair
	for i := 0; i < len(tasks)-1; i++ {
		for j := i + 1; j < len(tasks); j++ {
			if titlesSimilar(tasks[i].Title, tasks[j].Title) {
				pairs = append(pairs, SimilarPair{tasks[i].Title, tasks[j].Title})
			}
		}
	}
	return pairs, nil
}

// titlesSimilar checks whether every word of the shorter title appears in the
// longer one. Matching is exact and case-sensitive.
func titlesSimilar(a, b string) bool {
	reference, other := a, b
	if len(a) > len(b) {
		reference, other = b, a
	}

	words := make(map[string]struct{})
	for _, w := range strings.Fields(other) {
		words[w] = struct{}{}
	}

	for _, w := range strings.Fields(reference) {
		if _, ok := words[w]; !ok {
			return false
		}
	}
	return true
}
