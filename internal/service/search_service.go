package service

import (
	"context"
	"sort"
	"strings"

	"task-tracker/internal/model"
)

// SearchService matches tasks by title or owner.
type SearchService struct {
	store TaskStore
}

func NewSearchService(store TaskStore) *SearchService {
	return &SearchService{store: store}
}

// Search returns tasks whose title or owner contains term, ignoring case.
// The term is matched as given, spaces included; only an empty term lists
// every task. Results are ranked by Rank.
func (s *SearchService) Search(ctx context.Context, term string) ([]model.Task, error) {
	tasks, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(term)
	if needle == "" {
		Rank(tasks)
		return tasks, nil
	}

	matches := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		if strings.Contains(strings.ToLower(task.Title), needle) ||
			strings.Contains(strings.ToLower(task.Owner), needle) {
			matches = append(matches, task)
		}
	}
	Rank(matches)
	return matches, nil
}

// Rank orders pending tasks before completed ones, newest id first within each group.
func Rank(tasks []model.Task) {
	sort.Slice(tasks, func(i, j int) bool {
		pi, pj := !tasks[i].IsCompleted(), !tasks[j].IsCompleted()
		if pi != pj {
			return pi
		}
		return tasks[i].ID > tasks[j].ID
	})
}
