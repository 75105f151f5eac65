package service

import (
	"context"
	"sort"
)

// OwnerStats counts the tasks of one owner.
type OwnerStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

func (s OwnerStats) Pending() int {
	return s.Total - s.Completed
}

// ReportService aggregates tasks per owner.
type ReportService struct {
	store TaskStore
}

func NewReportService(store TaskStore) *ReportService {
	return &ReportService{store: store}
}

// Report groups every task by its exact owner text.
func (s *ReportService) Report(ctx context.Context) (map[string]OwnerStats, error) {
	tasks, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	report := make(map[string]OwnerStats)
	for _, task := range tasks {
		stats := report[task.Owner]
		stats.Total++
		if task.IsCompleted() {
			stats.Completed++
		}
		report[task.Owner] = stats
	}
	return report, nil
}

// Owners returns the known owners for quick selection.
func (s *ReportService) Owners(ctx context.Context) ([]string, error) {
	return s.store.DistinctOwners(ctx)
}

// SortedOwners lists report keys by descending total, then by name.
func SortedOwners(report map[string]OwnerStats) []string {
	owners := make([]string, 0, len(report))
	for owner := range report {
		owners = append(owners, owner)
	}
	sort.Slice(owners, func(i, j int) bool {
		ti, tj := report[owners[i]].Total, report[owners[j]].Total
		if ti != tj {
			return ti > tj
		}
		return owners[i] < owners[j]
	})
	return owners
}
