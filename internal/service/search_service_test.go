package service

import (
	"context"
	"reflect"
	"testing"

	"task-tracker/internal/model"
)

func ids(tasks []model.Task) []uint {
	out := make([]uint, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.ID)
	}
	return out
}

func TestSearch_RanksPendingFirstThenNewest(t *testing.T) {
	store := newMemStore()
	store.seed(t,
		model.Task{Title: "Banana bread", Owner: "Bruno"},
		model.Task{Title: "Taxes", Owner: "Ana", Status: model.StatusCompleted, CompletedAt: "01/05/2024 10:00"},
		model.Task{Title: "Dentist", Owner: "Carla"},
		model.Task{Title: "Call ANA", Owner: "Bruno"},
		model.Task{Title: "Plan", Owner: "Mariana", Status: model.StatusCompleted, CompletedAt: "02/05/2024 10:00"},
		model.Task{Title: "Groceries", Owner: "ana"},
	)

	got, err := NewSearchService(store).Search(context.Background(), "ana")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if want := []uint{6, 4, 1, 5, 2}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("search ids = %v, want %v", ids(got), want)
	}
}

func TestSearch_Unicode(t *testing.T) {
	store := newMemStore()
	store.seed(t,
		model.Task{Title: "Revisão ÉPICA", Owner: "João"},
		model.Task{Title: "other", Owner: "Bruno"},
	)

	got, err := NewSearchService(store).Search(context.Background(), "épica")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].Owner != "João" {
		t.Fatalf("unexpected results: %+v", got)
	}
}

func TestSearch_EmptyTermListsAll(t *testing.T) {
	store := newMemStore()
	store.seed(t,
		model.Task{Title: "a", Status: model.StatusCompleted, CompletedAt: "01/05/2024 10:00"},
		model.Task{Title: "b"},
		model.Task{Title: "c"},
	)

	got, err := NewSearchService(store).Search(context.Background(), "")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if want := []uint{3, 2, 1}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("ids = %v, want %v", ids(got), want)
	}
}

func TestSearch_NoMatch(t *testing.T) {
	store := newMemStore()
	store.seed(t, model.Task{Title: "a", Owner: "b"})

	got, err := NewSearchService(store).Search(context.Background(), "zzz")
	if err != nil || len(got) != 0 {
		t.Fatalf("expected no results, got %v, %v", got, err)
	}
}

func TestSearch_KeepsInnerSpaces(t *testing.T) {
	store := newMemStore()
	store.seed(t,
		model.Task{Title: "call ana now"},
		model.Task{Title: "review", Owner: "Mariana"},
	)

	got, err := NewSearchService(store).Search(context.Background(), " ana ")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if want := []uint{1}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("ids = %v, want %v", ids(got), want)
	}
}
