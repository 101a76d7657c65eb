package message_test

import (
	"context"
	"errors"
	"testing"

	"churchsite/internal/adapters/storage"
	store "churchsite/internal/adapters/storage/message"
	"churchsite/internal/adapters/storage/storagetest"
	domain "churchsite/internal/domain/message"
)

func TestSQLiteStore_ListNewestFirst(t *testing.T) {
	s := store.NewSQLiteStore(storagetest.Open(t))
	ctx := context.Background()
	for _, m := range []domain.Message{
		{ID: "1", Title: "Advent Hope", Speaker: "Ana", Series: "Advent", Date: "2026-12-06"},
		{ID: "2", Title: "Salt and Light", Speaker: "Ben", Date: "2026-02-01"},
		{ID: "3", Title: "Advent Peace", Speaker: "Ana", Series: "Advent", Date: "2026-12-13"},
	} {
		if err := s.Save(ctx, m); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	all, err := s.List(ctx, store.ListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 || all[0].ID != "3" || all[2].ID != "2" {
		t.Errorf("order = %v", ids(all))
	}

	advent, _ := s.List(ctx, store.ListFilter{Series: "Advent", Limit: 1})
	if len(advent) != 1 || advent[0].ID != "3" {
		t.Errorf("series filter = %v", ids(advent))
	}

	if _, err := s.GetByID(ctx, "404"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetByID missing = %v", err)
	}
}

func ids(ms []domain.Message) []string {
	var out []string
	for _, m := range ms {
		out = append(out, m.ID)
	}
	return out
}
