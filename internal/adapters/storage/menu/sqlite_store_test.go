package menu_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	store "churchsite/internal/adapters/storage/menu"
	"churchsite/internal/adapters/storage/storagetest"
	domain "churchsite/internal/domain/menu"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

// TestSQLiteStore_ComposeFromStorage round-trips items and composes the stored list.
func TestSQLiteStore_ComposeFromStorage(t *testing.T) {
	s := store.NewSQLiteStore(storagetest.Open(t))
	ctx := context.Background()
	items := []domain.Item{
		{ID: "1", Title: "B", URL: "/b", Order: intPtr(2), IsActive: true},
		{ID: "2", Title: "A", URL: "/a", Order: intPtr(1), IsActive: true},
		{ID: "3", Title: "B1", URL: "/b/1", ParentID: strPtr("1"), Order: intPtr(1), IsActive: true},
		{ID: "4", Title: "Hidden", URL: "/h", IsActive: false},
	}
	for _, it := range items {
		if err := s.Save(ctx, it); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	got, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if diff := cmp.Diff(items, got); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}

	tree := domain.Compose(got)
	if len(tree) != 2 || tree[0].Item.Title != "A" || tree[1].Children[0].Title != "B1" {
		t.Errorf("unexpected tree: %+v", tree)
	}
}
