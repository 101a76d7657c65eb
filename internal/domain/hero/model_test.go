package hero_test

import (
	"testing"

	"churchsite/internal/domain/hero"
)

func TestSlide_Validate(t *testing.T) {
	tests := []struct {
		name    string
		slide   hero.Slide
		wantErr error
	}{
		{"valid", hero.Slide{Title: "Welcome Home", ImageURL: "/img/a.jpg"}, nil},
		{"valid with button", hero.Slide{Title: "Visit", ImageURL: "/a.jpg", CTALabel: "Plan a visit", CTALink: "/visit"}, nil},
		{"no title", hero.Slide{ImageURL: "/a.jpg"}, hero.ErrEmptyTitle},
		{"no image", hero.Slide{Title: "x"}, hero.ErrEmptyImage},
		{"half button", hero.Slide{Title: "x", ImageURL: "/a.jpg", CTALabel: "Go"}, hero.ErrCTAIncomplete},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.slide.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCarousel(t *testing.T) {
	got := hero.Carousel([]hero.Slide{
		{ID: "c", Order: 3, IsActive: true},
		{ID: "hidden", Order: 0, IsActive: false},
		{ID: "a", Order: 1, IsActive: true},
		{ID: "b", Order: 1, IsActive: true},
	})
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i].ID, want[i])
		}
	}
}
