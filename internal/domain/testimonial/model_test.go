package testimonial_test

import (
	"testing"

	"churchsite/internal/domain/testimonial"
)

func TestTestimonial_Validate(t *testing.T) {
	tests := []struct {
		name    string
		tm      testimonial.Testimonial
		wantErr error
	}{
		{"valid", testimonial.Testimonial{Author: "Grace Lee", Quote: "Found a family here."}, nil},
		{"rated", testimonial.Testimonial{Author: "Grace", Quote: "x", Rating: 5}, nil},
		{"no author", testimonial.Testimonial{Quote: "x"}, testimonial.ErrEmptyAuthor},
		{"no quote", testimonial.Testimonial{Author: "x"}, testimonial.ErrEmptyQuote},
		{"rating too high", testimonial.Testimonial{Author: "x", Quote: "y", Rating: 6}, testimonial.ErrRatingOutRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.tm.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTestimonial_Initials(t *testing.T) {
	for in, want := range map[string]string{
		"grace lee":        "GL",
		"Mary Ann Johnson": "MA",
		"Bob":              "B",
		"":                 "",
	} {
		tm := testimonial.Testimonial{Author: in}
		if got := tm.Initials(); got != want {
			t.Errorf("Initials(%q) = %q, want %q", in, got, want)
		}
	}
}
