package projections

import (
	"context"

	"churchsite/internal/application/listutil"
	"churchsite/internal/domain/testimonial"
)

// TestimonialsPage is one page of testimonials.
type TestimonialsPage struct {
	Items []testimonial.Testimonial `json:"items"`
	Page  listutil.PageInfo         `json:"page"`
}

// QueryGetTestimonialsPage fetches every testimonial and returns the requested page.
// POST: an out-of-range page is clamped to the last page
func QueryGetTestimonialsPage(ctx context.Context, params listutil.PageParams, store TestimonialStore) (TestimonialsPage, error) {
	all, err := store.List(ctx)
	if err != nil {
		return TestimonialsPage{}, err
	}
	items, info := listutil.Paginate(all, params)
	if items == nil {
		items = []testimonial.Testimonial{}
	}
	return TestimonialsPage{Items: items, Page: info}, nil
}
