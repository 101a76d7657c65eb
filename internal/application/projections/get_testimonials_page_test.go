package projections

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"churchsite/internal/application/listutil"
	"churchsite/internal/domain/testimonial"
)

func TestQueryGetTestimonialsPage(t *testing.T) {
	store := &listMock[testimonial.Testimonial]{items: manyTestimonials(14)}

	tests := []struct {
		name      string
		params    listutil.PageParams
		wantFirst string
		wantLen   int
		wantPage  int
	}{
		{"first page", listutil.PageParams{Page: 1, PerPage: 6}, "t1", 6, 1},
		{"last partial page", listutil.PageParams{Page: 3, PerPage: 6}, "t13", 2, 3},
		{"past the end clamps", listutil.PageParams{Page: 9, PerPage: 6}, "t13", 2, 3},
		{"bigger pages", listutil.PageParams{Page: 1, PerPage: 24}, "t1", 14, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := QueryGetTestimonialsPage(context.Background(), tt.params, store)
			require.NoError(t, err)
			require.Len(t, got.Items, tt.wantLen)
			assert.Equal(t, tt.wantFirst, got.Items[0].ID)
			assert.Equal(t, tt.wantPage, got.Page.Page)
			assert.Equal(t, 14, got.Page.Total)
		})
	}
}
