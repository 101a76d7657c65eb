package projections

import (
	"context"

	"churchsite/internal/domain/menu"
)

// QueryGetNavigation composes the active menu items into the site's two-level navigation.
func QueryGetNavigation(ctx context.Context, store MenuStore) ([]menu.Node, error) {
	items, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	return menu.Compose(items), nil
}
