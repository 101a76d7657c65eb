package menu

import (
	"errors"
	"sort"
	"strings"
)

// Max length constants.
const (
	MaxTitleLength = 100
	MaxURLLength   = 2048
)

// Domain errors
var (
	ErrEmptyTitle   = errors.New("menu item title cannot be empty")
	ErrTitleTooLong = errors.New("menu item title cannot exceed 100 characters")
	ErrEmptyURL     = errors.New("menu item url cannot be empty")
	ErrURLTooLong   = errors.New("menu item url cannot exceed 2048 characters")
	ErrSelfParent   = errors.New("menu item cannot be its own parent")
)

// Item is one navigation link. ParentID nil means a top-level item.
type Item struct {
	ID       string  `json:"id" yaml:"id,omitempty"`
	Title    string  `json:"title" yaml:"title,omitempty"`
	URL      string  `json:"url" yaml:"url,omitempty"`
	ParentID *string `json:"parentId" yaml:"parentId,omitempty"`
	Order    *int    `json:"order,omitempty" yaml:"order,omitempty"`
	IsActive bool    `json:"isActive" yaml:"isActive,omitempty"`
}

// Validate checks the item's invariants.
// PRE: none
// POST: returns nil if valid, the first violated rule otherwise
func (i *Item) Validate() error {
	if strings.TrimSpace(i.Title) == "" {
		return ErrEmptyTitle
	}
	if len(i.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if strings.TrimSpace(i.URL) == "" {
		return ErrEmptyURL
	}
	if len(i.URL) > MaxURLLength {
		return ErrURLTooLong
	}
	if i.ParentID != nil && *i.ParentID == i.ID {
		return ErrSelfParent
	}
	return nil
}

// SortKey returns Order, treating a missing order as 0.
func (i *Item) SortKey() int {
	if i.Order == nil {
		return 0
	}
	return *i.Order
}

// IsRoot reports whether the item has no parent.
func (i *Item) IsRoot() bool {
	return i.ParentID == nil || *i.ParentID == ""
}

// Node is a top-level navigation entry with its direct children.
type Node struct {
	Item     Item   `json:"item"`
	Children []Item `json:"children"`
}

// Compose turns a flat list of items into a two-level navigation tree.
// Only active items appear. Roots and each root's children are stably sorted by
// Order (missing = 0), so equal orders keep their input order. Items nested deeper
// than one level, and children of missing or inactive parents, are dropped.
// PRE: none
// POST: every returned Children slice is non-nil
func Compose(items []Item) []Node {
	var roots []Item
	for _, it := range items {
		if it.IsActive && it.IsRoot() {
			roots = append(roots, it)
		}
	}
	sortItems(roots)

	nodes := make([]Node, 0, len(roots))
	for _, root := range roots {
		children := []Item{}
		for _, it := range items {
			if it.IsActive && !it.IsRoot() && *it.ParentID == root.ID {
				children = append(children, it)
			}
		}
		sortItems(children)
		nodes = append(nodes, Node{Item: root, Children: children})
	}
	return nodes
}

func sortItems(items []Item) {
	sort.SliceStable(items, func(a, b int) bool {
		return items[a].SortKey() < items[b].SortKey()
	})
}
