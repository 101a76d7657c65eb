package projections

import (
	"context"
	"fmt"

	"churchsite/internal/adapters/storage"
	messageStore "churchsite/internal/adapters/storage/message"
	"churchsite/internal/application/listutil"
	"churchsite/internal/domain/message"
	"churchsite/internal/domain/post"
)

// PostsPage is one page of the public blog.
type PostsPage struct {
	Items []post.Post       `json:"items"`
	Page  listutil.PageInfo `json:"page"`
}

// QueryGetPublishedPosts pages through published posts, newest first.
func QueryGetPublishedPosts(ctx context.Context, params listutil.PageParams, store PostStore) (PostsPage, error) {
	all, err := store.List(ctx, true)
	if err != nil {
		return PostsPage{}, err
	}
	items, info := listutil.Paginate(all, params)
	if items == nil {
		items = []post.Post{}
	}
	return PostsPage{Items: items, Page: info}, nil
}

// QueryGetPublishedPost loads a post by slug for public display.
// POST: drafts are reported as storage.ErrNotFound
func QueryGetPublishedPost(ctx context.Context, slug string, store PostStore) (post.Post, error) {
	p, err := store.GetBySlug(ctx, slug)
	if err != nil {
		return post.Post{}, err
	}
	if !p.Published {
		return post.Post{}, fmt.Errorf("post %w", storage.ErrNotFound)
	}
	return p, nil
}

// MessagesPage is one page of the sermon archive.
type MessagesPage struct {
	Items  []message.Message `json:"items"`
	Page   listutil.PageInfo `json:"page"`
	Series string            `json:"series,omitempty"`
}

// QueryGetMessageArchive pages through sermons, newest preached first.
// An empty series lists every message.
func QueryGetMessageArchive(ctx context.Context, series string, params listutil.PageParams, store MessageStore) (MessagesPage, error) {
	all, err := store.List(ctx, messageStore.ListFilter{Series: series})
	if err != nil {
		return MessagesPage{}, err
	}
	items, info := listutil.Paginate(message.Latest(all, -1), params)
	return MessagesPage{Items: items, Page: info, Series: series}, nil
}
