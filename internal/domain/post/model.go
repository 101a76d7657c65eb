package post

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// Domain errors
var (
	ErrEmptyTitle   = errors.New("post title cannot be empty")
	ErrTitleTooLong = errors.New("post title cannot exceed 200 characters")
	ErrInvalidSlug  = errors.New("post slug may only contain lowercase letters, digits and hyphens")
	ErrEmptyBody    = errors.New("post body cannot be empty")
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Post is a blog article. Body is markdown.
type Post struct {
	ID          string     `json:"id" yaml:"id,omitempty"`
	Title       string     `json:"title" yaml:"title,omitempty"`
	Slug        string     `json:"slug" yaml:"slug,omitempty"`
	Excerpt     string     `json:"excerpt,omitempty" yaml:"excerpt,omitempty"`
	Body        string     `json:"body" yaml:"body,omitempty"`
	Author      string     `json:"author,omitempty" yaml:"author,omitempty"`
	ImageURL    string     `json:"imageUrl,omitempty" yaml:"imageUrl,omitempty"`
	Published   bool       `json:"published" yaml:"published,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty" yaml:"publishedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt" yaml:"createdAt,omitempty"`
	UpdatedAt   time.Time  `json:"updatedAt" yaml:"updatedAt,omitempty"`
}

// Validate checks if the Post has valid data. An empty slug is derived from the title.
// PRE: Post struct is populated
// POST: Returns nil if valid, error otherwise; Slug is set
func (p *Post) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return ErrEmptyTitle
	}
	if len(p.Title) > 200 {
		return ErrTitleTooLong
	}
	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
	}
	if !slugPattern.MatchString(p.Slug) {
		return ErrInvalidSlug
	}
	if strings.TrimSpace(p.Body) == "" {
		return ErrEmptyBody
	}
	return nil
}

// Publish marks the post visible, stamping PublishedAt the first time.
func (p *Post) Publish(now time.Time) {
	p.Published = true
	if p.PublishedAt == nil {
		p.PublishedAt = &now
	}
}

// Summary returns the excerpt, or the first n runes of the body.
func (p *Post) Summary(n int) string {
	if p.Excerpt != "" {
		return p.Excerpt
	}
	r := []rune(strings.TrimSpace(p.Body))
	if len(r) <= n {
		return string(r)
	}
	return strings.TrimSpace(string(r[:n])) + "…"
}

// Slugify lowercases s and joins its alphanumeric runs with hyphens.
func Slugify(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}
