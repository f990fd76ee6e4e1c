package menu

import (
	"context"
	"errors"
)

// ErrSlugTaken is returned by Create when the slug already exists.
var ErrSlugTaken = errors.New("slug already taken")

// Repository defines all database operations for menus
type Repository interface {
	// Create inserts m and sets its ID and CreatedAt.
	Create(ctx context.Context, m *Menu) error

	// FindBySlug returns core.ErrMenuNotFound on a miss.
	FindBySlug(ctx context.Context, slug string) (*Menu, error)

	ListSitemap(ctx context.Context) ([]SitemapEntry, error)
}
