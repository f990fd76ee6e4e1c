package menu

import (
	"context"
	"sort"
	"sync"
	"time"

	"serveur/internal/core"
)

// InMemoryRepository is used by tests and the CLI.
type InMemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	menus  map[string]*Menu
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		menus: make(map[string]*Menu),
	}
}

func (r *InMemoryRepository) Create(_ context.Context, m *Menu) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.menus[m.Slug]; exists {
		return ErrSlugTaken
	}

	r.nextID++
	m.ID = r.nextID
	m.CreatedAt = time.Now().UTC()

	stored := *m
	r.menus[m.Slug] = &stored
	return nil
}

func (r *InMemoryRepository) FindBySlug(_ context.Context, slug string) (*Menu, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.menus[slug]
	if !ok {
		return nil, core.ErrMenuNotFound
	}
	out := *m
	return &out, nil
}

func (r *InMemoryRepository) ListSitemap(_ context.Context) ([]SitemapEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]SitemapEntry, 0, len(r.menus))
	for _, m := range r.menus {
		entries = append(entries, SitemapEntry{Slug: m.Slug, UpdatedAt: m.CreatedAt})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Slug < entries[j].Slug
	})
	return entries, nil
}
