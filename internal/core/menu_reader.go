package core

import (
	"context"
	"errors"
)

var ErrMenuNotFound = errors.New("menu not found")

// MenuRef is a persisted menu as seen by readers outside the menu package.
type MenuRef struct {
	ID       int64
	Slug     string
	Document *Document
}

// MenuReader looks menus up by public slug. Returns ErrMenuNotFound on a miss.
type MenuReader interface {
	FindBySlug(ctx context.Context, slug string) (*MenuRef, error)
}
