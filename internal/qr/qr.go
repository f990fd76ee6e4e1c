// Package qr renders the QR code that points diners at a public menu.
package qr

import (
	"bytes"
	"context"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"serveur/internal/storage"
)

const DefaultSize = 512

type Generator struct {
	store storage.Storage
	size  int
}

func NewGenerator(store storage.Storage, size int) *Generator {
	if size <= 0 {
		size = DefaultSize
	}
	return &Generator{store: store, size: size}
}

// Key is the storage key of a menu's QR image.
func Key(slug string) string {
	return "qr/" + slug + ".png"
}

// Render returns a PNG encoding of url.
func (g *Generator) Render(url string) ([]byte, error) {
	png, err := qrcode.Encode(url, qrcode.Medium, g.size)
	if err != nil {
		return nil, fmt.Errorf("qr: encode: %w", err)
	}
	return png, nil
}

// Publish renders url and stores it under Key(slug), returning its public URL.
func (g *Generator) Publish(ctx context.Context, slug, url string) (string, error) {
	png, err := g.Render(url)
	if err != nil {
		return "", err
	}
	return g.store.Put(ctx, Key(slug), bytes.NewReader(png), "image/png")
}
