package ocr

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const (
	DefaultDPI      = 200
	DefaultMaxPages = 8
)

// Rasterizer renders the first pages of a PDF as PNG images.
type Rasterizer interface {
	Rasterize(ctx context.Context, pdf []byte) ([][]byte, error)
}

// PDFToPPM shells out to poppler's pdftoppm.
type PDFToPPM struct {
	Path     string
	DPI      int
	MaxPages int
}

func NewPDFToPPM(path string, dpi, maxPages int) *PDFToPPM {
	if path == "" {
		path = "pdftoppm"
	}
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &PDFToPPM{Path: path, DPI: dpi, MaxPages: maxPages}
}

func (p *PDFToPPM) Rasterize(ctx context.Context, pdf []byte) ([][]byte, error) {
	dir, err := os.MkdirTemp("", "menu-raster-*")
	if err != nil {
		return nil, fmt.Errorf("rasterize: temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "menu.pdf")
	if err := os.WriteFile(input, pdf, 0o600); err != nil {
		return nil, fmt.Errorf("rasterize: write pdf: %w", err)
	}

	cmd := exec.CommandContext(ctx, p.Path,
		"-png",
		"-r", strconv.Itoa(p.DPI),
		"-f", "1",
		"-l", strconv.Itoa(p.MaxPages),
		input,
		filepath.Join(dir, "page"),
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("rasterize: %s: %w: %s", p.Path, err, strings.TrimSpace(string(out)))
	}

	return readPages(dir, p.MaxPages)
}

// readPages loads page-*.png in page order. pdftoppm zero-pads the page
// number to the width of the page count, so names sort lexically.
func readPages(dir string, max int) ([][]byte, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "page-*.png"))
	if err != nil {
		return nil, fmt.Errorf("rasterize: list pages: %w", err)
	}
	sort.Strings(matches)

	if len(matches) == 0 {
		return nil, fmt.Errorf("rasterize: no pages rendered")
	}
	if len(matches) > max {
		matches = matches[:max]
	}

	pages := make([][]byte, 0, len(matches))
	for _, m := range matches {
		data, err := os.ReadFile(m)
		if err != nil {
			return nil, fmt.Errorf("rasterize: read page: %w", err)
		}
		pages = append(pages, data)
	}
	return pages, nil
}
