package menu

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"serveur/internal/core"
	"serveur/internal/ocr"
	"serveur/internal/pairing"
	"serveur/internal/qr"
	"serveur/internal/storage"
)

const maxSlugAttempts = 3

// Extractor turns PDF bytes into a MenuDocument.
type Extractor interface {
	Extract(ctx context.Context, pdf []byte, languages []string) (*core.Document, error)
}

type Config struct {
	BaseURL          string
	DefaultLanguages []string
	Limits           UploadLimits
}

type Deps struct {
	Repo       Repository
	Store      storage.Storage
	Extractor  Extractor
	Translator *Translator
	Engine     *pairing.Engine
	Reasons    *pairing.ReasonEnricher
	QR         *qr.Generator
	Log        *zap.SugaredLogger
}

type Service struct {
	Deps
	cfg Config
}

var _ core.MenuReader = (*Service)(nil)

func NewService(deps Deps, cfg Config) *Service {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Service{Deps: deps, cfg: cfg}
}

// PublicURL is where diners open a menu.
func (s *Service) PublicURL(slug string) string {
	return s.cfg.BaseURL + "/menu/" + slug
}

// ParseLanguages turns a CSV or list of codes into distinct ISO codes,
// falling back to the configured defaults when nothing valid remains.
func (s *Service) ParseLanguages(raw []string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, entry := range raw {
		for _, part := range strings.Split(entry, ",") {
			code := ocr.NormalizeLanguage(part, "")
			if code == "" || seen[code] {
				continue
			}
			seen[code] = true
			out = append(out, code)
		}
	}
	if len(out) == 0 {
		return append(out, s.cfg.DefaultLanguages...)
	}
	return out
}

// --------------------------------------------------
// BUILD DOCUMENT (no persistence)
// --------------------------------------------------

// BuildDocument runs extraction, the translation pass and pairing. Only
// extraction failures are returned; translation and reason failures fall
// back to source text and null reasons.
func (s *Service) BuildDocument(ctx context.Context, pdf []byte, restaurantName string, languages []string) (*core.Document, error) {
	doc, err := s.Extractor.Extract(ctx, pdf, languages)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(doc.RestaurantName) == "" {
		doc.RestaurantName = strings.TrimSpace(restaurantName)
	}

	if s.Translator != nil {
		res := s.Translator.Translate(ctx, doc, languages)
		if len(res.Value) > 0 && doc.Translations == nil {
			doc.Translations = make(map[string]core.Translation, len(res.Value))
		}
		for lang, t := range res.Value {
			doc.Translations[lang] = t
		}
	}

	doc.Pairings = s.Engine.Build(doc.Sections, doc.Wines)

	if s.Reasons != nil {
		res := s.Reasons.Enrich(ctx, doc.Sections, doc.Wines, doc.Pairings)
		if res.Failed() {
			s.Log.Warnw("pairing reasons skipped", "error", res.Err)
		}
		doc.Pairings = res.Value
	}

	return doc, nil
}

// --------------------------------------------------
// CREATE MENU
// --------------------------------------------------

// CreateMenu validates the upload, stores the PDF, builds the document and
// persists it under a fresh slug. Nothing is persisted on failure and the
// stored PDF is removed.
func (s *Service) CreateMenu(ctx context.Context, in CreateInput) (*CreateResult, error) {
	if err := ValidateUpload(in, s.cfg.Limits); err != nil {
		return nil, err
	}

	languages := s.ParseLanguages(in.Languages)

	key := fmt.Sprintf("uploads/%s_%s", uuid.NewString(), storage.SanitizeFilename(in.Filename))
	if !strings.HasSuffix(strings.ToLower(key), ".pdf") {
		key += ".pdf"
	}

	if _, err := s.Store.Put(ctx, key, bytes.NewReader(in.PDF), "application/pdf"); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	menu, err := s.assemble(ctx, in, languages, key)
	if err != nil {
		// request context may already be gone
		if derr := s.Store.Delete(context.WithoutCancel(ctx), key); derr != nil {
			s.Log.Warnw("failed to remove orphan upload", "key", key, "error", derr)
		}
		return nil, err
	}

	result := &CreateResult{
		MenuID:    menu.ID,
		Slug:      menu.Slug,
		PublicURL: s.PublicURL(menu.Slug),
	}

	if s.QR != nil {
		qrURL, err := s.QR.Publish(ctx, menu.Slug, result.PublicURL)
		if err != nil {
			s.Log.Warnw("qr generation failed", "slug", menu.Slug, "error", err)
		} else {
			result.QRURL = qrURL
		}
	}

	s.Log.Infow("menu created",
		"menu_id", menu.ID,
		"slug", menu.Slug,
		"languages", menu.Languages,
		"pairings", len(menu.Document.Pairings),
	)
	return result, nil
}

func (s *Service) assemble(ctx context.Context, in CreateInput, languages []string, pdfPath string) (*Menu, error) {
	doc, err := s.BuildDocument(ctx, in.PDF, in.RestaurantName, languages)
	if err != nil {
		return nil, fmt.Errorf("build menu: %w", err)
	}

	if err := core.Validate(doc); err != nil {
		return nil, fmt.Errorf("build menu: %w", err)
	}

	menu := &Menu{
		RestaurantName: doc.RestaurantName,
		PDFPath:        pdfPath,
		Languages:      core.AvailableLanguages(doc),
		Document:       doc,
	}

	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		menu.Slug = NewSlug(doc.RestaurantName)

		err = s.Repo.Create(ctx, menu)
		if err == nil {
			return menu, nil
		}
		if !errors.Is(err, ErrSlugTaken) {
			return nil, fmt.Errorf("persist menu: %w", err)
		}
		s.Log.Warnw("slug collision, retrying", "slug", menu.Slug, "attempt", attempt)
	}

	return nil, fmt.Errorf("persist menu: %w", err)
}

// --------------------------------------------------
// PUBLIC READ PATH
// --------------------------------------------------

func (s *Service) FindBySlug(ctx context.Context, slug string) (*core.MenuRef, error) {
	m, err := s.Repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return &core.MenuRef{ID: m.ID, Slug: m.Slug, Document: m.Document}, nil
}

// PublicView returns the menu in lang, or in its canonical language when
// no such translation exists.
func (s *Service) PublicView(ctx context.Context, slug, lang string) (*core.MenuView, error) {
	m, err := s.Repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	view := core.SelectLanguage(m.Document, lang)
	return &view, nil
}

func (s *Service) Sitemap(ctx context.Context) ([]SitemapEntry, error) {
	return s.Repo.ListSitemap(ctx)
}
