package ocr

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"serveur/internal/core"
	"serveur/internal/llm"
)

// Extractor asks the vision model for a MenuDocument.
type Extractor struct {
	llm         llm.Client
	raster      Rasterizer
	defaultLang string
	log         *zap.SugaredLogger
}

func NewExtractor(client llm.Client, raster Rasterizer, defaultLang string, log *zap.SugaredLogger) *Extractor {
	if defaultLang == "" {
		defaultLang = "en"
	}
	return &Extractor{llm: client, raster: raster, defaultLang: defaultLang, log: log}
}

// Extract sends the raw PDF. When the model reports that the document has
// no pages, it retries once with rasterized pages; a failure of that retry
// is returned as is. Translations for languages are requested in the same
// call, and any that do not line up with the canonical arrays are dropped.
func (e *Extractor) Extract(ctx context.Context, pdf []byte, languages []string) (*core.Document, error) {
	prompt := llm.BuildExtractionPrompt(languages)

	text, err := e.generate(ctx, prompt, llm.DataPart("application/pdf", pdf))
	if err != nil {
		if !llm.IsNoPages(err) || e.raster == nil {
			return nil, fmt.Errorf("extract menu: %w", err)
		}

		e.log.Warnw("pdf unreadable by model, falling back to page images", "error", err)

		text, err = e.extractFromImages(ctx, prompt, pdf)
		if err != nil {
			return nil, fmt.Errorf("extract menu from images: %w", err)
		}
	}

	raw, err := llm.ParseObject(text)
	if err != nil {
		return nil, fmt.Errorf("extract menu: %w", err)
	}

	doc := core.DecodeDocument(raw)
	e.normalize(doc)

	e.log.Infow("menu extracted",
		"restaurant", doc.RestaurantName,
		"language", doc.Language,
		"sections", len(doc.Sections),
		"wines", len(doc.Wines),
		"translations", len(doc.Translations),
	)
	return doc, nil
}

func (e *Extractor) extractFromImages(ctx context.Context, prompt string, pdf []byte) (string, error) {
	pages, err := e.raster.Rasterize(ctx, pdf)
	if err != nil {
		return "", err
	}

	parts := make([]llm.Part, 0, len(pages))
	for _, p := range pages {
		parts = append(parts, llm.DataPart("image/png", p))
	}

	e.log.Infow("retrying extraction with page images", "pages", len(pages))
	return e.generate(ctx, prompt, parts...)
}

func (e *Extractor) generate(ctx context.Context, prompt string, parts ...llm.Part) (string, error) {
	req := llm.UserRequest(append(parts, llm.TextPart(prompt))...)
	req.JSON = true
	req.Temperature = 0.1
	return e.llm.Generate(ctx, req)
}

// normalize settles the canonical language and discards translations that
// would break positional alignment. When several keys share a base
// language, an exact key wins over regional variants, and variants are
// taken in sorted order.
func (e *Extractor) normalize(doc *core.Document) {
	doc.Language = NormalizeLanguage(doc.Language, e.defaultLang)
	if doc.Translations == nil {
		return
	}

	keys := make([]string, 0, len(doc.Translations))
	for lang := range doc.Translations {
		keys = append(keys, lang)
	}
	sort.Strings(keys)

	kept := make(map[string]core.Translation, len(keys))
	for _, lang := range keys {
		t := doc.Translations[lang]
		code := NormalizeLanguage(lang, "")
		if code == "" || code == doc.Language || !doc.Aligned(t) {
			e.log.Debugw("dropping extracted translation", "lang", lang)
			continue
		}
		if _, taken := kept[code]; taken && code != lang {
			e.log.Debugw("dropping duplicate extracted translation", "lang", lang, "as", code)
			continue
		}
		kept[code] = t
	}

	doc.Translations = kept
}

// NormalizeLanguage returns the lowercase base ISO 639-1 code of s, or
// fallback when s is not a recognizable language tag.
func NormalizeLanguage(s, fallback string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	tag, err := language.Parse(s)
	if err != nil {
		return fallback
	}
	base, conf := tag.Base()
	if conf == language.No {
		return fallback
	}
	return strings.ToLower(base.String())
}
