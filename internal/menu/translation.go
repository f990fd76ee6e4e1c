package menu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"serveur/internal/core"
	"serveur/internal/llm"
)

const DefaultTranslationConcurrency = 3

// Translator produces positionally aligned translations one section at a
// time. A failed section or wine list keeps the source text.
type Translator struct {
	llm         llm.Client
	concurrency int
	log         *zap.SugaredLogger
}

func NewTranslator(client llm.Client, concurrency int, log *zap.SugaredLogger) *Translator {
	if concurrency <= 0 {
		concurrency = DefaultTranslationConcurrency
	}
	return &Translator{llm: client, concurrency: concurrency, log: log}
}

// MissingLanguages returns the requested languages that are neither the
// canonical language nor already translated.
func MissingLanguages(doc *core.Document, languages []string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, lang := range languages {
		if lang == "" || lang == doc.Language || seen[lang] {
			continue
		}
		seen[lang] = true
		if _, ok := doc.Translations[lang]; ok {
			continue
		}
		out = append(out, lang)
	}
	return out
}

// Translate adds a translation for each missing language. The Value always
// holds one aligned translation per language; Err joins every per-section
// or wine-list failure that fell back to source text.
func (t *Translator) Translate(ctx context.Context, doc *core.Document, languages []string) core.BestEffort[map[string]core.Translation] {
	missing := MissingLanguages(doc, languages)
	out := make(map[string]core.Translation, len(missing))
	if len(missing) == 0 {
		return core.Ok(out)
	}

	type job struct {
		lang     string
		sections []core.Section
		wines    []core.Wine
		errs     []error
	}

	src := doc.Canonical()

	jobs := make([]*job, len(missing))
	for i, lang := range missing {
		jobs[i] = &job{
			lang:     lang,
			sections: make([]core.Section, len(src.Sections)),
			wines:    src.Wines,
			errs:     make([]error, len(src.Sections)+1),
		}
	}

	g := new(errgroup.Group)
	g.SetLimit(t.concurrency)

	for _, j := range jobs {
		for si := range src.Sections {
			g.Go(func() error {
				section, err := t.translateSection(ctx, src.Sections[si], j.lang)
				if err != nil {
					j.errs[si] = fmt.Errorf("%s section %d: %w", j.lang, si, err)
					section = src.Sections[si]
				}
				j.sections[si] = section
				return nil
			})
		}

		if len(src.Wines) > 0 {
			g.Go(func() error {
				wines, err := t.translateWines(ctx, src.Wines, j.lang)
				if err != nil {
					j.errs[len(src.Sections)] = fmt.Errorf("%s wines: %w", j.lang, err)
					return nil
				}
				j.wines = wines
				return nil
			})
		}
	}

	// goroutines never return an error
	_ = g.Wait()

	var failures []error
	for _, j := range jobs {
		out[j.lang] = core.Translation{Sections: j.sections, Wines: j.wines}
		for _, err := range j.errs {
			if err != nil {
				failures = append(failures, err)
			}
		}
	}

	if len(failures) > 0 {
		err := errors.Join(failures...)
		t.log.Warnw("translation fell back to source text", "languages", missing, "failures", len(failures), "error", err)
		return core.Fallback(out, err)
	}

	t.log.Infow("translations ready", "languages", missing)
	return core.Ok(out)
}

func (t *Translator) translateSection(ctx context.Context, src core.Section, lang string) (core.Section, error) {
	payload, err := json.Marshal(src)
	if err != nil {
		return core.Section{}, err
	}

	req := llm.UserRequest(llm.TextPart(llm.BuildSectionTranslationPrompt(string(payload), lang)))
	req.JSON = true
	req.Temperature = 0.1

	text, err := t.llm.Generate(ctx, req)
	if err != nil {
		return core.Section{}, err
	}

	obj, err := llm.ParseObject(text)
	if err != nil {
		return core.Section{}, err
	}

	translated := core.DecodeSection(obj)
	if len(translated.Items) != len(src.Items) {
		return core.Section{}, fmt.Errorf("item count %d, want %d", len(translated.Items), len(src.Items))
	}

	return mergeSection(src, translated), nil
}

func (t *Translator) translateWines(ctx context.Context, src []core.Wine, lang string) ([]core.Wine, error) {
	payload, err := json.Marshal(src)
	if err != nil {
		return nil, err
	}

	req := llm.UserRequest(llm.TextPart(llm.BuildWineTranslationPrompt(string(payload), lang)))
	req.Temperature = 0.1

	text, err := t.llm.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	arr, err := llm.ParseArray(text)
	if err != nil {
		return nil, err
	}

	translated := core.DecodeWines(arr)
	if len(translated) != len(src) {
		return nil, fmt.Errorf("wine count %d, want %d", len(translated), len(src))
	}

	return mergeWines(src, translated), nil
}

// mergeSection keeps translated display text and restores everything else
// from the source at the same position.
func mergeSection(src, tr core.Section) core.Section {
	out := core.Section{
		Title: firstNonEmpty(tr.Title, src.Title),
		Items: make([]core.Item, len(src.Items)),
	}
	for i, item := range src.Items {
		t := tr.Items[i]
		out.Items[i] = core.Item{
			Name:          firstNonEmpty(t.Name, item.Name),
			MarketingName: orSource(t.MarketingName, item.MarketingName),
			Description:   orSource(t.Description, item.Description),
			Price:         item.Price,
			Tags:          item.Tags,
		}
	}
	return out
}

func mergeWines(src, tr []core.Wine) []core.Wine {
	out := make([]core.Wine, len(src))
	for i, w := range src {
		w.Name = firstNonEmpty(tr[i].Name, w.Name)
		out[i] = w
	}
	return out
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}

func orSource(tr, src *string) *string {
	if src == nil {
		return nil
	}
	if tr == nil {
		return src
	}
	return tr
}
