package ocr

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"serveur/internal/core"
	"serveur/internal/llm"
)

type scriptedLLM struct {
	replies []string
	errs    []error
	reqs    []llm.Request
}

func (s *scriptedLLM) Generate(_ context.Context, req llm.Request) (string, error) {
	i := len(s.reqs)
	s.reqs = append(s.reqs, req)
	var reply string
	var err error
	if i < len(s.replies) {
		reply = s.replies[i]
	}
	if i < len(s.errs) {
		err = s.errs[i]
	}
	return reply, err
}

func (s *scriptedLLM) Stream(context.Context, llm.Request) (<-chan llm.Chunk, error) {
	return nil, errors.New("not used")
}

type fakeRasterizer struct {
	pages [][]byte
	err   error
	calls int
}

func (f *fakeRasterizer) Rasterize(context.Context, []byte) ([][]byte, error) {
	f.calls++
	return f.pages, f.err
}

const extractedMenu = "```json\n" + `{
  "restaurant_name": "Le Petit Zinc",
  "language": "FR",
  "currency": "EUR",
  "sections": [{"title": "Plats", "items": [{"name": "Magret", "price": 24, "tags": ["Duck"]}]}],
  "wines": [{"name": "Cahors", "type": "rouge", "price": "12"}],
  "translations": {
    "en": {"sections": [{"title": "Mains", "items": [{"name": "Duck breast"}]}], "wines": [{"name": "Cahors"}]},
    "es": {"sections": [], "wines": []},
  }
}` + "\n```"

var noPagesErr = &llm.APIError{StatusCode: 400, Status: "INVALID_ARGUMENT", Message: "The document has no pages."}

func newTestExtractor(client llm.Client, raster Rasterizer) *Extractor {
	return NewExtractor(client, raster, "en", zap.NewNop().Sugar())
}

func TestExtract_DirectPDF(t *testing.T) {
	client := &scriptedLLM{replies: []string{extractedMenu}}
	raster := &fakeRasterizer{}

	doc, err := newTestExtractor(client, raster).Extract(context.Background(), []byte("%PDF-1.7"), []string{"en", "es"})
	require.NoError(t, err)

	assert.Equal(t, "Le Petit Zinc", doc.RestaurantName)
	assert.Equal(t, "fr", doc.Language)
	require.Len(t, doc.Sections, 1)
	assert.Equal(t, []string{"duck"}, doc.Sections[0].Items[0].Tags)
	assert.Equal(t, 24.0, *doc.Sections[0].Items[0].Price)
	assert.Equal(t, "red", string(doc.Wines[0].Type))
	assert.Nil(t, doc.Wines[0].Price)

	// es is misaligned and dropped; en survives
	assert.Contains(t, doc.Translations, "en")
	assert.NotContains(t, doc.Translations, "es")

	assert.Equal(t, 0, raster.calls)
	require.Len(t, client.reqs, 1)
	assert.Equal(t, "application/pdf", client.reqs[0].Contents[0].Parts[0].MIMEType)
	assert.True(t, client.reqs[0].JSON)
}

func TestExtract_FallsBackToImagesOnce(t *testing.T) {
	client := &scriptedLLM{
		replies: []string{"", extractedMenu},
		errs:    []error{noPagesErr, nil},
	}
	raster := &fakeRasterizer{pages: [][]byte{[]byte("png1"), []byte("png2")}}

	doc, err := newTestExtractor(client, raster).Extract(context.Background(), []byte("%PDF-1.7"), nil)
	require.NoError(t, err)
	assert.Equal(t, "Le Petit Zinc", doc.RestaurantName)

	assert.Equal(t, 1, raster.calls)
	require.Len(t, client.reqs, 2)
	parts := client.reqs[1].Contents[0].Parts
	require.Len(t, parts, 3)
	assert.Equal(t, "image/png", parts[0].MIMEType)
	assert.Equal(t, "image/png", parts[1].MIMEType)
	assert.NotEmpty(t, parts[2].Text)
}

func TestExtract_FallbackFailurePropagates(t *testing.T) {
	client := &scriptedLLM{errs: []error{noPagesErr, noPagesErr}}
	raster := &fakeRasterizer{pages: [][]byte{[]byte("png")}}

	_, err := newTestExtractor(client, raster).Extract(context.Background(), []byte("%PDF-1.7"), nil)
	require.Error(t, err)

	// no second fallback
	assert.Equal(t, 1, raster.calls)
	assert.Len(t, client.reqs, 2)
}

func TestExtract_RasterFailurePropagates(t *testing.T) {
	client := &scriptedLLM{errs: []error{noPagesErr}}
	raster := &fakeRasterizer{err: errors.New("pdftoppm missing")}

	_, err := newTestExtractor(client, raster).Extract(context.Background(), []byte("%PDF-1.7"), nil)
	assert.ErrorContains(t, err, "pdftoppm missing")
}

func TestExtract_OtherErrorsDoNotFallBack(t *testing.T) {
	client := &scriptedLLM{errs: []error{&llm.APIError{StatusCode: 500, Message: "internal"}}}
	raster := &fakeRasterizer{}

	_, err := newTestExtractor(client, raster).Extract(context.Background(), []byte("%PDF-1.7"), nil)
	require.Error(t, err)
	assert.Equal(t, 0, raster.calls)
}

func TestExtract_UnparsableOutputIsHardFailure(t *testing.T) {
	client := &scriptedLLM{replies: []string{"Sorry, I could not read this menu."}}

	_, err := newTestExtractor(client, &fakeRasterizer{}).Extract(context.Background(), []byte("%PDF-1.7"), nil)
	assert.Error(t, err)
}

func TestExtract_DefaultLanguage(t *testing.T) {
	client := &scriptedLLM{replies: []string{`{"restaurant_name":"X","sections":[],"wines":[]}`}}

	doc, err := newTestExtractor(client, &fakeRasterizer{}).Extract(context.Background(), []byte("%PDF-1.7"), nil)
	require.NoError(t, err)
	assert.Equal(t, "en", doc.Language)
	assert.NotNil(t, doc.Sections)
	assert.NotNil(t, doc.Wines)
}

func TestNormalizeLanguage(t *testing.T) {
	assert.Equal(t, "fr", NormalizeLanguage("FR", "en"))
	assert.Equal(t, "pt", NormalizeLanguage("pt-BR", "en"))
	assert.Equal(t, "en", NormalizeLanguage("", "en"))
	assert.Equal(t, "en", NormalizeLanguage("not a language!", "en"))
}

func TestIsPDF(t *testing.T) {
	assert.True(t, IsPDF([]byte("%PDF-1.4\n...")))
	assert.False(t, IsPDF([]byte("%PD")))
	assert.False(t, IsPDF([]byte("GIF89a")))
	assert.False(t, IsPDF(nil))
}

func TestNormalize_RegionalKeysDoNotOverwrite(t *testing.T) {
	section := func(title string) []core.Section {
		return []core.Section{{Title: title, Items: []core.Item{{Name: title + " dish"}}}}
	}
	e := newTestExtractor(&scriptedLLM{}, &fakeRasterizer{})

	// map order is random; repeat to cover every ordering
	for i := 0; i < 50; i++ {
		doc := &core.Document{
			Language: "FR",
			Sections: section("Plats"),
			Wines:    []core.Wine{},
			Translations: map[string]core.Translation{
				"en-us": {Sections: section("Entrees"), Wines: []core.Wine{}},
				"en":    {Sections: section("Mains"), Wines: []core.Wine{}},
				"en-gb": {Sections: section("Mains GB"), Wines: []core.Wine{}},
				"es-mx": {Sections: section("Platos"), Wines: []core.Wine{}},
				"fr":    {Sections: section("Plats"), Wines: []core.Wine{}},
			},
		}

		e.normalize(doc)

		assert.Equal(t, "fr", doc.Language)
		require.Len(t, doc.Translations, 2)
		assert.Equal(t, "Mains", doc.Translations["en"].Sections[0].Title)
		assert.Equal(t, "Platos", doc.Translations["es"].Sections[0].Title)
		assert.NotContains(t, doc.Translations, "fr")
	}
}
