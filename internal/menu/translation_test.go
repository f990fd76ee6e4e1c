package menu

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"serveur/internal/core"
)

// englishReply fakes a well-behaved translation model.
func englishReply(prompt string) (string, error) {
	switch {
	case strings.Contains(prompt, "wine list"):
		return `[{"name":"Saint-Emilion (EN)","type":"white","price":99},{"name":"Chablis"},{"name":"Sauternes"}]`, nil
	case strings.Contains(prompt, `"Plats"`):
		return "```json\n" + `{"title":"Mains","items":[
			{"name":"Rib steak","price":1,"tags":["vegan"]},
			{"name":"Sole","description":"brown butter"}
		]}` + "\n```", nil
	case strings.Contains(prompt, `"Desserts"`):
		return `{"title":"Desserts","items":[{"name":"Upside-down apple tart"}]}`, nil
	}
	return "", errors.New("unexpected prompt")
}

func TestTranslate_AlignedAndPreservesFields(t *testing.T) {
	doc := bistroDocument()
	client := &fakeLLM{reply: englishReply}

	res := NewTranslator(client, 2, zap.NewNop().Sugar()).Translate(context.Background(), doc, []string{"en", "fr"})

	require.False(t, res.Failed(), "%v", res.Err)
	require.Contains(t, res.Value, "en")
	assert.NotContains(t, res.Value, "fr")

	en := res.Value["en"]
	assert.True(t, doc.Aligned(en))

	steak := en.Sections[0].Items[0]
	assert.Equal(t, "Rib steak", steak.Name)
	assert.Equal(t, 28.0, *steak.Price)
	assert.Equal(t, []string{"beef", "grilled"}, steak.Tags)

	assert.Equal(t, "brown butter", *en.Sections[0].Items[1].Description)
	assert.Equal(t, "Upside-down apple tart", en.Sections[1].Items[0].Name)

	wine := en.Wines[0]
	assert.Equal(t, "Saint-Emilion (EN)", wine.Name)
	assert.Equal(t, core.WineRed, wine.Type)
	assert.Equal(t, 12.0, *wine.Price)
	assert.Equal(t, "Chardonnay", *en.Wines[1].Grape)

	// 2 sections + 1 wine list
	assert.Equal(t, 3, client.calls)
}

func TestTranslate_PerSectionFallback(t *testing.T) {
	doc := bistroDocument()
	client := &fakeLLM{reply: func(prompt string) (string, error) {
		if strings.Contains(prompt, `"Desserts"`) {
			// wrong item count
			return `{"title":"Postres","items":[]}`, nil
		}
		if strings.Contains(prompt, "wine list") {
			return "", errors.New("quota exceeded")
		}
		return `{"title":"Principales","items":[{"name":"Entrecot"},{"name":"Lenguado"}]}`, nil
	}}

	res := NewTranslator(client, 0, zap.NewNop().Sugar()).Translate(context.Background(), doc, []string{"es"})

	require.True(t, res.Failed())
	es := res.Value["es"]
	require.True(t, doc.Aligned(es))

	assert.Equal(t, "Principales", es.Sections[0].Title)
	assert.Equal(t, "Desserts", es.Sections[1].Title)
	assert.Equal(t, "Tarte Tatin", es.Sections[1].Items[0].Name)
	assert.Equal(t, doc.Wines, es.Wines)
}

func TestTranslate_NothingMissing(t *testing.T) {
	doc := bistroDocument()
	doc.Translations = map[string]core.Translation{"en": doc.Canonical()}
	client := &fakeLLM{}

	res := NewTranslator(client, 0, zap.NewNop().Sugar()).Translate(context.Background(), doc, []string{"fr", "en", "en"})

	assert.False(t, res.Failed())
	assert.Empty(t, res.Value)
	assert.Equal(t, 0, client.calls)
}

func TestMissingLanguages(t *testing.T) {
	doc := bistroDocument()
	doc.Translations = map[string]core.Translation{"de": {}}

	assert.Equal(t, []string{"en", "es"}, MissingLanguages(doc, []string{"fr", "en", "de", "es", "en", ""}))
}

func TestMergeSection_KeepsSourceWhenBlank(t *testing.T) {
	src := bistroDocument().Sections[0]
	var tr core.Section
	require.NoError(t, json.Unmarshal([]byte(`{"title":"","items":[{"name":" "},{"name":"Sole"}]}`), &tr))

	got := mergeSection(src, tr)

	assert.Equal(t, "Plats", got.Title)
	assert.Equal(t, "Entrecôte", got.Items[0].Name)
	assert.Equal(t, "beurre noisette", *got.Items[1].Description)
}
