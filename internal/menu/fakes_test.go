package menu

import (
	"context"
	"errors"
	"strings"
	"sync"

	"serveur/internal/core"
	"serveur/internal/llm"
)

// fakeLLM answers Generate with a function of the prompt text.
type fakeLLM struct {
	mu    sync.Mutex
	calls int
	reply func(prompt string) (string, error)
}

func (f *fakeLLM) Generate(_ context.Context, req llm.Request) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	var sb strings.Builder
	for _, c := range req.Contents {
		for _, p := range c.Parts {
			sb.WriteString(p.Text)
		}
	}
	if f.reply == nil {
		return "", errors.New("no reply configured")
	}
	return f.reply(sb.String())
}

func (f *fakeLLM) Stream(context.Context, llm.Request) (<-chan llm.Chunk, error) {
	return nil, errors.New("not used")
}

type fakeExtractor struct {
	doc   *core.Document
	err   error
	langs []string
}

func (f *fakeExtractor) Extract(_ context.Context, _ []byte, languages []string) (*core.Document, error) {
	f.langs = languages
	if f.err != nil {
		return nil, f.err
	}
	// callers mutate the document
	doc := *f.doc
	return &doc, nil
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func bistroDocument() *core.Document {
	return &core.Document{
		RestaurantName: "Café de l'Église",
		Language:       "fr",
		Currency:       strPtr("EUR"),
		Sections: []core.Section{
			{Title: "Plats", Items: []core.Item{
				{Name: "Entrecôte", Price: floatPtr(28), Tags: []string{"beef", "grilled"}},
				{Name: "Sole meunière", Description: strPtr("beurre noisette"), Price: floatPtr(32), Tags: []string{"fish", "buttery"}},
			}},
			{Title: "Desserts", Items: []core.Item{
				{Name: "Tarte Tatin", Price: floatPtr(9), Tags: []string{"dessert"}},
			}},
		},
		Wines: []core.Wine{
			{Name: "Saint-Émilion", Type: core.WineRed, Price: floatPtr(12)},
			{Name: "Chablis", Type: core.WineWhite, Region: strPtr("Bourgogne"), Grape: strPtr("Chardonnay"), Price: floatPtr(11)},
			{Name: "Sauternes", Type: core.WineDessert, Price: floatPtr(15)},
		},
		Pairings: []core.Pairing{},
	}
}

var minimalPDF = []byte("%PDF-1.4\n" + strings.Repeat("0", 200))
