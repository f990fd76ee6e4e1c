package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"serveur/internal/core"
	"serveur/internal/llm"
)

type fakeMenus struct {
	refs map[string]*core.MenuRef
}

func (f *fakeMenus) FindBySlug(_ context.Context, slug string) (*core.MenuRef, error) {
	ref, ok := f.refs[slug]
	if !ok {
		return nil, core.ErrMenuNotFound
	}
	return ref, nil
}

type fakeLLM struct {
	mu       sync.Mutex
	answer   string
	err      error
	chunks   []llm.Chunk
	startErr error
	last     llm.Request
}

func (f *fakeLLM) Generate(_ context.Context, req llm.Request) (string, error) {
	f.mu.Lock()
	f.last = req
	f.mu.Unlock()
	return f.answer, f.err
}

func (f *fakeLLM) Stream(ctx context.Context, req llm.Request) (<-chan llm.Chunk, error) {
	f.mu.Lock()
	f.last = req
	f.mu.Unlock()

	if f.startErr != nil {
		return nil, f.startErr
	}

	out := make(chan llm.Chunk)
	go func() {
		defer close(out)
		for _, c := range f.chunks {
			select {
			case out <- c:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (f *fakeLLM) lastRequest() llm.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

func trattoria() *core.Document {
	wine := "Barolo"
	return &core.Document{
		RestaurantName: "Trattoria Roma",
		Language:       "it",
		Sections:       []core.Section{{Title: "Secondi", Items: []core.Item{{Name: "Brasato", Tags: []string{"beef"}}}}},
		Wines:          []core.Wine{{Name: wine, Type: core.WineRed}},
		Translations: map[string]core.Translation{
			"en": {
				Sections: []core.Section{{Title: "Mains", Items: []core.Item{{Name: "Braised beef", Tags: []string{"beef"}}}}},
				Wines:    []core.Wine{{Name: wine, Type: core.WineRed}},
			},
		},
		Pairings: []core.Pairing{{DishName: "Brasato", WineName: &wine, Confidence: 0.95}},
	}
}

func newFakeMenus() *fakeMenus {
	return &fakeMenus{refs: map[string]*core.MenuRef{
		"trattoria-roma-0123456789": {ID: 7, Slug: "trattoria-roma-0123456789", Document: trattoria()},
	}}
}

const slug = "trattoria-roma-0123456789"

func turns(n int) []Message {
	msgs := make([]Message, 0, n)
	for i := 0; i < n; i++ {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		msgs = append(msgs, Message{Role: role, Content: fmt.Sprintf("turn %d", i)})
	}
	return msgs
}

var errUpstream = errors.New("upstream failed")
