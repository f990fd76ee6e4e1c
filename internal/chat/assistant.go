package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"serveur/internal/core"
	"serveur/internal/llm"
)

// ErrNoUserMessage means no user or assistant turn with text was sent.
var ErrNoUserMessage = errors.New("no user message to answer")

// Assistant answers diner questions grounded in one menu view.
type Assistant struct {
	llm    llm.Client
	window int
	log    *zap.SugaredLogger
}

func NewAssistant(client llm.Client, window int, log *zap.SugaredLogger) *Assistant {
	if window <= 0 {
		window = DefaultHistoryWindow
	}
	return &Assistant{llm: client, window: window, log: log}
}

// BuildRequest grounds the model in the menu and keeps the last window
// user/assistant turns.
func (a *Assistant) BuildRequest(view core.MenuView, msgs []Message) (llm.Request, error) {
	menuJSON, err := json.Marshal(groundingMenu(view))
	if err != nil {
		return llm.Request{}, fmt.Errorf("encode menu for assistant: %w", err)
	}

	contents := make([]llm.Content, 0, a.window)
	for _, m := range Tail(conversational(msgs), a.window) {
		role := llm.RoleUser
		if m.Role == RoleAssistant {
			role = llm.RoleModel
		}
		contents = append(contents, llm.Content{Role: role, Parts: []llm.Part{llm.TextPart(m.Content)}})
	}
	if len(contents) == 0 {
		return llm.Request{}, ErrNoUserMessage
	}

	return llm.Request{
		System:          llm.BuildChatSystemPrompt(view.Lang, string(menuJSON)),
		Contents:        contents,
		Temperature:     0.4,
		MaxOutputTokens: 512,
	}, nil
}

func (a *Assistant) Answer(ctx context.Context, view core.MenuView, msgs []Message) (string, error) {
	req, err := a.BuildRequest(view, msgs)
	if err != nil {
		return "", err
	}

	answer, err := a.llm.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("assistant: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

func (a *Assistant) Stream(ctx context.Context, view core.MenuView, msgs []Message) (<-chan llm.Chunk, error) {
	req, err := a.BuildRequest(view, msgs)
	if err != nil {
		return nil, err
	}

	ch, err := a.llm.Stream(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("assistant: %w", err)
	}
	return ch, nil
}

// conversational drops system turns and blank messages.
func conversational(msgs []Message) []Message {
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if m.Role != RoleUser && m.Role != RoleAssistant {
			continue
		}
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		out = append(out, m)
	}
	return out
}

type grounding struct {
	RestaurantName string         `json:"restaurant_name"`
	Currency       *string        `json:"currency"`
	Sections       []core.Section `json:"sections"`
	Wines          []core.Wine    `json:"wines"`
	Pairings       []core.Pairing `json:"pairings"`
}

func groundingMenu(view core.MenuView) grounding {
	return grounding{
		RestaurantName: view.RestaurantName,
		Currency:       view.Currency,
		Sections:       view.Sections,
		Wines:          view.Wines,
		Pairings:       view.Pairings,
	}
}
