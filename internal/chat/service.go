package chat

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"serveur/internal/core"
	"serveur/internal/llm"
)

var ErrSessionRequired = errors.New("session_id is required")

type Service struct {
	menus     core.MenuReader
	assistant *Assistant
	repo      Repository
	maxStored int
	log       *zap.SugaredLogger
}

func NewService(menus core.MenuReader, assistant *Assistant, repo Repository, conversationCap int, log *zap.SugaredLogger) *Service {
	if conversationCap <= 0 {
		conversationCap = DefaultConversationCap
	}
	return &Service{menus: menus, assistant: assistant, repo: repo, maxStored: conversationCap, log: log}
}

func (s *Service) view(ctx context.Context, slug, lang string) (*core.MenuRef, core.MenuView, error) {
	ref, err := s.menus.FindBySlug(ctx, slug)
	if err != nil {
		return nil, core.MenuView{}, err
	}
	return ref, core.SelectLanguage(ref.Document, lang), nil
}

// Chat returns a single answer and, when a session is given, stores the
// capped transcript.
func (s *Service) Chat(ctx context.Context, slug string, req Request) (string, error) {
	ref, view, err := s.view(ctx, slug, req.Lang)
	if err != nil {
		return "", err
	}

	answer, err := s.assistant.Answer(ctx, view, req.Messages)
	if err != nil {
		return "", err
	}

	s.remember(ctx, ref.ID, req, answer)
	return answer, nil
}

// ChatStream forwards model chunks in order. The transcript is stored only
// when the model finishes normally and ctx is still live; a cancelled or
// failed stream stores nothing.
func (s *Service) ChatStream(ctx context.Context, slug string, req Request) (<-chan llm.Chunk, error) {
	ref, view, err := s.view(ctx, slug, req.Lang)
	if err != nil {
		return nil, err
	}

	upstream, err := s.assistant.Stream(ctx, view, req.Messages)
	if err != nil {
		return nil, err
	}

	out := make(chan llm.Chunk)

	go func() {
		defer close(out)

		var answer strings.Builder
		for chunk := range upstream {
			select {
			case out <- chunk:
			case <-ctx.Done():
				// drain so the producer can exit
				for range upstream {
				}
				return
			}

			if chunk.Err != nil {
				s.log.Warnw("assistant stream failed", "slug", slug, "error", chunk.Err)
				return
			}
			answer.WriteString(chunk.Text)
		}

		if ctx.Err() != nil {
			return
		}
		s.remember(ctx, ref.ID, req, answer.String())
	}()

	return out, nil
}

func (s *Service) remember(ctx context.Context, menuID int64, req Request, answer string) {
	session := strings.TrimSpace(req.SessionID)
	if session == "" {
		return
	}

	msgs := Transcript(req.Messages, answer, s.maxStored)
	if err := s.repo.Save(ctx, menuID, session, msgs); err != nil {
		s.log.Warnw("conversation not saved", "menu_id", menuID, "session_id", session, "error", err)
	}
}

func (s *Service) Conversation(ctx context.Context, slug, sessionID string) ([]Message, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, ErrSessionRequired
	}

	ref, err := s.menus.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, ref.ID, sessionID)
}

func (s *Service) ClearConversation(ctx context.Context, slug, sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return ErrSessionRequired
	}

	ref, err := s.menus.FindBySlug(ctx, slug)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, ref.ID, sessionID)
}
