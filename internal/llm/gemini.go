package llm

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

var (
	// ErrNoPages is the signature of a PDF the model could not read any
	// page from. Callers may retry with rasterized pages.
	ErrNoPages       = errors.New("document has no pages")
	ErrEmptyResponse = errors.New("empty gemini response")
)

// APIError is a non-200 answer from the Gemini API.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini api error %d %s: %s", e.StatusCode, e.Status, e.Message)
}

// Is lets errors.Is(err, ErrNoPages) match the upstream message.
func (e *APIError) Is(target error) bool {
	return target == ErrNoPages && isNoPagesMessage(e.Message)
}

// IsNoPages reports whether err carries the "no pages" signature.
func IsNoPages(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrNoPages) || isNoPagesMessage(err.Error())
}

func isNoPagesMessage(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "no pages") || strings.Contains(msg, "0 page")
}

type GeminiConfig struct {
	APIKey string
	Model  string
	// BaseURL overrides the public endpoint; empty uses the SDK default.
	BaseURL string
	Timeout time.Duration
}

// GeminiClient implements Client on the official genai SDK.
type GeminiClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	log     *zap.SugaredLogger
}

var _ Client = (*GeminiClient)(nil)

func NewGeminiClient(ctx context.Context, cfg GeminiConfig, log *zap.SugaredLogger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("missing GEMINI_API_KEY")
	}
	if cfg.Model == "" {
		return nil, errors.New("missing GEMINI_MODEL")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return &GeminiClient{
		client:  client,
		model:   cfg.Model,
		timeout: timeout,
		log:     log,
	}, nil
}

func toGenAI(req Request) ([]*genai.Content, *genai.GenerateContentConfig) {
	contents := make([]*genai.Content, 0, len(req.Contents))
	for _, c := range req.Contents {
		parts := make([]*genai.Part, 0, len(c.Parts))
		for _, p := range c.Parts {
			if p.MIMEType != "" {
				parts = append(parts, &genai.Part{InlineData: &genai.Blob{MIMEType: p.MIMEType, Data: p.Data}})
				continue
			}
			parts = append(parts, &genai.Part{Text: p.Text})
		}
		contents = append(contents, &genai.Content{Role: c.Role, Parts: parts})
	}

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(req.Temperature)),
		MaxOutputTokens: int32(req.MaxOutputTokens),
	}
	if req.JSON {
		config.ResponseMIMEType = "application/json"
	}
	if req.System != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.System}}}
	}

	return contents, config
}

// wrapError normalizes SDK errors into *APIError.
func wrapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &APIError{StatusCode: apiErr.Code, Status: apiErr.Status, Message: apiErr.Message}
	}
	return fmt.Errorf("gemini: request failed: %w", err)
}

// Generate returns the full text of the first candidate.
func (g *GeminiClient) Generate(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	contents, config := toGenAI(req)
	g.log.Debugw("gemini request", "model", g.model, "contents", len(contents))

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", wrapError(err)
	}

	text := resp.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}

	g.log.Debugw("gemini reply", "chars", len(text))
	return text, nil
}

// Stream delivers text increments in the order the API produces them. The
// request is issued before Stream returns, so a rejected call surfaces as
// the returned error. The producer stops when ctx is cancelled.
func (g *GeminiClient) Stream(ctx context.Context, req Request) (<-chan Chunk, error) {
	contents, config := toGenAI(req)

	next, stop := iter.Pull2(g.client.Models.GenerateContentStream(ctx, g.model, contents, config))

	first, err, ok := next()
	if ok && err != nil {
		stop()
		return nil, wrapError(err)
	}

	out := make(chan Chunk)

	go func() {
		defer close(out)
		defer stop()

		send := func(c Chunk) bool {
			select {
			case out <- c:
				return true
			case <-ctx.Done():
				return false
			}
		}

		for resp := first; ok; resp, err, ok = next() {
			if err != nil {
				if ctx.Err() == nil {
					send(Chunk{Err: wrapError(err)})
				}
				return
			}
			if text := resp.Text(); text != "" {
				if !send(Chunk{Text: text}) {
					return
				}
			}
		}
	}()

	return out, nil
}
