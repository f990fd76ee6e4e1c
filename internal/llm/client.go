package llm

import (
	"context"
)

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Part is one piece of a message: text, or inline binary data (a PDF or
// page image) when MIMEType is set.
type Part struct {
	Text     string
	MIMEType string
	Data     []byte
}

func TextPart(s string) Part {
	return Part{Text: s}
}

func DataPart(mimeType string, data []byte) Part {
	return Part{MIMEType: mimeType, Data: data}
}

type Content struct {
	Role  string
	Parts []Part
}

type Request struct {
	System          string
	Contents        []Content
	JSON            bool
	Temperature     float64
	MaxOutputTokens int
}

func UserContent(parts ...Part) Content {
	return Content{Role: RoleUser, Parts: parts}
}

// UserRequest is a single-turn request made of parts.
func UserRequest(parts ...Part) Request {
	return Request{Contents: []Content{UserContent(parts...)}}
}

// Chunk is one increment of a streamed response. A chunk with Err set is
// terminal; a closed channel without an error chunk means completion.
type Chunk struct {
	Text string
	Err  error
}

// Client is the external text/vision generation capability.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
	Stream(ctx context.Context, req Request) (<-chan Chunk, error)
}
