package chat

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"serveur/internal/core"
)

const streamDone = "[DONE]"

type Handler struct {
	service *Service
	debug   bool
	log     *zap.SugaredLogger
}

func NewHandler(service *Service, debug bool, log *zap.SugaredLogger) *Handler {
	return &Handler{service: service, debug: debug, log: log}
}

// --------------------------------------------------
// Single-shot answer
// --------------------------------------------------
func (h *Handler) Chat(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	answer, err := h.service.Chat(c.Request.Context(), c.Param("slug"), req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"answer": answer})
}

// --------------------------------------------------
// Streamed answer (server-sent events)
// --------------------------------------------------

// Stream emits "message" events with text, then one "done" event. Once
// the stream has started, failures become an "error" event.
func (h *Handler) Stream(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	ctx := c.Request.Context()

	chunks, err := h.service.ChatStream(ctx, c.Param("slug"), req)
	switch {
	case errors.Is(err, core.ErrMenuNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "menu not found"})
		return
	case errors.Is(err, ErrNoUserMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	if err != nil {
		h.streamError(c, err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case chunk, ok := <-chunks:
			if !ok {
				c.SSEvent("done", streamDone)
				c.Writer.Flush()
				return
			}
			if chunk.Err != nil {
				h.streamError(c, chunk.Err)
				return
			}
			c.SSEvent("message", chunk.Text)
			c.Writer.Flush()
		}
	}
}

// --------------------------------------------------
// Conversation memory
// --------------------------------------------------
func (h *Handler) GetConversation(c *gin.Context) {
	sessionID := c.Query("session_id")

	msgs, err := h.service.Conversation(c.Request.Context(), c.Param("slug"), sessionID)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"messages":   msgs,
	})
}

func (h *Handler) DeleteConversation(c *gin.Context) {
	if err := h.service.ClearConversation(c.Request.Context(), c.Param("slug"), c.Query("session_id")); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cleared": true})
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrMenuNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "menu not found"})
	case errors.Is(err, ErrSessionRequired), errors.Is(err, ErrNoUserMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.Errorw("chat failed", "path", c.FullPath(), "error", err)
		body := gin.H{"error": "assistant unavailable"}
		if h.debug {
			body["detail"] = err.Error()
		}
		c.JSON(http.StatusInternalServerError, body)
	}
}

func (h *Handler) streamError(c *gin.Context, err error) {
	h.log.Errorw("chat stream failed", "path", c.FullPath(), "error", err)

	msg := "assistant unavailable"
	if h.debug {
		msg = err.Error()
	}
	c.SSEvent("error", msg)
	c.Writer.Flush()
}
