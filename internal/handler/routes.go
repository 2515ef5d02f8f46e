// Package handler exposes the chat over HTTP.
package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/microcosm-cc/bluemonday"

	viewChat "github.com/johndosdos/anonchat/components/chat"
	"github.com/johndosdos/anonchat/internal"
)

const MessagesPath = "/api/messages"

// Options configures NewRouter.
type Options struct {
	PollInterval  time.Duration
	MaxTextLength int
	SanitizeHTML  bool
}

// NewRouter wires the chat page and the messages API around s.
func NewRouter(s messageStore, opts Options) http.Handler {
	var san sanitizer
	if opts.SanitizeHTML {
		san = bluemonday.StrictPolicy()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(internal.Middleware)

	r.Get("/", ServeChat(viewChat.PageOptions{
		Endpoint:      MessagesPath,
		PollInterval:  opts.PollInterval,
		MaxTextLength: opts.MaxTextLength,
	}))
	r.Get(MessagesPath, ServeMessages(s))
	r.Post(MessagesPath, SubmitMessage(s, san))

	return r
}
