package handler

import (
	"log/slog"
	"net/http"

	viewChat "github.com/johndosdos/anonchat/components/chat"
	"github.com/johndosdos/anonchat/internal/logging"
)

// ServeChat renders the browser chat page.
func ServeChat(opts viewChat.PageOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := viewChat.ChatLayout(opts).Render(ctx, w); err != nil {
			logging.FromContext(ctx).ErrorContext(ctx, "failed to render component",
				slog.Any("error", err))
		}
	}
}
