package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/johndosdos/anonchat/internal/logging"
	"github.com/johndosdos/anonchat/internal/model"
	"github.com/johndosdos/anonchat/internal/store"
)

const (
	errMsgRequired = "Text and user are required"
	errMsgInternal = "Failed to process message"

	maxBodyBytes = 1 << 20
)

var errMalformedBody = errors.New("malformed message body")

var validate = validator.New(validator.WithRequiredStructEnabled())

type messageStore interface {
	Append(text, user string) (model.Message, error)
	List() []model.Message
}

type sanitizer interface {
	Sanitize(s string) string
}

type postMessageRequest struct {
	Text string `json:"text" validate:"required"`
	User string `json:"user" validate:"required"`
}

type listMessagesResponse struct {
	Messages []model.Message `json:"messages"`
}

type postMessageResponse struct {
	Success bool          `json:"success"`
	Message model.Message `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ServeMessages returns every retained message, oldest first.
func ServeMessages(s messageStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		messages := s.List()
		if messages == nil {
			messages = []model.Message{}
		}

		writeJSON(w, r, http.StatusOK, listMessagesResponse{Messages: messages})
	}
}

// SubmitMessage appends the posted message to the store. When san is not
// nil, text and user are passed through it first.
func SubmitMessage(s messageStore, san sanitizer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logging.FromContext(ctx)

		defer func() {
			if rec := recover(); rec != nil {
				log.ErrorContext(ctx, "panic while processing message",
					slog.Any("panic", rec))
				writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: errMsgInternal})
			}
		}()

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			log.WarnContext(ctx, "failed to read message body", slog.Any("error", err))
			writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: errMsgInternal})
			return
		}

		req, err := decodePostMessage(body)
		if err != nil {
			log.WarnContext(ctx, "failed to decode message body", slog.Any("error", err))
			writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: errMsgInternal})
			return
		}

		if err := validate.Struct(req); err != nil {
			writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: errMsgRequired})
			return
		}

		if san != nil {
			req.Text = san.Sanitize(req.Text)
			req.User = san.Sanitize(req.User)
		}

		msg, err := s.Append(req.Text, req.User)
		switch {
		case errors.Is(err, store.ErrValidation):
			writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: errMsgRequired})
			return
		case err != nil:
			log.ErrorContext(ctx, "failed to append message", slog.Any("error", err))
			writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: errMsgInternal})
			return
		}

		log.InfoContext(ctx, "message appended",
			slog.String("id", msg.ID),
			slog.String("user", msg.User),
			slog.Int("text_bytes", len(msg.Text)))

		writeJSON(w, r, http.StatusOK, postMessageResponse{Success: true, Message: msg})
	}
}

// decodePostMessage parses a complete POST body. A body that is not a
// single JSON value, or is null, is malformed. Any other non-object value
// carries no fields and fails validation later. Inside an object, falsy
// values (null, false, 0, "") count as missing; a present field that is
// not a string is malformed.
func decodePostMessage(body []byte) (postMessageRequest, error) {
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return postMessageRequest{}, fmt.Errorf("%w: %w", errMalformedBody, err)
	}

	var req postMessageRequest
	switch v := raw.(type) {
	case nil:
		return req, fmt.Errorf("%w: body is null", errMalformedBody)
	case map[string]any:
		var err error
		if req.Text, err = stringField(v, "text"); err != nil {
			return req, err
		}
		if req.User, err = stringField(v, "user"); err != nil {
			return req, err
		}
	}

	return req, nil
}

func stringField(obj map[string]any, key string) (string, error) {
	switch v := obj[key].(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool:
		if !v {
			return "", nil
		}
	case float64:
		if v == 0 {
			return "", nil
		}
	}
	return "", fmt.Errorf("%w: field %q is not a string", errMalformedBody, key)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "failed to encode response",
			slog.Any("error", fmt.Errorf("handler: %w", err)))
		http.Error(w, errMsgInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		logging.FromContext(r.Context()).WarnContext(r.Context(), "failed to write response",
			slog.Any("error", err))
	}
}
