package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johndosdos/anonchat/internal/model"
	"github.com/johndosdos/anonchat/internal/store"
)

func newTestRouter(s messageStore, sanitize bool) http.Handler {
	return NewRouter(s, Options{
		PollInterval:  time.Second,
		MaxTextLength: store.DefaultMaxTextLength,
		SanitizeHTML:  sanitize,
	})
}

func do(t *testing.T, h http.Handler, method, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, MessagesPath, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []model.Message {
	t.Helper()

	var got struct {
		Messages []model.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	return got.Messages
}

func TestServeMessagesEmpty(t *testing.T) {
	h := newTestRouter(store.New(), false)

	rec := do(t, h, http.MethodGet, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"messages":[]}`, rec.Body.String())
}

func TestSubmitMessage(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
		wantBody string
		wantLen  int
	}{
		{"valid", `{"text":"hello","user":"Anon1"}`, http.StatusOK, "", 1},
		{"empty_text", `{"text":"","user":"Anon1"}`, http.StatusBadRequest, `{"error":"Text and user are required"}`, 0},
		{"empty_user", `{"text":"hi","user":""}`, http.StatusBadRequest, `{"error":"Text and user are required"}`, 0},
		{"missing_fields", `{}`, http.StatusBadRequest, `{"error":"Text and user are required"}`, 0},
		{"null_text", `{"text":null,"user":"Anon1"}`, http.StatusBadRequest, `{"error":"Text and user are required"}`, 0},
		{"malformed_json", `{"text":`, http.StatusInternalServerError, `{"error":"Failed to process message"}`, 0},
		{"empty_body", ``, http.StatusInternalServerError, `{"error":"Failed to process message"}`, 0},
		{"wrong_type", `{"text":5,"user":"Anon1"}`, http.StatusInternalServerError, `{"error":"Failed to process message"}`, 0},
		{"numeric_user", `{"text":"hi","user":7}`, http.StatusInternalServerError, `{"error":"Failed to process message"}`, 0},
		{"zero_text", `{"text":0,"user":"Anon1"}`, http.StatusBadRequest, `{"error":"Text and user are required"}`, 0},
		{"false_user", `{"text":"hi","user":false}`, http.StatusBadRequest, `{"error":"Text and user are required"}`, 0},
		{"trailing_data", `{"text":"a","user":"b"} trailing`, http.StatusInternalServerError, `{"error":"Failed to process message"}`, 0},
		{"two_objects", `{"text":"a","user":"b"}{"text":"c","user":"d"}`, http.StatusInternalServerError, `{"error":"Failed to process message"}`, 0},
		{"trailing_whitespace", "{\"text\":\"a\",\"user\":\"b\"}\n", http.StatusOK, "", 1},
		{"null_body", `null`, http.StatusInternalServerError, `{"error":"Failed to process message"}`, 0},
		{"array_body", `[]`, http.StatusBadRequest, `{"error":"Text and user are required"}`, 0},
		{"string_body", `"hello"`, http.StatusBadRequest, `{"error":"Text and user are required"}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := store.New()
			h := newTestRouter(s, false)

			rec := do(t, h, http.MethodPost, tt.body)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
			assert.Equal(t, tt.wantLen, s.Len())
		})
	}
}

func TestSubmitMessageBodyTooLarge(t *testing.T) {
	s := store.New()
	h := newTestRouter(s, false)

	body := `{"text":"` + strings.Repeat("x", maxBodyBytes) + `","user":"Anon1"}`
	rec := do(t, h, http.MethodPost, body)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to process message"}`, rec.Body.String())
	assert.Equal(t, 0, s.Len())
}

func TestSubmitMessageResponse(t *testing.T) {
	s := store.New()
	h := newTestRouter(s, false)

	rec := do(t, h, http.MethodPost, `{"text":"`+strings.Repeat("x", 600)+`","user":"Anon1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Success bool          `json:"success"`
		Message model.Message `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

	assert.True(t, got.Success)
	assert.NotEmpty(t, got.Message.ID)
	assert.Len(t, got.Message.Text, 500)
	assert.Equal(t, "Anon1", got.Message.User)
	assert.InDelta(t, time.Now().UnixMilli(), got.Message.Timestamp, float64(time.Minute.Milliseconds()))
	assert.Equal(t, s.List()[0], got.Message)
}

func TestPostThenGet(t *testing.T) {
	h := newTestRouter(store.New(), false)

	rec := do(t, h, http.MethodPost, `{"text":"hello","user":"Anon1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var posted struct {
		Message model.Message `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &posted))
	assert.Equal(t, "hello", posted.Message.Text)

	rec = do(t, h, http.MethodGet, "")
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeList(t, rec)
	require.Len(t, got, 1)
	assert.Equal(t, "hello", got[0].Text)
	assert.Equal(t, "Anon1", got[0].User)
	assert.Equal(t, posted.Message.ID, got[0].ID)
}

func TestRejectedPostLeavesListUnchanged(t *testing.T) {
	h := newTestRouter(store.New(), false)

	rec := do(t, h, http.MethodPost, `{"text":"","user":"Anon1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Text and user are required"}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "")
	assert.JSONEq(t, `{"messages":[]}`, rec.Body.String())
}

func TestGetKeepsMostRecent(t *testing.T) {
	h := newTestRouter(store.New(), false)

	for i := 0; i < 105; i++ {
		rec := do(t, h, http.MethodPost, `{"text":"m","user":"Anon1"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	got := decodeList(t, do(t, h, http.MethodGet, ""))
	assert.Len(t, got, 100)
}

func TestSubmitMessageSanitizes(t *testing.T) {
	s := store.New()
	h := newTestRouter(s, true)

	rec := do(t, h, http.MethodPost, `{"text":"<b>hi</b>","user":"<i>Anon1</i>"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	got := s.List()
	require.Len(t, got, 1)
	assert.Equal(t, "hi", got[0].Text)
	assert.Equal(t, "Anon1", got[0].User)
}

type panicStore struct{}

func (panicStore) Append(text, user string) (model.Message, error) { panic("boom") }
func (panicStore) List() []model.Message { return nil }

func TestSubmitMessageRecoversPanic(t *testing.T) {
	h := newTestRouter(panicStore{}, false)

	rec := do(t, h, http.MethodPost, `{"text":"hello","user":"Anon1"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to process message"}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "")
	assert.JSONEq(t, `{"messages":[]}`, rec.Body.String())
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestRouter(store.New(), false)

	rec := do(t, h, http.MethodDelete, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServeChat(t *testing.T) {
	h := newTestRouter(store.New(), false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `const ENDPOINT = "/api/messages";`)
	assert.Contains(t, rec.Body.String(), `const POLL_MS = 1000;`)
}
