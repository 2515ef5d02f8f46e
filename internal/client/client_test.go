package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johndosdos/anonchat/internal/testutil"
)

func TestClientSendAndList(t *testing.T) {
	srv, s := testutil.NewServer(t)
	c := New(srv.URL + "/")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	got, err := c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	msg, err := c.Send(ctx, "hello", "Anon1")
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Text)
	assert.Equal(t, "Anon1", msg.User)
	assert.NotEmpty(t, msg.ID)

	got, err = c.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, msg, got[0])
	assert.Equal(t, 1, s.Len())
}

func TestClientSendValidation(t *testing.T) {
	srv, _ := testutil.NewServer(t)
	c := New(srv.URL)

	_, err := c.Send(context.Background(), "", "Anon1")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Text and user are required", apiErr.Message)
	assert.Contains(t, apiErr.Error(), "400")
}

func TestClientErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantAPI bool
	}{
		{
			name: "plain_text_error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", http.StatusBadGateway)
			},
			wantAPI: true,
		},
		{
			name: "garbage_body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json")) //nolint:errcheck
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := New(srv.URL).List(context.Background())
			require.Error(t, err)

			var apiErr *APIError
			assert.Equal(t, tt.wantAPI, errors.As(err, &apiErr))
		})
	}
}

func TestClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, WithHTTPClient(&http.Client{Timeout: time.Second})).List(context.Background())
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "internal/client:"))
}
