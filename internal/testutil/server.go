// Package testutil starts a real chat server for tests.
package testutil

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/johndosdos/anonchat/internal/handler"
	"github.com/johndosdos/anonchat/internal/store"
)

// NewServer serves the full router around a fresh store and closes it
// when the test ends.
func NewServer(t testing.TB, opts ...store.Option) (*httptest.Server, *store.Store) {
	t.Helper()

	s := store.New(opts...)
	srv := httptest.NewServer(handler.NewRouter(s, handler.Options{
		PollInterval:  time.Second,
		MaxTextLength: store.DefaultMaxTextLength,
	}))
	t.Cleanup(srv.Close)

	return srv, s
}
