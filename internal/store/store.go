// Package store keeps the most recent chat messages in process memory.
package store

import (
	"errors"
	"sync"
	"time"
	"unicode/utf16"

	"github.com/google/uuid"

	"github.com/johndosdos/anonchat/internal/model"
)

const (
	DefaultCapacity      = 100
	DefaultMaxTextLength = 500
)

// ErrValidation is returned by Append when text or user is missing.
var ErrValidation = errors.New("text and user are required")

// Option configures a Store.
type Option func(*Store)

// WithCapacity sets how many messages are retained. Values below 1 are ignored.
func WithCapacity(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// WithMaxTextLength sets the truncation length in UTF-16 code units, the
// unit browsers use for string length. Values below 1 are ignored.
func WithMaxTextLength(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxTextLen = n
		}
	}
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithClock replaces time.Now as the timestamp source.
func WithClock(fn func() time.Time) Option {
	return func(s *Store) {
		if fn != nil {
			s.now = fn
		}
	}
}

// Store is a bounded, append-only list of messages. Once full, every
// append evicts the oldest message. It is safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	messages   []model.Message
	lastStamp  int64
	capacity   int
	maxTextLen int
	newID      func() string
	now        func() time.Time
}

// New returns an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		capacity:   DefaultCapacity,
		maxTextLen: DefaultMaxTextLength,
		newID:      uuid.NewString,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.messages = make([]model.Message, 0, s.capacity)

	return s
}

// Append stores a new message from user and returns it. Text longer than
// the configured maximum is cut, not rejected.
func (s *Store) Append(text, user string) (model.Message, error) {
	if text == "" || user == "" {
		return model.Message{}, ErrValidation
	}

	msg := model.Message{
		Text: truncate(text, s.maxTextLen),
		User: user,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Timestamps never go backwards, even if the wall clock does.
	stamp := s.now().UnixMilli()
	if stamp < s.lastStamp {
		stamp = s.lastStamp
	}
	s.lastStamp = stamp

	msg.ID = s.newID()
	msg.Timestamp = stamp

	s.messages = append(s.messages, msg)
	if over := len(s.messages) - s.capacity; over > 0 {
		// Shift down instead of reslicing so the backing array stays bounded.
		n := copy(s.messages, s.messages[over:])
		clear(s.messages[n:])
		s.messages = s.messages[:n]
	}

	return msg, nil
}

// List returns a copy of all retained messages, oldest first.
func (s *Store) List() []model.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len reports how many messages are currently retained.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Capacity is the most messages the store keeps before evicting.
func (s *Store) Capacity() int {
	return s.capacity
}

// truncate cuts str to at most n UTF-16 code units. A character that
// would straddle the limit is dropped whole, so surrogate pairs stay intact.
func truncate(str string, n int) string {
	units := 0
	for i, r := range str {
		size := utf16.RuneLen(r)
		if size < 0 {
			// Invalid runes decode as U+FFFD, one unit.
			size = 1
		}
		if units+size > n {
			return str[:i]
		}
		units += size
	}
	return str
}
