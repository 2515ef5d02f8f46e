// Package model defines data structure.
package model

// Message holds a single chat post. Timestamp is epoch milliseconds,
// assigned by the store when the message is appended.
type Message struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
	User      string `json:"user"`
}
