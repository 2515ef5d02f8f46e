package client

import (
	"fmt"
	"math/rand/v2"

	"github.com/johndosdos/anonchat/internal/model"
)

// RandomName returns an anonymous display name such as "Anon4821".
func RandomName() string {
	return fmt.Sprintf("Anon%d", rand.IntN(10000))
}

// Tail tracks which messages have already been shown so repeated polls of
// the full list only surface new ones.
type Tail struct {
	seen map[string]struct{}
}

// Next returns the messages in list not returned by a previous call, in
// list order. Ids that have been evicted from list are forgotten.
func (t *Tail) Next(list []model.Message) []model.Message {
	current := make(map[string]struct{}, len(list))
	var fresh []model.Message
	for _, msg := range list {
		current[msg.ID] = struct{}{}
		if _, ok := t.seen[msg.ID]; !ok {
			fresh = append(fresh, msg)
		}
	}
	t.seen = current
	return fresh
}
