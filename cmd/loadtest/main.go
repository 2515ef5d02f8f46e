// Command loadtest posts messages from many concurrent anonymous users, then
// posts one final marker message and checks the server's window: it holds
// no more than capacity messages, at least as many as were sent up to that
// bound, in timestamp order, and ends with the marker.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/johndosdos/anonchat/internal/client"
)

func main() {
	server := flag.StringP("server", "s", "http://localhost:8080", "base URL of the chat server")
	users := flag.IntP("users", "u", 10, "number of concurrent posters")
	perUser := flag.IntP("messages", "n", 20, "messages posted by each user")
	timeout := flag.Duration("timeout", time.Minute, "overall deadline")
	capacity := flag.IntP("capacity", "c", 100, "messages the server is expected to retain")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.SetOutput(os.Stdout)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	c := client.New(*server)

	var sent, failed atomic.Int64
	var wg sync.WaitGroup
	start := time.Now()

	for u := 0; u < *users; u++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name := client.RandomName()
			for i := 0; i < *perUser; i++ {
				if _, err := c.Send(ctx, fmt.Sprintf("load message %d", i), name); err != nil {
					failed.Add(1)
					log.Printf("failed to send message as [%s]: %v", name, err)
					continue
				}
				sent.Add(1)
			}
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)

	marker, err := c.Send(ctx, "load test done", client.RandomName())
	if err != nil {
		log.Fatalf("failed to send marker message: %v", err)
	}
	sent.Add(1)

	msgs, err := c.List(ctx)
	if err != nil {
		log.Fatalf("failed to list messages: %v", err)
	}

	log.Printf("sent %d messages (%d failed) in %s, %.1f req/s",
		sent.Load(), failed.Load(), elapsed.Round(time.Millisecond),
		float64(sent.Load())/elapsed.Seconds())
	log.Printf("server holds %d messages", len(msgs))

	if len(msgs) > *capacity {
		log.Fatalf("server holds %d messages, want at most %d", len(msgs), *capacity)
	}
	if want := min(sent.Load(), int64(*capacity)); int64(len(msgs)) < want {
		log.Fatalf("server holds %d messages, want at least %d", len(msgs), want)
	}
	for i := 1; i < len(msgs); i++ {
		if msgs[i].Timestamp < msgs[i-1].Timestamp {
			log.Fatalf("timestamps out of order at index %d", i)
		}
	}
	if last := msgs[len(msgs)-1]; last.ID != marker.ID {
		log.Fatalf("newest message is %s, want marker %s", last.ID, marker.ID)
	}

	if failed.Load() > 0 {
		os.Exit(1)
	}
}
