// Package chat holds the browser chat page. Components are written with
// templ.ComponentFunc so no code generation step is needed.
package chat

import (
	"context"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/a-h/templ"
)

// PageOptions controls the values baked into the page script.
type PageOptions struct {
	Endpoint      string
	PollInterval  time.Duration
	MaxTextLength int
}

// ChatLayout is the full HTML document.
func ChatLayout(opts PageOptions) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := write(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1">`,
			`<title>Anonymous Chat</title><style>`, pageStyle, `</style></head><body>`); err != nil {
			return err
		}
		if err := Header().Render(ctx, w); err != nil {
			return err
		}
		if err := write(w, `<main>`); err != nil {
			return err
		}
		if err := MessageArea().Render(ctx, w); err != nil {
			return err
		}
		if err := ChatInput(opts.MaxTextLength).Render(ctx, w); err != nil {
			return err
		}
		if err := write(w, `</main>`); err != nil {
			return err
		}
		if err := Footer().Render(ctx, w); err != nil {
			return err
		}
		if err := PollScript(opts).Render(ctx, w); err != nil {
			return err
		}
		return write(w, `</body></html>`)
	})
}

// Header shows the title and the visitor's generated name.
func Header() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return write(w, `<header><h1>Anonymous Chat</h1>`,
			`<div class="whoami">You are: <span id="username"></span></div></header>`)
	})
}

// MessageArea is the scrolling list the poll script fills in.
func MessageArea() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return write(w, `<section id="messages" class="messages">`,
			`<p id="empty" class="empty">No messages yet. Start the conversation!</p>`,
			`<div id="messages-end"></div></section>`)
	})
}

// ChatInput is the send form.
func ChatInput(maxLength int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return write(w, `<form id="chat-form" autocomplete="off">`,
			`<input type="text" name="text" id="chat-input" placeholder="Type your anonymous message..." maxlength="`,
			templ.EscapeString(strconv.Itoa(maxLength)), `">`,
			`<button type="submit">Send</button></form>`)
	})
}

// Footer shows the message count.
func Footer() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return write(w, `<footer>Anonymous chat &bull; All messages are public &bull; `,
			`<span id="count">0</span> messages</footer>`)
	})
}

// PollScript fetches the message list every PollInterval, keeping at most
// one request in flight, and posts the form as JSON.
func PollScript(opts PageOptions) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		endpoint, err := json.Marshal(opts.Endpoint)
		if err != nil {
			return err
		}
		return write(w, `<script>`,
			`const ENDPOINT = `, string(endpoint), `;`,
			`const POLL_MS = `, strconv.FormatInt(opts.PollInterval.Milliseconds(), 10), `;`,
			pollScript, `</script>`)
	})
}

func write(w io.Writer, parts ...string) error {
	for _, p := range parts {
		if _, err := io.WriteString(w, p); err != nil {
			return err
		}
	}
	return nil
}

const pollScript = `
(function () {
  const username = "Anon" + Math.floor(Math.random() * 10000);
  document.getElementById("username").textContent = username;

  const list = document.getElementById("messages");
  const empty = document.getElementById("empty");
  const end = document.getElementById("messages-end");
  const count = document.getElementById("count");
  const form = document.getElementById("chat-form");
  const input = document.getElementById("chat-input");

  let inFlight = false;
  let lastRendered = "";

  function bubble(msg) {
    const row = document.createElement("div");
    row.className = "row " + (msg.user === username ? "mine" : "theirs");
    const box = document.createElement("div");
    box.className = "bubble";
    const who = document.createElement("div");
    who.className = "user";
    who.textContent = msg.user;
    const text = document.createElement("div");
    text.className = "text";
    text.textContent = msg.text;
    const at = document.createElement("div");
    at.className = "time";
    at.textContent = new Date(msg.timestamp).toLocaleTimeString();
    box.append(who, text, at);
    row.append(box);
    return row;
  }

  function render(messages) {
    const key = messages.map(function (m) { return m.id; }).join(",");
    if (key === lastRendered) return;
    lastRendered = key;

    list.querySelectorAll(".row").forEach(function (n) { n.remove(); });
    empty.hidden = messages.length > 0;
    messages.forEach(function (m) { list.insertBefore(bubble(m), end); });
    count.textContent = String(messages.length);
    end.scrollIntoView({ behavior: "smooth" });
  }

  async function poll() {
    if (inFlight) return;
    inFlight = true;
    try {
      const res = await fetch(ENDPOINT);
      const data = await res.json();
      render(data.messages || []);
    } catch (err) {
      console.error("Error fetching messages:", err);
    } finally {
      inFlight = false;
    }
  }

  form.addEventListener("submit", async function (e) {
    e.preventDefault();
    if (!input.value.trim()) return;
    try {
      await fetch(ENDPOINT, {
        method: "POST",
        headers: { "Content-Type": "application/json" },
        body: JSON.stringify({ text: input.value, user: username }),
      });
      input.value = "";
    } catch (err) {
      console.error("Error sending message:", err);
    }
  });

  const timer = setInterval(poll, POLL_MS);
  window.addEventListener("pagehide", function () { clearInterval(timer); });
  poll();
})();
`

const pageStyle = `
body{margin:0;min-height:100vh;display:flex;flex-direction:column;font-family:system-ui,sans-serif;
background:linear-gradient(135deg,#4c1d95,#1e3a8a,#312e81);color:#fff}
header,footer{background:rgba(0,0,0,.3);padding:1rem;display:flex;justify-content:space-between;align-items:center}
footer{justify-content:center;font-size:.85rem;color:#ddd6fe}
h1{margin:0;font-size:1.5rem}
.whoami{font-size:.9rem;color:#ddd6fe}
main{flex:1;display:flex;flex-direction:column;max-width:56rem;width:100%;margin:0 auto;padding:1rem;box-sizing:border-box}
.messages{flex:1;overflow-y:auto;background:rgba(0,0,0,.2);border-radius:.5rem;padding:1rem;margin-bottom:1rem}
.empty{text-align:center;color:#ddd6fe;padding:3rem 0}
.row{display:flex;margin-bottom:.75rem}
.row.mine{justify-content:flex-end}
.bubble{max-width:28rem;padding:.5rem 1rem;border-radius:.5rem;background:rgba(255,255,255,.9);color:#111827;overflow-wrap:anywhere}
.mine .bubble{background:#7c3aed;color:#fff}
.user,.time{font-size:.75rem;opacity:.7}
form{display:flex;gap:.5rem}
input{flex:1;padding:.75rem 1rem;border-radius:.5rem;border:0}
button{padding:.75rem 1.5rem;border:0;border-radius:.5rem;background:#7c3aed;color:#fff;font-weight:600;cursor:pointer}
`
