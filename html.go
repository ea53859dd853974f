/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"html"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Seednode/crazyeights/games/crazyeights"
	"github.com/julienschmidt/httprouter"
)

// cspStatus relaxes the default policy just enough for the inline styles
// that colour participant names.
func cspStatus(w http.ResponseWriter) {
	w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'")
}

func serveHealthCheck(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(cfg, w)

		_, err := w.Write([]byte("Ok\n"))
		if err != nil {
			errs <- err

			return
		}
	}
}

func serveRobots(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		data := `User-agent: *
Disallow: /`

		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		securityHeaders(cfg, w)

		_, err := w.Write([]byte(data))
		if err != nil {
			errs <- err

			return
		}
	}
}

func cardsHTML(cards []crazyeights.Card) string {
	if len(cards) == 0 {
		return "<em>none</em>"
	}

	codes := make([]string, len(cards))
	for i, c := range cards {
		codes[i] = html.EscapeString(c.String())
	}

	return strings.Join(codes, " ")
}

// statusPage renders a snapshot. Every name and message in it came from the
// dealer or other players and is escaped.
func statusPage(cfg *Config, snap crazyeights.Snapshot) string {
	var b strings.Builder

	b.WriteString(`<!DOCTYPE html><html lang="en"><head>`)
	b.WriteString(`<meta charset="utf-8">`)
	b.WriteString(`<meta http-equiv="refresh" content="5">`)
	b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	b.WriteString(`<title>Crazy Eights</title></head><body>`)

	b.WriteString(`<h1>Crazy Eights</h1>`)
	fmt.Fprintf(&b, `<p>Dealer: <code>%s</code></p>`, html.EscapeString(cfg.server))
	fmt.Fprintf(&b, `<p>Phase: <strong>%s</strong>`, html.EscapeString(snap.Phase.String()))
	if snap.Self != "" {
		fmt.Fprintf(&b, ` as <strong>%s</strong>`, html.EscapeString(snap.Self))
	}
	b.WriteString(`</p>`)

	b.WriteString(`<h2>Players</h2><ul>`)
	for _, p := range snap.Participants {
		b.WriteString(`<li>`)
		fmt.Fprintf(&b, `<span style="color: %s">%s</span>`, html.EscapeString(p.Color), html.EscapeString(p.Name))
		if p.IsSelf {
			b.WriteString(` (you)`)
		}
		if p.Name == snap.TurnHolder {
			b.WriteString(` &larr; turn`)
		}
		b.WriteString(`</li>`)
	}
	b.WriteString(`</ul>`)

	if snap.Phase == crazyeights.InProgress {
		b.WriteString(`<h2>Table</h2>`)
		if snap.TopCard != nil {
			fmt.Fprintf(&b, `<p>Top card: %s`, html.EscapeString(snap.TopCard.String()))
			if snap.ActiveSuit.Valid() {
				fmt.Fprintf(&b, `, suit %s`, html.EscapeString(snap.ActiveSuit.String()))
			}
			b.WriteString(`</p>`)
		}
		fmt.Fprintf(&b, `<p>Hand: %s</p>`, cardsHTML(snap.Hand))
		if snap.IsLocalTurn {
			fmt.Fprintf(&b, `<p>Your turn. Playable: %s</p>`, cardsHTML(snap.Legal))
		}
	}

	if snap.Phase == crazyeights.Ended {
		b.WriteString(`<h2>Game over</h2>`)
		if snap.Winner != "" {
			fmt.Fprintf(&b, `<p>Winner: %s</p>`, html.EscapeString(snap.Winner))
		}
		if snap.Blocked {
			b.WriteString(`<p>The game was blocked.</p>`)
		}
		if snap.Reason != "" {
			fmt.Fprintf(&b, `<p>%s</p>`, html.EscapeString(snap.Reason))
		}

		names := make([]string, 0, len(snap.Scores))
		for n := range snap.Scores {
			names = append(names, n)
		}
		sort.Strings(names)

		b.WriteString(`<ul>`)
		for _, n := range names {
			fmt.Fprintf(&b, `<li>%s: %d</li>`, html.EscapeString(n), snap.Scores[n])
		}
		b.WriteString(`</ul>`)
	}

	if snap.Notice != "" {
		fmt.Fprintf(&b, `<p><em>%s</em></p>`, html.EscapeString(snap.Notice))
	}

	if len(snap.Chat) > 0 {
		b.WriteString(`<h2>Chat</h2><ul>`)
		for _, line := range snap.Chat {
			fmt.Fprintf(&b, `<li><strong>%s</strong>: %s</li>`, html.EscapeString(line.Sender), html.EscapeString(line.Message))
		}
		b.WriteString(`</ul>`)
	}

	fmt.Fprintf(&b, `<h2>Invite</h2><img src="%s/qr" alt="QR code of the dealer address" width="320" height="320">`, html.EscapeString(cfg.prefix))

	b.WriteString(`</body></html>`)

	return b.String()
}
