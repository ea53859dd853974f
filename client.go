/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/Seednode/crazyeights/games/crazyeights"
	"github.com/sirupsen/logrus"
)

// Client owns the session and the dealer connection. Everything here runs on
// the goroutine that calls run; the status server only reads published
// snapshots.
type Client struct {
	cfg  *Config
	log  *logrus.Logger
	ui   *console
	dial func(context.Context, string) (*dealerConn, error)

	conn    *dealerConn
	session *crazyeights.Session
	state   atomic.Pointer[crazyeights.Snapshot]
}

func newClient(cfg *Config, logger *logrus.Logger, ui *console) *Client {
	c := &Client{
		cfg:  cfg,
		log:  logger,
		ui:   ui,
		dial: dialDealer,
	}

	c.session = c.newSession(nil)
	c.publish()

	return c
}

func (c *Client) newSession(sender crazyeights.Sender) *crazyeights.Session {
	return crazyeights.NewSession(crazyeights.Options{
		Rules:      c.cfg.rules(),
		Sender:     sender,
		Logger:     c.log,
		LegacyPlay: c.cfg.legacyPlay,
	})
}

// Snapshot returns the most recently published state. Safe for concurrent use.
func (c *Client) Snapshot() crazyeights.Snapshot {
	return *c.state.Load()
}

func (c *Client) publish() {
	snap := c.session.Snapshot()
	c.state.Store(&snap)
}

// run is the session loop. It returns when ctx is cancelled, the command
// stream ends, or the user quits.
func (c *Client) run(ctx context.Context, commands <-chan command) error {
	defer c.hangUp()

	if c.cfg.name != "" {
		c.join(ctx, c.cfg.name)
		c.publish()
	}

	c.ui.prompt(c.Snapshot())

	for {
		var (
			inbound <-chan []byte
			closed  <-chan struct{}
		)
		if c.conn != nil {
			inbound = c.conn.inbound
			closed = c.conn.Done()
		}

		select {
		case <-ctx.Done():
			return nil
		case data := <-inbound:
			c.handleMessage(data)
		case <-closed:
			c.handleClosed()
		case cmd, ok := <-commands:
			if !ok {
				return nil
			}
			if c.handleCommand(ctx, cmd) {
				return nil
			}
		}

		c.publish()
		c.ui.prompt(c.Snapshot())
	}
}

func (c *Client) handleMessage(data []byte) {
	startTime := time.Now()

	ev, err := c.session.HandleMessage(data)
	if err != nil {
		return
	}

	c.ui.event(ev, c.session.Snapshot())

	logf(c.cfg, c.log, "RECV: %s (%s) in %s",
		ev.Action(),
		humanReadableSize(int64(len(data))),
		time.Since(startTime).Round(time.Microsecond),
	)
}

func (c *Client) handleClosed() {
	err := c.conn.Err()
	c.conn = nil

	if err != nil {
		c.log.WithError(err).Error("Lost connection to dealer")
	}

	c.session.Disconnect()
	c.ui.notice(c.session.Snapshot().Notice)
}

func (c *Client) hangUp() {
	if c.conn == nil {
		return
	}

	c.conn.Close()
	c.conn = nil
}

// join dials the dealer and sends a join. Each attempt gets a fresh session.
func (c *Client) join(ctx context.Context, name string) {
	if c.conn != nil {
		c.ui.reject("join", crazyeights.ErrAlreadyJoined)

		return
	}

	if err := crazyeights.ValidateName(name); err != nil {
		c.ui.reject("join", err)

		return
	}

	conn, err := c.dial(ctx, c.cfg.server)
	if err != nil {
		c.log.WithError(err).WithField("server", c.cfg.server).Error("Could not reach dealer")
		c.ui.notice("Could not reach the dealer at " + c.cfg.server + ".")

		return
	}

	session := c.newSession(conn)
	if err := session.RequestJoin(name); err != nil {
		conn.Close()
		c.ui.reject("join", err)

		return
	}

	c.conn = conn
	c.session = session

	logf(c.cfg, c.log, "JOIN: %s at %s as session %s", name, c.cfg.server, session.ID())
	c.ui.notice("Joining the table as " + name + "...")
}

// handleCommand runs one console command and reports whether to quit.
func (c *Client) handleCommand(ctx context.Context, cmd command) bool {
	var err error

	switch cmd.verb {
	case "":
	case "join":
		if cmd.rest == "" {
			c.ui.usage(cmd.verb)

			return false
		}
		c.join(ctx, cmd.rest)
	case "start":
		err = c.session.RequestStart()
		if err == nil {
			c.ui.notice("Asked the dealer to start the game.")
		}
	case "rematch":
		err = c.session.Rematch()
		if err == nil {
			c.ui.notice("Back at the table. Use start to deal a new game.")
		}
	case "play":
		var (
			card     crazyeights.Card
			declared crazyeights.Suit
		)
		card, declared, err = parsePlay(cmd.args, c.session.Hand())
		if errors.Is(err, errUsage) {
			c.ui.usage(cmd.verb)

			return false
		}
		if err == nil {
			err = c.session.RequestPlay(card, declared)
		}
	case "draw":
		err = c.session.RequestDraw()
	case "chat":
		err = c.session.RequestChat(cmd.rest)
	case "list":
		err = c.session.RequestList()
	case "hand":
		c.ui.hand(c.session.Snapshot())
	case "status":
		c.ui.status(c.session.Snapshot())
	case "invite":
		err = c.ui.invite(c.cfg.server)
	case "help":
		c.ui.help()
	case "quit", "exit":
		c.ui.notice("Goodbye.")

		return true
	default:
		c.ui.notice("Unknown command " + sanitize(cmd.verb) + ". Type help for a list of commands.")
	}

	if err != nil {
		c.ui.reject(cmd.verb, err)
	}

	return false
}
