/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Seednode/crazyeights/games/crazyeights"
	"github.com/gorilla/websocket"
)

const (
	maxMessageSize = 64 * 1024
	sendBuffer     = 16
)

var (
	errConnClosed = errors.New("connection to dealer is closed")
	errSendFull   = errors.New("outbound queue is full")
)

// dealerConn is one websocket connection to the dealer. The read pump only
// moves bytes into inbound and the write pump only drains send; all state
// lives with the session loop.
type dealerConn struct {
	conn    *websocket.Conn
	inbound chan []byte
	send    chan crazyeights.Action
	done    chan struct{}

	once sync.Once
	mu   sync.Mutex
	err  error
}

func dialDealer(ctx context.Context, server string) (*dealerConn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: timeout,
	}

	conn, _, err := dialer.DialContext(ctx, server, nil)
	if err != nil {
		return nil, err
	}
	conn.SetReadLimit(maxMessageSize)

	d := &dealerConn{
		conn:    conn,
		inbound: make(chan []byte),
		send:    make(chan crazyeights.Action, sendBuffer),
		done:    make(chan struct{}),
	}

	go d.writePump()
	go d.readPump()

	return d, nil
}

// Send queues an action without blocking the session loop.
func (d *dealerConn) Send(a crazyeights.Action) error {
	select {
	case <-d.done:
		return errConnClosed
	default:
	}

	select {
	case d.send <- a:
		return nil
	default:
		return errSendFull
	}
}

func (d *dealerConn) readPump() {
	for {
		_, data, err := d.conn.ReadMessage()
		if err != nil {
			d.fail(err)
			return
		}

		select {
		case d.inbound <- data:
		case <-d.done:
			return
		}
	}
}

func (d *dealerConn) writePump() {
	for {
		select {
		case a := <-d.send:
			_ = d.conn.SetWriteDeadline(time.Now().Add(timeout))
			if err := d.conn.WriteJSON(a); err != nil {
				d.fail(err)
				return
			}
		case <-d.done:
			return
		}
	}
}

func (d *dealerConn) fail(err error) {
	d.mu.Lock()
	if d.err == nil {
		d.err = err
	}
	d.mu.Unlock()

	d.shutdown()
}

func (d *dealerConn) shutdown() {
	d.once.Do(func() {
		close(d.done)
		_ = d.conn.Close()
	})
}

// Close says goodbye to the dealer and tears the connection down.
func (d *dealerConn) Close() {
	_ = d.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"),
		time.Now().Add(time.Second))

	d.fail(errConnClosed)
}

func (d *dealerConn) Done() <-chan struct{} {
	return d.done
}

// Err reports why the connection ended. Normal closure by either side is nil.
func (d *dealerConn) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.err == nil || errors.Is(d.err, errConnClosed) || websocket.IsCloseError(d.err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return nil
	}
	return d.err
}
