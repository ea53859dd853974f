package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/Seednode/crazyeights/games/crazyeights"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(server string) *Config {
	return &Config{
		bind:     "127.0.0.1",
		port:     8080,
		server:   server,
		wildRank: "8",
	}
}

func testClient(cfg *Config, out io.Writer) *Client {
	return newClient(cfg, newLogger(cfg, io.Discard), newConsole(out))
}

func TestClientPlaysThroughDealer(t *testing.T) {
	fd := newFakeDealer(t)
	cfg := testConfig(fd.url())

	var out bytes.Buffer
	c := testClient(cfg, &out)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	commands := make(chan command)
	done := make(chan error, 1)
	go func() { done <- c.run(ctx, commands) }()

	commands <- parseCommand("join Ann")
	dealer := fd.accept(t)
	assert.Equal(t, crazyeights.Action{Type: crazyeights.ActionJoin, Username: "Ann"}, readAction(t, dealer))

	require.NoError(t, dealer.WriteJSON(map[string]any{"action": "player_list", "players": []string{"Ann", "Bo"}}))
	assert.Eventually(t, func() bool {
		return c.Snapshot().Phase == crazyeights.WaitingForStart
	}, 2*time.Second, 10*time.Millisecond)

	commands <- parseCommand("start")
	assert.Equal(t, crazyeights.ActionStartGame, readAction(t, dealer).Type)

	require.NoError(t, dealer.WriteJSON(map[string]any{"action": "game_started", "currentTurn": "Ann", "topCard": "7D"}))
	require.NoError(t, dealer.WriteJSON(map[string]any{"action": "deal", "hand": []string{"7H", "8S", "2C"}}))
	assert.Eventually(t, func() bool {
		snap := c.Snapshot()
		return snap.IsLocalTurn && len(snap.Hand) == 3
	}, 2*time.Second, 10*time.Millisecond)

	snap := c.Snapshot()
	assert.Equal(t, cards("7H", "8S"), snap.Legal)

	commands <- parseCommand("play 8s clubs")
	assert.Equal(t, crazyeights.Action{
		Type: crazyeights.ActionMove,
		Move: &crazyeights.MovePayload{Card: "8S", DeclaredSuit: "clubs"},
	}, readAction(t, dealer))
	assert.Eventually(t, func() bool {
		return !c.Snapshot().IsLocalTurn
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, dealer.Close())
	assert.Eventually(t, func() bool {
		return c.Snapshot().Phase == crazyeights.Lobby
	}, 2*time.Second, 10*time.Millisecond)

	snap = c.Snapshot()
	assert.Empty(t, snap.Participants)
	assert.Empty(t, snap.Hand)
	assert.NotEmpty(t, snap.Notice)

	commands <- parseCommand("quit")
	require.NoError(t, <-done)

	assert.Contains(t, out.String(), "Players at the table: Ann, Bo")
	assert.Contains(t, out.String(), "You were dealt: 7H 8S 2C")
	assert.Contains(t, out.String(), "It is your turn. Top card is 7D.")
}

func TestClientAutoJoinsWithConfiguredName(t *testing.T) {
	fd := newFakeDealer(t)
	cfg := testConfig(fd.url())
	cfg.name = "Bo"

	c := testClient(cfg, io.Discard)

	ctx, cancel := context.WithCancel(context.Background())

	commands := make(chan command)
	done := make(chan error, 1)
	go func() { done <- c.run(ctx, commands) }()

	dealer := fd.accept(t)
	assert.Equal(t, crazyeights.Action{Type: crazyeights.ActionJoin, Username: "Bo"}, readAction(t, dealer))

	// Alone at the table, the dealer only announces us.
	require.NoError(t, dealer.WriteJSON(map[string]any{"action": "player_joined", "player": "Bo"}))
	assert.Eventually(t, func() bool {
		return c.Snapshot().Phase == crazyeights.WaitingForStart
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestClientJoinFailures(t *testing.T) {
	var out bytes.Buffer
	c := testClient(testConfig("ws://127.0.0.1:1"), &out)
	c.dial = func(context.Context, string) (*dealerConn, error) {
		return nil, errors.New("connection refused")
	}

	c.handleCommand(context.Background(), parseCommand("join <script>"))
	assert.Contains(t, out.String(), "Cannot join: "+crazyeights.ErrInvalidName.Error())

	out.Reset()
	c.handleCommand(context.Background(), parseCommand("join Ann"))
	assert.Contains(t, out.String(), "Could not reach the dealer at ws://127.0.0.1:1.")
	assert.Nil(t, c.conn)
	assert.Equal(t, crazyeights.Lobby, c.session.Phase())

	out.Reset()
	c.handleCommand(context.Background(), parseCommand("join"))
	assert.Equal(t, "Usage: join <name>\n", out.String())
}

func TestClientCommandsOutsideGame(t *testing.T) {
	var out bytes.Buffer
	c := testClient(testConfig("ws://127.0.0.1:1"), &out)
	ctx := context.Background()

	tests := []struct {
		line string
		want string
	}{
		{"start", "Cannot start: " + crazyeights.ErrWrongPhase.Error()},
		{"draw", "Cannot draw: " + crazyeights.ErrNotYourTurn.Error()},
		{"play 7H", "Cannot play: " + crazyeights.ErrNotYourTurn.Error()},
		{"play", "Usage: play <card|number> [suit]"},
		{"play ZZ", `Cannot play: unknown card "ZZ"`},
		{"chat hello", "Cannot chat: " + crazyeights.ErrNotConnected.Error()},
		{"list", "Cannot list: " + crazyeights.ErrNotConnected.Error()},
		{"rematch", "Cannot rematch: " + crazyeights.ErrWrongPhase.Error()},
		{"hand", "Your hand is empty."},
		{"status", "Phase: lobby"},
		{"dance", "Unknown command dance."},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			out.Reset()

			quit := c.handleCommand(ctx, parseCommand(tt.line))

			assert.False(t, quit)
			assert.Contains(t, out.String(), tt.want)
		})
	}

	assert.True(t, c.handleCommand(ctx, parseCommand("quit")))
}

func TestClientIgnoresMalformedMessages(t *testing.T) {
	c := testClient(testConfig("ws://127.0.0.1:1"), io.Discard)
	before := c.session.Snapshot()

	c.handleMessage([]byte(`{"action":"deal"`))
	c.handleMessage([]byte(`{"action":"game_started","currentTurn":"Ann","topCard":"7D"}`))

	assert.Equal(t, before, c.session.Snapshot())
}

func cards(codes ...string) []crazyeights.Card {
	out := make([]crazyeights.Card, len(codes))
	for i, code := range codes {
		out[i] = crazyeights.MustParseCard(code)
	}
	return out
}
