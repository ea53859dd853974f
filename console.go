/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/Seednode/crazyeights/games/crazyeights"
	"github.com/skip2/go-qrcode"
)

var errUsage = errors.New("usage")

type command struct {
	verb string
	args []string
	rest string
}

var usages = map[string]string{
	"join":    "join <name>",
	"start":   "start",
	"rematch": "rematch",
	"play":    "play <card|number> [suit]",
	"draw":    "draw",
	"chat":    "chat <text>",
	"list":    "list",
	"hand":    "hand",
	"status":  "status",
	"invite":  "invite",
	"help":    "help",
	"quit":    "quit",
}

var helpOrder = []struct {
	verb string
	desc string
}{
	{"join", "connect to the dealer and take a seat"},
	{"start", "ask the dealer to deal a game"},
	{"rematch", "return to the table after a game ends"},
	{"play", "play a card by code (8S) or hand position (2); wild cards take a suit"},
	{"draw", "draw a card from the deck"},
	{"chat", "send a message to the table"},
	{"list", "ask the dealer for the player list"},
	{"hand", "show your hand"},
	{"status", "show the table"},
	{"invite", "print a QR code of the dealer address"},
	{"help", "show this list"},
	{"quit", "leave the table and exit"},
}

func parseCommand(line string) command {
	line = strings.TrimSpace(line)
	if line == "" {
		return command{}
	}

	verb, rest, _ := strings.Cut(line, " ")

	return command{
		verb: strings.ToLower(verb),
		args: strings.Fields(rest),
		rest: strings.TrimSpace(rest),
	}
}

// readCommands feeds parsed lines to commands until r is exhausted or done
// is closed.
func readCommands(r io.Reader, commands chan<- command, done <-chan struct{}) {
	defer close(commands)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case commands <- parseCommand(scanner.Text()):
		case <-done:
			return
		}
	}
}

// parsePlay resolves "play" arguments against the hand. A bare number picks
// a card by its 1-based hand position.
func parsePlay(args []string, hand []crazyeights.Card) (crazyeights.Card, crazyeights.Suit, error) {
	if len(args) < 1 || len(args) > 2 {
		return crazyeights.Card{}, crazyeights.NoSuit, errUsage
	}

	var (
		card crazyeights.Card
		err  error
	)

	if n, convErr := strconv.Atoi(args[0]); convErr == nil {
		if n < 1 || n > len(hand) {
			return crazyeights.Card{}, crazyeights.NoSuit, crazyeights.ErrCardNotInHand
		}
		card = hand[n-1]
	} else {
		card, err = crazyeights.ParseCard(strings.ToUpper(args[0]))
		if err != nil {
			return crazyeights.Card{}, crazyeights.NoSuit, fmt.Errorf("unknown card %q", args[0])
		}
	}

	declared := crazyeights.NoSuit
	if len(args) == 2 {
		declared, err = crazyeights.ParseSuit(args[1])
		if err != nil {
			return crazyeights.Card{}, crazyeights.NoSuit, fmt.Errorf("unknown suit %q", args[1])
		}
	}

	return card, declared, nil
}

// sanitize strips control characters from text that came from the network.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

func cardList(cards []crazyeights.Card) string {
	if len(cards) == 0 {
		return "none"
	}

	codes := make([]string, len(cards))
	for i, c := range cards {
		codes[i] = c.String()
	}

	return strings.Join(codes, " ")
}

// console renders session events and command results as text.
type console struct {
	out io.Writer
}

func newConsole(out io.Writer) *console {
	return &console{out: out}
}

func (c *console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *console) notice(msg string) {
	if msg == "" {
		return
	}
	c.printf("%s\n", msg)
}

func (c *console) reject(verb string, err error) {
	c.printf("Cannot %s: %v\n", verb, err)
}

func (c *console) usage(verb string) {
	c.printf("Usage: %s\n", usages[verb])
}

func (c *console) prompt(snap crazyeights.Snapshot) {
	label := snap.Phase.String()
	if snap.IsLocalTurn {
		label = "your turn"
	}
	c.printf("[%s]> ", label)
}

func (c *console) help() {
	for _, h := range helpOrder {
		c.printf("  %-28s %s\n", usages[h.verb], h.desc)
	}
}

// who names a participant relative to the local player.
func who(name string, snap crazyeights.Snapshot) string {
	if name == snap.Self {
		return "You"
	}
	return sanitize(name)
}

func (c *console) event(ev crazyeights.Event, snap crazyeights.Snapshot) {
	switch e := ev.(type) {
	case crazyeights.PlayerList:
		names := make([]string, len(e.Players))
		for i, n := range e.Players {
			names[i] = sanitize(n)
		}
		c.printf("Players at the table: %s\n", strings.Join(names, ", "))
	case crazyeights.PlayerJoined:
		c.printf("%s joined the table.\n", sanitize(e.Player))
	case crazyeights.PlayerLeft:
		c.printf("%s left the table.\n", sanitize(e.Player))
	case crazyeights.GameStarted:
		c.printf("The game has started. Top card is %s.\n", e.TopCard)
		c.turn(snap)
	case crazyeights.Deal:
		c.printf("You were dealt: %s\n", cardList(e.Hand))
	case crazyeights.MoveMade:
		if e.Declared.Valid() {
			c.printf("%s played %s and declared %s.\n", who(e.Player, snap), e.Card, e.Declared)
		} else {
			c.printf("%s played %s.\n", who(e.Player, snap), e.Card)
		}
		if e.NextTurn != "" {
			c.turn(snap)
		}
	case crazyeights.TurnChanged:
		c.turn(snap)
	case crazyeights.CardDrawn:
		switch {
		case e.Player == snap.Self && e.Card != nil:
			c.printf("You drew %s.\n", e.Card)
		default:
			c.printf("%s drew a card.\n", who(e.Player, snap))
		}
		if e.GameBlocked {
			c.printf("The deck is empty and nobody can play.\n")
		}
	case crazyeights.GameOver:
		c.gameOver(e, snap)
	case crazyeights.ChatMessage:
		c.printf("<%s> %s\n", sanitize(e.Sender), sanitize(e.Message))
	case crazyeights.ErrorNotice:
		c.printf("Dealer: %s\n", sanitize(e.Message))
	}
}

func (c *console) turn(snap crazyeights.Snapshot) {
	if snap.TurnHolder == "" {
		return
	}

	if !snap.IsLocalTurn {
		c.printf("It is %s's turn.\n", sanitize(snap.TurnHolder))

		return
	}

	c.printf("It is your turn. %s\n", pileLine(snap))
	c.printf("Playable: %s\n", cardList(snap.Legal))
}

func pileLine(snap crazyeights.Snapshot) string {
	if snap.TopCard == nil {
		return "The pile is empty."
	}
	if snap.ActiveSuit.Valid() {
		return fmt.Sprintf("Top card is %s, suit is %s.", snap.TopCard, snap.ActiveSuit)
	}
	return fmt.Sprintf("Top card is %s.", snap.TopCard)
}

func (c *console) gameOver(e crazyeights.GameOver, snap crazyeights.Snapshot) {
	switch {
	case e.Blocked && e.Winner == "":
		c.printf("Game over. The game was blocked.\n")
	case e.Winner == snap.Self:
		c.printf("Game over. You won!\n")
	default:
		c.printf("Game over. %s won.\n", sanitize(e.Winner))
	}

	if e.Reason != "" {
		c.printf("Reason: %s\n", sanitize(e.Reason))
	}

	names := make([]string, 0, len(e.Scores))
	for n := range e.Scores {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, n := range names {
		c.printf("  %-30s %d\n", sanitize(n), e.Scores[n])
	}

	c.printf("Type rematch to play again.\n")
}

func (c *console) hand(snap crazyeights.Snapshot) {
	if len(snap.Hand) == 0 {
		c.printf("Your hand is empty.\n")

		return
	}

	legal := make(map[crazyeights.Card]bool, len(snap.Legal))
	for _, l := range snap.Legal {
		legal[l] = true
	}

	var b strings.Builder
	for i, card := range snap.Hand {
		mark := ""
		if legal[card] {
			mark = "*"
		}
		fmt.Fprintf(&b, " %d) %s%s", i+1, card, mark)
	}

	c.printf("Your hand:%s\n", b.String())
}

func (c *console) status(snap crazyeights.Snapshot) {
	c.printf("Phase: %s\n", snap.Phase)

	if snap.Self != "" {
		c.printf("Playing as: %s\n", snap.Self)
	}

	for _, p := range snap.Participants {
		marker := " "
		if p.Name == snap.TurnHolder {
			marker = ">"
		}
		self := ""
		if p.IsSelf {
			self = " (you)"
		}
		c.printf(" %s %s%s\n", marker, sanitize(p.Name), self)
	}

	if snap.Phase == crazyeights.InProgress {
		c.printf("%s\n", pileLine(snap))
		c.printf("Cards in hand: %d\n", len(snap.Hand))
	}

	if snap.LastDraw != nil && snap.LastDraw.GameBlocked {
		c.printf("The game is blocked.\n")
	}

	if snap.Notice != "" {
		c.printf("Last notice: %s\n", sanitize(snap.Notice))
	}
}

func (c *console) invite(server string) error {
	qr, err := qrcode.New(server, qrcode.Medium)
	if err != nil {
		return err
	}

	c.printf("Scan to join %s\n%s", server, qr.ToSmallString(false))

	return nil
}
