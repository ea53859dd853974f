/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package crazyeights

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Phase is the lifecycle stage of the local session.
type Phase int

const (
	Lobby Phase = iota
	WaitingForStart
	InProgress
	Ended
)

func (p Phase) String() string {
	switch p {
	case Lobby:
		return "lobby"
	case WaitingForStart:
		return "waiting"
	case InProgress:
		return "in_progress"
	case Ended:
		return "ended"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// chatHistory bounds the chat log kept for display.
const chatHistory = 50

// ChatLine is one received chat message. Both fields are untrusted text.
type ChatLine struct {
	Sender  string `json:"sender"`
	Message string `json:"message"`
}

// DrawInfo describes the most recent draw announcement.
type DrawInfo struct {
	Player      string `json:"player"`
	Card        *Card  `json:"card,omitempty"`
	CanPlay     *bool  `json:"can_play,omitempty"`
	GameBlocked bool   `json:"game_blocked"`
}

// Options configures a Session.
type Options struct {
	Rules  Rules
	Sender Sender
	Logger logrus.FieldLogger

	// LegacyPlay sends plays as play_card{card, username} instead of move{move}.
	LegacyPlay bool
}

// Session mirrors the dealer's authoritative state for one local
// participant. It is not safe for concurrent use: one goroutine owns it and
// feeds it one event or action at a time.
type Session struct {
	id         uuid.UUID
	rules      Rules
	sender     Sender
	base       logrus.FieldLogger
	log        logrus.FieldLogger
	legacyPlay bool

	phase          Phase
	self           string
	awaitingRoster bool

	roster *Roster
	turn   *Tracker
	hand   []Card
	top    *Card
	legal  []Card

	winner   string
	scores   map[string]int
	blocked  bool
	reason   string
	lastDraw *DrawInfo

	chat   []ChatLine
	notice string
}

func NewSession(opts Options) *Session {
	if opts.Rules.WildRank == "" {
		opts.Rules = DefaultRules()
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	s := &Session{
		rules:      opts.Rules,
		sender:     opts.Sender,
		base:       opts.Logger,
		log:        opts.Logger,
		legacyPlay: opts.LegacyPlay,
		roster:     NewRoster(),
		turn:       NewTracker("", opts.Rules.WildRank),
	}

	return s
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

func (s *Session) Phase() Phase {
	return s.phase
}

func (s *Session) Self() string {
	return s.self
}

// IsLocalTurn is true only while a game is running, the dealer has given
// us the turn, and no play of ours is waiting for acknowledgement.
func (s *Session) IsLocalTurn() bool {
	return s.phase == InProgress && s.turn.IsLocalTurn()
}

// LegalMoves returns the cards the local participant may play right now.
func (s *Session) LegalMoves() []Card {
	return append([]Card(nil), s.legal...)
}

func (s *Session) Hand() []Card {
	return append([]Card(nil), s.hand...)
}

// HandleMessage decodes and applies one raw inbound message, returning the
// event that was applied.
func (s *Session) HandleMessage(data []byte) (Event, error) {
	ev, err := DecodeEvent(data)
	if err != nil {
		s.log.WithError(err).Warn("Ignoring inbound message")
		return nil, err
	}
	if err := s.Apply(ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// Apply updates the mirrored state from one event. The event is checked in
// full before anything changes; on error the previous state is kept.
func (s *Session) Apply(ev Event) error {
	var err error

	switch e := ev.(type) {
	case PlayerList:
		err = s.applyPlayerList(e)
	case PlayerJoined:
		err = s.applyPlayerJoined(e)
	case PlayerLeft:
		s.applyPlayerLeft(e)
	case GameStarted:
		err = s.applyGameStarted(e)
	case Deal:
		err = s.applyDeal(e)
	case MoveMade:
		err = s.applyMove(e)
	case TurnChanged:
		err = s.applyTurn(e)
	case CardDrawn:
		err = s.applyDraw(e)
	case GameOver:
		err = s.applyGameOver(e)
	case ChatMessage:
		s.chat = append(s.chat, ChatLine{Sender: e.Sender, Message: e.Message})
		if len(s.chat) > chatHistory {
			s.chat = append([]ChatLine(nil), s.chat[len(s.chat)-chatHistory:]...)
		}
	case ErrorNotice:
		s.notice = e.Message
		if s.phase == Lobby && s.awaitingRoster {
			s.awaitingRoster = false
		}
	default:
		err = fmt.Errorf("%w: unsupported event %T", ErrMalformed, ev)
	}

	fields := logrus.Fields{"phase": s.phase.String()}
	if ev != nil {
		fields["action"] = string(ev.Action())
	}

	if err != nil {
		s.log.WithFields(fields).WithError(err).Warn("Ignoring event")
		return err
	}

	s.recompute()
	s.log.WithFields(fields).Debug("Applied event")

	return nil
}

func (s *Session) unexpected(ev Event) error {
	return fmt.Errorf("%w: %s during %s", ErrUnexpected, ev.Action(), s.phase)
}

func (s *Session) requireMember(ev Event, name string) error {
	if !s.roster.Has(name) {
		return fmt.Errorf("%w: %s references unknown participant %q", ErrMalformed, ev.Action(), name)
	}
	return nil
}

func (s *Session) applyPlayerList(e PlayerList) error {
	if s.phase == Lobby {
		if !s.awaitingRoster {
			return s.unexpected(e)
		}
		s.roster.Snapshot(e.Players)
		s.awaitingRoster = false
		s.phase = WaitingForStart
		return nil
	}

	s.roster.Snapshot(e.Players)

	return nil
}

func (s *Session) applyPlayerJoined(e PlayerJoined) error {
	if s.phase == Lobby {
		// A lone first player is only told about itself.
		if !s.awaitingRoster || e.Player != s.self {
			return s.unexpected(e)
		}
		s.roster.Snapshot([]string{e.Player})
		s.awaitingRoster = false
		s.phase = WaitingForStart
		return nil
	}

	s.roster.Add(e.Player)

	return nil
}

// applyPlayerLeft drops the participant. A departed turn holder is cleared
// until the dealer names the next one.
func (s *Session) applyPlayerLeft(e PlayerLeft) {
	s.roster.Remove(e.Player)

	if s.phase == InProgress && s.turn.Holder() == e.Player {
		s.turn.SetTurn("")
	}
}

func (s *Session) applyGameStarted(e GameStarted) error {
	if s.phase != WaitingForStart && s.phase != Ended {
		return s.unexpected(e)
	}
	if err := s.requireMember(e, e.CurrentTurn); err != nil {
		return err
	}

	s.resetGame()

	top := e.TopCard
	s.top = &top
	s.turn.SetTurn(e.CurrentTurn)
	s.turn.SetDeclaredSuit(e.CurrentSuit)
	s.phase = InProgress

	return nil
}

func (s *Session) applyDeal(e Deal) error {
	if s.phase != InProgress {
		return s.unexpected(e)
	}

	s.hand = append([]Card(nil), e.Hand...)

	return nil
}

func (s *Session) applyMove(e MoveMade) error {
	if s.phase != InProgress {
		return s.unexpected(e)
	}
	if err := s.requireMember(e, e.Player); err != nil {
		return err
	}
	if e.NextTurn != "" {
		if err := s.requireMember(e, e.NextTurn); err != nil {
			return err
		}
	}

	top := e.Card
	if e.TopCard != nil {
		top = *e.TopCard
	}
	declared := e.Declared
	if !declared.Valid() {
		declared = e.CurrentSuit
	}

	s.top = &top
	s.turn.OnCardPlayed(e.Card.Rank, declared)

	if e.Player == s.self {
		hand, ok := removeCard(s.hand, e.Card)
		if !ok {
			s.log.WithField("card", e.Card.String()).Warn("Dealer reports a play of a card not in hand")
		}
		s.hand = hand
		s.turn.Await(true)
	}

	if e.NextTurn != "" {
		s.turn.SetTurn(e.NextTurn)
	}

	return nil
}

func (s *Session) applyTurn(e TurnChanged) error {
	if s.phase != InProgress {
		return s.unexpected(e)
	}
	if err := s.requireMember(e, e.CurrentTurn); err != nil {
		return err
	}

	s.turn.SetTurn(e.CurrentTurn)
	if e.TopCard != nil {
		top := *e.TopCard
		s.top = &top
	}
	if e.CurrentSuit.Valid() {
		s.turn.SetDeclaredSuit(e.CurrentSuit)
	}

	return nil
}

func (s *Session) applyDraw(e CardDrawn) error {
	if s.phase != InProgress {
		return s.unexpected(e)
	}
	if err := s.requireMember(e, e.Player); err != nil {
		return err
	}

	info := &DrawInfo{
		Player:      e.Player,
		CanPlay:     e.CanPlay,
		GameBlocked: e.GameBlocked,
	}

	if e.Player == s.self && e.Card != nil {
		c := *e.Card
		info.Card = &c
		s.hand = append(s.hand, c)
	}

	s.lastDraw = info

	return nil
}

func (s *Session) applyGameOver(e GameOver) error {
	if s.phase != InProgress {
		return s.unexpected(e)
	}

	s.phase = Ended
	s.top = nil
	s.turn.Reset()
	s.winner = e.Winner
	s.blocked = e.Blocked
	s.reason = e.Reason
	s.scores = make(map[string]int, len(e.Scores))
	for k, v := range e.Scores {
		s.scores[k] = v
	}

	return nil
}

// resetGame clears everything that belongs to a single game.
func (s *Session) resetGame() {
	s.hand = nil
	s.top = nil
	s.legal = nil
	s.turn.Reset()
	s.winner = ""
	s.scores = nil
	s.blocked = false
	s.reason = ""
	s.lastDraw = nil
}

func (s *Session) recompute() {
	s.legal = LegalMoves(s.rules, s.hand, s.top, s.turn.ActiveSuit(), s.IsLocalTurn())
}

// Rematch moves a finished session back to waiting so a new game can be
// requested. A game_started received while Ended does the same implicitly.
func (s *Session) Rematch() error {
	if s.phase != Ended {
		return ErrWrongPhase
	}

	s.resetGame()
	s.phase = WaitingForStart
	s.recompute()

	return nil
}

// Disconnect handles loss of the dealer connection. Everything learned from
// the dealer is dropped and the session goes back to the lobby.
func (s *Session) Disconnect() {
	s.log.WithField("phase", s.phase.String()).Info("Connection to dealer lost")

	s.resetGame()
	s.roster.Snapshot(nil)
	s.phase = Lobby
	s.awaitingRoster = false
	s.notice = "Disconnected from the dealer. Use join to reconnect."
	s.recompute()
}

// Snapshot is an immutable copy of the mirrored state.
type Snapshot struct {
	SessionID      string         `json:"session_id,omitempty"`
	Phase          Phase          `json:"phase"`
	Self           string         `json:"self,omitempty"`
	AwaitingRoster bool           `json:"awaiting_roster"`
	Participants   []Participant  `json:"participants"`
	TurnHolder     string         `json:"turn_holder,omitempty"`
	IsLocalTurn    bool           `json:"is_local_turn"`
	TopCard        *Card          `json:"top_card,omitempty"`
	ActiveSuit     Suit           `json:"active_suit,omitempty"`
	Hand           []Card         `json:"hand"`
	Legal          []Card         `json:"legal"`
	Winner         string         `json:"winner,omitempty"`
	Scores         map[string]int `json:"scores,omitempty"`
	Blocked        bool           `json:"blocked,omitempty"`
	Reason         string         `json:"reason,omitempty"`
	LastDraw       *DrawInfo      `json:"last_draw,omitempty"`
	Chat           []ChatLine     `json:"chat"`
	Notice         string         `json:"notice,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Phase:          s.phase,
		Self:           s.self,
		AwaitingRoster: s.awaitingRoster,
		Participants:   s.roster.Participants(s.self),
		TurnHolder:     s.turn.Holder(),
		IsLocalTurn:    s.IsLocalTurn(),
		ActiveSuit:     s.turn.ActiveSuit(),
		Hand:           s.Hand(),
		Legal:          s.LegalMoves(),
		Winner:         s.winner,
		Blocked:        s.blocked,
		Reason:         s.reason,
		Chat:           append([]ChatLine(nil), s.chat...),
		Notice:         s.notice,
	}

	if s.id != uuid.Nil {
		snap.SessionID = s.id.String()
	}
	if s.top != nil {
		top := *s.top
		snap.TopCard = &top
	}
	if s.scores != nil {
		snap.Scores = make(map[string]int, len(s.scores))
		for k, v := range s.scores {
			snap.Scores[k] = v
		}
	}
	if s.lastDraw != nil {
		d := *s.lastDraw
		snap.LastDraw = &d
	}

	return snap
}
