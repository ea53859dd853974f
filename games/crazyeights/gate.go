/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package crazyeights

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// maxChatLength is the longest chat message the client will send, in runes.
const maxChatLength = 500

// connected is true once a join has been sent and not yet torn down.
func (s *Session) connected() bool {
	return s.phase != Lobby || s.awaitingRoster
}

func (s *Session) send(a Action) error {
	if s.sender == nil {
		return fmt.Errorf("send %s: %w", a.Type, ErrNotConnected)
	}
	if err := s.sender.Send(a); err != nil {
		return fmt.Errorf("send %s: %w", a.Type, err)
	}
	s.log.WithField("action", string(a.Type)).Debug("Sent action")
	return nil
}

// RequestJoin asks the dealer to seat us under name. It mints a new session
// ID and moves the session to "awaiting roster".
func (s *Session) RequestJoin(name string) error {
	if s.connected() {
		return ErrAlreadyJoined
	}
	if err := ValidateName(name); err != nil {
		return err
	}

	if err := s.send(Action{Type: ActionJoin, Username: name}); err != nil {
		return err
	}

	s.id = uuid.New()
	s.log = s.base.WithFields(logrus.Fields{"session": s.id.String(), "self": name})
	s.self = name
	s.turn.SetSelf(name)
	s.notice = ""
	s.awaitingRoster = true

	return nil
}

// RequestStart asks the dealer to start a game.
func (s *Session) RequestStart() error {
	if s.phase != WaitingForStart {
		return ErrWrongPhase
	}
	if s.roster.Len() < s.rules.MinPlayers {
		return ErrNotEnoughPlayers
	}

	return s.send(Action{Type: ActionStartGame})
}

// RequestPlay plays card from our hand. Ranks that require a declaration
// must come with a valid suit; for other ranks the suit is ignored. Once
// sent, our turn is held closed until the dealer's next turn event.
func (s *Session) RequestPlay(card Card, declared Suit) error {
	if !s.IsLocalTurn() {
		return ErrNotYourTurn
	}
	if !containsCard(s.hand, card) {
		return ErrCardNotInHand
	}
	if !containsCard(s.legal, card) {
		return ErrIllegalCard
	}

	if s.rules.RequiresDeclaration(card.Rank) {
		if !declared.Valid() {
			return ErrSuitRequired
		}
	} else {
		declared = NoSuit
	}

	a := Action{Type: ActionMove, Move: &MovePayload{Card: card.String()}}
	if declared.Valid() {
		a.Move.DeclaredSuit = declared.String()
	}
	if s.legacyPlay {
		a = Action{Type: ActionPlayCard, Card: card.String(), Username: s.self}
	}

	s.turn.Await(true)
	s.recompute()

	if err := s.send(a); err != nil {
		s.turn.Await(false)
		s.recompute()
		return err
	}

	return nil
}

// RequestDraw asks the dealer for a card.
func (s *Session) RequestDraw() error {
	if !s.IsLocalTurn() {
		return ErrNotYourTurn
	}

	return s.send(Action{Type: ActionDrawCard})
}

// RequestChat sends a chat line. Chat is not gated by turn.
func (s *Session) RequestChat(msg string) error {
	if !s.connected() {
		return ErrNotConnected
	}

	msg = strings.TrimSpace(msg)
	switch {
	case msg == "":
		return ErrEmptyMessage
	case utf8.RuneCountInString(msg) > maxChatLength:
		return ErrMessageTooLong
	}

	return s.send(Action{Type: ActionChatMessage, Message: msg})
}

// RequestList asks the dealer to resend the roster.
func (s *Session) RequestList() error {
	if !s.connected() {
		return ErrNotConnected
	}

	return s.send(Action{Type: ActionListPlayers})
}
