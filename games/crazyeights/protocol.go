/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package crazyeights

import (
	"encoding/json"
	"fmt"
)

// ActionType is the value of the "action" tag carried by every message.
type ActionType string

// Inbound tags sent by the dealer.
const (
	ActionPlayerList   ActionType = "player_list"
	ActionPlayerJoined ActionType = "player_joined"
	ActionPlayerLeft   ActionType = "player_left"
	ActionGameStarted  ActionType = "game_started"
	ActionDeal         ActionType = "deal"
	ActionMoveMade     ActionType = "move_made"
	ActionGameUpdate   ActionType = "game_update" // older dealers
	ActionTurnChange   ActionType = "turn_change"
	ActionCardDrawn    ActionType = "card_drawn"
	ActionDrawResult   ActionType = "draw_result" // older dealers
	ActionGameOver     ActionType = "game_over"
	ActionChatMessage  ActionType = "chat_message"
	ActionError        ActionType = "error"
)

// Outbound tags sent by the client.
const (
	ActionJoin        ActionType = "join"
	ActionStartGame   ActionType = "start_game"
	ActionMove        ActionType = "move"
	ActionPlayCard    ActionType = "play_card" // legacy play shape
	ActionDrawCard    ActionType = "draw_card"
	ActionListPlayers ActionType = "list_players"
)

// Event is one decoded inbound message. The concrete types below are the
// only implementations.
type Event interface {
	Action() ActionType
}

// PlayerList replaces the whole roster.
type PlayerList struct {
	Players []string
}

type PlayerJoined struct {
	Player string
}

type PlayerLeft struct {
	Player string
}

type GameStarted struct {
	CurrentTurn string
	TopCard     Card
	CurrentSuit Suit
}

// Deal is the local participant's fresh hand.
type Deal struct {
	Hand []Card
}

// MoveMade is a card play, optionally carrying the next turn holder and
// the authoritative top card.
type MoveMade struct {
	Tag         ActionType
	Player      string
	Card        Card
	Declared    Suit
	NextTurn    string
	TopCard     *Card
	CurrentSuit Suit
}

// TurnChanged moves the turn, optionally with the pile state.
type TurnChanged struct {
	Tag         ActionType
	CurrentTurn string
	TopCard     *Card
	CurrentSuit Suit
}

// CardDrawn announces a draw. Card is only set for our own draws.
type CardDrawn struct {
	Tag         ActionType
	Player      string
	Card        *Card
	CanPlay     *bool
	GameBlocked bool
}

type GameOver struct {
	Winner  string
	Scores  map[string]int
	Blocked bool
	Reason  string
}

type ChatMessage struct {
	Sender  string
	Message string
}

// ErrorNotice is a dealer-side rejection of one of our requests.
type ErrorNotice struct {
	Message string
}

func (PlayerList) Action() ActionType    { return ActionPlayerList }
func (PlayerJoined) Action() ActionType  { return ActionPlayerJoined }
func (PlayerLeft) Action() ActionType    { return ActionPlayerLeft }
func (GameStarted) Action() ActionType   { return ActionGameStarted }
func (Deal) Action() ActionType          { return ActionDeal }
func (e MoveMade) Action() ActionType    { return e.Tag }
func (e TurnChanged) Action() ActionType { return e.Tag }
func (e CardDrawn) Action() ActionType   { return e.Tag }
func (GameOver) Action() ActionType      { return ActionGameOver }
func (ChatMessage) Action() ActionType   { return ActionChatMessage }
func (ErrorNotice) Action() ActionType   { return ActionError }

type wireMove struct {
	Card         *string `json:"card"`
	DeclaredSuit *string `json:"declaredSuit"`
	CurrentSuit  *string `json:"currentSuit"`
}

// wireMessage is the union of every inbound payload. Pointer fields tell a
// missing key apart from a zero value.
type wireMessage struct {
	Action      ActionType     `json:"action"`
	Players     *[]string      `json:"players"`
	Player      *string        `json:"player"`
	CurrentTurn *string        `json:"currentTurn"`
	TopCard     *string        `json:"topCard"`
	CurrentSuit *string        `json:"currentSuit"`
	Hand        *[]string      `json:"hand"`
	Move        *wireMove      `json:"move"`
	Card        *string        `json:"card"`
	CanPlay     *bool          `json:"canPlay"`
	GameBlocked *bool          `json:"gameBlocked"`
	Winner      *string        `json:"winner"`
	Scores      map[string]int `json:"scores"`
	Blocked     *bool          `json:"blocked"`
	Reason      *string        `json:"reason"`
	Sender      *string        `json:"sender"`
	Message     *string        `json:"message"`
}

func missing(tag ActionType, field string) error {
	return fmt.Errorf("%w: %s without %s", ErrMalformed, tag, field)
}

func nonEmpty(tag ActionType, field string, v *string) (string, error) {
	if v == nil || *v == "" {
		return "", missing(tag, field)
	}
	return *v, nil
}

func optionalCard(v *string) (*Card, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	c, err := ParseCard(*v)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func optionalSuit(v *string) (Suit, error) {
	if v == nil || *v == "" {
		return NoSuit, nil
	}
	return ParseSuit(*v)
}

// DecodeEvent parses one inbound message. Any missing required field,
// unknown tag, card or suit yields an error wrapping ErrMalformed.
func DecodeEvent(data []byte) (Event, error) {
	var m wireMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch m.Action {
	case ActionPlayerList:
		if m.Players == nil {
			return nil, missing(m.Action, "players")
		}
		for _, p := range *m.Players {
			if p == "" {
				return nil, fmt.Errorf("%w: %s with empty name", ErrMalformed, m.Action)
			}
		}
		return PlayerList{Players: append([]string(nil), (*m.Players)...)}, nil

	case ActionPlayerJoined, ActionPlayerLeft:
		name, err := nonEmpty(m.Action, "player", m.Player)
		if err != nil {
			return nil, err
		}
		if m.Action == ActionPlayerJoined {
			return PlayerJoined{Player: name}, nil
		}
		return PlayerLeft{Player: name}, nil

	case ActionGameStarted:
		turn, err := nonEmpty(m.Action, "currentTurn", m.CurrentTurn)
		if err != nil {
			return nil, err
		}
		top, err := optionalCard(m.TopCard)
		if err != nil {
			return nil, err
		}
		if top == nil {
			return nil, missing(m.Action, "topCard")
		}
		suit, err := optionalSuit(m.CurrentSuit)
		if err != nil {
			return nil, err
		}
		return GameStarted{CurrentTurn: turn, TopCard: *top, CurrentSuit: suit}, nil

	case ActionDeal:
		if m.Hand == nil {
			return nil, missing(m.Action, "hand")
		}
		hand, err := parseCards(*m.Hand)
		if err != nil {
			return nil, err
		}
		return Deal{Hand: hand}, nil

	case ActionMoveMade, ActionGameUpdate, ActionTurnChange:
		return decodeTurnEvent(m)

	case ActionCardDrawn, ActionDrawResult:
		player, err := nonEmpty(m.Action, "player", m.Player)
		if err != nil {
			return nil, err
		}
		card, err := optionalCard(m.Card)
		if err != nil {
			return nil, err
		}
		return CardDrawn{
			Tag:         m.Action,
			Player:      player,
			Card:        card,
			CanPlay:     m.CanPlay,
			GameBlocked: m.GameBlocked != nil && *m.GameBlocked,
		}, nil

	case ActionGameOver:
		blocked := m.Blocked != nil && *m.Blocked
		winner := ""
		if m.Winner != nil {
			winner = *m.Winner
		}
		if winner == "" && !blocked {
			return nil, missing(m.Action, "winner")
		}
		ev := GameOver{
			Winner:  winner,
			Scores:  make(map[string]int, len(m.Scores)),
			Blocked: blocked,
		}
		for k, v := range m.Scores {
			ev.Scores[k] = v
		}
		if m.Reason != nil {
			ev.Reason = *m.Reason
		}
		return ev, nil

	case ActionChatMessage:
		sender, err := nonEmpty(m.Action, "sender", m.Sender)
		if err != nil {
			return nil, err
		}
		if m.Message == nil {
			return nil, missing(m.Action, "message")
		}
		return ChatMessage{Sender: sender, Message: *m.Message}, nil

	case ActionError:
		if m.Message == nil {
			return nil, missing(m.Action, "message")
		}
		return ErrorNotice{Message: *m.Message}, nil

	case "":
		return nil, fmt.Errorf("%w: no action tag", ErrMalformed)
	}

	return nil, fmt.Errorf("%w: unknown action %q", ErrMalformed, m.Action)
}

// decodeTurnEvent handles the overlapping move_made/game_update/turn_change
// variants: a move with a card is a play, anything else is a turn change.
func decodeTurnEvent(m wireMessage) (Event, error) {
	top, err := optionalCard(m.TopCard)
	if err != nil {
		return nil, err
	}
	suit, err := optionalSuit(m.CurrentSuit)
	if err != nil {
		return nil, err
	}

	if m.Move == nil || m.Move.Card == nil {
		turn, err := nonEmpty(m.Action, "currentTurn", m.CurrentTurn)
		if err != nil {
			return nil, err
		}
		return TurnChanged{Tag: m.Action, CurrentTurn: turn, TopCard: top, CurrentSuit: suit}, nil
	}

	player, err := nonEmpty(m.Action, "player", m.Player)
	if err != nil {
		return nil, err
	}
	card, err := ParseCard(*m.Move.Card)
	if err != nil {
		return nil, err
	}
	declared, err := optionalSuit(m.Move.DeclaredSuit)
	if err != nil {
		return nil, err
	}
	moveSuit, err := optionalSuit(m.Move.CurrentSuit)
	if err != nil {
		return nil, err
	}
	if !suit.Valid() {
		suit = moveSuit
	}

	ev := MoveMade{
		Tag:         m.Action,
		Player:      player,
		Card:        card,
		Declared:    declared,
		TopCard:     top,
		CurrentSuit: suit,
	}
	if m.CurrentTurn != nil {
		ev.NextTurn = *m.CurrentTurn
	}

	return ev, nil
}

// MovePayload is the body of a "move" action.
type MovePayload struct {
	Card         string `json:"card"`
	DeclaredSuit string `json:"declaredSuit,omitempty"`
}

// Action is one outbound request to the dealer.
type Action struct {
	Type     ActionType   `json:"action"`
	Username string       `json:"username,omitempty"`
	Move     *MovePayload `json:"move,omitempty"`
	Card     string       `json:"card,omitempty"`
	Message  string       `json:"message,omitempty"`
}

// Sender delivers outbound actions to the dealer.
type Sender interface {
	Send(Action) error
}
