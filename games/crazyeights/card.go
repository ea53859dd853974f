/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package crazyeights

import (
	"fmt"
	"strings"
)

// Suit is one of the four French suits. The zero value means "no suit".
type Suit int

const (
	NoSuit Suit = iota
	Hearts
	Diamonds
	Clubs
	Spades
)

var suitCodes = map[byte]Suit{
	'H': Hearts,
	'D': Diamonds,
	'C': Clubs,
	'S': Spades,
}

var suitNames = map[Suit]string{
	Hearts:   "hearts",
	Diamonds: "diamonds",
	Clubs:    "clubs",
	Spades:   "spades",
}

// Suits lists the valid suits in code order.
var Suits = []Suit{Hearts, Diamonds, Clubs, Spades}

// Ranks lists the thirteen rank labels in ascending order.
var Ranks = []string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}

func (s Suit) Valid() bool {
	return s >= Hearts && s <= Spades
}

// Code returns the single-letter suit code used in card codes.
func (s Suit) Code() string {
	switch s {
	case Hearts:
		return "H"
	case Diamonds:
		return "D"
	case Clubs:
		return "C"
	case Spades:
		return "S"
	}
	return ""
}

// String returns the wire name of the suit ("hearts", ...).
func (s Suit) String() string {
	return suitNames[s]
}

func (s Suit) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: invalid suit %d", ErrMalformed, int(s))
	}
	return []byte(s.String()), nil
}

func (s *Suit) UnmarshalText(b []byte) error {
	parsed, err := ParseSuit(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSuit accepts a wire suit name in any case, or a single-letter suit code.
func ParseSuit(name string) (Suit, error) {
	if len(name) == 1 {
		if s, ok := suitCodes[name[0]]; ok {
			return s, nil
		}
	}

	lower := strings.ToLower(name)
	for s, n := range suitNames {
		if n == lower {
			return s, nil
		}
	}

	return NoSuit, fmt.Errorf("%w: unknown suit %q", ErrMalformed, name)
}

// ValidRank reports whether rank is one of the thirteen rank labels.
func ValidRank(rank string) bool {
	for _, r := range Ranks {
		if r == rank {
			return true
		}
	}
	return false
}

// Card is an immutable playing card. Two cards are equal iff rank and suit match.
type Card struct {
	Rank string `json:"rank"`
	Suit Suit   `json:"suit"`
}

// ParseCard decodes a compact card code such as "7H" or "10S". The final
// character is the suit code; everything before it is the rank.
func ParseCard(code string) (Card, error) {
	if len(code) < 2 {
		return Card{}, fmt.Errorf("%w: card code %q too short", ErrMalformed, code)
	}

	suit, ok := suitCodes[code[len(code)-1]]
	if !ok {
		return Card{}, fmt.Errorf("%w: card code %q has unknown suit", ErrMalformed, code)
	}

	rank := code[:len(code)-1]
	if !ValidRank(rank) {
		return Card{}, fmt.Errorf("%w: card code %q has unknown rank", ErrMalformed, code)
	}

	return Card{Rank: rank, Suit: suit}, nil
}

// MustParseCard is ParseCard for literals known to be valid.
func MustParseCard(code string) Card {
	c, err := ParseCard(code)
	if err != nil {
		panic(err)
	}
	return c
}

func parseCards(codes []string) ([]Card, error) {
	cards := make([]Card, 0, len(codes))
	for _, code := range codes {
		c, err := ParseCard(code)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// String formats the card back into its compact code.
func (c Card) String() string {
	return c.Rank + c.Suit.Code()
}

// Deck returns all 52 valid cards, suit-major.
func Deck() []Card {
	deck := make([]Card, 0, len(Suits)*len(Ranks))
	for _, s := range Suits {
		for _, r := range Ranks {
			deck = append(deck, Card{Rank: r, Suit: s})
		}
	}
	return deck
}
