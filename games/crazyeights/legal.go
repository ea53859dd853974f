/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package crazyeights

// Rules carries the ruleset parameters the client needs to judge legality.
type Rules struct {
	// WildRank is playable on anything.
	WildRank string
	// DeclareRanks are ranks whose play must carry a declared suit.
	DeclareRanks map[string]bool
	// MinPlayers is the roster size needed to start a game.
	MinPlayers int
}

// DefaultRules is the reference ruleset: eights are wild and require a
// declared suit, and two players are enough to start.
func DefaultRules() Rules {
	return NewRules("8")
}

// NewRules builds a ruleset around a wild rank.
func NewRules(wildRank string) Rules {
	return Rules{
		WildRank:     wildRank,
		DeclareRanks: map[string]bool{wildRank: true},
		MinPlayers:   2,
	}
}

func (r Rules) RequiresDeclaration(rank string) bool {
	return r.DeclareRanks[rank]
}

// Playable reports whether c can go on top given the active suit.
func (r Rules) Playable(c, top Card, active Suit) bool {
	switch {
	case c.Rank == r.WildRank:
		return true
	case c.Rank == top.Rank:
		return true
	case active.Valid():
		return c.Suit == active
	default:
		return c.Suit == top.Suit
	}
}

// LegalMoves returns the cards of hand that may be played, in hand order.
// A nil top card or a turn that is not ours yields no moves.
func LegalMoves(rules Rules, hand []Card, top *Card, active Suit, isLocalTurn bool) []Card {
	if !isLocalTurn || top == nil {
		return nil
	}

	var legal []Card
	for _, c := range hand {
		if rules.Playable(c, *top, active) {
			legal = append(legal, c)
		}
	}

	return legal
}

func containsCard(cards []Card, c Card) bool {
	for _, x := range cards {
		if x == c {
			return true
		}
	}
	return false
}

func removeCard(hand []Card, c Card) ([]Card, bool) {
	for i := range hand {
		if hand[i] == c {
			out := make([]Card, 0, len(hand)-1)
			out = append(out, hand[:i]...)
			return append(out, hand[i+1:]...), true
		}
	}
	return hand, false
}
