package crazyeights

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormatRoundTrip(t *testing.T) {
	deck := Deck()
	require.Len(t, deck, 52)

	for _, c := range deck {
		parsed, err := ParseCard(c.String())
		require.NoError(t, err, "card %s", c)
		assert.Equal(t, c, parsed)
	}
}

func TestParseCard(t *testing.T) {
	tests := []struct {
		code string
		want Card
	}{
		{"7H", Card{Rank: "7", Suit: Hearts}},
		{"10S", Card{Rank: "10", Suit: Spades}},
		{"JD", Card{Rank: "J", Suit: Diamonds}},
		{"AC", Card{Rank: "A", Suit: Clubs}},
	}

	for _, tt := range tests {
		got, err := ParseCard(tt.code)
		require.NoError(t, err, tt.code)
		assert.Equal(t, tt.want, got, tt.code)
		assert.Equal(t, tt.code, got.String())
	}
}

func TestParseCardRejects(t *testing.T) {
	for _, code := range []string{"", "H", "7", "7h", "7X", "1H", "jH", "11C", "8 S"} {
		_, err := ParseCard(code)
		assert.True(t, errors.Is(err, ErrMalformed), "code %q should be rejected", code)
	}
}

func TestParseSuit(t *testing.T) {
	for in, want := range map[string]Suit{
		"hearts":   Hearts,
		"Diamonds": Diamonds,
		"CLUBS":    Clubs,
		"spades":   Spades,
		"S":        Spades,
	} {
		got, err := ParseSuit(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "stars", "s", "heart"} {
		_, err := ParseSuit(in)
		assert.ErrorIs(t, err, ErrMalformed, in)
	}
}

func TestSuitText(t *testing.T) {
	b, err := Clubs.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "clubs", string(b))

	_, err = NoSuit.MarshalText()
	assert.ErrorIs(t, err, ErrMalformed)

	var s Suit
	require.NoError(t, s.UnmarshalText([]byte("Hearts")))
	assert.Equal(t, Hearts, s)
}

func TestValidRank(t *testing.T) {
	for _, r := range Ranks {
		assert.True(t, ValidRank(r), r)
	}
	for _, r := range []string{"", "1", "11", "j", "T"} {
		assert.False(t, ValidRank(r), r)
	}
}
