package crazyeights

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEvent(t *testing.T) {
	yes := true

	tests := []struct {
		name string
		raw  string
		want Event
	}{
		{
			name: "player list",
			raw:  `{"action":"player_list","players":["Ann","Bo"]}`,
			want: PlayerList{Players: []string{"Ann", "Bo"}},
		},
		{
			name: "player joined",
			raw:  `{"action":"player_joined","player":"Cy","playerCount":3}`,
			want: PlayerJoined{Player: "Cy"},
		},
		{
			name: "player left",
			raw:  `{"action":"player_left","player":"Cy"}`,
			want: PlayerLeft{Player: "Cy"},
		},
		{
			name: "game started",
			raw:  `{"action":"game_started","currentTurn":"Ann","topCard":"7H"}`,
			want: GameStarted{CurrentTurn: "Ann", TopCard: MustParseCard("7H")},
		},
		{
			name: "deal",
			raw:  `{"action":"deal","hand":["7H","10S"]}`,
			want: Deal{Hand: cards("7H", "10S")},
		},
		{
			name: "move made with declaration and next turn",
			raw:  `{"action":"move_made","player":"Ann","move":{"card":"8S","declaredSuit":"clubs"},"currentTurn":"Bo"}`,
			want: MoveMade{Tag: ActionMoveMade, Player: "Ann", Card: MustParseCard("8S"), Declared: Clubs, NextTurn: "Bo"},
		},
		{
			name: "game update carrying current suit inside the move",
			raw:  `{"action":"game_update","player":"Ann","move":{"card":"8S","currentSuit":"Hearts"},"topCard":"8S"}`,
			want: MoveMade{Tag: ActionGameUpdate, Player: "Ann", Card: MustParseCard("8S"), TopCard: cardPtr("8S"), CurrentSuit: Hearts},
		},
		{
			name: "turn change",
			raw:  `{"action":"turn_change","currentTurn":"Bo"}`,
			want: TurnChanged{Tag: ActionTurnChange, CurrentTurn: "Bo"},
		},
		{
			name: "game update without move is a turn change",
			raw:  `{"action":"game_update","currentTurn":"Bo","topCard":"QD","currentSuit":"diamonds"}`,
			want: TurnChanged{Tag: ActionGameUpdate, CurrentTurn: "Bo", TopCard: cardPtr("QD"), CurrentSuit: Diamonds},
		},
		{
			name: "card drawn by us",
			raw:  `{"action":"card_drawn","player":"Ann","card":"2C","canPlay":true}`,
			want: CardDrawn{Tag: ActionCardDrawn, Player: "Ann", Card: cardPtr("2C"), CanPlay: &yes},
		},
		{
			name: "draw result blocked",
			raw:  `{"action":"draw_result","player":"Bo","gameBlocked":true}`,
			want: CardDrawn{Tag: ActionDrawResult, Player: "Bo", GameBlocked: true},
		},
		{
			name: "game over",
			raw:  `{"action":"game_over","winner":"Ann","scores":{"Ann":0,"Bo":17}}`,
			want: GameOver{Winner: "Ann", Scores: map[string]int{"Ann": 0, "Bo": 17}},
		},
		{
			name: "blocked game over without winner",
			raw:  `{"action":"game_over","blocked":true,"reason":"deck exhausted"}`,
			want: GameOver{Scores: map[string]int{}, Blocked: true, Reason: "deck exhausted"},
		},
		{
			name: "chat",
			raw:  `{"action":"chat_message","sender":"Bo","message":"<b>hi</b>"}`,
			want: ChatMessage{Sender: "Bo", Message: "<b>hi</b>"},
		},
		{
			name: "error",
			raw:  `{"action":"error","message":"Username Ann already taken"}`,
			want: ErrorNotice{Message: "Username Ann already taken"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeEvent([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeEventRejects(t *testing.T) {
	for _, raw := range []string{
		`not json`,
		`{}`,
		`{"action":"shuffle"}`,
		`{"action":"player_list"}`,
		`{"action":"player_list","players":["Ann",""]}`,
		`{"action":"player_joined"}`,
		`{"action":"game_started","currentTurn":"Ann"}`,
		`{"action":"game_started","topCard":"7H"}`,
		`{"action":"game_started","currentTurn":"Ann","topCard":"7Z"}`,
		`{"action":"game_started","currentTurn":"Ann","topCard":"7H","currentSuit":"stars"}`,
		`{"action":"deal"}`,
		`{"action":"deal","hand":["7H","XX"]}`,
		`{"action":"move_made","move":{"card":"7H"}}`,
		`{"action":"move_made","player":"Ann","move":{"card":"7H","declaredSuit":"moons"}}`,
		`{"action":"turn_change"}`,
		`{"action":"card_drawn","card":"7H"}`,
		`{"action":"game_over","scores":{}}`,
		`{"action":"chat_message","message":"hi"}`,
		`{"action":"error"}`,
	} {
		_, err := DecodeEvent([]byte(raw))
		assert.ErrorIs(t, err, ErrMalformed, raw)
	}
}

func TestActionEncoding(t *testing.T) {
	tests := []struct {
		action Action
		want   string
	}{
		{Action{Type: ActionJoin, Username: "Ann"}, `{"action":"join","username":"Ann"}`},
		{Action{Type: ActionStartGame}, `{"action":"start_game"}`},
		{Action{Type: ActionMove, Move: &MovePayload{Card: "8S", DeclaredSuit: "clubs"}}, `{"action":"move","move":{"card":"8S","declaredSuit":"clubs"}}`},
		{Action{Type: ActionMove, Move: &MovePayload{Card: "7H"}}, `{"action":"move","move":{"card":"7H"}}`},
		{Action{Type: ActionPlayCard, Card: "7H", Username: "Ann"}, `{"action":"play_card","username":"Ann","card":"7H"}`},
		{Action{Type: ActionDrawCard}, `{"action":"draw_card"}`},
		{Action{Type: ActionChatMessage, Message: "gg"}, `{"action":"chat_message","message":"gg"}`},
	}

	for _, tt := range tests {
		b, err := json.Marshal(tt.action)
		require.NoError(t, err)
		assert.JSONEq(t, tt.want, string(b))
	}
}
