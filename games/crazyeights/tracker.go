package crazyeights

// Tracker holds whose turn it is and the active suit override.
type Tracker struct {
	self     string
	holder   string
	active   Suit
	awaiting bool // local play sent, waiting for the next turn event
	wildRank string
}

func NewTracker(self, wildRank string) *Tracker {
	return &Tracker{self: self, wildRank: wildRank}
}

// SetSelf records the local participant's name.
func (t *Tracker) SetSelf(name string) {
	t.self = name
}

// SetTurn sets the turn holder. Any turn event releases the awaiting guard.
func (t *Tracker) SetTurn(holder string) {
	t.holder = holder
	t.awaiting = false
}

// SetDeclaredSuit sets the active suit explicitly. NoSuit clears it.
func (t *Tracker) SetDeclaredSuit(s Suit) {
	t.active = s
}

// OnCardPlayed updates the active suit after a play. A declaration always
// wins; an undeclared wild leaves the suit alone since the dealer is
// expected to supply one; any other card clears the override.
func (t *Tracker) OnCardPlayed(rank string, declared Suit) {
	switch {
	case declared.Valid():
		t.active = declared
	case rank == t.wildRank:
	default:
		t.active = NoSuit
	}
}

// Await blocks local turn until the next turn event.
func (t *Tracker) Await(on bool) {
	t.awaiting = on
}

func (t *Tracker) Holder() string {
	return t.holder
}

func (t *Tracker) ActiveSuit() Suit {
	return t.active
}

func (t *Tracker) IsLocalTurn() bool {
	return t.self != "" && t.holder == t.self && !t.awaiting
}

func (t *Tracker) Reset() {
	t.holder = ""
	t.active = NoSuit
	t.awaiting = false
}
