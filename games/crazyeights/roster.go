/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package crazyeights

import (
	"regexp"
	"sort"
)

// Palette is the fixed set of participant colours, handed out in order.
var Palette = []string{
	"#e6194b",
	"#3cb44b",
	"#4363d8",
	"#f58231",
	"#911eb4",
	"#42d4f4",
	"#f032e6",
}

// FallbackColor is given to participants once the palette is exhausted.
// It is never returned to the pool.
const FallbackColor = "#808080"

var validName = regexp.MustCompile(`^[A-Za-z0-9 _-]{1,30}$`)

// ValidateName reports whether name is acceptable as a participant name.
func ValidateName(name string) error {
	if !validName.MatchString(name) {
		return ErrInvalidName
	}
	return nil
}

// Participant is a roster member as seen by the local client.
type Participant struct {
	Name      string `json:"name"`
	Color     string `json:"color"`
	JoinOrder int    `json:"join_order"`
	IsSelf    bool   `json:"is_self"`
}

// Roster maps participant names to display attributes. Colour assignment
// depends on the order of adds and removes.
type Roster struct {
	members map[string]*Participant
	free    []string // available palette colours, front is issued next
	seq     int
}

func NewRoster() *Roster {
	r := &Roster{}
	r.Snapshot(nil)
	return r
}

// Snapshot replaces the roster and resets the colour pool.
func (r *Roster) Snapshot(names []string) {
	r.members = make(map[string]*Participant, len(names))
	r.free = append(make([]string, 0, len(Palette)), Palette...)
	r.seq = 0

	for _, name := range names {
		r.Add(name)
	}
}

// Add creates a participant with the next available colour. Adding a
// present name is a no-op.
func (r *Roster) Add(name string) {
	if _, ok := r.members[name]; ok {
		return
	}

	color := FallbackColor
	if len(r.free) > 0 {
		color = r.free[0]
		r.free = r.free[1:]
	}

	r.members[name] = &Participant{
		Name:      name,
		Color:     color,
		JoinOrder: r.seq,
	}
	r.seq++
}

// Remove drops a participant. A palette colour goes back to the front of
// the queue so it is the next one issued.
func (r *Roster) Remove(name string) {
	p, ok := r.members[name]
	if !ok {
		return
	}
	delete(r.members, name)

	if !inPalette(p.Color) {
		return
	}

	r.free = append([]string{p.Color}, r.free...)
}

func inPalette(color string) bool {
	for _, c := range Palette {
		if c == color {
			return true
		}
	}
	return false
}

func (r *Roster) Len() int {
	return len(r.members)
}

func (r *Roster) Has(name string) bool {
	_, ok := r.members[name]
	return ok
}

func (r *Roster) get(name string) (Participant, bool) {
	p, ok := r.members[name]
	if !ok {
		return Participant{}, false
	}
	return *p, true
}

// Participants returns copies of all members in join order, with IsSelf
// derived from self.
func (r *Roster) Participants(self string) []Participant {
	out := make([]Participant, 0, len(r.members))
	for _, p := range r.members {
		cp := *p
		cp.IsSelf = self != "" && cp.Name == self
		out = append(out, cp)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].JoinOrder < out[j].JoinOrder
	})

	return out
}
