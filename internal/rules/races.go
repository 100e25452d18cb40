package rules

import (
	"fmt"
	"strings"
)

// Race is a playable race
type Race string

// Races
const (
	Human Race = "human"
	Elf   Race = "elf"
	Dwarf Race = "dwarf"
	Orc   Race = "orc"
)

// Races lists every race in menu order
var Races = []Race{Human, Elf, Dwarf, Orc}

var raceBonuses = map[Race]AttributeSet{
	Human: {Strength: 1, Dexterity: 1, Intellect: 1},
	Elf:   {Strength: -1, Dexterity: 2, Perception: 2},
	Dwarf: {Strength: 1, Dexterity: -1, Intellect: 1, Stealth: 2},
	Orc:   {Strength: 3, Dexterity: -1, Intellect: -2, Perception: 2},
}

// String returns the string representation of the race
func (r Race) String() string {
	return string(r)
}

// IsValid checks if the race is in the race table
func (r Race) IsValid() bool {
	_, ok := raceBonuses[r]
	return ok
}

// Bonuses returns the race's bonus table with all six attributes present.
// Unknown races get an all-zero table.
func (r Race) Bonuses() AttributeSet {
	return raceBonuses[r].Normalized()
}

// Bonus returns the race bonus for a single attribute
func (r Race) Bonus(a Attribute) int {
	return raceBonuses[r].Get(a)
}

// Label renders the menu label, e.g. "human (strength+1, dexterity+1, intellect+1)"
func (r Race) Label() string {
	bonuses := FormatBonuses(r.Bonuses())
	if bonuses == "" {
		return r.String()
	}
	return fmt.Sprintf("%s (%s)", r, bonuses)
}

// RaceLabels builds the label to race projection shown during creation. It is
// derived from the bonus table on every call.
func RaceLabels() (labels []string, byLabel map[string]Race) {
	byLabel = make(map[string]Race, len(Races))
	for _, r := range Races {
		label := r.Label()
		labels = append(labels, label)
		byLabel[label] = r
	}
	return labels, byLabel
}

// ParseRace accepts either a menu label or a bare race key (case-insensitive)
func ParseRace(input string) (Race, bool) {
	input = strings.TrimSpace(input)
	_, byLabel := RaceLabels()
	if r, ok := byLabel[input]; ok {
		return r, true
	}
	r := Race(strings.ToLower(input))
	if r.IsValid() {
		return r, true
	}
	return "", false
}
