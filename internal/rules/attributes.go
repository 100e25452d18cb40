// Package rules holds the static game tables: attributes, races, classes and
// item types. Nothing here touches storage.
package rules

import (
	"fmt"
	"strings"
)

// Attribute is one of the six character traits used by checks and bonuses
type Attribute string

// Attributes
const (
	Strength   Attribute = "strength"
	Dexterity  Attribute = "dexterity"
	Intellect  Attribute = "intellect"
	Perception Attribute = "perception"
	Stealth    Attribute = "stealth"
	Charisma   Attribute = "charisma"
)

// Attributes lists every attribute in table order. Creation prompts follow
// this order.
var Attributes = []Attribute{Strength, Dexterity, Intellect, Perception, Stealth, Charisma}

// String returns the string representation of the attribute
func (a Attribute) String() string {
	return string(a)
}

// IsValid checks if the attribute is one of the six canonical attributes
func (a Attribute) IsValid() bool {
	for _, known := range Attributes {
		if a == known {
			return true
		}
	}
	return false
}

// ParseAttribute matches input case-insensitively against the attribute table
func ParseAttribute(input string) (Attribute, bool) {
	a := Attribute(strings.ToLower(strings.TrimSpace(input)))
	if !a.IsValid() {
		return "", false
	}
	return a, true
}

// AttributeNames returns the attribute names in table order, for keyboards
func AttributeNames() []string {
	names := make([]string, len(Attributes))
	for i, a := range Attributes {
		names[i] = a.String()
	}
	return names
}

// AttributeSet maps attributes to scores or bonuses. A missing key reads as 0.
type AttributeSet map[Attribute]int

// NewAttributeSet returns a set with all six attributes present and zeroed
func NewAttributeSet() AttributeSet {
	set := make(AttributeSet, len(Attributes))
	for _, a := range Attributes {
		set[a] = 0
	}
	return set
}

// Get returns the value for a, or 0 when a is absent
func (s AttributeSet) Get(a Attribute) int {
	if s == nil {
		return 0
	}
	return s[a]
}

// Normalized returns a copy holding exactly the six canonical attributes.
// Unknown keys are dropped and missing ones default to 0.
func (s AttributeSet) Normalized() AttributeSet {
	out := NewAttributeSet()
	for _, a := range Attributes {
		out[a] = s.Get(a)
	}
	return out
}

// Sum adds up the canonical attributes
func (s AttributeSet) Sum() int {
	total := 0
	for _, a := range Attributes {
		total += s.Get(a)
	}
	return total
}

// FormatBonuses renders the non-zero entries in table order, e.g.
// "strength+1, dexterity-1". An all-zero set renders as "".
func FormatBonuses(s AttributeSet) string {
	var parts []string
	for _, a := range Attributes {
		v := s.Get(a)
		if v == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s%+d", a, v))
	}
	return strings.Join(parts, ", ")
}
