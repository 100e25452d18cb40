package rules

import "strings"

// Class is a character class
type Class string

// Classes
const (
	Warrior Class = "warrior"
	Thief   Class = "thief"
	Wizard  Class = "wizard"
	Archer  Class = "archer"
)

// Classes lists every class in menu order
var Classes = []Class{Warrior, Thief, Wizard, Archer}

// String returns the string representation of the class
func (c Class) String() string {
	return string(c)
}

// IsValid checks if the class is one of the four classes
func (c Class) IsValid() bool {
	for _, known := range Classes {
		if c == known {
			return true
		}
	}
	return false
}

// ParseClass matches input case-insensitively against the class table
func ParseClass(input string) (Class, bool) {
	c := Class(strings.ToLower(strings.TrimSpace(input)))
	if !c.IsValid() {
		return "", false
	}
	return c, true
}

// ClassNames returns the class names in menu order
func ClassNames() []string {
	names := make([]string, len(Classes))
	for i, c := range Classes {
		names[i] = c.String()
	}
	return names
}
