package entities

// Store is a shop front. At most one store is active at a time.
type Store struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// Flag is a named process-wide integer toggle
type Flag struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Enabled reads the flag as a boolean
func (f *Flag) Enabled() bool {
	return f != nil && f.Value != 0
}
