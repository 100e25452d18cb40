package entities

import "strings"

// ChatKind distinguishes private chats from group chats
type ChatKind string

// Chat kinds
const (
	ChatDirect ChatKind = "direct"
	ChatGroup  ChatKind = "group"
)

// IsValid checks if the chat kind is known
func (k ChatKind) IsValid() bool {
	return k == ChatDirect || k == ChatGroup
}

// Message is one inbound chat event. Button presses arrive as plain Text.
type Message struct {
	SenderID    int64
	ChatKind    ChatKind
	DisplayName string
	Text        string
	// Command is the slash command token without the slash, if any
	Command string
}

// Input returns the trimmed message text
func (m Message) Input() string {
	return strings.TrimSpace(m.Text)
}

// Keyboard is a grid of plain-text buttons
type Keyboard struct {
	Rows [][]string
	// OneTime hides the keyboard after a button is pressed
	OneTime bool
}

// Reply is one outbound message
type Reply struct {
	Text     string
	Keyboard *Keyboard
}

// NewKeyboard lays options out row by row, cols buttons per row
func NewKeyboard(options []string, cols int, oneTime bool) *Keyboard {
	if cols < 1 {
		cols = 1
	}
	kb := &Keyboard{OneTime: oneTime}
	for start := 0; start < len(options); start += cols {
		end := start + cols
		if end > len(options) {
			end = len(options)
		}
		row := make([]string, end-start)
		copy(row, options[start:end])
		kb.Rows = append(kb.Rows, row)
	}
	return kb
}

// Buttons flattens the keyboard in reading order
func (k *Keyboard) Buttons() []string {
	if k == nil {
		return nil
	}
	var out []string
	for _, row := range k.Rows {
		out = append(out, row...)
	}
	return out
}
