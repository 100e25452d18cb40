package sessions

import (
	"encoding/json"
	"time"

	"github.com/KirkDiggler/rpg-tabletop/internal/errors"
)

type envelope struct {
	Step      string          `json:"step"`
	Data      json.RawMessage `json:"data"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type decoder func(json.RawMessage) (State, error)

func decodeAs[T State](data json.RawMessage) (State, error) {
	var state T
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return state, nil
}

// Step names are unique across categories
var decoders = map[string]decoder{
	CreationRace{}.Step():            decodeAs[CreationRace],
	CreationClass{}.Step():           decodeAs[CreationClass],
	CreationAllocate{}.Step():        decodeAs[CreationAllocate],
	EquipChooseType{}.Step():         decodeAs[EquipChooseType],
	EquipChooseItem{}.Step():         decodeAs[EquipChooseItem],
	CombatChooseNPC{}.Step():         decodeAs[CombatChooseNPC],
	GMCombatChooseNPC{}.Step():       decodeAs[GMCombatChooseNPC],
	GMCombatActions{}.Step():         decodeAs[GMCombatActions],
	GMCombatChooseAttribute{}.Step(): decodeAs[GMCombatChooseAttribute],
	GMCombatChoosePlayer{}.Step():    decodeAs[GMCombatChoosePlayer],
	GMChoosePlayer{}.Step():          decodeAs[GMChoosePlayer],
	GMChosenPlayer{}.Step():          decodeAs[GMChosenPlayer],
	GMInputDamage{}.Step():           decodeAs[GMInputDamage],
	GMInputHeal{}.Step():             decodeAs[GMInputHeal],
	GMTradeChoose{}.Step():           decodeAs[GMTradeChoose],
	GMChooseStore{}.Step():           decodeAs[GMChooseStore],
}

// Encode serializes a session as a step-tagged envelope
func Encode(session *Session) ([]byte, error) {
	if session == nil || session.State == nil {
		return nil, errors.InvalidArgument("session state is required")
	}

	data, err := json.Marshal(session.State)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal session state")
	}

	out, err := json.Marshal(envelope{
		Step:      session.State.Step(),
		Data:      data,
		UpdatedAt: session.UpdatedAt,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal session")
	}
	return out, nil
}

// Decode restores a session written by Encode
func Decode(userID int64, raw []byte) (*Session, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal session")
	}

	decode, ok := decoders[env.Step]
	if !ok {
		return nil, errors.Internalf("unknown session step %q", env.Step)
	}

	state, err := decode(env.Data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal %s state", env.Step)
	}

	return &Session{UserID: userID, State: state, UpdatedAt: env.UpdatedAt}, nil
}
