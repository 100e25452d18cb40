package rpgtoolkit

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-tabletop/internal/engine"
	"github.com/KirkDiggler/rpg-tabletop/internal/testutils"
)

func TestCombatantEntity(t *testing.T) {
	npc := engine.NPCCombatant(testutils.NewNPC("Goblin", 8), nil, nil)
	npc.ID = 7

	entity := wrapCombatant(npc)
	require.NotNil(t, entity)
	assert.Equal(t, "7", entity.GetID())
	assert.Equal(t, "npc", entity.GetType())

	player := wrapCombatant(engine.CharacterCombatant(testutils.NewCharacter(testutils.PlayerID, "brom"), nil, nil))
	assert.Equal(t, "42", player.GetID())
	assert.Equal(t, "character", player.GetType())
}

func TestWrapNilCombatant(t *testing.T) {
	assert.Nil(t, wrapCombatant(nil))
}

func TestAuditHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	source := wrapCombatant(engine.CharacterCombatant(testutils.NewCharacter(testutils.PlayerID, "brom"), nil, nil))
	target := wrapCombatant(engine.NPCCombatant(testutils.NewNPC("Goblin", 8), nil, nil))
	event := events.NewGameEvent(EventDamageApplied, source, target)
	event.Context().Set(KeyEffective, 3)

	require.NoError(t, AuditHandler(logger)(context.Background(), event))

	out := buf.String()
	assert.Contains(t, out, "event="+EventDamageApplied)
	assert.Contains(t, out, "source=character:42")
	assert.Contains(t, out, "effective=3")
}

func TestSubscribeAudit(t *testing.T) {
	ids := SubscribeAudit(&stubEventBus{}, slog.Default())
	assert.Len(t, ids, len(EventTypes))
}
