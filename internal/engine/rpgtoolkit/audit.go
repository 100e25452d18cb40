package rpgtoolkit

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/events"
)

var auditKeys = []string{KeyAttribute, KeyRoll, KeyTotal, KeyRaw, KeyArmor, KeyEffective, KeyHP}

// AuditHandler logs each tabletop event with its source, target and payload
func AuditHandler(logger *slog.Logger) events.HandlerFunc {
	return func(ctx context.Context, event events.Event) error {
		attrs := []any{"event", event.Type()}
		if source := event.Source(); source != nil {
			attrs = append(attrs, "source", source.GetType()+":"+source.GetID())
		}
		if target := event.Target(); target != nil {
			attrs = append(attrs, "target", target.GetType()+":"+target.GetID())
		}
		for _, key := range auditKeys {
			if value, ok := event.Context().Get(key); ok {
				attrs = append(attrs, key, value)
			}
		}

		logger.InfoContext(ctx, "tabletop event", attrs...)
		return nil
	}
}

// SubscribeAudit registers AuditHandler for every adapter event and returns
// the subscription ids
func SubscribeAudit(bus events.EventBus, logger *slog.Logger) []string {
	ids := make([]string, 0, len(EventTypes))
	for _, eventType := range EventTypes {
		ids = append(ids, bus.SubscribeFunc(eventType, 0, AuditHandler(logger)))
	}
	return ids
}
