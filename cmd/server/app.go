package main

import (
	"context"
	"database/sql"
	"io"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-tabletop/internal/config"
	"github.com/KirkDiggler/rpg-tabletop/internal/engine/rpgtoolkit"
	"github.com/KirkDiggler/rpg-tabletop/internal/errors"
	"github.com/KirkDiggler/rpg-tabletop/internal/handlers/chat"
	"github.com/KirkDiggler/rpg-tabletop/internal/orchestrators/commands"
	"github.com/KirkDiggler/rpg-tabletop/internal/orchestrators/flows"
	"github.com/KirkDiggler/rpg-tabletop/internal/orchestrators/menu"
	"github.com/KirkDiggler/rpg-tabletop/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-tabletop/internal/pkg/idgen"
	redisclient "github.com/KirkDiggler/rpg-tabletop/internal/redis"
	"github.com/KirkDiggler/rpg-tabletop/internal/repositories/characters"
	"github.com/KirkDiggler/rpg-tabletop/internal/repositories/flags"
	"github.com/KirkDiggler/rpg-tabletop/internal/repositories/items"
	"github.com/KirkDiggler/rpg-tabletop/internal/repositories/npcs"
	"github.com/KirkDiggler/rpg-tabletop/internal/repositories/stores"
	"github.com/KirkDiggler/rpg-tabletop/internal/seed"
	"github.com/KirkDiggler/rpg-tabletop/internal/sessions"
	"github.com/KirkDiggler/rpg-tabletop/internal/storage/sqlite"
)

// repos groups the entity repositories over one database
type repos struct {
	db         *sql.DB
	characters characters.Repository
	items      items.Repository
	npcs       npcs.Repository
	stores     stores.Repository
	flags      flags.Repository
}

func (r *repos) Close() error {
	return r.db.Close()
}

func loadConfig() (*config.Config, error) {
	return config.Load(nil)
}

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level()}
	if cfg.LogFormat == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func openRepos(cfg *config.Config) (*repos, error) {
	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	r := &repos{db: db}
	if r.characters, err = characters.NewSQLite(&characters.Config{DB: db}); err != nil {
		return nil, errors.Wrap(err, "failed to create character repository")
	}
	if r.items, err = items.NewSQLite(&items.Config{DB: db}); err != nil {
		return nil, errors.Wrap(err, "failed to create item repository")
	}
	if r.npcs, err = npcs.NewSQLite(&npcs.Config{DB: db}); err != nil {
		return nil, errors.Wrap(err, "failed to create npc repository")
	}
	if r.stores, err = stores.NewSQLite(&stores.Config{DB: db}); err != nil {
		return nil, errors.Wrap(err, "failed to create store repository")
	}
	if r.flags, err = flags.NewSQLite(&flags.Config{DB: db}); err != nil {
		return nil, errors.Wrap(err, "failed to create flag repository")
	}
	return r, nil
}

func runSeed(ctx context.Context, r *repos) (*seed.Result, error) {
	seeder, err := seed.New(&seed.Config{Items: r.items, Stores: r.stores, Flags: r.flags})
	if err != nil {
		return nil, err
	}
	return seeder.Run(ctx)
}

// openSessions returns the configured session store and a closer for it
func openSessions(ctx context.Context, cfg *config.Config) (sessions.Store, func() error, error) {
	if cfg.SessionBackend == config.SessionBackendMemory {
		store, err := sessions.NewMemory(&sessions.MemoryConfig{Clock: clock.New()})
		if err != nil {
			return nil, nil, err
		}
		return store, func() error { return nil }, nil
	}

	client, err := redisclient.Connect(ctx, cfg.RedisAddr, nil)
	if err != nil {
		return nil, nil, err
	}
	store, err := sessions.NewRedis(&sessions.RedisConfig{Client: client, Clock: clock.New()})
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return store, client.Close, nil
}

// newHandler wires the engine, the orchestrators and the dispatcher
func newHandler(cfg *config.Config, r *repos, store sessions.Store, logger *slog.Logger) (*chat.Handler, error) {
	bus := events.NewBus()
	rpgtoolkit.SubscribeAudit(bus, logger)

	eng, err := rpgtoolkit.NewAdapter(&rpgtoolkit.AdapterConfig{
		EventBus:   bus,
		DiceRoller: dice.DefaultRoller,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create engine")
	}

	builder, err := menu.New(&menu.Config{
		Characters: r.characters,
		Flags:      r.flags,
		AdminID:    cfg.AdminID,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create menu")
	}

	orchestrator, err := flows.New(&flows.Config{
		Characters: r.characters,
		Items:      r.items,
		NPCs:       r.npcs,
		Stores:     r.stores,
		Sessions:   store,
		Engine:     eng,
		Menu:       builder,
		StartGold:  cfg.StartGold,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create flows")
	}

	cmds, err := commands.New(&commands.Config{
		Characters: r.characters,
		Items:      r.items,
		Stores:     r.stores,
		Flags:      r.flags,
		Engine:     eng,
		Menu:       builder,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create commands")
	}

	return chat.NewHandler(&chat.HandlerConfig{
		Flows:    orchestrator,
		Commands: cmds,
		Menu:     builder,
		IDs:      idgen.NewUUID("turn"),
	})
}
