package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-tabletop/internal/config"
	"github.com/KirkDiggler/rpg-tabletop/internal/errors"
	redisclient "github.com/KirkDiggler/rpg-tabletop/internal/redis"
	"github.com/KirkDiggler/rpg-tabletop/internal/sessions"
)

var sweepDelete bool

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Inspect the pending chat sessions",
}

var sessionsSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Find Redis sessions that no longer decode",
	Long: `Scan every session key in Redis and report the ones that cannot be
resumed, such as steps written by an older build. Pass --delete to remove
them; the affected users simply start their flow again.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		slog.SetDefault(newLogger(cfg, os.Stderr))

		if cfg.SessionBackend != config.SessionBackendRedis {
			return errors.FailedPrecondition("sweep needs the redis session backend")
		}

		client, err := redisclient.Connect(cmd.Context(), cfg.RedisAddr, nil)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()

		out, err := sessions.Sweep(cmd.Context(), &sessions.SweepInput{Client: client, Delete: sweepDelete})
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		for _, key := range out.Corrupt {
			fmt.Fprintf(w, "corrupt: %s\n", key)
		}
		fmt.Fprintf(w, "checked %d keys, %d corrupt, %d deleted\n", out.Checked, len(out.Corrupt), out.Deleted)
		return nil
	},
}

func init() {
	sessionsSweepCmd.Flags().BoolVar(&sweepDelete, "delete", false, "delete the corrupt keys")
	sessionsCmd.AddCommand(sessionsSweepCmd)
}
