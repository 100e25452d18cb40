// Package main is the entry point for the tabletop session manager
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rpg-tabletop",
	Short: "Chat-driven tabletop RPG session manager",
	Long: `rpg-tabletop runs character creation, equipment, combat and game-master
administration as chat conversations over a SQLite entity store.

Configuration is read from RPG_TABLETOP_* environment variables.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(consoleCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(npcCmd)
	rootCmd.AddCommand(sessionsCmd)
}
