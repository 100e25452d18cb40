package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill an empty database with the default stores and item catalog",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		slog.SetDefault(newLogger(cfg, os.Stderr))

		r, err := openRepos(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = r.Close() }()

		res, err := runSeed(cmd.Context(), r)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "stores: %d, items: %d, shop flag created: %t\n",
			res.Stores, res.Items, res.ShopFlag)
		return nil
	},
}
