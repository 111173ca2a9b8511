package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/zulandar/switchboard/internal/db"
	"github.com/zulandar/switchboard/internal/retention"
)

func newPruneCmd() *cobra.Command {
	var (
		configPath string
		olderThan  int
	)

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete conversations with no recent messages",
		Long:  "Removes every conversation whose newest message is older than the cutoff, along with its messages.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrune(cmd, configPath, olderThan)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "switchboard.yaml", "path to Switchboard config file")
	cmd.Flags().IntVar(&olderThan, "older-than", 0, "age cutoff in days (default: retention.days from config)")
	return cmd
}

func runPrune(cmd *cobra.Command, configPath string, olderThan int) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	days := olderThan
	if days <= 0 {
		days = cfg.Retention.Days
	}

	gormDB, err := db.Connect(cfg)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	removed, err := retention.Sweep(gormDB, cutoff)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Removed %d conversations older than %d days\n", removed, days)
	return nil
}
