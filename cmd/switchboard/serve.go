package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/zulandar/switchboard/internal/db"
	"github.com/zulandar/switchboard/internal/provider"
	"github.com/zulandar/switchboard/internal/retention"
	"github.com/zulandar/switchboard/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Switchboard API server",
		Long:  "Connects to the configured database, migrates the schema, and serves the messaging API until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, port)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "switchboard.yaml", "path to Switchboard config file")
	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string, port int) error {
	cfg, err := loadConfig(configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if port > 0 {
		cfg.Server.Port = port
	}

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	gormDB, err := db.Connect(cfg)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}

	var transport provider.Transport
	if cfg.Provider.URL != "" {
		transport = provider.NewHTTPTransport(cfg.Provider.URL, time.Duration(cfg.Provider.TimeoutSeconds)*time.Second)
	} else {
		log.Warn("provider.url not configured; outbound sends are accepted without a real provider")
		transport = provider.NewMockTransport(200)
	}

	if cfg.Retention.Enabled {
		sched, err := retention.StartScheduler(gormDB, cfg.Retention, log)
		if err != nil {
			return err
		}
		defer sched.Stop()
		log.WithFields(logrus.Fields{
			"days":     cfg.Retention.Days,
			"schedule": cfg.Retention.Schedule,
		}).Info("retention sweep scheduled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Start(ctx, server.StartOpts{
		DB:        gormDB,
		Transport: transport,
		Port:      cfg.Server.Port,
		Log:       log,
	})
}
