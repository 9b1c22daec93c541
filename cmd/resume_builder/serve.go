package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/events"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/logging"
	"github.com/jonathan/resume-builder/internal/server"
	"github.com/jonathan/resume-builder/internal/store"
)

var (
	servePort   int
	serveMemory bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes the resume REST API.

Resumes and users are stored in PostgreSQL (database.url / DATABASE_URL) unless
--memory is given. Lifecycle events go to AMQP when amqp.url is set, and exports
are archived to S3 when s3.bucket is set.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides server.port)")
	serveCmd.Flags().BoolVar(&serveMemory, "memory", false, "Keep users and resumes in memory instead of PostgreSQL")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}
	if serveMemory {
		cfg.Server.Memory = true
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	jwtCfg, err := config.NewJWTConfig()
	if err != nil {
		return err
	}
	passwords, err := config.NewPasswordConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := server.Deps{JWT: jwtCfg, Passwords: passwords, Logger: log}

	if cfg.Server.Memory {
		log.Warn("using in-memory storage; data is lost on exit")
		deps.Users = server.NewMemoryUsers()
		deps.Resumes = store.NewMemory()
	} else {
		if err := cfg.RequireDatabase(); err != nil {
			return err
		}
		database, err := db.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer database.Close()
		deps.Users = database
		deps.Resumes = database.Resumes()
	}

	if cfg.AMQP.Enabled() {
		publisher, err := events.Dial(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			return err
		}
		defer func() { _ = publisher.Close() }()
		deps.Events = publisher
		log.WithField("exchange", cfg.AMQP.Exchange).Info("publishing resume events")
	}

	exportOpts := []export.Option{export.WithLogger(log)}
	if cfg.S3.Enabled() {
		archiver, err := export.DialS3(ctx, cfg.S3)
		if err != nil {
			return err
		}
		exportOpts = append(exportOpts, export.WithArchiver(archiver))
		log.WithField("bucket", cfg.S3.Bucket).Info("archiving exports")
	}
	deps.Exporter = export.New(exportOpts...)

	srv, err := server.New(cfg.Server, deps)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	log.WithField("addr", cfg.Server.Addr()).Info("starting server")
	return srv.Run(ctx)
}
