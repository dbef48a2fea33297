package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/ladle-dev/ladle/db"
	"github.com/ladle-dev/ladle/internal/auth"
	"github.com/ladle-dev/ladle/internal/config"
	"github.com/ladle-dev/ladle/internal/handlers"
	"github.com/ladle-dev/ladle/internal/logs"
	"github.com/ladle-dev/ladle/internal/router"
	"github.com/ladle-dev/ladle/internal/services"
	"github.com/ladle-dev/ladle/internal/sweeper"
)

func main() {
	// Optional in production; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()

	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log := logs.New(cfg.Logging.Level, cfg.Logging.Format)

	conn, err := db.Connect(cfg.Database.Driver, cfg.Database.DSN)

	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.Migrate(conn); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	tokens := auth.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL)
	hub := handlers.NewHub(log)
	notifier := services.NewNotifier(cfg.Webhook.URL, log)
	h := handlers.New(conn, tokens, hub, log)

	if cfg.Sweeper.Enabled {
		sw := sweeper.New(conn, hub, notifier, log, cfg.Sweeper.NoShowGrace)

		if err := sw.Start(cfg.Sweeper.Interval); err != nil {
			log.Fatalf("Failed to start sweeper: %v", err)
		}

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

		go func() {
			<-stop
			sw.Stop()
			os.Exit(0)
		}()
	}

	r := router.New(conn, tokens, h, cfg.CORS.Origins)

	addr := cfg.Server.Host + ":" + cfg.Server.Port

	log.WithField("addr", addr).Info("starting server")

	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
