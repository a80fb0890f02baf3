package main

import (
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	"github.com/himanshinagori/buddyboard/internal/notify"
	"github.com/himanshinagori/buddyboard/pkg/config"
	"github.com/himanshinagori/buddyboard/pkg/mailer"
	"github.com/himanshinagori/buddyboard/pkg/queue"
	"github.com/himanshinagori/buddyboard/pkg/util"
	"github.com/joho/godotenv"
)

// The worker drains the mail queue. It only runs when the server enqueues
// instead of sending inline (EMAIL_ASYNC=true).
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := util.NewLogger(cfg.Server.Env)
	slog.SetDefault(logger)

	logger.Info("starting BuddyBoard worker", "redis", cfg.Redis.Addr())

	smtpMailer, err := mailer.New(&cfg.SMTP)
	if err != nil {
		logger.Error("failed to create mailer", "error", err)
		os.Exit(1)
	}
	notifier := notify.New(smtpMailer, nil, logger)

	srv := queue.NewServer(&cfg.Redis, 10)

	mux := asynq.NewServeMux()
	notifier.RegisterHandlers(mux)

	if err := srv.Run(mux); err != nil {
		logger.Error("worker stopped", "error", err)
		os.Exit(1)
	}
}
