package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/manosbatsis/bw-sometime/internal/config"
	"github.com/manosbatsis/bw-sometime/internal/httpserver"
	"github.com/manosbatsis/bw-sometime/internal/logging"
	"github.com/manosbatsis/bw-sometime/internal/reminder"

	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel)

	srv, cleanup, err := httpserver.NewServer(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("server init failed")
	}
	defer cleanup()

	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	go srv.Reminders.Run(dispatchCtx, logReminder(logging.Component(logger, "reminder")))

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal().Err(err).Msg("server stopped with error")
		}
	}()

	logger.Info().Msgf("listening on %s", cfg.HTTP.Addr)

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	stopDispatch()
	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
	logger.Info().Msg("bye")
}

// logReminder stands in for a mail or notification gateway: due reminders
// are logged. Deployments plug in their own Deliverer here.
func logReminder(logger zerolog.Logger) reminder.Deliverer {
	return func(ctx context.Context, r *reminder.Reminder) error {
		logger.Info().
			Int64("reminder_id", r.ID).
			Str("recipient", r.Recipient).
			Time("event_start", r.EventStart).
			Msg("reminder due")
		return nil
	}
}
