package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/manosbatsis/bw-sometime/internal/api"
	"github.com/manosbatsis/bw-sometime/internal/auth"
	"github.com/manosbatsis/bw-sometime/internal/config"
	"github.com/manosbatsis/bw-sometime/internal/directory"
	"github.com/manosbatsis/bw-sometime/internal/reminder"
	"github.com/manosbatsis/bw-sometime/internal/reminder/postgres"
	"github.com/manosbatsis/bw-sometime/internal/reminder/sqlite"
)

type Server struct {
	http      *http.Server
	logger    zerolog.Logger
	Reminders *reminder.Service
}

func NewServer(cfg *config.Config, logger zerolog.Logger) (*Server, func(), error) {
	var store reminder.Store
	var err error

	switch cfg.Storage.Type {
	case "postgres":
		store, err = postgres.New(cfg.Storage.PostgresURL, logger)
	case "sqlite":
		store, err = sqlite.New(cfg.Storage.SQLitePath, logger)
	default:
		err = errors.New("unknown storage type: " + cfg.Storage.Type)
	}
	if err != nil {
		return nil, nil, err
	}

	dir, err := directory.NewLDAPClient(cfg.LDAP, logger)
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	svc := reminder.NewService(store, cfg.LDAP.IdentifyingAttr, cfg.Reminder, logger)
	authn := auth.NewChain(cfg, dir, logger)
	handlers := api.NewHandlers(cfg, dir, svc, store, logger)
	mux := api.New(cfg.HTTP.BasePath, handlers, authn, logger)

	srv := &Server{
		http: &http.Server{
			Addr:         cfg.HTTP.Addr,
			Handler:      mux,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		logger:    logger,
		Reminders: svc,
	}
	cleanup := func() {
		store.Close()
		dir.Close()
	}
	logger.Info().Msgf("listening on %s (storage=%s)", cfg.HTTP.Addr, cfg.Storage.Type)
	return srv, cleanup, nil
}

func (s *Server) Start() error {
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
