package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/chimerakang/authgate"
	"github.com/chimerakang/authgate/audit"
	"github.com/chimerakang/authgate/character"
	"github.com/chimerakang/authgate/config"
	"github.com/chimerakang/authgate/metrics"
	"github.com/chimerakang/authgate/revocation"
	"github.com/chimerakang/authgate/server"
	"github.com/chimerakang/authgate/token"
	"github.com/chimerakang/authgate/user"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := run(logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	tokens, err := token.NewService([]byte(cfg.JWTSecret),
		token.WithAccessTTL(cfg.AccessTokenTTL),
		token.WithRefreshTTL(cfg.RefreshTokenTTL),
	)
	if err != nil {
		return err
	}

	revoked := revocation.NewRegistry()

	gw, err := authgate.New(
		authgate.WithLogger(logger),
		authgate.WithTokenService(tokens),
		authgate.WithCredentialStore(user.NewStore()),
		authgate.WithRevocationRegistry(revoked),
		authgate.WithCharacterStore(character.NewStore()),
	)
	if err != nil {
		return err
	}
	defer gw.Close()

	m := metrics.New(cfg.MetricsEnabled)
	m.TrackRevokedTokens(revoked.Len)

	auditor := audit.New(0, audit.WithSlogHandler(logger))
	defer auditor.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, gw,
		server.WithMetrics(m),
		server.WithAuditLogger(auditor),
	)
	return srv.Run(ctx)
}
