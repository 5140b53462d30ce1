package server

import (
	"context"
	"fmt"

	authpg "github.com/equipsight/equipsight/engine/auth/infra/postgres"
	"github.com/equipsight/equipsight/engine/auth/token"
	authuc "github.com/equipsight/equipsight/engine/auth/uc"
	datasetpg "github.com/equipsight/equipsight/engine/dataset/infra/postgres"
	datasetuc "github.com/equipsight/equipsight/engine/dataset/uc"
	"github.com/equipsight/equipsight/engine/infra/postgres"
	authmw "github.com/equipsight/equipsight/engine/infra/server/middleware/auth"
	"github.com/equipsight/equipsight/engine/infra/server/middleware/ratelimit"
	"github.com/equipsight/equipsight/engine/mailer"
	"github.com/equipsight/equipsight/pkg/config"
	"github.com/equipsight/equipsight/pkg/logger"
)

// Dependencies bundles everything the HTTP layer needs.
type Dependencies struct {
	Store       *postgres.Store
	Tokens      *token.Manager
	Mailer      mailer.Mailer
	AuthUC      *authuc.Factory
	DatasetUC   *datasetuc.Factory
	RateLimiter *ratelimit.Manager

	authManager *authmw.Manager
}

// AuthManager returns the shared bearer token middleware manager.
func (d *Dependencies) AuthManager() *authmw.Manager {
	if d.authManager == nil {
		d.authManager = authmw.NewManager(d.AuthUC, d.Tokens)
	}
	return d.authManager
}

// buildDependencies wires the store, repositories, and use case factories
// from configuration.
func buildDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	store, err := postgres.NewStore(ctx, storeConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	tokens, err := token.NewManager(
		[]byte(cfg.Auth.JWTSecret.Value()),
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.RefreshTokenTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("initializing token manager: %w", err)
	}
	mail, err := buildMailer(ctx)
	if err != nil {
		return nil, fmt.Errorf("initializing mailer: %w", err)
	}
	limits, err := ratelimit.NewManager(rateLimitConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("initializing rate limiter: %w", err)
	}
	authFactory := authuc.NewFactory(
		authpg.NewRepository(store.Pool()),
		mail,
		tokens,
		&authuc.Config{
			OTPLength:      cfg.Auth.OTPLength,
			OTPTTL:         cfg.Auth.OTPTTL,
			BcryptCost:     cfg.Auth.BcryptCost,
			MinPasswordLen: cfg.Auth.MinPasswordLen,
		},
	)
	datasetFactory := datasetuc.NewFactory(datasetpg.NewRepository(store.Pool()), nil)
	return &Dependencies{
		Store:       store,
		Tokens:      tokens,
		Mailer:      mail,
		AuthUC:      authFactory,
		DatasetUC:   datasetFactory,
		RateLimiter: limits,
	}, nil
}

func storeConfig(cfg *config.Config) *postgres.Config {
	return &postgres.Config{
		ConnString:   cfg.Database.ConnString,
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password.Value(),
		DBName:       cfg.Database.DBName,
		SSLMode:      cfg.Database.SSLMode,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	}
}

// buildMailer selects SendGrid when an API key is configured and the log-only
// dev mailer otherwise.
func buildMailer(ctx context.Context) (mailer.Mailer, error) {
	log := logger.FromContext(ctx)
	cfg := config.FromContext(ctx)
	if cfg.Mail.APIKey.Value() == "" {
		log.Warn("No SendGrid API key configured, using the log-only dev mailer")
		return mailer.NewDevMailer(), nil
	}
	return mailer.NewSendGridMailer(&mailer.SendGridConfig{
		APIKey:      cfg.Mail.APIKey.Value(),
		FromAddress: cfg.Mail.FromAddress,
		FromName:    cfg.Mail.FromName,
		BaseURL:     cfg.Mail.BaseURL,
		MaxRetries:  cfg.Mail.MaxRetries,
	})
}

func rateLimitConfig(cfg *config.Config) *ratelimit.Config {
	rl := ratelimit.DefaultConfig()
	if cfg.RateLimit.OTPRate > 0 {
		rl.OTPRate.Limit = cfg.RateLimit.OTPRate
	}
	if cfg.RateLimit.OTPPeriod > 0 {
		rl.OTPRate.Period = cfg.RateLimit.OTPPeriod
	}
	return rl
}
