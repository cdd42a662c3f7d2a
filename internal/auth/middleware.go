package auth

import (
	"context"
	"errors"

	"github.com/manosbatsis/bw-sometime/internal/config"
	"github.com/manosbatsis/bw-sometime/internal/directory"

	"github.com/rs/zerolog"
)

// Principal is the authenticated caller; its account doubles as the owner
// context for owner-scoped delegate searches.
type Principal struct {
	Username string
	Display  string
	Account  *directory.PersonAccount
}

type ctxKey int

const principalKey ctxKey = 1

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func PrincipalFrom(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey).(*Principal)
	return p, ok
}

type Chain struct {
	cfg    *config.Config
	dir    directory.Directory
	logger zerolog.Logger
	basic  *BasicAuth
	bearer *BearerAuth
}

func NewChain(cfg *config.Config, dir directory.Directory, logger zerolog.Logger) *Chain {
	c := &Chain{
		cfg:    cfg,
		dir:    dir,
		logger: logger,
	}
	if cfg.Auth.EnableBasic {
		c.basic = &BasicAuth{Dir: dir, Logger: logger}
	}
	if cfg.Auth.EnableBearer {
		c.bearer = NewBearerAuth(cfg, dir, logger)
	}
	return c
}

func (c *Chain) BasicEnabled() bool  { return c.basic != nil }
func (c *Chain) BearerEnabled() bool { return c.bearer != nil }

func (c *Chain) BasicAuthenticate(ctx context.Context, header string) (*Principal, error) {
	if c.basic == nil {
		return nil, errors.New("basic disabled")
	}
	return c.basic.Authenticate(ctx, header)
}

func (c *Chain) BearerAuthenticate(ctx context.Context, token string) (*Principal, error) {
	if c.bearer == nil {
		return nil, errors.New("bearer disabled")
	}
	return c.bearer.Authenticate(ctx, token)
}

func principalFor(account *directory.PersonAccount) *Principal {
	return &Principal{
		Username: account.Username(),
		Display:  account.DisplayName(),
		Account:  account,
	}
}
