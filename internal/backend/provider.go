package backend

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"realestate/internal/config"
	"realestate/internal/db"
)

// Mock reasons.
const (
	ReasonForced      = "forced by configuration"
	ReasonMissingKeys = "missing configuration"
	ReasonOpenFailed  = "live backend construction failed"
)

// Opener constructs a live backend for cfg.
type Opener func(ctx context.Context, cfg config.BackendConfig) (Backend, error)

// Open constructs the live backend for the configured driver.
func Open(ctx context.Context, cfg config.BackendConfig) (Backend, error) {
	if cfg.ProbeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ProbeTimeout)
		defer cancel()
	}

	switch cfg.Driver {
	case config.DriverFirestore:
		client, err := db.NewFirestore(ctx, cfg.Firebase)
		if err != nil {
			return nil, err
		}
		return &Firestore{Client: client}, nil
	case config.DriverMySQL:
		gormDB, err := db.NewMySQL(ctx, cfg.MySQLDSN)
		if err != nil {
			return nil, err
		}
		return &SQL{DB: gormDB}, nil
	default:
		return nil, fmt.Errorf("unknown backend driver %q", cfg.Driver)
	}
}

// Provider resolves the backend at most once and then returns the same variant.
type Provider struct {
	cfg    config.BackendConfig
	open   Opener
	logger *slog.Logger

	mu       sync.Mutex
	resolved Backend
}

// NewProvider creates a provider. A nil opener uses Open.
func NewProvider(cfg config.BackendConfig, open Opener, logger *slog.Logger) *Provider {
	if open == nil {
		open = Open
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{cfg: cfg, open: open, logger: logger}
}

// Resolve returns the process backend, deciding it on first use.
// It never fails: every failure path ends in a *Mock.
func (p *Provider) Resolve(ctx context.Context) Backend {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.resolved == nil {
		p.resolved = p.resolve(ctx)
	}
	return p.resolved
}

func (p *Provider) resolve(ctx context.Context) Backend {
	if p.cfg.ForceMock {
		p.logger.Info("using mock backend", "reason", ReasonForced)
		return &Mock{Reason: ReasonForced}
	}

	if missing := p.cfg.MissingKeys(); len(missing) > 0 {
		p.logger.Warn("backend configuration incomplete, falling back to mock",
			"driver", p.cfg.Driver,
			"missing", strings.Join(missing, ","),
		)
		return &Mock{Reason: ReasonMissingKeys + ": " + strings.Join(missing, ", ")}
	}

	b, err := p.open(ctx, p.cfg)
	if err != nil {
		p.logger.Error("live backend unavailable, falling back to mock",
			"driver", p.cfg.Driver,
			"error", err,
		)
		return &Mock{Reason: ReasonOpenFailed}
	}
	if b == nil {
		p.logger.Error("live backend opener returned no handle, falling back to mock", "driver", p.cfg.Driver)
		return &Mock{Reason: ReasonOpenFailed}
	}

	p.logger.Info("live backend initialized", "backend", b.Name())
	return b
}

// Reset closes any live handle and forgets the resolution. For test teardown only.
func (p *Provider) Reset() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.resolved == nil {
		return nil
	}
	err := p.resolved.Close()
	p.resolved = nil
	return err
}
