// Package telegram adapts the MTProto client into the operations the transfer
// orchestrator needs: membership gate, role classification, admin revocation,
// creator handoff and escrow exit. Every operation opens its own session and
// releases it on all exit paths; nothing is pooled across steps.
package telegram

import (
	"context"
	"time"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/tg"
	"go.uber.org/zap"

	apperrors "channel-escrow-backend/internal/common/errors"
)

// Config carries the escrow account credentials and connection bounds.
type Config struct {
	AppID   int
	AppHash string

	// EscrowSession is the Telethon-format string session of the escrow
	// account.
	EscrowSession string

	// EscrowPassword is the account's two-factor password, consumed only by
	// TransferCreator.
	EscrowPassword string

	ConnectRetries int
	RetryInterval  time.Duration

	// AdminPageLimit bounds the single admin page fetched by
	// RevokeOtherAdmins.
	AdminPageLimit int

	Logger *zap.Logger
}

type Client struct {
	appID          int
	appHash        string
	sessionData    *session.Data
	password       string
	retries        int
	retryInterval  time.Duration
	adminPageLimit int
	logger         *zap.Logger
}

// NewClient decodes the escrow session credential once; the decoded session
// seeds a fresh in-memory storage for every operation.
func NewClient(cfg Config) (*Client, error) {
	data, err := session.TelethonSession(cfg.EscrowSession)
	if err != nil {
		return nil, apperrors.NewConnectionError("invalid escrow session credential", err)
	}

	if cfg.ConnectRetries <= 0 {
		cfg.ConnectRetries = 3
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 2 * time.Second
	}
	if cfg.AdminPageLimit <= 0 {
		cfg.AdminPageLimit = 200
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Client{
		appID:          cfg.AppID,
		appHash:        cfg.AppHash,
		sessionData:    data,
		password:       cfg.EscrowPassword,
		retries:        cfg.ConnectRetries,
		retryInterval:  cfg.RetryInterval,
		adminPageLimit: cfg.AdminPageLimit,
		logger:         cfg.Logger,
	}, nil
}

// withSession opens one authenticated connection, runs work with it and
// guarantees teardown when work returns, errors or the context is canceled.
func (c *Client) withSession(ctx context.Context, work func(ctx context.Context, api *tg.Client, self *tg.User) error) error {
	storage := new(session.StorageMemory)
	if err := (&session.Loader{Storage: storage}).Save(ctx, c.sessionData); err != nil {
		return apperrors.NewConnectionError("failed to seed session storage", err)
	}

	client := telegram.NewClient(c.appID, c.appHash, telegram.Options{
		SessionStorage: storage,
		RetryInterval:  c.retryInterval,
		MaxRetries:     c.retries,
		Logger:         c.logger,
	})

	err := client.Run(ctx, func(ctx context.Context) error {
		status, err := client.Auth().Status(ctx)
		if err != nil {
			return apperrors.NewConnectionError("failed to check session authorization", err)
		}
		if !status.Authorized {
			return apperrors.NewConnectionError("escrow session is not authorized", nil)
		}
		return work(ctx, client.API(), status.User)
	})
	if err == nil {
		return nil
	}
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}
	return apperrors.NewConnectionError("session handshake failed", err)
}
