package service

import (
	"context"

	"channel-escrow-backend/internal/features/transfer/models"
)

// ChannelClient is the platform capability the orchestrator sequences. Every
// method opens and closes its own session; no session survives a step.
type ChannelClient interface {
	// EnsureMember makes the escrow account a participant, joining if absent.
	EnsureMember(ctx context.Context, channelUsername string) (models.JoinResult, error)

	// Classify reports the escrow account's current role in the channel.
	Classify(ctx context.Context, channelUsername string) (models.Classification, error)

	// RevokeOtherAdmins strips every admin except the creator and the escrow
	// account, returning revoked identifiers and the per-admin failure count.
	RevokeOtherAdmins(ctx context.Context, channelUsername string) (revoked []int64, failed int, err error)

	// TransferCreator hands creator status to the buyer. Irreversible.
	TransferCreator(ctx context.Context, channelUsername, buyerUsername string) error

	// Leave removes the escrow account from the channel.
	Leave(ctx context.Context, channelUsername string) error
}

// TransferService exposes the operations behind the HTTP endpoints.
type TransferService interface {
	JoinChannel(ctx context.Context, channelUsername string) (models.JoinResult, error)
	CheckOwnership(ctx context.Context, channelUsername string) (models.Classification, error)
	Transfer(ctx context.Context, req models.TransferRequest) (*models.TransferResult, error)
}
