package repository

import (
	"context"

	"channel-escrow-backend/internal/features/ledger/models"
)

// LedgerRepository reads and updates job and listing records keyed by their
// identifiers.
type LedgerRepository interface {
	GetJob(ctx context.Context, id string) (*models.TransferJob, error)
	UpdateJobStatus(ctx context.Context, id string, status models.JobStatus, errMsg string) error
	MarkListingSold(ctx context.Context, listingID string) error
}
