package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "channel-escrow-backend/internal/common/errors"
	"channel-escrow-backend/internal/features/ledger/models"
	"channel-escrow-backend/internal/features/ledger/repository"
)

type ledgerRepository struct {
	client *redis.Client
}

func NewLedgerRepository(client *redis.Client) repository.LedgerRepository {
	return &ledgerRepository{
		client: client,
	}
}

func (r *ledgerRepository) GetJob(ctx context.Context, id string) (*models.TransferJob, error) {
	key := fmt.Sprintf("job:%s", id)
	jobJSON, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NewNotFoundError("job", id)
		}
		return nil, apperrors.NewLedgerError("get job", err)
	}

	var job models.TransferJob
	if err := json.Unmarshal(jobJSON, &job); err != nil {
		return nil, apperrors.NewLedgerError("decode job", err)
	}

	return &job, nil
}

func (r *ledgerRepository) saveJob(ctx context.Context, job *models.TransferJob) error {
	jobJSON, err := json.Marshal(job)
	if err != nil {
		return apperrors.NewLedgerError("encode job", err)
	}

	key := fmt.Sprintf("job:%s", job.ID)
	if err := r.client.Set(ctx, key, jobJSON, 0).Err(); err != nil {
		return apperrors.NewLedgerError("save job", err)
	}
	return nil
}

func (r *ledgerRepository) UpdateJobStatus(ctx context.Context, id string, status models.JobStatus, errMsg string) error {
	job, err := r.GetJob(ctx, id)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	job.Status = status
	job.Error = errMsg
	job.UpdatedAt = now
	if status == models.JobStatusCompleted {
		job.CompletedAt = &now
	}

	return r.saveJob(ctx, job)
}

func (r *ledgerRepository) MarkListingSold(ctx context.Context, listingID string) error {
	key := fmt.Sprintf("listing:%s", listingID)
	listingJSON, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return apperrors.NewNotFoundError("listing", listingID)
		}
		return apperrors.NewLedgerError("get listing", err)
	}

	var listing models.Listing
	if err := json.Unmarshal(listingJSON, &listing); err != nil {
		return apperrors.NewLedgerError("decode listing", err)
	}

	now := time.Now().UTC()
	listing.Status = models.ListingStatusSold
	listing.UpdatedAt = now
	listing.SoldAt = &now

	out, err := json.Marshal(&listing)
	if err != nil {
		return apperrors.NewLedgerError("encode listing", err)
	}
	if err := r.client.Set(ctx, key, out, 0).Err(); err != nil {
		return apperrors.NewLedgerError("save listing", err)
	}
	return nil
}
