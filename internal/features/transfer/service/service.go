package service

import (
	"context"
	"fmt"

	apperrors "channel-escrow-backend/internal/common/errors"
	"channel-escrow-backend/internal/common/logger"
	"channel-escrow-backend/internal/common/validation"
	ledgermodels "channel-escrow-backend/internal/features/ledger/models"
	"channel-escrow-backend/internal/features/ledger/repository"
	"channel-escrow-backend/internal/features/transfer/models"
)

// SellerInstruction tells the marketplace what must happen before a transfer
// can run.
const SellerInstruction = "The seller must transfer channel ownership to the escrow account first"

type transferService struct {
	client ChannelClient
	ledger repository.LedgerRepository

	// revokeFailureLimit aborts the run before the irreversible handoff once
	// more than this many per-admin revocations fail. 0 keeps the historic
	// permissive behavior.
	revokeFailureLimit int
}

func NewTransferService(client ChannelClient, ledger repository.LedgerRepository, revokeFailureLimit int) TransferService {
	return &transferService{
		client:             client,
		ledger:             ledger,
		revokeFailureLimit: revokeFailureLimit,
	}
}

func (s *transferService) JoinChannel(ctx context.Context, channelUsername string) (models.JoinResult, error) {
	if err := validation.ValidateHandle(channelUsername); err != nil {
		return models.JoinResult{}, apperrors.NewValidationError("channelUsername", err.Error())
	}
	return s.client.EnsureMember(ctx, channelUsername)
}

func (s *transferService) CheckOwnership(ctx context.Context, channelUsername string) (models.Classification, error) {
	if err := validation.ValidateHandle(channelUsername); err != nil {
		return models.Classification{}, apperrors.NewValidationError("channelUsername", err.Error())
	}
	return s.client.Classify(ctx, channelUsername)
}

// Transfer runs the ownership handover state machine:
//
//	Idle → Joining → VerifyingOwnership → RevokingAdmins →
//	TransferringCreator → Leaving → Completed
//
// Failed absorbs every non-terminal state. A failure past the handoff means
// ownership already moved and only cleanup is incomplete.
func (s *transferService) Transfer(ctx context.Context, req models.TransferRequest) (*models.TransferResult, error) {
	if req.JobID == "" {
		return nil, apperrors.NewValidationError("jobId", "is required")
	}
	if req.ChannelUsername == "" {
		return nil, apperrors.NewValidationError("channelUsername", "is required")
	}
	if req.BuyerUsername == "" {
		return nil, apperrors.NewValidationError("buyerUsername", "is required")
	}

	logger.Info().
		Str("job_id", req.JobID).
		Str("channel", req.ChannelUsername).
		Str("buyer", req.BuyerUsername).
		Msg("Starting ownership transfer")

	job, err := s.ledger.GetJob(ctx, req.JobID)
	if err != nil {
		// The ledger is an external collaborator; a missing record does not
		// stop the handover it merely cannot document.
		logger.Warn().Str("job_id", req.JobID).Err(err).Msg("Job record unavailable")
		job = nil
	}
	s.recordJobStatus(ctx, req.JobID, ledgermodels.JobStatusInProgress, "")

	state := models.StateJoining
	join, err := s.client.EnsureMember(ctx, req.ChannelUsername)
	if err != nil {
		return nil, s.fail(ctx, req.JobID, state, err)
	}
	logger.Info().Str("job_id", req.JobID).Bool("already_member", join.AlreadyMember).Msg("Membership ensured")

	state = models.StateVerifyingOwnership
	classification, err := s.client.Classify(ctx, req.ChannelUsername)
	if err != nil {
		return nil, s.fail(ctx, req.JobID, state, err)
	}
	if !classification.IsOwner {
		err := apperrors.NewPreconditionError("Escrow account is not the channel creator").
			WithDetail("currentRole", string(classification.CurrentRole)).
			WithDetail("participantType", classification.ParticipantType).
			WithDetail("instruction", SellerInstruction)
		return nil, s.fail(ctx, req.JobID, state, err)
	}

	state = models.StateRevokingAdmins
	revoked, revokeFailed, err := s.client.RevokeOtherAdmins(ctx, req.ChannelUsername)
	if err != nil {
		return nil, s.fail(ctx, req.JobID, state, err)
	}
	if s.revokeFailureLimit > 0 && revokeFailed > s.revokeFailureLimit {
		err := apperrors.New(apperrors.ErrCodeTelegramAPI,
			fmt.Sprintf("aborting before handoff: %d admin revocations failed", revokeFailed)).
			WithDetail("revoked", len(revoked)).
			WithDetail("failed", revokeFailed)
		return nil, s.fail(ctx, req.JobID, state, err)
	}
	logger.Info().Str("job_id", req.JobID).Int("revoked", len(revoked)).Int("failed", revokeFailed).Msg("Admin rights revoked")

	state = models.StateTransferringCreator
	if err := s.client.TransferCreator(ctx, req.ChannelUsername, req.BuyerUsername); err != nil {
		return nil, s.fail(ctx, req.JobID, state, err)
	}

	state = models.StateLeaving
	if err := s.client.Leave(ctx, req.ChannelUsername); err != nil {
		return nil, s.fail(ctx, req.JobID, state, err)
	}

	s.recordJobStatus(ctx, req.JobID, ledgermodels.JobStatusCompleted, "")
	if job != nil && job.ListingID != "" {
		if err := s.ledger.MarkListingSold(ctx, job.ListingID); err != nil {
			logger.Warn().Str("job_id", req.JobID).Str("listing_id", job.ListingID).Err(err).Msg("Failed to mark listing sold")
		}
	}

	logger.Info().Str("job_id", req.JobID).Int("admins_removed", len(revoked)).Msg("Ownership transfer completed")

	return &models.TransferResult{
		JobID:         req.JobID,
		AlreadyMember: join.AlreadyMember,
		Steps: models.Steps{
			Joined:               join.Joined,
			AdminsRemoved:        len(revoked),
			OwnershipTransferred: true,
			EscrowLeft:           true,
		},
	}, nil
}

// fail records the terminal failure and annotates the error with the state it
// happened in.
func (s *transferService) fail(ctx context.Context, jobID string, state models.State, err error) error {
	logger.Error().
		Str("job_id", jobID).
		Str("state", string(state)).
		Err(err).
		Msg("Ownership transfer failed")

	s.recordJobStatus(ctx, jobID, ledgermodels.JobStatusFailed, err.Error())

	if appErr, ok := apperrors.AsAppError(err); ok {
		appErr.WithDetail("state", string(state))
		if state.Irreversible() {
			// Ownership already moved; only the escrow exit is incomplete.
			appErr.WithDetail("ownershipTransferred", true)
		}
		return appErr
	}
	return apperrors.Wrap(err, apperrors.ErrCodeInternal, fmt.Sprintf("transfer failed in state %s", state))
}

func (s *transferService) recordJobStatus(ctx context.Context, jobID string, status ledgermodels.JobStatus, errMsg string) {
	if err := s.ledger.UpdateJobStatus(ctx, jobID, status, errMsg); err != nil {
		logger.Warn().
			Str("job_id", jobID).
			Str("status", string(status)).
			Err(err).
			Msg("Failed to update job status")
	}
}
