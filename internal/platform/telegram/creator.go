package telegram

import (
	"context"

	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"

	apperrors "channel-escrow-backend/internal/common/errors"
	"channel-escrow-backend/internal/common/logger"
)

// TransferCreator hands creator status over to the buyer. The edit-creator
// call is authenticated with an SRP proof of the escrow account's two-factor
// password, bound to the account's current password state so it cannot be
// replayed. This is the irreversible step of the workflow.
func (c *Client) TransferCreator(ctx context.Context, channelUsername, buyerUsername string) error {
	if c.password == "" {
		return apperrors.NewAuthProofError("escrow two-factor password is not configured", nil)
	}

	return c.withSession(ctx, func(ctx context.Context, api *tg.Client, self *tg.User) error {
		input, channel, err := resolveChannel(ctx, api, channelUsername)
		if err != nil {
			return err
		}

		buyer, err := resolveUser(ctx, api, buyerUsername)
		if err != nil {
			return err
		}

		pwd, err := api.AccountGetPassword(ctx)
		if err != nil {
			return apperrors.NewTelegramAPIError("get password configuration", err)
		}
		if pwd.CurrentAlgo == nil {
			return apperrors.NewAuthProofError("escrow account has no two-factor password set", nil)
		}

		srpID, _ := pwd.GetSRPID()
		srpB, _ := pwd.GetSRPB()
		proof, err := auth.PasswordHash([]byte(c.password), srpID, srpB, pwd.SecureRandom, pwd.CurrentAlgo)
		if err != nil {
			return apperrors.NewAuthProofError("failed to compute password proof", err)
		}

		if _, err := api.ChannelsEditCreator(ctx, &tg.ChannelsEditCreatorRequest{
			Channel:  input,
			UserID:   buyer,
			Password: proof,
		}); err != nil {
			if tgerr.Is(err, "PASSWORD_HASH_INVALID", "SRP_ID_INVALID", "SRP_PASSWORD_CHANGED") {
				return apperrors.NewAuthProofError("password proof rejected", err)
			}
			return apperrors.NewTelegramAPIError("edit channel creator", err)
		}

		logger.Info().
			Int64("channel_id", channel.ID).
			Int64("buyer_id", buyer.UserID).
			Msg("Creator status transferred")
		return nil
	})
}
