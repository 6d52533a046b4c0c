package telegram

import (
	"context"

	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"

	apperrors "channel-escrow-backend/internal/common/errors"
	"channel-escrow-backend/internal/features/transfer/models"
)

const errUserNotParticipant = "USER_NOT_PARTICIPANT"

// EnsureMember makes the escrow account a participant of the channel, joining
// when the participant lookup reports absence. Calling it again yields
// AlreadyMember on the second call.
func (c *Client) EnsureMember(ctx context.Context, channelUsername string) (models.JoinResult, error) {
	var result models.JoinResult

	err := c.withSession(ctx, func(ctx context.Context, api *tg.Client, self *tg.User) error {
		input, _, err := resolveChannel(ctx, api, channelUsername)
		if err != nil {
			return err
		}

		_, lookupErr := api.ChannelsGetParticipant(ctx, &tg.ChannelsGetParticipantRequest{
			Channel:     input,
			Participant: &tg.InputPeerSelf{},
		})

		needJoin, err := joinDecision(lookupErr)
		if err != nil {
			return err
		}
		if !needJoin {
			result = models.JoinResult{Joined: true, AlreadyMember: true}
			return nil
		}

		if _, err := api.ChannelsJoinChannel(ctx, input); err != nil {
			return apperrors.NewTelegramAPIError("join channel", err)
		}
		result = models.JoinResult{Joined: true, AlreadyMember: false}
		return nil
	})

	return result, err
}

// joinDecision interprets the escrow's own participant lookup: nil means the
// account is already a member, the not-participant sentinel asks for a join,
// and anything else is a platform failure.
func joinDecision(lookupErr error) (needJoin bool, err error) {
	if lookupErr == nil {
		return false, nil
	}
	if tgerr.Is(lookupErr, errUserNotParticipant) {
		return true, nil
	}
	return false, apperrors.NewTelegramAPIError("get own participant record", lookupErr)
}

// Leave removes the escrow account from the channel. Leaving a channel the
// account is no longer in is a no-op.
func (c *Client) Leave(ctx context.Context, channelUsername string) error {
	return c.withSession(ctx, func(ctx context.Context, api *tg.Client, self *tg.User) error {
		input, _, err := resolveChannel(ctx, api, channelUsername)
		if err != nil {
			return err
		}

		if _, err := api.ChannelsLeaveChannel(ctx, input); err != nil {
			if tgerr.Is(err, errUserNotParticipant) {
				return nil
			}
			return apperrors.NewTelegramAPIError("leave channel", err)
		}
		return nil
	})
}
