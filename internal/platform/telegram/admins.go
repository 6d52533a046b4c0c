package telegram

import (
	"context"

	"github.com/gotd/td/tg"

	apperrors "channel-escrow-backend/internal/common/errors"
	"channel-escrow-backend/internal/common/logger"
	"channel-escrow-backend/internal/features/transfer/models"
)

// RevokeOtherAdmins strips the capability set of every administrator except
// the creator and the escrow account itself. Per-admin failures are logged
// and counted, not propagated; the caller decides whether the partial result
// is acceptable. Returns the identifiers revoked and the failure count.
func (c *Client) RevokeOtherAdmins(ctx context.Context, channelUsername string) ([]int64, int, error) {
	var revoked []int64
	var failed int

	err := c.withSession(ctx, func(ctx context.Context, api *tg.Client, self *tg.User) error {
		input, channel, err := resolveChannel(ctx, api, channelUsername)
		if err != nil {
			return err
		}

		raw, err := api.ChannelsGetParticipants(ctx, &tg.ChannelsGetParticipantsRequest{
			Channel: input,
			Filter:  &tg.ChannelParticipantsAdmins{},
			Offset:  0,
			Limit:   c.adminPageLimit,
			Hash:    0,
		})
		if err != nil {
			return apperrors.NewTelegramAPIError("list channel admins", err)
		}
		participants, ok := raw.(*tg.ChannelsChannelParticipants)
		if !ok {
			return apperrors.New(apperrors.ErrCodeTelegramAPI, "unexpected participants response")
		}

		if len(participants.Participants) >= c.adminPageLimit {
			// Single-page limit; channels with more admins than this keep
			// the overflow untouched.
			logger.Warn().
				Int64("channel_id", channel.ID).
				Int("page_limit", c.adminPageLimit).
				Msg("Admin list may be truncated")
		}

		targets, missing := revocationPlan(channel.ID, participants, self.ID)

		done, editFailed := revokeAll(channel.ID, targets, func(target *tg.InputUser) error {
			_, err := api.ChannelsEditAdmin(ctx, &tg.ChannelsEditAdminRequest{
				Channel:     input,
				UserID:      target,
				AdminRights: adminRightsToTG(models.NoAdminRights),
				Rank:        "",
			})
			return err
		})

		revoked = done
		failed = missing + editFailed
		return nil
	})

	return revoked, failed, err
}

// revocationPlan selects the admins whose rights get edited. The creator
// keeps its own participant kind and is never targeted, the escrow account
// itself is skipped, and admins whose user entity is missing from the
// response are counted as failed.
func revocationPlan(channelID int64, participants *tg.ChannelsChannelParticipants, selfID int64) (targets []*tg.InputUser, missing int) {
	users := make(map[int64]*tg.User, len(participants.Users))
	for _, u := range participants.Users {
		if user, ok := u.(*tg.User); ok {
			users[user.ID] = user
		}
	}

	for _, p := range participants.Participants {
		admin, ok := p.(*tg.ChannelParticipantAdmin)
		if !ok {
			continue
		}
		if admin.UserID == selfID {
			continue
		}

		user, ok := users[admin.UserID]
		if !ok {
			missing++
			logger.Warn().
				Int64("channel_id", channelID).
				Int64("user_id", admin.UserID).
				Msg("Admin entity missing from participants response")
			continue
		}

		targets = append(targets, &tg.InputUser{UserID: user.ID, AccessHash: user.AccessHash})
	}

	return targets, missing
}

// revokeAll applies edit to every target, counting failures instead of
// aborting the loop.
func revokeAll(channelID int64, targets []*tg.InputUser, edit func(*tg.InputUser) error) (revoked []int64, failed int) {
	for _, target := range targets {
		if err := edit(target); err != nil {
			failed++
			logger.Warn().
				Int64("channel_id", channelID).
				Int64("user_id", target.UserID).
				Err(err).
				Msg("Failed to revoke admin rights")
			continue
		}

		revoked = append(revoked, target.UserID)
		logger.Info().
			Int64("channel_id", channelID).
			Int64("user_id", target.UserID).
			Msg("Revoked admin rights")
	}

	return revoked, failed
}

func adminRightsToTG(r models.AdminRights) tg.ChatAdminRights {
	return tg.ChatAdminRights{
		ChangeInfo:     r.ChangeInfo,
		PostMessages:   r.PostMessages,
		EditMessages:   r.EditMessages,
		DeleteMessages: r.DeleteMessages,
		BanUsers:       r.BanUsers,
		InviteUsers:    r.InviteUsers,
		PinMessages:    r.PinMessages,
		AddAdmins:      r.AddAdmins,
		ManageCall:     r.ManageCall,
		ManageTopics:   r.ManageTopics,
		Anonymous:      r.Anonymous,
	}
}
