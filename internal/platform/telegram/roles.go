package telegram

import (
	"context"

	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"

	apperrors "channel-escrow-backend/internal/common/errors"
	"channel-escrow-backend/internal/features/transfer/models"
)

// Classify determines the escrow account's current standing in the channel.
// Absence of a participant record classifies as not_participant instead of
// failing: the orchestrator uses that verdict as its precondition gate.
func (c *Client) Classify(ctx context.Context, channelUsername string) (models.Classification, error) {
	var result models.Classification

	err := c.withSession(ctx, func(ctx context.Context, api *tg.Client, self *tg.User) error {
		input, channel, err := resolveChannel(ctx, api, channelUsername)
		if err != nil {
			return err
		}

		participant, err := api.ChannelsGetParticipant(ctx, &tg.ChannelsGetParticipantRequest{
			Channel:     input,
			Participant: &tg.InputPeerSelf{},
		})
		if err != nil {
			if tgerr.Is(err, errUserNotParticipant) {
				result = models.Classification{
					IsOwner:         false,
					CurrentRole:     models.RoleNotParticipant,
					ParticipantType: "none",
					ChannelID:       channel.ID,
					ChannelTitle:    channel.Title,
				}
				return nil
			}
			return apperrors.NewTelegramAPIError("get own participant record", err)
		}

		role, typeName := classifyParticipant(participant.Participant)
		result = models.Classification{
			IsOwner:         role == models.RoleCreator,
			CurrentRole:     role,
			ParticipantType: typeName,
			ChannelID:       channel.ID,
			ChannelTitle:    channel.Title,
		}
		return nil
	})

	return result, err
}

// classifyParticipant maps a raw participant record to the closed role set.
func classifyParticipant(p tg.ChannelParticipantClass) (models.Role, string) {
	switch p.(type) {
	case *tg.ChannelParticipantCreator:
		return models.RoleCreator, p.TypeName()
	case *tg.ChannelParticipantAdmin:
		return models.RoleAdmin, p.TypeName()
	case *tg.ChannelParticipant, *tg.ChannelParticipantSelf:
		return models.RoleMember, p.TypeName()
	case *tg.ChannelParticipantBanned, *tg.ChannelParticipantLeft:
		return models.RoleNotParticipant, p.TypeName()
	default:
		return models.RoleNotParticipant, p.TypeName()
	}
}
