package telegram

import (
	"context"

	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"

	apperrors "channel-escrow-backend/internal/common/errors"
	"channel-escrow-backend/internal/common/validation"
)

// resolveChannel maps a channel handle to its canonical entity. The handle is
// resolved fresh on every call; nothing is cached across steps.
func resolveChannel(ctx context.Context, api *tg.Client, handle string) (*tg.InputChannel, *tg.Channel, error) {
	username := validation.NormalizeHandle(handle)

	resolved, err := api.ContactsResolveUsername(ctx, &tg.ContactsResolveUsernameRequest{
		Username: username,
	})
	if err != nil {
		if tgerr.Is(err, "USERNAME_NOT_OCCUPIED", "USERNAME_INVALID") {
			return nil, nil, apperrors.NewNotFoundError("channel", username)
		}
		return nil, nil, apperrors.NewTelegramAPIError("resolve channel username", err)
	}

	for _, chat := range resolved.Chats {
		channel, ok := chat.(*tg.Channel)
		if !ok {
			continue
		}
		input := &tg.InputChannel{ChannelID: channel.ID, AccessHash: channel.AccessHash}
		return input, channel, nil
	}

	return nil, nil, apperrors.NewNotFoundError("channel", username)
}

// resolveUser maps a user handle to its canonical entity.
func resolveUser(ctx context.Context, api *tg.Client, handle string) (*tg.InputUser, error) {
	username := validation.NormalizeHandle(handle)

	resolved, err := api.ContactsResolveUsername(ctx, &tg.ContactsResolveUsernameRequest{
		Username: username,
	})
	if err != nil {
		if tgerr.Is(err, "USERNAME_NOT_OCCUPIED", "USERNAME_INVALID") {
			return nil, apperrors.NewNotFoundError("user", username)
		}
		return nil, apperrors.NewTelegramAPIError("resolve user username", err)
	}

	for _, u := range resolved.Users {
		user, ok := u.(*tg.User)
		if !ok {
			continue
		}
		return &tg.InputUser{UserID: user.ID, AccessHash: user.AccessHash}, nil
	}

	return nil, apperrors.NewNotFoundError("user", username)
}
