package telegram

import (
	"errors"
	"testing"

	"github.com/gotd/td/tgerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "channel-escrow-backend/internal/common/errors"
)

func TestJoinDecision(t *testing.T) {
	t.Run("member already", func(t *testing.T) {
		needJoin, err := joinDecision(nil)
		require.NoError(t, err)
		assert.False(t, needJoin)
	})

	t.Run("not a participant joins", func(t *testing.T) {
		needJoin, err := joinDecision(tgerr.New(400, "USER_NOT_PARTICIPANT"))
		require.NoError(t, err)
		assert.True(t, needJoin)
	})

	t.Run("other api error propagates", func(t *testing.T) {
		needJoin, err := joinDecision(tgerr.New(400, "CHANNEL_PRIVATE"))
		require.Error(t, err)
		assert.False(t, needJoin)

		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeTelegramAPI, appErr.Code)
	})

	t.Run("transport error propagates", func(t *testing.T) {
		_, err := joinDecision(errors.New("connection reset"))
		require.Error(t, err)

		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeTelegramAPI, appErr.Code)
	})
}
