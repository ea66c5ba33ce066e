package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/gridmatch-backend/internal/apperror"
	"github.com/rocketscienceinc/gridmatch-backend/testing/suite"
)

func TestRedisDirectory_LookupPushTarget(t *testing.T) {
	t.Run("Registered user", func(t *testing.T) {
		ctx, st := suite.New(t)

		directory := NewRedisDirectory(st.Storage)

		// Given: a user with a registered token
		err := directory.RegisterPushTarget(ctx, "user-1", "ExponentPushToken[abc]")
		require.NoError(t, err)

		// When: looking the user up
		target, err := directory.LookupPushTarget(ctx, "user-1")

		// Then: the token comes back
		require.NoError(t, err)
		assert.Equal(t, "user-1", target.UserID)
		assert.Equal(t, "ExponentPushToken[abc]", target.Token)
	})

	t.Run("Token is replaced on re-registration", func(t *testing.T) {
		ctx, st := suite.New(t)

		directory := NewRedisDirectory(st.Storage)

		require.NoError(t, directory.RegisterPushTarget(ctx, "user-1", "ExponentPushToken[old]"))
		require.NoError(t, directory.RegisterPushTarget(ctx, "user-1", "ExponentPushToken[new]"))

		target, err := directory.LookupPushTarget(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, "ExponentPushToken[new]", target.Token)
	})

	t.Run("Document written by another service", func(t *testing.T) {
		ctx, st := suite.New(t)

		// Given: a raw user document
		err := st.Storage.Set(ctx, "user:user-2", `{"id":"user-2","push_token":"ExpoPushToken[xyz]"}`, 0).Err()
		require.NoError(t, err)

		target, err := NewRedisDirectory(st.Storage).LookupPushTarget(ctx, "user-2")

		require.NoError(t, err)
		assert.Equal(t, "ExpoPushToken[xyz]", target.Token)
	})

	t.Run("Unknown user", func(t *testing.T) {
		ctx, st := suite.New(t)

		target, err := NewRedisDirectory(st.Storage).LookupPushTarget(ctx, "missing")

		require.ErrorIs(t, err, apperror.ErrPushTargetNotFound)
		assert.Nil(t, target)
	})

	t.Run("Ping", func(t *testing.T) {
		ctx, st := suite.New(t)

		require.NoError(t, NewRedisDirectory(st.Storage).Ping(ctx))
	})
}
