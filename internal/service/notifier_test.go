package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/gridmatch-backend/internal/apperror"
	"github.com/rocketscienceinc/gridmatch-backend/internal/entity"
	"github.com/rocketscienceinc/gridmatch-backend/testing/suite"
)

func TestIsExpoPushToken(t *testing.T) {
	assert.True(t, IsExpoPushToken("ExponentPushToken[abc]"))
	assert.True(t, IsExpoPushToken("ExpoPushToken[abc]"))
	assert.False(t, IsExpoPushToken("ExponentPushToken[]"))
	assert.False(t, IsExpoPushToken("abc"))
	assert.False(t, IsExpoPushToken("ExponentPushToken[abc"))
	assert.False(t, IsExpoPushToken(""))
}

func TestExpoNotifier_Notify(t *testing.T) {
	target := &entity.PushTarget{UserID: "user-1", Token: "ExponentPushToken[abc]"}

	t.Run("Sends the message", func(t *testing.T) {
		// Given: a push service that records the request
		var (
			received expoMessage
			auth     string
		)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth = r.Header.Get("Authorization")
			_ = json.NewDecoder(r.Body).Decode(&received)
			_, _ = w.Write([]byte(`{"data":{"status":"ok","id":"ticket-1"}}`))
		}))
		defer server.Close()

		notifier := NewExpoNotifier(suite.NewLogger(), server.URL, "secret", time.Second)

		// When: notifying the target
		err := notifier.Notify(context.Background(), target, "Game Ready!", "Your game is ready to start!",
			map[string]any{"roomId": "room-1"})

		// Then: the push service got the expected message
		require.NoError(t, err)
		assert.Equal(t, "Bearer secret", auth)
		assert.Equal(t, "ExponentPushToken[abc]", received.To)
		assert.Equal(t, "default", received.Sound)
		assert.Equal(t, "Game Ready!", received.Title)
		assert.Equal(t, "Your game is ready to start!", received.Body)
		assert.Equal(t, "room-1", received.Data["roomId"])
	})

	t.Run("Invalid token is rejected without a request", func(t *testing.T) {
		called := false
		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			called = true
		}))
		defer server.Close()

		notifier := NewExpoNotifier(suite.NewLogger(), server.URL, "", time.Second)

		err := notifier.Notify(context.Background(), &entity.PushTarget{UserID: "user-1", Token: "nope"}, "t", "b", nil)

		require.ErrorIs(t, err, apperror.ErrNotificationFailure)
		assert.False(t, called)
	})

	t.Run("Non 2xx response fails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		}))
		defer server.Close()

		notifier := NewExpoNotifier(suite.NewLogger(), server.URL, "", time.Second)

		err := notifier.Notify(context.Background(), target, "t", "b", nil)
		require.ErrorIs(t, err, apperror.ErrNotificationFailure)
	})

	t.Run("Error ticket fails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"data":[{"status":"error","message":"DeviceNotRegistered"}]}`))
		}))
		defer server.Close()

		notifier := NewExpoNotifier(suite.NewLogger(), server.URL, "", time.Second)

		err := notifier.Notify(context.Background(), target, "t", "b", nil)
		require.ErrorIs(t, err, apperror.ErrNotificationFailure)
		assert.Contains(t, err.Error(), "DeviceNotRegistered")
	})

	t.Run("Request errors fail", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"errors":[{"code":"VALIDATION_ERROR","message":"bad"}]}`))
		}))
		defer server.Close()

		notifier := NewExpoNotifier(suite.NewLogger(), server.URL, "", time.Second)

		err := notifier.Notify(context.Background(), target, "t", "b", nil)
		require.ErrorIs(t, err, apperror.ErrNotificationFailure)
	})
}

func TestLogNotifier_Notify(t *testing.T) {
	notifier := NewLogNotifier(suite.NewLogger())

	err := notifier.Notify(context.Background(), &entity.PushTarget{UserID: "user-1"}, "t", "b", nil)
	require.NoError(t, err)
}
