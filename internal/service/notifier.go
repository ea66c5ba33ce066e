package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/rocketscienceinc/gridmatch-backend/internal/apperror"
	"github.com/rocketscienceinc/gridmatch-backend/internal/entity"
)

const (
	DefaultExpoEndpoint = "https://exp.host/--/api/v2/push/send"

	expoTicketError = "error"
	maxErrorBody    = 4 << 10
)

// Notifier - delivers a push notification to a resolved target.
type Notifier interface {
	Notify(ctx context.Context, target *entity.PushTarget, title, body string, data map[string]any) error
}

type expoMessage struct {
	To    string         `json:"to"`
	Sound string         `json:"sound"`
	Title string         `json:"title"`
	Body  string         `json:"body"`
	Data  map[string]any `json:"data,omitempty"`
}

type expoTicket struct {
	Status  string `json:"status"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
}

type expoResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

type ExpoNotifier struct {
	endpoint    string
	accessToken string
	client      *http.Client
	logger      *slog.Logger
}

func NewExpoNotifier(logger *slog.Logger, endpoint, accessToken string, timeout time.Duration) *ExpoNotifier {
	if endpoint == "" {
		endpoint = DefaultExpoEndpoint
	}

	return &ExpoNotifier{
		endpoint:    endpoint,
		accessToken: accessToken,
		client:      &http.Client{Timeout: timeout},
		logger:      logger.With("component", "expo-notifier"),
	}
}

// IsExpoPushToken - reports whether token looks like ExponentPushToken[...] or ExpoPushToken[...].
func IsExpoPushToken(token string) bool {
	if !strings.HasSuffix(token, "]") {
		return false
	}

	for _, prefix := range []string{"ExponentPushToken[", "ExpoPushToken["} {
		if strings.HasPrefix(token, prefix) && len(token) > len(prefix)+1 {
			return true
		}
	}

	return false
}

func (that *ExpoNotifier) Notify(ctx context.Context, target *entity.PushTarget, title, body string, data map[string]any) error {
	log := that.logger.With("method", "Notify", "userID", target.UserID)

	if !IsExpoPushToken(target.Token) {
		return fmt.Errorf("%w: invalid push token for user %s", apperror.ErrNotificationFailure, target.UserID)
	}

	payload, err := json.Marshal(expoMessage{
		To:    target.Token,
		Sound: "default",
		Title: title,
		Body:  body,
		Data:  data,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal push message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, that.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build push request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if that.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+that.accessToken)
	}

	resp, err := that.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrNotificationFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: push service returned %s: %s", apperror.ErrNotificationFailure, resp.Status, strings.TrimSpace(string(text)))
	}

	var response expoResponse
	if err = json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("%w: failed to decode push response: %w", apperror.ErrNotificationFailure, err)
	}

	if len(response.Errors) > 0 {
		return fmt.Errorf("%w: %s: %s", apperror.ErrNotificationFailure, response.Errors[0].Code, response.Errors[0].Message)
	}

	for _, ticket := range decodeTickets(response.Data) {
		if ticket.Status == expoTicketError {
			return fmt.Errorf("%w: %s", apperror.ErrNotificationFailure, ticket.Message)
		}

		log.Debug("push ticket accepted", "ticketID", ticket.ID)
	}

	return nil
}

// decodeTickets - the push service answers a single message with an object and a batch with an array.
func decodeTickets(raw json.RawMessage) []expoTicket {
	var single expoTicket
	if err := json.Unmarshal(raw, &single); err == nil && single.Status != "" {
		return []expoTicket{single}
	}

	var batch []expoTicket
	if err := json.Unmarshal(raw, &batch); err == nil {
		return batch
	}

	return nil
}

// LogNotifier - used when push delivery is disabled.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("component", "log-notifier")}
}

func (that *LogNotifier) Notify(_ context.Context, target *entity.PushTarget, title, body string, data map[string]any) error {
	that.logger.Info("push notification",
		"userID", target.UserID,
		"title", title,
		"body", body,
		"data", data,
	)

	return nil
}
