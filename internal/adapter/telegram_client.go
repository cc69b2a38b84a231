package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// TelegramConfig configures the Bot API client.
type TelegramConfig struct {
	// Token is the bot token from BotFather. It becomes part of every
	// request URL and must never appear in logs or error messages.
	Token string

	// BaseURL overrides the API host, used by tests.
	BaseURL string

	// Timeout bounds each request. getUpdates adds the long-poll window on
	// top, so an idle poll is never cut off by the request budget.
	Timeout time.Duration
}

type telegramClient struct {
	client  *resty.Client
	timeout time.Duration
}

// NewTelegramClient constructs a [BotAPI] over the HTTP Bot API. Deadlines
// are applied per request rather than on the underlying HTTP client, because
// a single client-wide timeout would abort long polls early.
func NewTelegramClient(cfg TelegramConfig) BotAPI {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.telegram.org"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/") + "/bot" + cfg.Token)

	return &telegramClient{client: cli, timeout: cfg.Timeout}
}

func (t *telegramClient) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error) {
	// The server holds the connection open for up to the poll window
	// before answering, then the normal budget applies.
	ctx, cancel := context.WithTimeout(ctx, t.timeout+timeout)
	defer cancel()

	body := map[string]any{
		"offset":          offset,
		"timeout":         int(timeout.Seconds()),
		"allowed_updates": []string{"message", "callback_query"},
	}

	resp, err := t.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post("/getUpdates")
	if err != nil {
		return nil, fmt.Errorf("%w: getUpdates: %w", ErrRequestFailed, err)
	}

	var envelope apiEnvelope[[]Update]
	if err = decodeEnvelope(resp, &envelope); err != nil {
		return nil, err
	}
	return envelope.Result, nil
}

func (t *telegramClient) SendMessage(ctx context.Context, msg OutgoingMessage) (Message, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	resp, err := t.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(msg).
		Post("/sendMessage")
	if err != nil {
		return Message{}, fmt.Errorf("%w: sendMessage: %w", ErrRequestFailed, err)
	}

	var envelope apiEnvelope[Message]
	if err = decodeEnvelope(resp, &envelope); err != nil {
		return Message{}, err
	}
	return envelope.Result, nil
}

func (t *telegramClient) EditMessageText(ctx context.Context, msg OutgoingMessage) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	resp, err := t.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(msg).
		Post("/editMessageText")
	if err != nil {
		return fmt.Errorf("%w: editMessageText: %w", ErrRequestFailed, err)
	}

	var envelope apiEnvelope[json.RawMessage]
	return decodeEnvelope(resp, &envelope)
}

func (t *telegramClient) DeleteMessage(ctx context.Context, chatID, messageID int64) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	body := map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
	}

	resp, err := t.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post("/deleteMessage")
	if err != nil {
		return fmt.Errorf("%w: deleteMessage: %w", ErrRequestFailed, err)
	}

	var envelope apiEnvelope[bool]
	return decodeEnvelope(resp, &envelope)
}

func (t *telegramClient) AnswerCallbackQuery(ctx context.Context, callbackID string) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	body := map[string]any{
		"callback_query_id": callbackID,
	}

	resp, err := t.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post("/answerCallbackQuery")
	if err != nil {
		return fmt.Errorf("%w: answerCallbackQuery: %w", ErrRequestFailed, err)
	}

	var envelope apiEnvelope[bool]
	return decodeEnvelope(resp, &envelope)
}

// decodeEnvelope unwraps the API response. The API's description field is
// safe to surface: it never echoes message contents, only request problems.
func decodeEnvelope[T any](resp *resty.Response, envelope *apiEnvelope[T]) error {
	if err := json.Unmarshal(resp.Body(), envelope); err != nil {
		return fmt.Errorf("%w: http %d: %w", ErrRequestFailed, resp.StatusCode(), err)
	}
	if !envelope.OK {
		desc := envelope.Description
		if desc == "" {
			desc = http.StatusText(resp.StatusCode())
		}
		return fmt.Errorf("%w: %s", ErrAPIRejected, desc)
	}
	return nil
}
