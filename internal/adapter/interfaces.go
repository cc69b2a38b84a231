// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The CryptoLocker Authors

// Package adapter connects the conversation engine to the Telegram Bot API.
//
// [BotAPI] is the minimal API surface the gateway needs; the package ships a
// resty-backed implementation ([NewTelegramClient]). [Bot] is the long-poll
// gateway: it converts Telegram updates into engine events, gates everything
// behind the configured admin id, and renders engine responses back through
// the API. Error values in errors.go are mapped from transport and API
// failures so callers can use [errors.Is].
package adapter

import (
	"context"
	"time"

	"github.com/mkhalikov/cryptolocker/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/gateway_mock.go -package=mock

// BotAPI is the subset of the Telegram Bot API used by the gateway.
// Implementations must never log the bot token or message bodies.
type BotAPI interface {
	// GetUpdates long-polls for updates with ids greater than offset.
	GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error)

	// SendMessage delivers a new message and returns the sent message.
	SendMessage(ctx context.Context, msg OutgoingMessage) (Message, error)

	// EditMessageText rewrites an existing message in place.
	EditMessageText(ctx context.Context, msg OutgoingMessage) error

	// DeleteMessage retracts a previously sent message.
	DeleteMessage(ctx context.Context, chatID, messageID int64) error

	// AnswerCallbackQuery acknowledges a button press so the client stops
	// showing a progress indicator.
	AnswerCallbackQuery(ctx context.Context, callbackID string) error
}

// Handler consumes inbound events and produces outbound responses. Satisfied
// by the conversation engine.
type Handler interface {
	Handle(ctx context.Context, ev models.Event) []models.Response
}
