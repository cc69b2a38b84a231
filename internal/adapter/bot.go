package adapter

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mkhalikov/cryptolocker/internal/i18n"
	"github.com/mkhalikov/cryptolocker/internal/logger"
	"github.com/mkhalikov/cryptolocker/models"
)

// DefaultPollTimeout is the getUpdates long-poll window.
const DefaultPollTimeout = 30 * time.Second

// Bot is the long-poll gateway between Telegram and the conversation engine.
// It is single-operator: updates from anyone but the configured admin are
// answered with a refusal and never reach the engine.
type Bot struct {
	api         BotAPI
	handler     Handler
	adminID     int64
	pollTimeout time.Duration
	logger      *logger.Logger
}

// NewBot wires the gateway. pollTimeout of zero selects
// [DefaultPollTimeout].
func NewBot(api BotAPI, handler Handler, adminID int64, pollTimeout time.Duration, log *logger.Logger) *Bot {
	if pollTimeout <= 0 {
		pollTimeout = DefaultPollTimeout
	}
	return &Bot{
		api:         api,
		handler:     handler,
		adminID:     adminID,
		pollTimeout: pollTimeout,
		logger:      log,
	}
}

// Run polls for updates until ctx is cancelled. Each update is handled on
// its own goroutine; ordering per user is enforced by the engine, not here.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info().
		Str("func", "Bot.Run").
		Msg("starting update loop")

	var wg sync.WaitGroup
	defer wg.Wait()

	var offset int64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		updates, err := b.api.GetUpdates(ctx, offset, b.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			b.logger.Err(err).
				Str("func", "Bot.Run").
				Msg("getUpdates failed, backing off")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(3 * time.Second):
			}
			continue
		}

		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			wg.Add(1)
			go func(u Update) {
				defer wg.Done()
				b.dispatch(ctx, u)
			}(update)
		}
	}
}

// dispatch handles one update end to end with a per-update trace id.
func (b *Bot) dispatch(ctx context.Context, update Update) {
	log := &logger.Logger{Logger: b.logger.With().
		Str("trace_id", uuid.NewString()).
		Int64("update_id", update.UpdateID).
		Logger()}
	ctx = log.WithContext(ctx)

	ev, callbackID, ok := mapUpdate(update)
	if !ok {
		return
	}

	if update.CallbackQuery != nil {
		if err := b.api.AnswerCallbackQuery(ctx, callbackID); err != nil {
			log.Err(err).
				Str("func", "Bot.dispatch").
				Msg("failed to answer callback query")
		}
	}

	if ev.UserID != b.adminID {
		log.Warn().
			Str("func", "Bot.dispatch").
			Int64("user_id", ev.UserID).
			Msg("rejecting non-admin user")
		b.deliver(ctx, []models.Response{{
			ChatID: ev.UserID,
			Body:   i18n.T(models.DefaultLang, i18n.KeyNotAdmin),
		}})
		return
	}

	b.deliver(ctx, b.handler.Handle(ctx, ev))
}

// mapUpdate converts a Telegram update into an engine event. The second
// return value is the callback id to acknowledge, if any.
func mapUpdate(update Update) (models.Event, string, bool) {
	if cb := update.CallbackQuery; cb != nil {
		ev := models.Event{
			UserID:  cb.From.ID,
			Kind:    models.EventButton,
			Payload: cb.Data,
		}
		if cb.Message != nil {
			ev.MessageID = cb.Message.MessageID
		}
		return ev, cb.ID, true
	}

	msg := update.Message
	if msg == nil || msg.From == nil {
		return models.Event{}, "", false
	}

	ev := models.Event{
		UserID:    msg.From.ID,
		Kind:      models.EventText,
		Payload:   msg.Text,
		MessageID: msg.MessageID,
	}

	if strings.HasPrefix(msg.Text, "/") {
		fields := strings.Fields(msg.Text)
		command := strings.TrimPrefix(fields[0], "/")
		// Strip the @botname suffix used in group chats.
		if at := strings.Index(command, "@"); at >= 0 {
			command = command[:at]
		}
		ev.Kind = models.EventCommand
		ev.Command = command
		ev.Args = fields[1:]
	}

	return ev, "", true
}

// deliver renders engine responses through the API.
func (b *Bot) deliver(ctx context.Context, responses []models.Response) {
	log := logger.FromContext(ctx)

	for _, resp := range responses {
		var err error
		switch {
		case resp.DeleteMessageID != 0:
			err = b.api.DeleteMessage(ctx, resp.ChatID, resp.DeleteMessageID)
		case resp.EditMessageID != 0:
			err = b.api.EditMessageText(ctx, outgoing(resp, resp.EditMessageID))
		default:
			_, err = b.api.SendMessage(ctx, outgoing(resp, 0))
		}
		if err != nil {
			log.Err(err).
				Str("func", "Bot.deliver").
				Int64("chat_id", resp.ChatID).
				Msg("failed to deliver response")
		}
	}
}

func outgoing(resp models.Response, messageID int64) OutgoingMessage {
	msg := OutgoingMessage{
		ChatID:      resp.ChatID,
		MessageID:   messageID,
		Text:        resp.Body,
		ReplyMarkup: markup(resp.Keyboard),
	}
	if resp.HTML {
		msg.ParseMode = "HTML"
	}
	return msg
}

// markup converts the engine's keyboard model to the wire format.
func markup(kb *models.Keyboard) any {
	if kb == nil {
		return nil
	}

	if kb.Inline {
		rows := make([][]InlineKeyboardButton, 0, len(kb.Rows))
		for _, row := range kb.Rows {
			buttons := make([]InlineKeyboardButton, 0, len(row))
			for _, btn := range row {
				buttons = append(buttons, InlineKeyboardButton{Text: btn.Label, CallbackData: btn.Data})
			}
			rows = append(rows, buttons)
		}
		return InlineKeyboardMarkup{InlineKeyboard: rows}
	}

	rows := make([][]KeyboardButton, 0, len(kb.Rows))
	for _, row := range kb.Rows {
		buttons := make([]KeyboardButton, 0, len(row))
		for _, btn := range row {
			buttons = append(buttons, KeyboardButton{Text: btn.Label})
		}
		rows = append(rows, buttons)
	}
	return ReplyKeyboardMarkup{Keyboard: rows, ResizeKeyboard: true}
}
