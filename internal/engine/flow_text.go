package engine

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/mkhalikov/cryptolocker/internal/i18n"
	"github.com/mkhalikov/cryptolocker/internal/logger"
	"github.com/mkhalikov/cryptolocker/internal/service"
	"github.com/mkhalikov/cryptolocker/models"
)

func validName(text string) bool {
	n := utf8.RuneCountInString(text)
	return n >= 1 && n <= service.MaxNameLength
}

func validSecret(text string) bool {
	n := utf8.RuneCountInString(text)
	return n >= 1 && n <= service.MaxSecretLength
}

func (e *Engine) handleText(ctx context.Context, s *session, ev models.Event, lang string) []models.Response {
	text := strings.TrimSpace(ev.Payload)

	switch s.state {
	case StateAwaitingName, StateAwaitingUsername, StateAwaitingPassword:
		return e.continueAdd(ctx, s, ev, text, lang)
	case StateAwaitingSearchQuery:
		return e.runSearch(ctx, s, ev, text, lang)
	case StateAwaitingEditValue:
		return e.continueEdit(ctx, s, ev, text, lang)
	default:
		// Keyboard-wait states do not consume free text; typing while a
		// keyboard is on screen abandons it and acts as menu input.
		s.reset()
		return e.handleMenuText(ctx, s, ev, text, lang)
	}
}

func (e *Engine) handleMenuText(ctx context.Context, s *session, ev models.Event, text, lang string) []models.Response {
	switch text {
	case i18n.T(lang, i18n.KeyBtnAdd):
		s.state = StateAwaitingName
		return e.text(ev.UserID, i18n.T(lang, i18n.KeyAskAddName), nil)

	case i18n.T(lang, i18n.KeyBtnSearch):
		s.state = StateAwaitingSearchQuery
		return e.text(ev.UserID, i18n.T(lang, i18n.KeyAskSearch), nil)

	case i18n.T(lang, i18n.KeyBtnRemove):
		return e.sendEntryList(ctx, ev, lang, cbRemoveConfirm, i18n.KeyPromptRemove)

	case i18n.T(lang, i18n.KeyBtnEdit):
		return e.sendEntryList(ctx, ev, lang, cbEditSelect, i18n.KeyPromptEdit)

	case i18n.T(lang, i18n.KeyBtnShow):
		return e.sendEntryList(ctx, ev, lang, cbShow, i18n.KeyPromptShow)

	default:
		return e.text(ev.UserID, i18n.T(lang, i18n.KeyMenuHint), mainMenu(lang))
	}
}

func (e *Engine) sendEntryList(ctx context.Context, ev models.Event, lang, verb, promptKey string) []models.Response {
	entries, err := e.creds.List(ctx, ev.UserID)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "Engine.sendEntryList").
			Int64("user_id", ev.UserID).
			Msg("failed to list credentials")
		return e.text(ev.UserID, i18n.T(lang, i18n.KeyErrGeneric), nil)
	}
	if len(entries) == 0 {
		return e.text(ev.UserID, i18n.T(lang, i18n.KeyNoAccounts), nil)
	}
	return e.text(ev.UserID, i18n.T(lang, promptKey), entryList(entries, verb))
}

func (e *Engine) continueAdd(ctx context.Context, s *session, ev models.Event, text, lang string) []models.Response {
	log := logger.FromContext(ctx)

	switch s.state {
	case StateAwaitingName:
		if !validName(text) {
			return e.text(ev.UserID, i18n.T(lang, i18n.KeyInvalidName), nil)
		}
		s.pending.name = text
		s.state = StateAwaitingUsername
		return e.text(ev.UserID, i18n.T(lang, i18n.KeyAskAddUsername, "name", text), nil)

	case StateAwaitingUsername:
		if !validSecret(text) {
			return e.text(ev.UserID, i18n.T(lang, i18n.KeyInvalidValue), nil)
		}
		s.pending.username = []byte(text)
		s.state = StateAwaitingPassword
		return e.text(ev.UserID, i18n.T(lang, i18n.KeyAskAddPassword, "name", s.pending.name), nil)

	default: // StateAwaitingPassword
		if !validSecret(text) {
			return e.text(ev.UserID, i18n.T(lang, i18n.KeyInvalidValue), nil)
		}

		name := s.pending.name
		username := string(s.pending.username)
		defer s.reset()

		if _, err := e.creds.Add(ctx, ev.UserID, name, username, text); err != nil {
			log.Err(err).
				Str("func", "Engine.continueAdd").
				Int64("user_id", ev.UserID).
				Msg("failed to store credential")
			return e.text(ev.UserID, i18n.T(lang, i18n.KeyErrGeneric), nil)
		}

		log.Info().
			Str("func", "Engine.continueAdd").
			Int64("user_id", ev.UserID).
			Msg("add flow completed")
		return e.text(ev.UserID, i18n.T(lang, i18n.KeyAddedSuccess, "name", name), nil)
	}
}

func (e *Engine) runSearch(ctx context.Context, s *session, ev models.Event, query, lang string) []models.Response {
	s.reset()

	entries, err := e.creds.Search(ctx, ev.UserID, query)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "Engine.runSearch").
			Int64("user_id", ev.UserID).
			Msg("search failed")
		return e.text(ev.UserID, i18n.T(lang, i18n.KeyErrGeneric), nil)
	}
	if len(entries) == 0 {
		return e.text(ev.UserID, i18n.T(lang, i18n.KeyNoMatch, "q", query), nil)
	}
	return e.text(ev.UserID, i18n.T(lang, i18n.KeySearchResults), entryList(entries, cbShow))
}

func (e *Engine) continueEdit(ctx context.Context, s *session, ev models.Event, text, lang string) []models.Response {
	log := logger.FromContext(ctx)

	if !validSecret(text) {
		return e.text(ev.UserID, i18n.T(lang, i18n.KeyInvalidValue), nil)
	}

	id := s.pending.credID
	field := s.pending.field
	name := s.pending.credName
	s.reset()

	if err := e.creds.UpdateField(ctx, ev.UserID, id, field, text); err != nil {
		log.Err(err).
			Str("func", "Engine.continueEdit").
			Int64("user_id", ev.UserID).
			Int64("id", id).
			Str("field", string(field)).
			Msg("failed to update credential field")
		return e.text(ev.UserID, i18n.T(lang, i18n.KeyErrGeneric), nil)
	}

	log.Info().
		Str("func", "Engine.continueEdit").
		Int64("user_id", ev.UserID).
		Int64("id", id).
		Str("field", string(field)).
		Msg("edit flow completed")
	return e.text(ev.UserID, i18n.T(lang, i18n.KeyEditSuccess, "field", fieldLabel(lang, field), "name", name), mainMenu(lang))
}

// fieldLabel is the human name of an editable field in success messages.
func fieldLabel(lang string, field models.CredentialField) string {
	if lang == models.LangFA {
		if field == models.FieldUsername {
			return "نام‌کاربری"
		}
		return "رمز"
	}
	if field == models.FieldUsername {
		return "Username"
	}
	return "Password"
}
