package engine

import (
	"context"
	"html"
	"strconv"
	"strings"

	"github.com/mkhalikov/cryptolocker/internal/i18n"
	"github.com/mkhalikov/cryptolocker/internal/logger"
	"github.com/mkhalikov/cryptolocker/models"
)

func (e *Engine) handleButton(ctx context.Context, s *session, ev models.Event, lang string) []models.Response {
	parts := strings.Split(ev.Payload, cbSep)

	switch {
	case parts[0] == cbShow && len(parts) == 2:
		return e.showEntry(ctx, s, ev, parts[1], lang)

	case parts[0] == cbRemoveConfirm && len(parts) == 2:
		return e.askRemoveConfirm(ctx, s, ev, parts[1], lang)

	case parts[0] == cbRemoveDo && len(parts) == 2:
		return e.removeEntry(ctx, s, ev, parts[1], lang)

	case parts[0] == cbEditSelect && len(parts) == 2:
		return e.askEditChoice(ctx, s, ev, parts[1], lang)

	case parts[0] == cbEditField && len(parts) == 3:
		return e.askEditValue(ctx, s, ev, parts[1], parts[2], lang)

	case parts[0] == cbCancel:
		s.reset()
		return e.edit(ev.UserID, ev.MessageID, i18n.T(lang, i18n.KeyMenuHint), nil)

	case parts[0] == cbClose:
		s.reset()
		return []models.Response{{
			ChatID:          ev.UserID,
			DeleteMessageID: ev.MessageID,
		}}

	default:
		return e.edit(ev.UserID, ev.MessageID, i18n.T(lang, i18n.KeyErrGeneric), nil)
	}
}

// parseEntryID decodes the id portion of a callback payload. Payloads are
// produced by this package, so a parse failure means a stale or forged
// button; the raw payload is not echoed back.
func parseEntryID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (e *Engine) showEntry(ctx context.Context, s *session, ev models.Event, rawID, lang string) []models.Response {
	log := logger.FromContext(ctx)

	id, ok := parseEntryID(rawID)
	if !ok {
		return e.edit(ev.UserID, ev.MessageID, i18n.T(lang, i18n.KeyErrGeneric), nil)
	}

	cred, err := e.creds.Reveal(ctx, ev.UserID, id)
	if err != nil {
		log.Err(err).
			Str("func", "Engine.showEntry").
			Int64("user_id", ev.UserID).
			Int64("id", id).
			Msg("failed to reveal credential")
		return e.edit(ev.UserID, ev.MessageID, i18n.T(lang, i18n.KeyErrGeneric), nil)
	}

	body := "<b>" + html.EscapeString(cred.Name) + "</b>\n" +
		"<pre>Username: " + html.EscapeString(cred.Username) +
		"\nPassword: " + html.EscapeString(cred.Password) + "</pre>"

	s.reset()
	s.state = StateShowingEntry

	return []models.Response{{
		ChatID:        ev.UserID,
		Body:          body,
		HTML:          true,
		Keyboard:      closeOnly(lang),
		Ephemeral:     true,
		EditMessageID: ev.MessageID,
	}}
}

func (e *Engine) askRemoveConfirm(ctx context.Context, s *session, ev models.Event, rawID, lang string) []models.Response {
	id, ok := parseEntryID(rawID)
	if !ok {
		return e.edit(ev.UserID, ev.MessageID, i18n.T(lang, i18n.KeyErrGeneric), nil)
	}

	summary, err := e.creds.Describe(ctx, ev.UserID, id)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "Engine.askRemoveConfirm").
			Int64("user_id", ev.UserID).
			Int64("id", id).
			Msg("failed to load credential")
		return e.edit(ev.UserID, ev.MessageID, i18n.T(lang, i18n.KeyErrGeneric), nil)
	}

	s.reset()
	s.state = StateAwaitingDeleteConfirmation
	s.pending.credID = id
	s.pending.credName = summary.Name

	return e.edit(ev.UserID, ev.MessageID,
		i18n.T(lang, i18n.KeyAskRemoveConfirm, "name", summary.Name),
		confirmDelete(lang, id))
}

func (e *Engine) removeEntry(ctx context.Context, s *session, ev models.Event, rawID, lang string) []models.Response {
	log := logger.FromContext(ctx)

	id, ok := parseEntryID(rawID)
	if !ok {
		return e.edit(ev.UserID, ev.MessageID, i18n.T(lang, i18n.KeyErrGeneric), nil)
	}

	summary, err := e.creds.Describe(ctx, ev.UserID, id)
	if err != nil {
		s.reset()
		return e.edit(ev.UserID, ev.MessageID, i18n.T(lang, i18n.KeyErrGeneric), nil)
	}

	if err := e.creds.Remove(ctx, ev.UserID, id); err != nil {
		log.Err(err).
			Str("func", "Engine.removeEntry").
			Int64("user_id", ev.UserID).
			Int64("id", id).
			Msg("failed to remove credential")
		s.reset()
		return e.edit(ev.UserID, ev.MessageID, i18n.T(lang, i18n.KeyErrGeneric), nil)
	}

	log.Info().
		Str("func", "Engine.removeEntry").
		Int64("user_id", ev.UserID).
		Int64("id", id).
		Msg("credential removed")

	s.reset()
	return e.edit(ev.UserID, ev.MessageID, i18n.T(lang, i18n.KeyRemovedSuccess, "name", summary.Name), nil)
}

func (e *Engine) askEditChoice(ctx context.Context, s *session, ev models.Event, rawID, lang string) []models.Response {
	id, ok := parseEntryID(rawID)
	if !ok {
		return e.edit(ev.UserID, ev.MessageID, i18n.T(lang, i18n.KeyErrGeneric), nil)
	}

	summary, err := e.creds.Describe(ctx, ev.UserID, id)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "Engine.askEditChoice").
			Int64("user_id", ev.UserID).
			Int64("id", id).
			Msg("failed to load credential")
		return e.edit(ev.UserID, ev.MessageID, i18n.T(lang, i18n.KeyErrGeneric), nil)
	}

	s.reset()
	s.state = StateAwaitingEditChoice
	s.pending.credID = id
	s.pending.credName = summary.Name

	return e.edit(ev.UserID, ev.MessageID,
		i18n.T(lang, i18n.KeyEditChooseField, "name", summary.Name),
		editChoice(lang, id))
}

func (e *Engine) askEditValue(ctx context.Context, s *session, ev models.Event, rawID, rawField, lang string) []models.Response {
	id, ok := parseEntryID(rawID)
	if !ok {
		return e.edit(ev.UserID, ev.MessageID, i18n.T(lang, i18n.KeyErrGeneric), nil)
	}

	field := models.CredentialField(rawField)
	if !field.Valid() {
		return e.edit(ev.UserID, ev.MessageID, i18n.T(lang, i18n.KeyErrGeneric), nil)
	}

	summary, err := e.creds.Describe(ctx, ev.UserID, id)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "Engine.askEditValue").
			Int64("user_id", ev.UserID).
			Int64("id", id).
			Msg("failed to load credential")
		return e.edit(ev.UserID, ev.MessageID, i18n.T(lang, i18n.KeyErrGeneric), nil)
	}

	s.reset()
	s.state = StateAwaitingEditValue
	s.pending.credID = id
	s.pending.credName = summary.Name
	s.pending.field = field

	promptKey := i18n.KeyAskNewUsername
	if field == models.FieldPassword {
		promptKey = i18n.KeyAskNewPassword
	}
	return e.edit(ev.UserID, ev.MessageID, i18n.T(lang, promptKey, "name", summary.Name), nil)
}
