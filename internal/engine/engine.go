// Package engine drives the per-user conversation state machine: it turns
// inbound chat events into state transitions and outbound responses, keeping
// any plaintext collected mid-flow in memory only and discarding it on
// cancel, timeout or failure.
package engine

import (
	"context"
	"strings"
	"time"

	"github.com/mkhalikov/cryptolocker/internal/i18n"
	"github.com/mkhalikov/cryptolocker/internal/logger"
	"github.com/mkhalikov/cryptolocker/internal/service"
	"github.com/mkhalikov/cryptolocker/models"
)

// Engine routes events for all users. Events for the same user are handled
// strictly in arrival order; distinct users proceed concurrently.
type Engine struct {
	creds    service.Credentials
	prefs    service.Preferences
	sessions *sessionManager
	logger   *logger.Logger
}

// New constructs the engine. ttl bounds how long an unfinished flow (and
// any partial plaintext it holds) survives without input; zero selects
// [DefaultSessionTTL].
func New(creds service.Credentials, prefs service.Preferences, ttl time.Duration, log *logger.Logger) *Engine {
	return &Engine{
		creds:    creds,
		prefs:    prefs,
		sessions: newSessionManager(ttl),
		logger:   log,
	}
}

// Run expires abandoned flows in the background until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) {
	e.sessions.run(ctx)
}

// Handle processes one inbound event and returns the responses to deliver.
func (e *Engine) Handle(ctx context.Context, ev models.Event) []models.Response {
	log := logger.FromContext(ctx)

	s := e.sessions.acquire(ev.UserID)
	defer e.sessions.release(s)

	// Registration is idempotent and happens on every event, so language
	// and credential writes always have an owner row even when the user
	// never sent /start.
	if err := e.prefs.EnsureUser(ctx, ev.UserID); err != nil {
		log.Err(err).
			Str("func", "Engine.Handle").
			Int64("user_id", ev.UserID).
			Msg("failed to register user")
	}

	lang := e.language(ctx, ev.UserID)

	log.Debug().
		Str("func", "Engine.Handle").
		Int64("user_id", ev.UserID).
		Str("kind", ev.Kind.String()).
		Str("state", s.state.String()).
		Msg("handling event")

	var responses []models.Response
	switch ev.Kind {
	case models.EventCommand:
		responses = e.handleCommand(ctx, s, ev, lang)
	case models.EventButton:
		responses = e.handleButton(ctx, s, ev, lang)
	default:
		responses = e.handleText(ctx, s, ev, lang)
	}

	e.sessions.touch(s)
	return responses
}

func (e *Engine) language(ctx context.Context, userID int64) string {
	lang, err := e.prefs.Language(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "Engine.language").
			Int64("user_id", userID).
			Msg("failed to resolve language, using default")
		return models.DefaultLang
	}
	return lang
}

func (e *Engine) handleCommand(ctx context.Context, s *session, ev models.Event, lang string) []models.Response {
	switch ev.Command {
	case "start":
		s.reset()
		body := i18n.T(lang, i18n.KeyWelcome) + "\n\n" + i18n.T(lang, i18n.KeyMenuHint)
		return e.text(ev.UserID, body, mainMenu(lang))

	case "menu":
		return e.text(ev.UserID, i18n.T(lang, i18n.KeyMenuHint), mainMenu(lang))

	case "lang":
		return e.handleLangCommand(ctx, ev, lang)

	case "cancel":
		s.reset()
		return e.text(ev.UserID, i18n.T(lang, i18n.KeyMenuHint), mainMenu(lang))

	default:
		return e.text(ev.UserID, i18n.T(lang, i18n.KeyMenuHint), mainMenu(lang))
	}
}

func (e *Engine) handleLangCommand(ctx context.Context, ev models.Event, lang string) []models.Response {
	usage := "Usage: /lang " + models.LangEN + "|" + models.LangFA

	if len(ev.Args) == 0 {
		return e.text(ev.UserID, usage, nil)
	}

	requested := strings.ToLower(ev.Args[0])
	if !models.SupportedLang(requested) {
		return e.text(ev.UserID, usage, nil)
	}

	if err := e.prefs.SetLanguage(ctx, ev.UserID, requested); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "Engine.handleLangCommand").
			Int64("user_id", ev.UserID).
			Msg("failed to store language")
		return e.text(ev.UserID, i18n.T(lang, i18n.KeyErrGeneric), nil)
	}

	key := i18n.KeyLangChangedEN
	if requested == models.LangFA {
		key = i18n.KeyLangChangedFA
	}
	return e.text(ev.UserID, i18n.T(requested, key), mainMenu(requested))
}

// text builds a single plain outbound message.
func (e *Engine) text(userID int64, body string, kb *models.Keyboard) []models.Response {
	return []models.Response{{
		ChatID:   userID,
		Body:     body,
		Keyboard: kb,
	}}
}

// edit builds a single response that rewrites an existing message in place.
func (e *Engine) edit(userID, messageID int64, body string, kb *models.Keyboard) []models.Response {
	return []models.Response{{
		ChatID:        userID,
		Body:          body,
		Keyboard:      kb,
		EditMessageID: messageID,
	}}
}
