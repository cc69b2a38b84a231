package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mkhalikov/cryptolocker/internal/i18n"
	"github.com/mkhalikov/cryptolocker/internal/logger"
	"github.com/mkhalikov/cryptolocker/internal/mock"
	"github.com/mkhalikov/cryptolocker/internal/store"
	"github.com/mkhalikov/cryptolocker/models"
)

func newTestEngine(t *testing.T, ctrl *gomock.Controller) (*Engine, *mock.MockCredentials, *mock.MockPreferences) {
	t.Helper()

	creds := mock.NewMockCredentials(ctrl)
	prefs := mock.NewMockPreferences(ctrl)
	prefs.EXPECT().EnsureUser(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	prefs.EXPECT().Language(gomock.Any(), gomock.Any()).Return(models.LangEN, nil).AnyTimes()

	return New(creds, prefs, time.Minute, logger.Nop()), creds, prefs
}

func textEvent(userID int64, text string) models.Event {
	return models.Event{UserID: userID, Kind: models.EventText, Payload: text}
}

func buttonEvent(userID int64, payload string, messageID int64) models.Event {
	return models.Event{UserID: userID, Kind: models.EventButton, Payload: payload, MessageID: messageID}
}

func commandEvent(userID int64, command string, args ...string) models.Event {
	return models.Event{UserID: userID, Kind: models.EventCommand, Command: command, Args: args}
}

func singleBody(t *testing.T, responses []models.Response) string {
	t.Helper()
	require.Len(t, responses, 1)
	return responses[0].Body
}

// ── add flow ────────────────────────────────────────────────────────────────

func TestAddFlow_HappyPath(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	eng, creds, _ := newTestEngine(t, ctrl)
	ctx := context.Background()

	creds.EXPECT().Add(gomock.Any(), int64(7), "Gmail", "bob@example.com", "hunter2").Return(int64(1), nil)

	body := singleBody(t, eng.Handle(ctx, textEvent(7, i18n.T(models.LangEN, i18n.KeyBtnAdd))))
	assert.Equal(t, i18n.T(models.LangEN, i18n.KeyAskAddName), body)

	body = singleBody(t, eng.Handle(ctx, textEvent(7, "Gmail")))
	assert.Contains(t, body, "Gmail")

	body = singleBody(t, eng.Handle(ctx, textEvent(7, "bob@example.com")))
	assert.Contains(t, body, "Gmail")

	body = singleBody(t, eng.Handle(ctx, textEvent(7, "hunter2")))
	assert.Contains(t, body, "Gmail")
	assert.NotContains(t, body, "hunter2")

	s := eng.sessions.acquire(7)
	assert.Equal(t, StateIdle, s.state)
	assert.Empty(t, s.pending.username)
	eng.sessions.release(s)
}

func TestAddFlow_InvalidNameReprompts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	eng, _, _ := newTestEngine(t, ctrl)
	ctx := context.Background()

	eng.Handle(ctx, textEvent(7, i18n.T(models.LangEN, i18n.KeyBtnAdd)))

	body := singleBody(t, eng.Handle(ctx, textEvent(7, strings.Repeat("x", 65))))
	assert.Equal(t, i18n.T(models.LangEN, i18n.KeyInvalidName), body)

	s := eng.sessions.acquire(7)
	assert.Equal(t, StateAwaitingName, s.state)
	eng.sessions.release(s)
}

func TestAddFlow_CancelDiscardsPartialInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	eng, _, _ := newTestEngine(t, ctrl)
	ctx := context.Background()

	eng.Handle(ctx, textEvent(7, i18n.T(models.LangEN, i18n.KeyBtnAdd)))
	eng.Handle(ctx, textEvent(7, "Gmail"))
	eng.Handle(ctx, textEvent(7, "bob@example.com"))

	// Cancel while the password is pending. Nothing may be stored: the
	// Credentials mock has no Add expectation, so a call would fail the test.
	eng.Handle(ctx, commandEvent(7, "cancel"))

	s := eng.sessions.acquire(7)
	assert.Equal(t, StateIdle, s.state)
	assert.Empty(t, s.pending.name)
	assert.Empty(t, s.pending.username)
	eng.sessions.release(s)
}

func TestAddFlow_TimeoutDiscardsPartialInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	eng, _, _ := newTestEngine(t, ctrl)
	ctx := context.Background()

	eng.Handle(ctx, textEvent(7, i18n.T(models.LangEN, i18n.KeyBtnAdd)))
	eng.Handle(ctx, textEvent(7, "Gmail"))
	eng.Handle(ctx, textEvent(7, "bob@example.com"))

	s := eng.sessions.acquire(7)
	s.expiresAt = time.Now().Add(-time.Second)
	eng.sessions.release(s)

	// The pending password arrives after expiry and must be treated as menu
	// input, not stored. No Add expectation is set.
	body := singleBody(t, eng.Handle(ctx, textEvent(7, "hunter2")))
	assert.Equal(t, i18n.T(models.LangEN, i18n.KeyMenuHint), body)

	s = eng.sessions.acquire(7)
	assert.Equal(t, StateIdle, s.state)
	assert.Empty(t, s.pending.username)
	eng.sessions.release(s)
}

func TestAddFlow_StoreFailureResetsAndStaysGeneric(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	eng, creds, _ := newTestEngine(t, ctrl)
	ctx := context.Background()

	creds.EXPECT().Add(gomock.Any(), int64(7), "Gmail", "user", "pass").Return(int64(0), errors.New("disk full"))

	eng.Handle(ctx, textEvent(7, i18n.T(models.LangEN, i18n.KeyBtnAdd)))
	eng.Handle(ctx, textEvent(7, "Gmail"))
	eng.Handle(ctx, textEvent(7, "user"))

	body := singleBody(t, eng.Handle(ctx, textEvent(7, "pass")))
	assert.Equal(t, i18n.T(models.LangEN, i18n.KeyErrGeneric), body)

	s := eng.sessions.acquire(7)
	assert.Equal(t, StateIdle, s.state)
	eng.sessions.release(s)
}

// ── search flow ─────────────────────────────────────────────────────────────

func TestSearchFlow_ResultsKeyboard(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	eng, creds, _ := newTestEngine(t, ctrl)
	ctx := context.Background()

	creds.EXPECT().Search(gomock.Any(), int64(7), "mail").Return([]models.CredentialSummary{
		{ID: 5, Name: "Gmail"},
	}, nil)

	eng.Handle(ctx, textEvent(7, i18n.T(models.LangEN, i18n.KeyBtnSearch)))
	responses := eng.Handle(ctx, textEvent(7, "mail"))

	require.Len(t, responses, 1)
	require.NotNil(t, responses[0].Keyboard)
	assert.True(t, responses[0].Keyboard.Inline)
	require.Len(t, responses[0].Keyboard.Rows, 1)
	assert.Equal(t, "Gmail", responses[0].Keyboard.Rows[0][0].Label)
	assert.Equal(t, "show|5", responses[0].Keyboard.Rows[0][0].Data)
}

func TestSearchFlow_NoMatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	eng, creds, _ := newTestEngine(t, ctrl)
	ctx := context.Background()

	creds.EXPECT().Search(gomock.Any(), int64(7), "nothing").Return(nil, nil)

	eng.Handle(ctx, textEvent(7, i18n.T(models.LangEN, i18n.KeyBtnSearch)))
	body := singleBody(t, eng.Handle(ctx, textEvent(7, "nothing")))
	assert.Contains(t, body, "nothing")

	s := eng.sessions.acquire(7)
	assert.Equal(t, StateIdle, s.state)
	eng.sessions.release(s)
}

// ── show flow ───────────────────────────────────────────────────────────────

func TestShowEntry_EphemeralWithCloseButton(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	eng, creds, _ := newTestEngine(t, ctrl)
	ctx := context.Background()

	creds.EXPECT().Reveal(gomock.Any(), int64(7), int64(5)).Return(models.DecryptedCredential{
		ID: 5, Name: "Gmail", Username: "bob@example.com", Password: "a<b",
	}, nil)

	responses := eng.Handle(ctx, buttonEvent(7, "show|5", 100))
	require.Len(t, responses, 1)

	resp := responses[0]
	assert.True(t, resp.Ephemeral)
	assert.True(t, resp.HTML)
	assert.Equal(t, int64(100), resp.EditMessageID)
	assert.Contains(t, resp.Body, "bob@example.com")
	assert.Contains(t, resp.Body, "a&lt;b")
	require.NotNil(t, resp.Keyboard)
	assert.Equal(t, "close", resp.Keyboard.Rows[0][0].Data)
}

func TestShowEntry_CloseDeletesMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	eng, _, _ := newTestEngine(t, ctrl)
	ctx := context.Background()

	responses := eng.Handle(ctx, buttonEvent(7, "close", 100))
	require.Len(t, responses, 1)
	assert.Equal(t, int64(100), responses[0].DeleteMessageID)
	assert.Empty(t, responses[0].Body)
}

func TestShowEntry_DecryptionFailureIsGeneric(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	eng, creds, _ := newTestEngine(t, ctrl)
	ctx := context.Background()

	creds.EXPECT().Reveal(gomock.Any(), int64(7), int64(5)).
		Return(models.DecryptedCredential{}, errors.New("decryption failed"))

	body := singleBody(t, eng.Handle(ctx, buttonEvent(7, "show|5", 100)))
	assert.Equal(t, i18n.T(models.LangEN, i18n.KeyErrGeneric), body)
}

// ── remove flow ─────────────────────────────────────────────────────────────

func TestRemoveFlow_ConfirmThenDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	eng, creds, _ := newTestEngine(t, ctrl)
	ctx := context.Background()

	summary := models.CredentialSummary{ID: 5, Name: "Gmail"}
	creds.EXPECT().Describe(gomock.Any(), int64(7), int64(5)).Return(summary, nil).Times(2)
	creds.EXPECT().Remove(gomock.Any(), int64(7), int64(5)).Return(nil)

	responses := eng.Handle(ctx, buttonEvent(7, "remove_confirm|5", 100))
	require.Len(t, responses, 1)
	assert.Contains(t, responses[0].Body, "Gmail")
	require.NotNil(t, responses[0].Keyboard)
	assert.Equal(t, "remove_do|5", responses[0].Keyboard.Rows[0][0].Data)
	assert.Equal(t, "cancel", responses[0].Keyboard.Rows[0][1].Data)

	body := singleBody(t, eng.Handle(ctx, buttonEvent(7, "remove_do|5", 100)))
	assert.Equal(t, i18n.T(models.LangEN, i18n.KeyRemovedSuccess, "name", "Gmail"), body)
}

func TestRemoveFlow_CancelKeepsEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	eng, creds, _ := newTestEngine(t, ctrl)
	ctx := context.Background()

	creds.EXPECT().Describe(gomock.Any(), int64(7), int64(5)).
		Return(models.CredentialSummary{ID: 5, Name: "Gmail"}, nil)

	eng.Handle(ctx, buttonEvent(7, "remove_confirm|5", 100))

	// No Remove expectation: pressing No must not delete anything.
	body := singleBody(t, eng.Handle(ctx, buttonEvent(7, "cancel", 100)))
	assert.Equal(t, i18n.T(models.LangEN, i18n.KeyMenuHint), body)

	s := eng.sessions.acquire(7)
	assert.Equal(t, StateIdle, s.state)
	eng.sessions.release(s)
}

func TestRemoveFlow_MissingEntryIsGeneric(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	eng, creds, _ := newTestEngine(t, ctrl)
	ctx := context.Background()

	creds.EXPECT().Describe(gomock.Any(), int64(7), int64(99)).
		Return(models.CredentialSummary{}, store.ErrCredentialNotFound)

	body := singleBody(t, eng.Handle(ctx, buttonEvent(7, "remove_do|99", 100)))
	assert.Equal(t, i18n.T(models.LangEN, i18n.KeyErrGeneric), body)
}

// ── edit flow ───────────────────────────────────────────────────────────────

func TestEditFlow_FullPath(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	eng, creds, _ := newTestEngine(t, ctrl)
	ctx := context.Background()

	summary := models.CredentialSummary{ID: 5, Name: "Gmail"}
	creds.EXPECT().Describe(gomock.Any(), int64(7), int64(5)).Return(summary, nil).Times(2)
	creds.EXPECT().UpdateField(gomock.Any(), int64(7), int64(5), models.FieldPassword, "new-pass").Return(nil)

	responses := eng.Handle(ctx, buttonEvent(7, "edit_select|5", 100))
	require.Len(t, responses, 1)
	require.NotNil(t, responses[0].Keyboard)
	assert.Equal(t, "edit_field|5|username", responses[0].Keyboard.Rows[0][0].Data)
	assert.Equal(t, "edit_field|5|password", responses[0].Keyboard.Rows[0][1].Data)

	body := singleBody(t, eng.Handle(ctx, buttonEvent(7, "edit_field|5|password", 100)))
	assert.Contains(t, body, "Gmail")

	body = singleBody(t, eng.Handle(ctx, textEvent(7, "new-pass")))
	assert.Contains(t, body, "Password")
	assert.Contains(t, body, "Gmail")
	assert.NotContains(t, body, "new-pass")
}

func TestEditFlow_RejectsUnknownField(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	eng, _, _ := newTestEngine(t, ctrl)
	ctx := context.Background()

	body := singleBody(t, eng.Handle(ctx, buttonEvent(7, "edit_field|5|name", 100)))
	assert.Equal(t, i18n.T(models.LangEN, i18n.KeyErrGeneric), body)
}

func TestEditFlow_ConflictIsGeneric(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	eng, creds, _ := newTestEngine(t, ctrl)
	ctx := context.Background()

	creds.EXPECT().Describe(gomock.Any(), int64(7), int64(5)).
		Return(models.CredentialSummary{ID: 5, Name: "Gmail"}, nil)
	creds.EXPECT().UpdateField(gomock.Any(), int64(7), int64(5), models.FieldUsername, "v").
		Return(store.ErrVersionConflict)

	eng.Handle(ctx, buttonEvent(7, "edit_field|5|username", 100))
	body := singleBody(t, eng.Handle(ctx, textEvent(7, "v")))
	assert.Equal(t, i18n.T(models.LangEN, i18n.KeyErrGeneric), body)

	s := eng.sessions.acquire(7)
	assert.Equal(t, StateIdle, s.state)
	eng.sessions.release(s)
}

// ── commands and isolation ──────────────────────────────────────────────────

func TestStartCommand_Greets(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	eng, _, _ := newTestEngine(t, ctrl)
	ctx := context.Background()

	responses := eng.Handle(ctx, commandEvent(7, "start"))
	require.Len(t, responses, 1)
	assert.Contains(t, responses[0].Body, i18n.T(models.LangEN, i18n.KeyWelcome))
	require.NotNil(t, responses[0].Keyboard)
	assert.False(t, responses[0].Keyboard.Inline)
}

func TestHandle_RegistersUserOnEveryEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	creds := mock.NewMockCredentials(ctrl)
	prefs := mock.NewMockPreferences(ctrl)
	eng := New(creds, prefs, time.Minute, logger.Nop())
	ctx := context.Background()

	// A plain text event from a user who never sent /start still upserts
	// the users row, so later credential writes have an owner.
	gomock.InOrder(
		prefs.EXPECT().EnsureUser(gomock.Any(), int64(7)).Return(nil),
		prefs.EXPECT().Language(gomock.Any(), int64(7)).Return(models.LangEN, nil),
	)

	body := singleBody(t, eng.Handle(ctx, textEvent(7, "anything")))
	assert.Equal(t, i18n.T(models.LangEN, i18n.KeyMenuHint), body)
}

func TestLangCommand_WorksWithoutPriorStart(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	creds := mock.NewMockCredentials(ctrl)
	prefs := mock.NewMockPreferences(ctrl)
	eng := New(creds, prefs, time.Minute, logger.Nop())
	ctx := context.Background()

	gomock.InOrder(
		prefs.EXPECT().EnsureUser(gomock.Any(), int64(7)).Return(nil),
		prefs.EXPECT().Language(gomock.Any(), int64(7)).Return(models.LangEN, nil),
		prefs.EXPECT().SetLanguage(gomock.Any(), int64(7), models.LangFA).Return(nil),
	)

	body := singleBody(t, eng.Handle(ctx, commandEvent(7, "lang", "fa")))
	assert.Equal(t, i18n.T(models.LangFA, i18n.KeyLangChangedFA), body)
}

func TestLangCommand(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	eng, _, prefs := newTestEngine(t, ctrl)
	ctx := context.Background()

	body := singleBody(t, eng.Handle(ctx, commandEvent(7, "lang")))
	assert.Contains(t, body, "Usage: /lang")

	body = singleBody(t, eng.Handle(ctx, commandEvent(7, "lang", "de")))
	assert.Contains(t, body, "Usage: /lang")

	prefs.EXPECT().SetLanguage(gomock.Any(), int64(7), models.LangFA).Return(nil)
	body = singleBody(t, eng.Handle(ctx, commandEvent(7, "lang", "fa")))
	assert.Equal(t, i18n.T(models.LangFA, i18n.KeyLangChangedFA), body)
}

func TestSessions_UsersAreIsolated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	eng, _, _ := newTestEngine(t, ctrl)
	ctx := context.Background()

	eng.Handle(ctx, textEvent(7, i18n.T(models.LangEN, i18n.KeyBtnAdd)))
	eng.Handle(ctx, textEvent(7, "Gmail"))

	// A second user's menu press must not see or disturb user 7's flow.
	body := singleBody(t, eng.Handle(ctx, textEvent(8, "whatever")))
	assert.Equal(t, i18n.T(models.LangEN, i18n.KeyMenuHint), body)

	s := eng.sessions.acquire(7)
	assert.Equal(t, StateAwaitingUsername, s.state)
	assert.Equal(t, "Gmail", s.pending.name)
	eng.sessions.release(s)
}
