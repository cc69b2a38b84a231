package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T, handler http.HandlerFunc) (BotAPI, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	api := NewTelegramClient(TelegramConfig{
		Token:   "test-token",
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
	})
	return api, srv
}

func TestGetUpdates_Success(t *testing.T) {
	api, _ := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottest-token/getUpdates", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.EqualValues(t, 10, body["offset"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok": true,
			"result": []map[string]any{
				{
					"update_id": 11,
					"message": map[string]any{
						"message_id": 1,
						"from":       map[string]any{"id": 7},
						"chat":       map[string]any{"id": 7},
						"text":       "hello",
					},
				},
			},
		})
	})

	updates, err := api.GetUpdates(context.Background(), 10, time.Second)
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, int64(11), updates[0].UpdateID)
	require.NotNil(t, updates[0].Message)
	assert.Equal(t, "hello", updates[0].Message.Text)
	assert.Equal(t, int64(7), updates[0].Message.From.ID)
}

func TestGetUpdates_PollWindowExtendsRequestBudget(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Answer well past the plain request budget but inside the poll
		// window, like an idle long poll does.
		time.Sleep(500 * time.Millisecond)
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "result": []any{}})
	}))
	t.Cleanup(srv.Close)

	api := NewTelegramClient(TelegramConfig{
		Token:   "test-token",
		BaseURL: srv.URL,
		Timeout: 100 * time.Millisecond,
	})

	updates, err := api.GetUpdates(context.Background(), 0, 2*time.Second)
	require.NoError(t, err)
	assert.Empty(t, updates)

	// The plain budget still applies to everything else.
	_, err = api.SendMessage(context.Background(), OutgoingMessage{ChatID: 7, Text: "hi"})
	require.Error(t, err)
}

func TestSendMessage_Success(t *testing.T) {
	api, _ := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottest-token/sendMessage", r.URL.Path)

		var msg OutgoingMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
		assert.Equal(t, int64(7), msg.ChatID)
		assert.Equal(t, "hi", msg.Text)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":     true,
			"result": map[string]any{"message_id": 55, "chat": map[string]any{"id": 7}},
		})
	})

	sent, err := api.SendMessage(context.Background(), OutgoingMessage{ChatID: 7, Text: "hi"})
	require.NoError(t, err)
	assert.Equal(t, int64(55), sent.MessageID)
}

func TestSendMessage_APIRejection(t *testing.T) {
	api, _ := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":          false,
			"error_code":  400,
			"description": "Bad Request: message text is empty",
		})
	})

	_, err := api.SendMessage(context.Background(), OutgoingMessage{ChatID: 7})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAPIRejected)
}

func TestDeleteMessage(t *testing.T) {
	api, _ := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottest-token/deleteMessage", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.EqualValues(t, 7, body["chat_id"])
		assert.EqualValues(t, 55, body["message_id"])

		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "result": true})
	})

	require.NoError(t, api.DeleteMessage(context.Background(), 7, 55))
}

func TestEditMessageText(t *testing.T) {
	api, _ := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottest-token/editMessageText", r.URL.Path)

		var msg OutgoingMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
		assert.Equal(t, int64(55), msg.MessageID)

		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "result": map[string]any{}})
	})

	err := api.EditMessageText(context.Background(), OutgoingMessage{ChatID: 7, MessageID: 55, Text: "edited"})
	require.NoError(t, err)
}
