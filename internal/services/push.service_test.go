package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"roomflow/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPushService(url string) *PushService {
	return NewPushService(config.Config{
		PushProviderURL: url,
		PushTokenPrefix: "ExponentPushToken",
	})
}

func TestPushSendPayload(t *testing.T) {
	var received []PushMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var msg PushMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
		received = append(received, msg)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	push := newTestPushService(server.URL)
	sent := push.Send(context.Background(),
		[]string{"ExponentPushToken[aaa]", "ExponentPushToken[bbb]"},
		"Rush task", "Room 101 is now a rush priority",
		map[string]any{"taskId": "t-1"})

	assert.Equal(t, 2, sent)
	require.Len(t, received, 2)
	assert.Equal(t, "ExponentPushToken[aaa]", received[0].To)
	assert.Equal(t, "Rush task", received[0].Title)
	assert.Equal(t, "Room 101 is now a rush priority", received[0].Body)
	assert.Equal(t, "default", received[0].Sound)
	assert.Equal(t, "t-1", received[0].Data["taskId"])
}

func TestPushSendSkipsForeignTokens(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	push := newTestPushService(server.URL)
	sent := push.Send(context.Background(),
		[]string{"apns-raw-device-token", "ExponentPushToken[ok]"},
		"Title", "Body", nil)

	assert.Equal(t, 1, sent)
	assert.Equal(t, 1, calls)
}

func TestPushSendIsolatesFailures(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	push := newTestPushService(server.URL)
	sent := push.Send(context.Background(),
		[]string{"ExponentPushToken[fail]", "ExponentPushToken[ok]"},
		"Title", "Body", nil)

	// The first delivery fails, the second still goes out.
	assert.Equal(t, 1, sent)
	assert.Equal(t, 2, calls)
}

func TestPushSendUnreachableProvider(t *testing.T) {
	push := newTestPushService("http://127.0.0.1:1")

	sent := push.Send(context.Background(),
		[]string{"ExponentPushToken[any]"}, "Title", "Body", nil)
	assert.Zero(t, sent)
}

func TestTokenTail(t *testing.T) {
	assert.Equal(t, "short", tail("short"))
	assert.Equal(t, "...12345678", tail("ExponentPushToken[12345678"))
}
