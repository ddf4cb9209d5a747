package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"roomflow/config"
	"roomflow/internal/apperrors"

	logger "github.com/Bparsons0904/goLogger"
)

// PushMessage is the provider payload for one device token.
type PushMessage struct {
	To    string         `json:"to"`
	Title string         `json:"title"`
	Body  string         `json:"body"`
	Data  map[string]any `json:"data,omitempty"`
	Sound string         `json:"sound"`
}

// PushService sends mobile push notifications through an Expo-compatible
// HTTP endpoint. Tokens that do not carry the provider prefix are skipped
// with a warning; delivery failures are isolated per token.
type PushService struct {
	client      *http.Client
	providerURL string
	tokenPrefix string
	log         logger.Logger
}

func NewPushService(config config.Config) *PushService {
	return &PushService{
		client:      &http.Client{Timeout: 10 * time.Second},
		providerURL: config.PushProviderURL,
		tokenPrefix: config.PushTokenPrefix,
		log:         logger.New("PushService"),
	}
}

// Send delivers the message to every token. Errors for individual tokens
// are logged and counted, never returned to the caller as a hard failure;
// the returned count is the number of accepted deliveries.
func (s *PushService) Send(
	ctx context.Context,
	tokens []string,
	title, body string,
	data map[string]any,
) int {
	log := s.log.Function("Send")

	sent := 0
	for _, token := range tokens {
		if !strings.HasPrefix(token, s.tokenPrefix) {
			log.Warn("skipping push token without provider prefix", "tokenSuffix", tail(token))
			continue
		}
		if err := s.sendOne(ctx, token, title, body, data); err != nil {
			log.Er("push delivery failed", err, "tokenSuffix", tail(token))
			continue
		}
		sent++
	}
	return sent
}

func (s *PushService) sendOne(
	ctx context.Context,
	token, title, body string,
	data map[string]any,
) error {
	payload, err := json.Marshal(PushMessage{
		To:    token,
		Title: title,
		Body:  body,
		Data:  data,
		Sound: "default",
	})
	if err != nil {
		return apperrors.Wrap(err, apperrors.KindInternal, "failed to encode push payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.providerURL, bytes.NewReader(payload))
	if err != nil {
		return apperrors.Wrap(err, apperrors.KindInternal, "failed to build push request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return apperrors.Wrap(err, apperrors.KindUpstream, "push provider unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return apperrors.Upstream(
			fmt.Sprintf("push provider returned %d: %s", resp.StatusCode, string(snippet)))
	}
	return nil
}

// tail returns the last characters of a token for log lines, enough to
// correlate without logging the full credential.
func tail(token string) string {
	const n = 8
	if len(token) <= n {
		return token
	}
	return "..." + token[len(token)-n:]
}
