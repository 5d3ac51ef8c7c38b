package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const fcmSendEndpoint = "https://fcm.googleapis.com/fcm/send"

// FCMClient delivers pushes through the Firebase Cloud Messaging legacy
// HTTP endpoint.
type FCMClient struct {
	serverKey  string
	endpoint   string
	httpClient *http.Client
}

func NewFCMClient(serverKey string) *FCMClient {
	return &FCMClient{
		serverKey:  serverKey,
		endpoint:   fcmSendEndpoint,
		httpClient: http.DefaultClient,
	}
}

func (c *FCMClient) Send(ctx context.Context, token string, notification PushNotification) error {
	payload := map[string]any{
		"to": token,
		"notification": map[string]string{
			"title": notification.Title,
			"body":  notification.Body,
		},
		"data": notification.Data,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+c.serverKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send push: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		responseBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("send push: status %d: %s", resp.StatusCode, strings.TrimSpace(string(responseBody)))
	}

	return nil
}
