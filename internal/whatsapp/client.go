// Package whatsapp is the HTTP client for the chat-session transport.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"funnel_backend/platform/config"
	"funnel_backend/platform/logger"
)

// Client talks to the session-based chat transport. A nil Client is a valid
// no-op sender for environments without a configured transport URL.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *logger.Logger
}

type sendMessageRequest struct {
	ChatID      string `json:"chatId"`
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
	ReplyTo     string `json:"replyTo,omitempty"`
}

type sessionStatusResponse struct {
	Success bool   `json:"success"`
	State   string `json:"state"`
	Message string `json:"message"`
}

// NewClient creates the transport client, or nil when no URL is configured.
func NewClient(cfg config.WhatsAppConfig, log *logger.Logger) *Client {
	if cfg.GetWhatsAppURL() == "" {
		return nil
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.GetWhatsAppURL(), "/"),
		apiKey:  cfg.GetWhatsAppKey(),
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     log,
	}
}

// SendMessage delivers a text message to a chat through the given session.
func (c *Client) SendMessage(ctx context.Context, sessionID, chatID, content, replyTo string) error {
	if c == nil {
		return nil
	}

	payload := sendMessageRequest{
		ChatID:      chatID,
		ContentType: "string",
		Content:     content,
		ReplyTo:     replyTo,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal send payload: %w", err)
	}

	url := fmt.Sprintf("%s/client/sendMessage/%s", c.baseURL, sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("transport send failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("transport returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	c.log.Info("message sent", "session_id", sessionID, "chat_id", chatID)
	return nil
}

// GetSessionStatus reports the raw transport state and any error message for
// the session. Non-2xx responses still carry a usable state/message pair.
func (c *Client) GetSessionStatus(ctx context.Context, sessionID string) (string, string, error) {
	if c == nil {
		return "", "", fmt.Errorf("transport not configured")
	}

	url := fmt.Sprintf("%s/session/status/%s", c.baseURL, sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", "", err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("transport status failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var status sessionStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return "", "", fmt.Errorf("decode status response: %w", err)
	}

	return status.State, status.Message, nil
}

// TerminateSession tears down the session on the transport side.
func (c *Client) TerminateSession(ctx context.Context, sessionID string) error {
	if c == nil {
		return nil
	}

	url := fmt.Sprintf("%s/session/terminate/%s", c.baseURL, sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("transport terminate failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("transport returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	c.log.Info("session terminated", "session_id", sessionID)
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
}
