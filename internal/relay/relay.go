// Package relay forwards every inbound provider event verbatim to a
// downstream URL. Fire and forget: failures are logged, never surfaced.
package relay

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"funnel_backend/platform/config"
	"funnel_backend/platform/logger"
)

// Forwarder posts raw event payloads downstream. A Forwarder without a
// configured URL silently drops everything.
type Forwarder struct {
	url  string
	http *http.Client
	log  *logger.Logger
}

// New creates the forwarder.
func New(cfg config.RelayConfig, log *logger.Logger) *Forwarder {
	return &Forwarder{
		url:  cfg.GetRelayForwardURL(),
		http: &http.Client{Timeout: cfg.GetRelayTimeout()},
		log:  log,
	}
}

// Enabled reports whether a downstream URL is configured.
func (f *Forwarder) Enabled() bool {
	return f != nil && f.url != ""
}

// Forward posts the raw payload downstream. It never returns an error to the
// caller; the inbound pipeline must not stall on the relay.
func (f *Forwarder) Forward(ctx context.Context, payload []byte) {
	if !f.Enabled() {
		return
	}

	if err := f.post(ctx, payload); err != nil {
		f.log.Warn("relay forward failed", "url", f.url, "error", err)
	}
}

func (f *Forwarder) post(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.http.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("downstream returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return nil
}
