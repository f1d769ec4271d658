// Package transport normalizes the two inbound wire shapes (direct REST call
// and provider webhook envelope) into the canonical inbound message.
package transport

import "encoding/json"

// InboundMessage is the canonical normalized inbound event. Transient only;
// it is never persisted.
type InboundMessage struct {
	From      string `json:"from"`
	Body      string `json:"body"`
	Name      string `json:"name"`
	Kind      string `json:"type"`
	MessageID string `json:"messageId"`
	SessionID string `json:"sessionId"`
}

// IsChat reports whether the message carries plain text.
func (m InboundMessage) IsChat() bool {
	return m.Kind == "chat"
}

// directRequest is the direct REST shape of POST /api/process-message.
type directRequest struct {
	From      string `json:"from"`
	Body      string `json:"body"`
	Type      string `json:"type"`
	MessageID string `json:"messageId"`
	SessionID string `json:"sessionId"`
	Name      string `json:"name"`
}

// wahaEnvelope is the provider webhook shape. Only the fields the funnel
// needs are decoded; the raw payload travels separately through the relay.
type wahaEnvelope struct {
	Event   string          `json:"event"`
	Session string          `json:"session"`
	Payload json.RawMessage `json:"payload"`
	Me      struct {
		PushName string `json:"pushName"`
	} `json:"me"`
}

type wahaPayload struct {
	From     string `json:"from"`
	Body     string `json:"body"`
	HasMedia bool   `json:"hasMedia"`
	ID       string `json:"id"`
	Data     struct {
		NotifyName string `json:"notifyName"`
	} `json:"_data"`
}

// AcceptedResponse confirms an event was accepted for processing.
type AcceptedResponse struct {
	Success bool   `json:"success"`
	Source  string `json:"source"`
	From    string `json:"from"`
	Name    string `json:"name"`
	Type    string `json:"type"`
}
