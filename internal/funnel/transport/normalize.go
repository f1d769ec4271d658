package transport

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"funnel_backend/platform/apperr"
)

const fallbackName = "Desconhecido"

// Source labels for the accepted-response payload.
const (
	SourceDirect  = "direct"
	SourceWebhook = "webhook"
)

// Normalize decodes a raw request body in either wire shape and returns the
// canonical message plus the source label. Missing mandatory fields surface
// apperr.BadRequest.
func Normalize(raw []byte) (InboundMessage, string, error) {
	var envelope wahaEnvelope
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Event == "message" && len(envelope.Payload) > 0 {
		msg, err := normalizeEnvelope(envelope)
		return msg, SourceWebhook, err
	}

	msg, err := normalizeDirect(raw)
	return msg, SourceDirect, err
}

func normalizeEnvelope(envelope wahaEnvelope) (InboundMessage, error) {
	var payload wahaPayload
	if err := json.Unmarshal(envelope.Payload, &payload); err != nil {
		return InboundMessage{}, apperr.BadRequest("malformed webhook payload")
	}

	if payload.From == "" {
		return InboundMessage{}, apperr.BadRequest("missing 'from' in webhook payload")
	}

	kind := "chat"
	if payload.HasMedia {
		kind = "media"
	}

	name := payload.Data.NotifyName
	if name == "" {
		name = senderLocalPart(payload.From)
	}
	if name == "" {
		name = envelope.Me.PushName
	}
	if name == "" {
		name = fallbackName
	}

	session := envelope.Session
	if session == "" {
		session = "default"
	}

	messageID := payload.ID
	if messageID == "" {
		messageID = generatedMessageID()
	}

	return InboundMessage{
		From:      payload.From,
		Body:      payload.Body,
		Name:      name,
		Kind:      kind,
		MessageID: messageID,
		SessionID: session,
	}, nil
}

func normalizeDirect(raw []byte) (InboundMessage, error) {
	var req directRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return InboundMessage{}, apperr.BadRequest("invalid request body")
	}

	if req.From == "" {
		return InboundMessage{}, apperr.BadRequest("missing required field 'from'")
	}

	kind := req.Type
	if kind == "" {
		kind = "chat"
	}
	if kind == "chat" && strings.TrimSpace(req.Body) == "" {
		return InboundMessage{}, apperr.BadRequest("missing required field 'body'")
	}

	name := req.Name
	if name == "" {
		name = senderLocalPart(req.From)
	}
	if name == "" {
		name = fallbackName
	}

	session := req.SessionID
	if session == "" {
		session = "default"
	}

	messageID := req.MessageID
	if messageID == "" {
		messageID = generatedMessageID()
	}

	return InboundMessage{
		From:      req.From,
		Body:      req.Body,
		Name:      name,
		Kind:      kind,
		MessageID: messageID,
		SessionID: session,
	}, nil
}

func senderLocalPart(from string) string {
	if i := strings.Index(from, "@"); i > 0 {
		return from[:i]
	}
	return from
}

func generatedMessageID() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}
