package scheduler

import (
	"testing"

	"funnel_backend/internal/funnel/transport"
)

func TestProcessInboundTaskRoundTrip(t *testing.T) {
	payload := ProcessInboundPayload{
		Message: transport.InboundMessage{
			From:      "5511999999999@c.us",
			Body:      "oi",
			Name:      "Maria",
			Kind:      "chat",
			MessageID: "m1",
			SessionID: "default",
		},
	}

	task, err := NewProcessInboundTask(payload)
	if err != nil {
		t.Fatalf("NewProcessInboundTask: %v", err)
	}
	if task.Type() != TaskProcessInbound {
		t.Errorf("type = %q", task.Type())
	}

	got, err := ParseProcessInboundPayload(task)
	if err != nil {
		t.Fatalf("ParseProcessInboundPayload: %v", err)
	}
	if got.Message != payload.Message {
		t.Errorf("got %+v, want %+v", got.Message, payload.Message)
	}
}

func TestRelayForwardTaskKeepsRawBytes(t *testing.T) {
	raw := []byte(`{"event":"qr","session":"default","payload":{"qr":"2@x"}}`)

	task, err := NewRelayForwardTask(RelayForwardPayload{Raw: raw})
	if err != nil {
		t.Fatalf("NewRelayForwardTask: %v", err)
	}

	got, err := ParseRelayForwardPayload(task)
	if err != nil {
		t.Fatalf("ParseRelayForwardPayload: %v", err)
	}
	if string(got.Raw) != string(raw) {
		t.Errorf("raw = %s, want the original payload", got.Raw)
	}
}

func TestContactsCleanTaskRoundTrip(t *testing.T) {
	task, err := NewContactsCleanTask(ContactsCleanPayload{RequestedAt: 1700000000000})
	if err != nil {
		t.Fatalf("NewContactsCleanTask: %v", err)
	}

	got, err := ParseContactsCleanPayload(task)
	if err != nil {
		t.Fatalf("ParseContactsCleanPayload: %v", err)
	}
	if got.RequestedAt != 1700000000000 {
		t.Errorf("requestedAt = %d", got.RequestedAt)
	}
}
