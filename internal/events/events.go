// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"funnel_backend/platform/events"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var (
	NewBaseEvent   = events.NewBaseEvent
	NewInMemoryBus = events.NewInMemoryBus
)

// =============================================================================
// Provider (chat transport) Events
// =============================================================================

// QRReceived is published when the transport emits a fresh pairing QR code.
type QRReceived struct {
	BaseEvent
	SessionID string `json:"sessionId"`
	Raw       string `json:"raw"`
}

func (e QRReceived) EventName() string { return "provider.qr.received" }

// SessionPaired is published when a session reports ready or authenticated;
// any live QR code for it is obsolete.
type SessionPaired struct {
	BaseEvent
	SessionID string `json:"sessionId"`
	Trigger   string `json:"trigger"`
}

func (e SessionPaired) EventName() string { return "provider.session.paired" }

// SessionDisconnected is published when a session drops. The QR cache keeps
// its entry: the code may still be valid for reconnecting.
type SessionDisconnected struct {
	BaseEvent
	SessionID string `json:"sessionId"`
}

func (e SessionDisconnected) EventName() string { return "provider.session.disconnected" }

// =============================================================================
// Funnel Events
// =============================================================================

// LeadEscalated is published after a completed funnel produced a board task.
type LeadEscalated struct {
	BaseEvent
	Phone   string `json:"phone"`
	Service string `json:"service"`
	BoardID string `json:"boardId"`
	TaskID  string `json:"taskId"`
}

func (e LeadEscalated) EventName() string { return "funnel.lead.escalated" }
