// Package session resolves raw chat-transport session states into the
// coarse phases the pairing UI understands.
package session

import "strings"

// Phase is the UI-facing session phase.
type Phase string

const (
	// PhaseConnected means the session is paired and ready to send.
	PhaseConnected Phase = "connected"
	// PhaseWaiting means the session is waiting for a QR scan.
	PhaseWaiting Phase = "waiting"
	// PhaseLoading means the session is starting up or resolving a conflict.
	PhaseLoading Phase = "loading"
	// PhaseDisconnected means the session is down or unreachable.
	PhaseDisconnected Phase = "disconnected"
)

// waitingMessages are transport error strings that mean "scan the QR",
// regardless of the reported state.
var waitingMessages = map[string]struct{}{
	"session_not_connected":     {},
	"session_not_authenticated": {},
	"session_not_paired":        {},
}

// Resolve maps a raw transport state and optional error message to a Phase.
// A connected state wins unconditionally; the pairing-error messages only
// decide when the state itself is not conclusive.
func Resolve(state, message string) Phase {
	normalized := strings.ToUpper(strings.TrimSpace(state))

	if normalized == "CONNECTED" {
		return PhaseConnected
	}

	switch normalized {
	case "UNPAIRED", "UNPAIRED_IDLE", "PAIRING":
		return PhaseWaiting
	}
	if _, ok := waitingMessages[strings.TrimSpace(message)]; ok {
		return PhaseWaiting
	}

	switch normalized {
	case "OPENING", "CONFLICT":
		return PhaseLoading
	}

	return PhaseDisconnected
}
