package session

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		state   string
		message string
		want    Phase
	}{
		{name: "connected", state: "CONNECTED", want: PhaseConnected},
		{name: "connected lowercase", state: "connected", want: PhaseConnected},
		{name: "unpaired", state: "UNPAIRED", want: PhaseWaiting},
		{name: "unpaired idle", state: "UNPAIRED_IDLE", want: PhaseWaiting},
		{name: "pairing", state: "PAIRING", want: PhaseWaiting},
		{name: "opening", state: "OPENING", want: PhaseLoading},
		{name: "conflict", state: "CONFLICT", want: PhaseLoading},
		{name: "unknown state", state: "DEPRECATED_VERSION", want: PhaseDisconnected},
		{name: "empty", state: "", want: PhaseDisconnected},
		{name: "connected wins over message", state: "CONNECTED", message: "session_not_connected", want: PhaseConnected},
		{name: "not authenticated message", state: "", message: "session_not_authenticated", want: PhaseWaiting},
		{name: "not paired message", state: "TIMEOUT", message: "session_not_paired", want: PhaseWaiting},
		{name: "opening with pairing message", state: "OPENING", message: "session_not_paired", want: PhaseWaiting},
		{name: "unrelated message", state: "CONNECTED", message: "everything fine", want: PhaseConnected},
		{name: "padded state", state: "  connected  ", want: PhaseConnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.state, tt.message); got != tt.want {
				t.Errorf("Resolve(%q, %q) = %q, want %q", tt.state, tt.message, got, tt.want)
			}
		})
	}
}
