package domain

import (
	"strings"
	"testing"

	contacts "funnel_backend/internal/contacts/domain"
)

func strptr(s string) *string { return &s }

func TestDerive(t *testing.T) {
	cases := []struct {
		name    string
		found   bool
		contact contacts.Contact
		want    State
	}{
		{"unknown phone", false, contacts.Contact{}, StateFirstContact},
		{"no service, no form", true, contacts.Contact{}, StateAwaitingOption},
		{"service only", true, contacts.Contact{Service: strptr("Geoelétrica")}, StateAwaitingForm},
		{"service and form", true, contacts.Contact{Service: strptr("Geoelétrica"), Form: strptr("dados")}, StateDuplicate},
		{"form without service", true, contacts.Contact{Form: strptr("dados")}, StateAwaitingOption},
		{"empty-string service is unset", true, contacts.Contact{Service: strptr("")}, StateAwaitingOption},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Derive(tc.found, tc.contact); got != tc.want {
				t.Errorf("Derive = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDecideFirstContact(t *testing.T) {
	d := Decide(Input{State: StateFirstContact, Text: "oi", Kind: "chat"})

	if !d.Persist {
		t.Fatal("first contact must persist a new contact")
	}
	if d.Status != contacts.StatusAwaitingOption {
		t.Errorf("status = %q, want %q", d.Status, contacts.StatusAwaitingOption)
	}
	if d.Escalate {
		t.Error("first contact must not escalate")
	}
	for _, option := range ProposalOptions {
		if !strings.Contains(d.Reply, option) {
			t.Errorf("menu reply missing option %q", option)
		}
	}
}

func TestDecideAwaitingOption(t *testing.T) {
	t.Run("numeric selection", func(t *testing.T) {
		d := Decide(Input{State: StateAwaitingOption, Text: "3", Kind: "chat"})
		if d.Service == nil || *d.Service != ProposalOptions[2] {
			t.Fatalf("service = %v, want %q", d.Service, ProposalOptions[2])
		}
		if d.Status != contacts.StatusAwaitingForm {
			t.Errorf("status = %q, want %q", d.Status, contacts.StatusAwaitingForm)
		}
		for _, question := range ServiceForm {
			if !strings.Contains(d.Reply, question) {
				t.Errorf("form reply missing question %q", question)
			}
		}
	})

	t.Run("selection with surrounding whitespace", func(t *testing.T) {
		d := Decide(Input{State: StateAwaitingOption, Text: "  1 ", Kind: "chat"})
		if d.Service == nil || *d.Service != ProposalOptions[0] {
			t.Fatalf("service = %v, want %q", d.Service, ProposalOptions[0])
		}
	})

	t.Run("exact label match", func(t *testing.T) {
		d := Decide(Input{State: StateAwaitingOption, Text: "Geoelétrica", Kind: "chat"})
		if d.Service == nil || *d.Service != "Geoelétrica" {
			t.Fatalf("service = %v, want Geoelétrica", d.Service)
		}
	})

	t.Run("out of range re-sends menu without mutation", func(t *testing.T) {
		d := Decide(Input{State: StateAwaitingOption, Text: "99", Kind: "chat"})
		if d.Persist {
			t.Error("invalid option must not persist")
		}
		if d.Service != nil {
			t.Error("invalid option must not select a service")
		}
		if !strings.Contains(d.Reply, ProposalOptions[0]) {
			t.Error("invalid option must re-send the menu")
		}
	})

	t.Run("garbage input re-sends menu", func(t *testing.T) {
		d := Decide(Input{State: StateAwaitingOption, Text: "abc", Kind: "chat"})
		if d.Persist || d.Service != nil {
			t.Error("garbage input must not mutate")
		}
	})
}

func TestDecideAwaitingForm(t *testing.T) {
	longForm := strings.Repeat("informações do formulário ", 5)

	t.Run("short form is rejected", func(t *testing.T) {
		d := Decide(Input{State: StateAwaitingForm, Text: "muito curto", Kind: "chat"})
		if d.Persist || d.Form != nil {
			t.Error("short form must not mutate")
		}
		if !strings.Contains(d.Reply, ServiceForm[0]) {
			t.Error("short form must re-send the question list")
		}
	})

	t.Run("complete form escalates", func(t *testing.T) {
		d := Decide(Input{State: StateAwaitingForm, Text: longForm, Kind: "chat"})
		if !d.Persist || !d.Escalate {
			t.Fatal("complete form must persist and escalate")
		}
		if d.Status != contacts.StatusAwaitingTask {
			t.Errorf("status = %q, want %q", d.Status, contacts.StatusAwaitingTask)
		}
		if d.Form == nil || *d.Form != strings.TrimSpace(longForm) {
			t.Errorf("form = %v, want trimmed submission", d.Form)
		}
	})

	t.Run("custom minimum length", func(t *testing.T) {
		d := Decide(Input{State: StateAwaitingForm, Text: "curta mas aceita", Kind: "chat", MinFormLength: 5})
		if !d.Persist {
			t.Error("form above custom minimum must persist")
		}
	})
}

func TestDecideDuplicate(t *testing.T) {
	d := Decide(Input{State: StateDuplicate, Text: "alguém aí?", Kind: "chat"})
	if d.Reply != "" || d.Persist || d.Escalate {
		t.Errorf("duplicate state must be silent, got %+v", d)
	}
}

func TestDecideNonChatKind(t *testing.T) {
	for _, state := range []State{StateFirstContact, StateAwaitingOption, StateAwaitingForm, StateDuplicate} {
		d := Decide(Input{State: state, Text: "ignored", Kind: "media"})
		if d.Persist || d.Escalate {
			t.Errorf("state %q: media message must not mutate", state)
		}
		if d.Reply == "" {
			t.Errorf("state %q: media message must get the text-only reply", state)
		}
	}
}

func TestDecideIdempotentOptionReplay(t *testing.T) {
	first := Decide(Input{State: StateAwaitingOption, Text: "2", Kind: "chat"})
	second := Decide(Input{State: StateAwaitingOption, Text: "2", Kind: "chat"})

	if *first.Service != *second.Service || first.Status != second.Status {
		t.Error("replaying the same transition must produce the same decision")
	}
}
