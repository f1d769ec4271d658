package escalation

import (
	"testing"

	"funnel_backend/internal/funnel/domain"
)

func TestEveryServiceOptionHasABoard(t *testing.T) {
	for _, option := range domain.ProposalOptions {
		if _, ok := LookupBoard(option); !ok {
			t.Errorf("service %q has no board mapping", option)
		}
	}
}

func TestLookupBoard(t *testing.T) {
	board, ok := LookupBoard("Georadar (GPR)")
	if !ok {
		t.Fatal("expected board for Georadar (GPR)")
	}
	if board.ID != 891902277 || board.Code != "GPR" || board.GroupID != "novo_grupo" {
		t.Errorf("unexpected board: %+v", board)
	}

	if _, ok := LookupBoard("Astrologia"); ok {
		t.Error("unknown service must not resolve")
	}
}

func TestTopografiaUsesTopicsGroup(t *testing.T) {
	board, ok := LookupBoard("Topografia Geofísica")
	if !ok {
		t.Fatal("expected board for Topografia Geofísica")
	}
	if board.GroupID != "topics" {
		t.Errorf("group = %q, want topics", board.GroupID)
	}
}
