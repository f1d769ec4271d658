package escalation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	contacts "funnel_backend/internal/contacts/domain"
	"funnel_backend/internal/contacts/repository"
	"funnel_backend/platform/apperr"
	"funnel_backend/platform/logger"
)

type fakeRepo struct {
	upserts []repository.UpsertParams
	err     error
}

func (f *fakeRepo) FindByPhone(context.Context, string) (contacts.Contact, error) {
	return contacts.Contact{}, apperr.NotFound("contact not found")
}

func (f *fakeRepo) Create(_ context.Context, p repository.UpsertParams) (contacts.Contact, error) {
	return contacts.Contact{}, nil
}

func (f *fakeRepo) UpsertByPhone(_ context.Context, p repository.UpsertParams) (contacts.Contact, error) {
	if f.err != nil {
		return contacts.Contact{}, f.err
	}
	f.upserts = append(f.upserts, p)
	return contacts.Contact{Phone: p.Phone, Name: p.Name, Status: p.Status}, nil
}

func (f *fakeRepo) List(context.Context) ([]contacts.Contact, error) { return nil, nil }
func (f *fakeRepo) Delete(context.Context, string) (int64, error)   { return 0, nil }
func (f *fakeRepo) DeleteStale(context.Context, time.Time) ([]string, error) {
	return nil, nil
}

type fakeBoard struct {
	createErr  error
	commentErr error
	tasks      []string
	comments   []string
	boardIDs   []int64
	groupIDs   []string
}

func (f *fakeBoard) CreateTask(_ context.Context, title string, boardID int64, groupID string) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.tasks = append(f.tasks, title)
	f.boardIDs = append(f.boardIDs, boardID)
	f.groupIDs = append(f.groupIDs, groupID)
	return "4242", nil
}

func (f *fakeBoard) AddComment(_ context.Context, itemID, body string) error {
	if f.commentErr != nil {
		return f.commentErr
	}
	f.comments = append(f.comments, body)
	return nil
}

func ptr(s string) *string { return &s }

func completedContact() contacts.Contact {
	return contacts.Contact{
		Phone:   "5511999999999@c.us",
		Name:    "Maria",
		Status:  contacts.StatusAwaitingTask,
		Service: ptr("Georadar (GPR)"),
		Form:    ptr("1. Maria\n2. Acme\n3. maria@acme.com"),
	}
}

func newService(repo *fakeRepo, board *fakeBoard) *Service {
	s := New(repo, board, nil, "GEOV0000", logger.New("development"))
	s.now = func() time.Time {
		return time.Date(2025, time.March, 10, 14, 30, 0, 0, time.UTC)
	}
	return s
}

func TestEscalateSuccess(t *testing.T) {
	repo := &fakeRepo{}
	board := &fakeBoard{}
	svc := newService(repo, board)

	if err := svc.Escalate(context.Background(), completedContact()); err != nil {
		t.Fatalf("Escalate: %v", err)
	}

	if len(board.tasks) != 1 {
		t.Fatalf("created %d tasks, want 1", len(board.tasks))
	}
	if board.tasks[0] != "GEOV0000-25.Maria.GPR" {
		t.Errorf("task title = %q", board.tasks[0])
	}
	if board.boardIDs[0] != 891902277 || board.groupIDs[0] != "novo_grupo" {
		t.Errorf("board coordinates = %d/%q", board.boardIDs[0], board.groupIDs[0])
	}

	if len(board.comments) != 1 {
		t.Fatalf("added %d comments, want 1", len(board.comments))
	}
	comment := board.comments[0]
	if !strings.HasPrefix(comment, "Proposta enviada por Maria (5511999999999)") {
		t.Errorf("comment header wrong: %q", comment)
	}
	if !strings.Contains(comment, "1. Maria") {
		t.Errorf("comment is missing the form body: %q", comment)
	}

	if len(repo.upserts) != 1 {
		t.Fatalf("recorded %d upserts, want 1", len(repo.upserts))
	}
	up := repo.upserts[0]
	if up.Status != contacts.StatusTaskCreated {
		t.Errorf("status = %q, want %q", up.Status, contacts.StatusTaskCreated)
	}
	if up.BoardID == nil || *up.BoardID != "891902277" {
		t.Errorf("boardId = %v", up.BoardID)
	}
	if up.GroupID == nil || *up.GroupID != "novo_grupo" {
		t.Errorf("groupId = %v", up.GroupID)
	}
}

func TestEscalateUnknownService(t *testing.T) {
	repo := &fakeRepo{}
	board := &fakeBoard{}
	svc := newService(repo, board)

	contact := completedContact()
	contact.Service = ptr("Cartomancia")

	err := svc.Escalate(context.Background(), contact)
	if !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("err = %v, want bad request", err)
	}
	if len(board.tasks) != 0 || len(repo.upserts) != 0 {
		t.Error("unknown service must not create tasks or mutate the contact")
	}
}

func TestEscalateMissingFields(t *testing.T) {
	svc := newService(&fakeRepo{}, &fakeBoard{})

	noService := completedContact()
	noService.Service = nil
	if err := svc.Escalate(context.Background(), noService); !apperr.Is(err, apperr.KindBadRequest) {
		t.Errorf("missing service: err = %v, want bad request", err)
	}

	noForm := completedContact()
	noForm.Form = nil
	if err := svc.Escalate(context.Background(), noForm); !apperr.Is(err, apperr.KindBadRequest) {
		t.Errorf("missing form: err = %v, want bad request", err)
	}
}

func TestEscalateCreateFailureLeavesContact(t *testing.T) {
	repo := &fakeRepo{}
	board := &fakeBoard{createErr: errors.New("board down")}
	svc := newService(repo, board)

	err := svc.Escalate(context.Background(), completedContact())
	if !apperr.Is(err, apperr.KindUpstream) {
		t.Fatalf("err = %v, want upstream", err)
	}
	if len(repo.upserts) != 0 {
		t.Error("failed creation must not mutate the contact")
	}
}

func TestEscalateCommentFailureTolerated(t *testing.T) {
	repo := &fakeRepo{}
	board := &fakeBoard{commentErr: errors.New("update rejected")}
	svc := newService(repo, board)

	if err := svc.Escalate(context.Background(), completedContact()); err != nil {
		t.Fatalf("comment failure must not fail the escalation: %v", err)
	}
	if len(repo.upserts) != 1 {
		t.Error("contact linkage must still be recorded")
	}
}

func TestEscalateUpsertFailure(t *testing.T) {
	repo := &fakeRepo{err: errors.New("store down")}
	board := &fakeBoard{}
	svc := newService(repo, board)

	if err := svc.Escalate(context.Background(), completedContact()); !apperr.Is(err, apperr.KindUpstream) {
		t.Fatalf("err = %v, want upstream", err)
	}
}
