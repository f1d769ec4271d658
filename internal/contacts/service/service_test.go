package service

import (
	"context"
	"testing"
	"time"

	contacts "funnel_backend/internal/contacts/domain"
	"funnel_backend/internal/contacts/repository"
	"funnel_backend/platform/apperr"
	"funnel_backend/platform/logger"
)

type fakeRepo struct {
	upserts     []repository.UpsertParams
	deleted     int64
	staleCutoff time.Time
	stale       []string
}

func (f *fakeRepo) FindByPhone(_ context.Context, phone string) (contacts.Contact, error) {
	return contacts.Contact{Phone: phone}, nil
}

func (f *fakeRepo) Create(_ context.Context, p repository.UpsertParams) (contacts.Contact, error) {
	return contacts.Contact{Phone: p.Phone, Name: p.Name, Status: p.Status}, nil
}

func (f *fakeRepo) UpsertByPhone(_ context.Context, p repository.UpsertParams) (contacts.Contact, error) {
	f.upserts = append(f.upserts, p)
	return contacts.Contact{Phone: p.Phone, Name: p.Name, Status: p.Status}, nil
}

func (f *fakeRepo) List(context.Context) ([]contacts.Contact, error) { return nil, nil }

func (f *fakeRepo) Delete(context.Context, string) (int64, error) { return f.deleted, nil }

func (f *fakeRepo) DeleteStale(_ context.Context, cutoff time.Time) ([]string, error) {
	f.staleCutoff = cutoff
	return f.stale, nil
}

func newService(repo *fakeRepo) *Service {
	return New(repo, 24*time.Hour, logger.New("development"))
}

func TestGetRequiresPhone(t *testing.T) {
	svc := newService(&fakeRepo{})
	_, err := svc.Get(context.Background(), "")
	if !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("err = %v, want bad request", err)
	}
}

func TestCreateCanonicalizesPhone(t *testing.T) {
	svc := newService(&fakeRepo{})
	contact, err := svc.Create(context.Background(), repository.UpsertParams{
		Phone:  "+55 11 99999-9999",
		Name:   "Maria",
		Status: contacts.StatusAwaitingOption,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if contact.Phone != "5511999999999@c.us" {
		t.Errorf("phone = %q, want canonical chat id", contact.Phone)
	}
}

func TestDeleteNotFound(t *testing.T) {
	svc := newService(&fakeRepo{deleted: 0})
	err := svc.Delete(context.Background(), "5511999999999")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestBlockUnknownContact(t *testing.T) {
	repo := &fakeRepo{}
	svc := newService(repo)

	contact, err := svc.Block(context.Background(), "5511999999999", "")
	if err != nil {
		t.Fatalf("Block: %v", err)
	}
	if contact.Name != "Desconhecido" {
		t.Errorf("name = %q, want the unknown-name fallback", contact.Name)
	}

	if len(repo.upserts) != 1 {
		t.Fatalf("recorded %d upserts, want 1", len(repo.upserts))
	}
	up := repo.upserts[0]
	if up.Status != contacts.StatusBlocked {
		t.Errorf("status = %q, want %q", up.Status, contacts.StatusBlocked)
	}
	if up.Blocked == nil || !*up.Blocked {
		t.Error("blocked flag must be set")
	}
}

func TestCleanupStaleUsesRetention(t *testing.T) {
	repo := &fakeRepo{stale: []string{"a@c.us", "b@c.us"}}
	svc := newService(repo)

	phones, err := svc.CleanupStale(context.Background())
	if err != nil {
		t.Fatalf("CleanupStale: %v", err)
	}
	if len(phones) != 2 {
		t.Errorf("removed %d phones, want 2", len(phones))
	}

	want := time.Now().Add(-24 * time.Hour)
	if diff := repo.staleCutoff.Sub(want); diff < -time.Minute || diff > time.Minute {
		t.Errorf("cutoff = %v, want about 24h ago", repo.staleCutoff)
	}
}
