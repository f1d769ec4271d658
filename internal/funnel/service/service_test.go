package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	contacts "funnel_backend/internal/contacts/domain"
	"funnel_backend/internal/contacts/repository"
	"funnel_backend/internal/funnel/domain"
	"funnel_backend/internal/funnel/transport"
	"funnel_backend/platform/apperr"
	"funnel_backend/platform/logger"
)

type fakeRepo struct {
	mu       sync.Mutex
	byPhone  map[string]contacts.Contact
	upserts  int
	failFind bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byPhone: make(map[string]contacts.Contact)}
}

func (f *fakeRepo) FindByPhone(_ context.Context, phone string) (contacts.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFind {
		return contacts.Contact{}, apperr.Upstream("store down")
	}
	c, ok := f.byPhone[phone]
	if !ok {
		return contacts.Contact{}, apperr.NotFound("contact not found")
	}
	return c, nil
}

func (f *fakeRepo) Create(ctx context.Context, params repository.UpsertParams) (contacts.Contact, error) {
	return f.UpsertByPhone(ctx, params)
}

func (f *fakeRepo) UpsertByPhone(_ context.Context, params repository.UpsertParams) (contacts.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++

	c := f.byPhone[params.Phone]
	c.Phone = params.Phone
	if params.Name != "" {
		c.Name = params.Name
	}
	if params.Status != "" {
		c.Status = params.Status
	}
	if params.Service != nil {
		c.Service = params.Service
	}
	if params.Form != nil {
		c.Form = params.Form
	}
	if params.Blocked != nil {
		c.Blocked = *params.Blocked
	}
	f.byPhone[params.Phone] = c
	return c, nil
}

func (f *fakeRepo) List(context.Context) ([]contacts.Contact, error) { return nil, nil }
func (f *fakeRepo) Delete(context.Context, string) (int64, error)    { return 0, nil }
func (f *fakeRepo) DeleteStale(context.Context, time.Time) ([]string, error) {
	return nil, nil
}

type fakeEscalator struct {
	mu    sync.Mutex
	calls []contacts.Contact
}

func (f *fakeEscalator) Escalate(_ context.Context, c contacts.Contact) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	return nil
}

func (f *fakeEscalator) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeSender struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeSender) SendMessage(_ context.Context, _, _, content, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, content)
	return nil
}

func (f *fakeSender) last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1]
}

type fakeFunnelCfg struct{ minLen int }

func (f fakeFunnelCfg) GetFormMinLength() int { return f.minLen }

func newTestService(repo *fakeRepo, esc *fakeEscalator, snd *fakeSender) *Service {
	return New(repo, esc, snd, fakeFunnelCfg{minLen: 60}, logger.New("development"))
}

func chatMsg(from, body string) transport.InboundMessage {
	return transport.InboundMessage{
		From:      from,
		Body:      body,
		Name:      "Maria",
		Kind:      "chat",
		MessageID: "m1",
		SessionID: "s1",
	}
}

func TestProcessFullFunnel(t *testing.T) {
	repo := newFakeRepo()
	esc := &fakeEscalator{}
	snd := &fakeSender{}
	svc := newTestService(repo, esc, snd)
	ctx := context.Background()
	phone := "5511999999999@c.us"

	// First contact: creates the record and sends the menu.
	if err := svc.Process(ctx, chatMsg(phone, "oi")); err != nil {
		t.Fatalf("first contact: %v", err)
	}
	contact := repo.byPhone[phone]
	if contact.Status != contacts.StatusAwaitingOption {
		t.Fatalf("status = %q, want %q", contact.Status, contacts.StatusAwaitingOption)
	}
	for _, option := range domain.ProposalOptions {
		if !strings.Contains(snd.last(), option) {
			t.Fatalf("menu reply missing %q", option)
		}
	}

	// Option selection: stores the service and sends the form.
	if err := svc.Process(ctx, chatMsg(phone, "1")); err != nil {
		t.Fatalf("option selection: %v", err)
	}
	contact = repo.byPhone[phone]
	if contact.Service == nil || *contact.Service != domain.ProposalOptions[0] {
		t.Fatalf("service = %v, want %q", contact.Service, domain.ProposalOptions[0])
	}
	if !strings.Contains(snd.last(), domain.ServiceForm[0]) {
		t.Fatal("form reply missing question list")
	}
	if esc.count() != 0 {
		t.Fatal("escalation must not fire before the form")
	}

	// Form submission: persists, escalates exactly once, acknowledges.
	form := strings.Repeat("dados completos do formulário ", 4)
	if err := svc.Process(ctx, chatMsg(phone, form)); err != nil {
		t.Fatalf("form submission: %v", err)
	}
	contact = repo.byPhone[phone]
	if contact.Status != contacts.StatusAwaitingTask {
		t.Fatalf("status = %q, want %q", contact.Status, contacts.StatusAwaitingTask)
	}
	if esc.count() != 1 {
		t.Fatalf("escalations = %d, want 1", esc.count())
	}

	// Funnel complete: further messages are silent.
	sends := len(snd.sent)
	if err := svc.Process(ctx, chatMsg(phone, "tem novidade?")); err != nil {
		t.Fatalf("duplicate message: %v", err)
	}
	if len(snd.sent) != sends {
		t.Error("duplicate state must not reply")
	}
}

func TestProcessBlockedContact(t *testing.T) {
	repo := newFakeRepo()
	phone := "5511988887777@c.us"
	repo.byPhone[phone] = contacts.Contact{Phone: phone, Blocked: true, Status: contacts.StatusBlocked}

	esc := &fakeEscalator{}
	snd := &fakeSender{}
	svc := newTestService(repo, esc, snd)

	if err := svc.Process(context.Background(), chatMsg(phone, "oi")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snd.sent) != 0 {
		t.Error("blocked contact must get no reply")
	}
	if repo.upserts != 0 {
		t.Error("blocked contact must cause no store mutation")
	}
}

func TestProcessMediaMessage(t *testing.T) {
	repo := newFakeRepo()
	esc := &fakeEscalator{}
	snd := &fakeSender{}
	svc := newTestService(repo, esc, snd)

	msg := chatMsg("5511999999999@c.us", "")
	msg.Kind = "media"
	if err := svc.Process(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.upserts != 0 {
		t.Error("media message must not mutate the contact")
	}
	if len(snd.sent) != 1 {
		t.Fatal("media message must get the text-only reply")
	}
}

func TestProcessInvalidPhone(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeEscalator{}, &fakeSender{})

	err := svc.Process(context.Background(), chatMsg("---", "oi"))
	if !apperr.Is(err, apperr.KindBadRequest) {
		t.Errorf("error = %v, want bad request", err)
	}
}

func TestProcessStoreFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.failFind = true
	svc := newTestService(repo, &fakeEscalator{}, &fakeSender{})

	err := svc.Process(context.Background(), chatMsg("5511999999999@c.us", "oi"))
	if !apperr.Is(err, apperr.KindUpstream) {
		t.Errorf("error = %v, want upstream", err)
	}
}

func TestProcessSerializesPerPhone(t *testing.T) {
	repo := newFakeRepo()
	esc := &fakeEscalator{}
	snd := &fakeSender{}
	svc := newTestService(repo, esc, snd)
	ctx := context.Background()
	phone := "5511999999999@c.us"

	// Walk the contact to awaiting_form.
	if err := svc.Process(ctx, chatMsg(phone, "oi")); err != nil {
		t.Fatal(err)
	}
	if err := svc.Process(ctx, chatMsg(phone, "1")); err != nil {
		t.Fatal(err)
	}

	// Concurrent duplicate form deliveries: the lane serializes them, so the
	// second sees the completed funnel and escalation fires exactly once.
	form := strings.Repeat("dados completos do formulário ", 4)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = svc.Process(ctx, chatMsg(phone, form))
		}()
	}
	wg.Wait()

	if esc.count() != 1 {
		t.Errorf("escalations = %d, want exactly 1", esc.count())
	}
}
