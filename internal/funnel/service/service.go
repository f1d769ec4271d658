// Package service sequences one inbound message through the funnel:
// contact lookup, state derivation, decision, persistence, escalation and
// the outbound reply.
package service

import (
	"context"
	"time"

	contacts "funnel_backend/internal/contacts/domain"
	"funnel_backend/internal/contacts/repository"
	"funnel_backend/internal/funnel/domain"
	"funnel_backend/internal/funnel/transport"
	"funnel_backend/platform/apperr"
	"funnel_backend/platform/config"
	"funnel_backend/platform/logger"
	"funnel_backend/platform/phone"
)

const sendTimeout = 10 * time.Second

// Escalator drives the two-phase task-board escalation once a funnel
// completes. Satisfied by escalation.Service.
type Escalator interface {
	Escalate(ctx context.Context, contact contacts.Contact) error
}

// Sender delivers the outbound reply through the chat transport.
// Satisfied by whatsapp.Client.
type Sender interface {
	SendMessage(ctx context.Context, sessionID, chatID, content, replyTo string) error
}

// Service is the inbound message router's processing core.
type Service struct {
	repo      repository.Repository
	escalator Escalator
	sender    Sender
	cfg       config.FunnelConfig
	lanes     *keyedMutex
	log       *logger.Logger
}

// New creates the funnel service.
func New(repo repository.Repository, escalator Escalator, sender Sender, cfg config.FunnelConfig, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		escalator: escalator,
		sender:    sender,
		cfg:       cfg,
		lanes:     newKeyedMutex(),
		log:       log,
	}
}

// Process runs one inbound message through the funnel. All events for the
// same phone are serialized through a per-phone lane so concurrent duplicate
// deliveries cannot double-fire a transition.
func (s *Service) Process(ctx context.Context, msg transport.InboundMessage) error {
	key := phone.CanonicalChatID(msg.From)
	if key == "" {
		return apperr.BadRequest("invalid sender phone")
	}

	unlock := s.lanes.Lock(key)
	defer unlock()

	contact, found, err := s.findContact(ctx, key)
	if err != nil {
		return err
	}

	if found && contact.Blocked {
		s.log.Debug("blocked contact ignored", "phone", key)
		return nil
	}

	state := domain.Derive(found, contact)
	if found && storedStateDiverges(state, contact.Status) {
		s.log.Warn("stored status diverges from derived state",
			"phone", key, "stored", contact.Status, "derived", string(state))
	}

	decision := domain.Decide(domain.Input{
		State:         state,
		Text:          msg.Body,
		Kind:          msg.Kind,
		MinFormLength: s.cfg.GetFormMinLength(),
	})

	if decision.Persist {
		updated, err := s.repo.UpsertByPhone(ctx, repository.UpsertParams{
			Phone:   key,
			Name:    msg.Name,
			Status:  decision.Status,
			Service: decision.Service,
			Form:    decision.Form,
		})
		if err != nil {
			return apperr.Wrap(apperr.KindUpstream, "persist funnel state", err)
		}
		s.log.FunnelTransition(key, string(state), decision.Status)
		contact = updated
	}

	if decision.Escalate {
		// Escalation failure leaves the contact at aguardando_tarefa for a
		// manual replay; it never blocks the acknowledgment reply.
		if err := s.escalator.Escalate(ctx, contact); err != nil {
			s.log.Error("escalation failed", "phone", key, "error", err)
		}
	}

	if decision.Reply != "" {
		s.send(ctx, msg, decision.Reply)
	}

	return nil
}

func (s *Service) findContact(ctx context.Context, key string) (contacts.Contact, bool, error) {
	contact, err := s.repo.FindByPhone(ctx, key)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return contacts.Contact{}, false, nil
		}
		return contacts.Contact{}, false, apperr.Wrap(apperr.KindUpstream, "contact lookup", err)
	}
	return contact, true, nil
}

// send is fire-and-forget: transport failures are logged, never surfaced.
func (s *Service) send(ctx context.Context, msg transport.InboundMessage, content string) {
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
	defer cancel()

	if err := s.sender.SendMessage(sendCtx, msg.SessionID, msg.From, content, msg.MessageID); err != nil {
		s.log.Error("outbound send failed", "chat", msg.From, "session", msg.SessionID, "error", err)
	}
}

// storedStateDiverges reports a mismatch between the stored status column
// and the state derived from (service, form). The derivation wins.
func storedStateDiverges(state domain.State, stored string) bool {
	switch state {
	case domain.StateAwaitingOption:
		return stored != contacts.StatusAwaitingOption
	case domain.StateAwaitingForm:
		return stored != contacts.StatusAwaitingForm
	case domain.StateDuplicate:
		return stored != contacts.StatusAwaitingTask && stored != contacts.StatusTaskCreated
	default:
		return false
	}
}
