package escalation

import (
	"context"
	"fmt"
	"time"

	contacts "funnel_backend/internal/contacts/domain"
	"funnel_backend/internal/contacts/repository"
	"funnel_backend/internal/events"
	"funnel_backend/platform/apperr"
	"funnel_backend/platform/logger"
	"funnel_backend/platform/phone"
)

// saoPaulo is the timezone of the operators reading the board comments.
var saoPaulo = func() *time.Location {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		return time.FixedZone("-03", -3*60*60)
	}
	return loc
}()

// Service escalates a completed funnel into a board task. Two phases, best
// effort: a failed task creation leaves the contact untouched for replay; a
// failed comment is tolerated after the task exists.
type Service struct {
	repo   repository.Repository
	board  BoardClient
	bus    events.Bus
	prefix string
	now    func() time.Time
	log    *logger.Logger
}

// New creates the escalation service. bus may be nil.
func New(repo repository.Repository, board BoardClient, bus events.Bus, titlePrefix string, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		board:  board,
		bus:    bus,
		prefix: titlePrefix,
		now:    time.Now,
		log:    log,
	}
}

// Escalate creates the board task for the contact, attaches the intake form
// as a comment and records the linkage on the contact.
func (s *Service) Escalate(ctx context.Context, contact contacts.Contact) error {
	const op = "escalation.Escalate"

	if contact.Service == nil || *contact.Service == "" {
		return apperr.BadRequest("contact has no selected service").WithOp(op)
	}
	if contact.Form == nil || *contact.Form == "" {
		return apperr.BadRequest("contact has no intake form").WithOp(op)
	}

	board, ok := LookupBoard(*contact.Service)
	if !ok {
		s.log.Error("no board mapping for service", "service", *contact.Service, "phone", contact.Phone)
		return apperr.BadRequest(fmt.Sprintf("unknown service %q", *contact.Service)).WithOp(op)
	}

	title := s.taskTitle(contact.Name, board.Code)
	itemID, err := s.board.CreateTask(ctx, title, board.ID, board.GroupID)
	if err != nil {
		s.log.Error("board task creation failed", "phone", contact.Phone, "board_id", board.ID, "error", err)
		return apperr.Wrap(apperr.KindUpstream, "task creation failed", err).WithOp(op)
	}

	// Comment failure is tolerated: the task exists and the operator can
	// fetch the form from the contact record.
	if err := s.board.AddComment(ctx, itemID, s.commentBody(contact)); err != nil {
		s.log.Warn("board comment failed", "phone", contact.Phone, "item_id", itemID, "error", err)
	}

	boardID := fmt.Sprintf("%d", board.ID)
	groupID := board.GroupID
	if _, err := s.repo.UpsertByPhone(ctx, repository.UpsertParams{
		Phone:   contact.Phone,
		Name:    contact.Name,
		Status:  contacts.StatusTaskCreated,
		Service: contact.Service,
		Form:    contact.Form,
		BoardID: &boardID,
		GroupID: &groupID,
	}); err != nil {
		s.log.Error("contact linkage update failed", "phone", contact.Phone, "item_id", itemID, "error", err)
		return apperr.Wrap(apperr.KindUpstream, "contact update failed", err).WithOp(op)
	}

	s.log.EscalationEvent(contact.Phone, *contact.Service, true, "")

	if s.bus != nil {
		s.bus.Publish(ctx, events.LeadEscalated{
			BaseEvent: events.NewBaseEvent(),
			Phone:     contact.Phone,
			Service:   *contact.Service,
			BoardID:   boardID,
			TaskID:    itemID,
		})
	}

	return nil
}

// taskTitle builds the board item name: prefix, two-digit year, contact name
// and the board's short code.
func (s *Service) taskTitle(name, boardCode string) string {
	year := s.now().In(saoPaulo).Format("06")
	return fmt.Sprintf("%s-%s.%s.%s", s.prefix, year, name, boardCode)
}

// commentBody renders the intake form comment in the operators' timezone.
func (s *Service) commentBody(contact contacts.Contact) string {
	stamp := s.now().In(saoPaulo).Format("02/01/2006, 15:04")
	form := ""
	if contact.Form != nil {
		form = *contact.Form
	}
	return fmt.Sprintf(
		"Proposta enviada por %s (%s)\n\nData: %s\n\n%s",
		contact.Name, phone.Digits(contact.Phone), stamp, form,
	)
}
