// Package domain provides the contact bounded context: the phone-keyed
// record tracking each lead's funnel progress and task-board linkage.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Funnel statuses stored on a contact. The stored value mirrors what the
// funnel decided last; funnel routing itself derives state from the
// (service, form) pair, not from this column.
const (
	StatusAwaitingOption = "aguardando_opcao"
	StatusAwaitingForm   = "aguardando_formulario"
	StatusAwaitingTask   = "aguardando_tarefa"
	StatusTaskCreated    = "tarefa_criada"
	StatusBlocked        = "bloqueado"
)

// Contact is a phone-identified lead record.
type Contact struct {
	ID        uuid.UUID `json:"id"`
	Phone     string    `json:"phone"`
	Name      string    `json:"whatsappName"`
	Status    string    `json:"status"`
	Service   *string   `json:"service"`
	Form      *string   `json:"form"`
	BoardID   *string   `json:"boardId"`
	GroupID   *string   `json:"groupId"`
	Blocked   bool      `json:"block"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasService reports whether a service option has been chosen.
func (c Contact) HasService() bool {
	return c.Service != nil && *c.Service != ""
}

// HasForm reports whether the intake form has been submitted.
func (c Contact) HasForm() bool {
	return c.Form != nil && *c.Form != ""
}
