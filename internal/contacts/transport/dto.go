// Package transport defines the wire types of the contacts module.
package transport

// CreateContactRequest is the body of POST /api/contacts.
type CreateContactRequest struct {
	Phone        string  `json:"phone" binding:"required"`
	WhatsappName string  `json:"whatsappName"`
	Status       string  `json:"status" binding:"required" validate:"oneof=aguardando_opcao aguardando_formulario aguardando_tarefa tarefa_criada bloqueado"`
	Service      *string `json:"service"`
	Form         *string `json:"form"`
}

// UpdateContactRequest is the body of PATCH /api/contacts. Phone identifies
// the contact; every other field is optional.
type UpdateContactRequest struct {
	Phone        string  `json:"phone" binding:"required"`
	WhatsappName string  `json:"whatsappName"`
	Status       string  `json:"status" validate:"omitempty,oneof=aguardando_opcao aguardando_formulario aguardando_tarefa tarefa_criada bloqueado"`
	Service      *string `json:"service"`
	Form         *string `json:"form"`
	BoardID      *string `json:"boardId"`
	GroupID      *string `json:"groupId"`
	Block        *bool   `json:"block"`
}

// BlockContactRequest is the body of POST /api/block-contact.
type BlockContactRequest struct {
	Phone string `json:"phone" binding:"required"`
	Name  string `json:"name"`
}

// CleanupResponse reports what the stale-contact cleanup removed.
type CleanupResponse struct {
	DeletedContactsCount int      `json:"deletedContactsCount"`
	DeletedPhones        []string `json:"deletedPhones,omitempty"`
}
