// Package domain provides the core business rules of the lead-intake funnel:
// deriving a contact's funnel state and deciding the next reply.
package domain

import (
	"fmt"
	"strconv"
	"strings"

	contacts "funnel_backend/internal/contacts/domain"
)

// State is a contact's derived position in the funnel. It is computed from
// the (service, form) pair, never stored: the stored status column is a
// mirror for operators, not the routing source.
type State string

const (
	StateFirstContact   State = "first_contact"
	StateAwaitingOption State = "awaiting_option"
	StateAwaitingForm   State = "awaiting_form"
	StateDuplicate      State = "duplicate"
)

// ProposalOptions is the fixed, ordered service menu. Order matters: inbound
// replies select by 1-based position.
var ProposalOptions = []string{
	"Georadar (GPR)",
	"Locação de Georadar (GPR)",
	"Geoelétrica",
	"Sísmica - MASW",
	"Geofísica Geral",
	"Perfilagem Geofísica",
	"Perfilagem Ótica",
	"Topografia Geofísica",
}

// ServiceForm is the intake-form question list sent after an option is chosen.
var ServiceForm = []string{
	"1. Nome do solicitante:",
	"2. Empresa (caso exista):",
	"3. Email:",
	"4. Telefone de contato:",
	"5. Local do serviço:",
	"6. Tamanho da área de pesquisa:",
	"7. Previsão de realização do serviço:",
	"8. Observações:",
}

const (
	greeting         = "Olá! 👋 Obrigado pelo contato."
	menuInstruction  = "Para iniciar seu atendimento, responda com o número de uma das opções abaixo:"
	invalidOption    = "Opção inválida."
	formInstruction  = "Para darmos sequência, envie as informações abaixo em uma única mensagem:"
	formTooShort     = "Não conseguimos registrar sua solicitação: as informações enviadas estão incompletas."
	acknowledgment   = "Recebemos suas informações! ✅ Em breve nossa equipe entrará em contato."
	textOnlyReply    = "Por favor, envie apenas mensagens de texto."
	kindChat         = "chat"
	defaultMinLength = 60
)

// Derive computes the funnel state from the persisted contact.
// found=false means no record exists yet.
func Derive(found bool, contact contacts.Contact) State {
	switch {
	case !found:
		return StateFirstContact
	case contact.HasService() && contact.HasForm():
		return StateDuplicate
	case contact.HasService():
		return StateAwaitingForm
	default:
		return StateAwaitingOption
	}
}

// Input is everything Decide needs about one inbound message.
type Input struct {
	State         State
	Text          string
	Kind          string
	MinFormLength int
}

// Decision is the pure outcome of one funnel step. The caller persists the
// mutation (when Persist is set), triggers escalation (when Escalate is set)
// and sends Reply. An empty Reply means stay silent.
type Decision struct {
	Reply    string
	Status   string
	Service  *string
	Form     *string
	Persist  bool
	Escalate bool
}

// Decide runs one step of the funnel state machine. It is a pure function:
// no I/O, no clock, no store access.
func Decide(in Input) Decision {
	if in.Kind != kindChat {
		return Decision{Reply: textOnlyReply}
	}

	switch in.State {
	case StateFirstContact:
		return Decision{
			Reply:   MenuMessage(),
			Status:  contacts.StatusAwaitingOption,
			Persist: true,
		}

	case StateAwaitingOption:
		selected, ok := matchOption(in.Text)
		if !ok {
			return Decision{Reply: invalidOption + "\n\n" + MenuMessage()}
		}
		return Decision{
			Reply:   FormMessage(),
			Status:  contacts.StatusAwaitingForm,
			Service: &selected,
			Persist: true,
		}

	case StateAwaitingForm:
		minLength := in.MinFormLength
		if minLength <= 0 {
			minLength = defaultMinLength
		}
		text := strings.TrimSpace(in.Text)
		if len([]rune(text)) < minLength {
			return Decision{Reply: formTooShort + "\n\n" + FormMessage()}
		}
		return Decision{
			Reply:    acknowledgment,
			Status:   contacts.StatusAwaitingTask,
			Form:     &text,
			Persist:  true,
			Escalate: true,
		}

	default:
		// Funnel complete: further messages are handled out of band.
		return Decision{}
	}
}

// MenuMessage renders the numbered option menu.
func MenuMessage() string {
	var b strings.Builder
	b.WriteString(greeting)
	b.WriteString("\n")
	b.WriteString(menuInstruction)
	b.WriteString("\n\n")
	for i, option := range ProposalOptions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, option)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormMessage renders the intake-form question list.
func FormMessage() string {
	return formInstruction + "\n\n" + strings.Join(ServiceForm, "\n")
}

// matchOption resolves the raw reply to a menu option, either by 1-based
// index or by an exact label match.
func matchOption(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}

	if idx, err := strconv.Atoi(trimmed); err == nil {
		if idx >= 1 && idx <= len(ProposalOptions) {
			return ProposalOptions[idx-1], true
		}
		return "", false
	}

	for _, option := range ProposalOptions {
		if trimmed == option {
			return option, true
		}
	}
	return "", false
}
