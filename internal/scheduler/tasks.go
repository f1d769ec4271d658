package scheduler

import (
	"encoding/json"

	"funnel_backend/internal/funnel/transport"

	"github.com/hibiken/asynq"
)

const TaskProcessInbound = "funnel.process-inbound"

const TaskRelayForward = "relay.forward"

const TaskContactsClean = "contacts.clean"

// ProcessInboundPayload carries a normalized inbound message to the worker.
type ProcessInboundPayload struct {
	Message transport.InboundMessage `json:"message"`
}

// RelayForwardPayload carries a raw provider event for downstream relay.
type RelayForwardPayload struct {
	Raw json.RawMessage `json:"raw"`
}

// ContactsCleanPayload triggers one stale-contact sweep.
type ContactsCleanPayload struct {
	RequestedAt int64 `json:"requestedAt"`
}

func NewProcessInboundTask(payload ProcessInboundPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskProcessInbound, data), nil
}

func ParseProcessInboundPayload(task *asynq.Task) (ProcessInboundPayload, error) {
	var payload ProcessInboundPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ProcessInboundPayload{}, err
	}
	return payload, nil
}

func NewRelayForwardTask(payload RelayForwardPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRelayForward, data), nil
}

func ParseRelayForwardPayload(task *asynq.Task) (RelayForwardPayload, error) {
	var payload RelayForwardPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return RelayForwardPayload{}, err
	}
	return payload, nil
}

func NewContactsCleanTask(payload ContactsCleanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskContactsClean, data), nil
}

func ParseContactsCleanPayload(task *asynq.Task) (ContactsCleanPayload, error) {
	var payload ContactsCleanPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ContactsCleanPayload{}, err
	}
	return payload, nil
}
