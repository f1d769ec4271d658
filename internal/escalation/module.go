package escalation

import (
	"funnel_backend/internal/contacts/repository"
	"funnel_backend/internal/events"
	apphttp "funnel_backend/internal/http"
	"funnel_backend/platform/config"
	"funnel_backend/platform/logger"
)

// Module is the escalation bounded context module implementing http.Module.
type Module struct {
	service *Service
	handler *Handler
}

// NewModule creates and initializes the escalation module. board may be a
// nil *MondayClient when no token is configured; escalations then fail as
// upstream errors and stay replayable.
func NewModule(repo repository.Repository, board BoardClient, bus events.Bus, cfg config.MondayConfig, log *logger.Logger) *Module {
	svc := New(repo, board, bus, cfg.GetTaskTitlePrefix(), log)
	return &Module{
		service: svc,
		handler: NewHandler(svc, repo, board, log),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "escalation"
}

// Service returns the escalation core for the funnel to call on completion.
func (m *Module) Service() *Service {
	return m.service
}

// RegisterRoutes mounts the operator endpoints behind the API-key guard.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.POST("/create-new-task", m.handler.CreateNewTask)
	ctx.Protected.POST("/create-monday-task", m.handler.CreateTask)
	ctx.Protected.POST("/add-monday-comment", m.handler.AddComment)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
