package contacts

import (
	"time"

	"funnel_backend/internal/contacts/handler"
	"funnel_backend/internal/contacts/repository"
	"funnel_backend/internal/contacts/service"
	apphttp "funnel_backend/internal/http"
	"funnel_backend/platform/logger"
	"funnel_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the contacts bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the contacts module with all its dependencies.
func NewModule(pool *pgxpool.Pool, retention time.Duration, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, retention, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "contacts"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for the funnel and escalation services.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts the contact routes. Everything here mutates or
// exposes lead data, so the whole group sits behind the API key.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/contacts", m.handler.Get)
	ctx.Protected.POST("/contacts", m.handler.Create)
	ctx.Protected.PATCH("/contacts", m.handler.Update)
	ctx.Protected.DELETE("/contacts", m.handler.Delete)
	ctx.Protected.POST("/block-contact", m.handler.Block)
	ctx.Protected.POST("/clean-contacts", m.handler.Cleanup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
