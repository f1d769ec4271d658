// Package handler exposes the contacts CRUD and housekeeping routes.
package handler

import (
	"net/http"

	"funnel_backend/internal/contacts/repository"
	"funnel_backend/internal/contacts/service"
	"funnel_backend/internal/contacts/transport"
	"funnel_backend/platform/httpkit"
	"funnel_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// Handler serves the contacts HTTP API.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates the contacts handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Get handles GET /api/contacts. With ?all=true every contact is returned;
// otherwise ?phone= selects one.
func (h *Handler) Get(c *gin.Context) {
	if c.Query("all") == "true" {
		list, err := h.svc.List(c.Request.Context())
		if httpkit.HandleError(c, err) {
			return
		}
		httpkit.OK(c, list)
		return
	}

	contact, err := h.svc.Get(c.Request.Context(), c.Query("phone"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, contact)
}

// Create handles POST /api/contacts.
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid status", err.Error())
		return
	}

	contact, err := h.svc.Create(c.Request.Context(), repository.UpsertParams{
		Phone:   req.Phone,
		Name:    req.WhatsappName,
		Status:  req.Status,
		Service: req.Service,
		Form:    req.Form,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, contact)
}

// Update handles PATCH /api/contacts with upsert semantics: unknown phones
// create the row instead of failing, matching how the funnel writes state.
func (h *Handler) Update(c *gin.Context) {
	var req transport.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid status", err.Error())
		return
	}

	contact, err := h.svc.Upsert(c.Request.Context(), repository.UpsertParams{
		Phone:   req.Phone,
		Name:    req.WhatsappName,
		Status:  req.Status,
		Service: req.Service,
		Form:    req.Form,
		BoardID: req.BoardID,
		GroupID: req.GroupID,
		Blocked: req.Block,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, contact)
}

// Delete handles DELETE /api/contacts?phone=.
func (h *Handler) Delete(c *gin.Context) {
	phone := c.Query("phone")
	if phone == "" {
		httpkit.Error(c, http.StatusBadRequest, "phone query parameter is required", nil)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), phone); httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"success": true, "phone": phone})
}

// Block handles POST /api/block-contact.
func (h *Handler) Block(c *gin.Context) {
	var req transport.BlockContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	contact, err := h.svc.Block(c.Request.Context(), req.Phone, req.Name)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"message": "contact blocked", "phone": contact.Phone, "whatsappName": contact.Name})
}

// Cleanup handles POST /api/clean-contacts, removing stale unconverted rows.
func (h *Handler) Cleanup(c *gin.Context) {
	phones, err := h.svc.CleanupStale(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.CleanupResponse{
		DeletedContactsCount: len(phones),
		DeletedPhones:        phones,
	})
}
