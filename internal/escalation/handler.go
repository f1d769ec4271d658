package escalation

import (
	"net/http"
	"strings"

	"funnel_backend/internal/contacts/repository"
	"funnel_backend/platform/httpkit"
	"funnel_backend/platform/logger"
	"funnel_backend/platform/phone"

	"github.com/gin-gonic/gin"
)

// Handler exposes the escalation replay and raw board endpoints.
type Handler struct {
	service *Service
	repo    repository.Repository
	board   BoardClient
	log     *logger.Logger
}

// NewHandler creates the escalation handler.
func NewHandler(service *Service, repo repository.Repository, board BoardClient, log *logger.Logger) *Handler {
	return &Handler{service: service, repo: repo, board: board, log: log}
}

type createNewTaskRequest struct {
	Phone string `json:"phone" binding:"required"`
}

type createTaskRequest struct {
	TaskName string `json:"taskName" binding:"required"`
	BoardID  int64  `json:"boardId" binding:"required"`
	GroupID  string `json:"groupId" binding:"required"`
}

type createTaskResponse struct {
	Success bool   `json:"success"`
	ItemID  string `json:"itemId"`
	Message string `json:"message"`
}

type addCommentRequest struct {
	ItemID      string `json:"itemId" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// CreateNewTask handles POST /create-new-task: replay the escalation for a
// contact that already completed the funnel.
func (h *Handler) CreateNewTask(c *gin.Context) {
	var req createNewTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "phone is required", err.Error())
		return
	}

	canonical := phone.CanonicalChatID(req.Phone)
	if canonical == "" {
		httpkit.Error(c, http.StatusBadRequest, "invalid phone", nil)
		return
	}

	contact, err := h.repo.FindByPhone(c.Request.Context(), canonical)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	if err := h.service.Escalate(c.Request.Context(), contact); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, gin.H{
		"message": "task created",
		"contact": gin.H{
			"name":    contact.Name,
			"phone":   contact.Phone,
			"service": contact.Service,
		},
	})
}

// CreateTask handles POST /create-monday-task: create a raw board item.
func (h *Handler) CreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "taskName, boardId and groupId are required", err.Error())
		return
	}

	itemID, err := h.board.CreateTask(c.Request.Context(), strings.TrimSpace(req.TaskName), req.BoardID, req.GroupID)
	if err != nil {
		h.log.Error("raw task creation failed", "board_id", req.BoardID, "error", err)
		httpkit.Error(c, http.StatusBadGateway, "task creation failed", nil)
		return
	}

	httpkit.OK(c, createTaskResponse{Success: true, ItemID: itemID, Message: "task created"})
}

// AddComment handles POST /add-monday-comment: attach an update to an item.
func (h *Handler) AddComment(c *gin.Context) {
	var req addCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "itemId and description are required", err.Error())
		return
	}

	if err := h.board.AddComment(c.Request.Context(), req.ItemID, req.Description); err != nil {
		h.log.Error("raw comment failed", "item_id", req.ItemID, "error", err)
		httpkit.Error(c, http.StatusBadGateway, "comment failed", nil)
		return
	}

	httpkit.OK(c, gin.H{"success": true, "message": "comment added"})
}
