package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/academy-backend/internal/domain"
	"github.com/yungbote/academy-backend/internal/http/response"
	"github.com/yungbote/academy-backend/internal/platform/logger"
)

type NotificationService interface {
	ListNotifications(ctx context.Context, userID uuid.UUID) ([]*types.Notification, error)
}

type NotificationHandler struct {
	log   *logger.Logger
	inbox NotificationService
}

func NewNotificationHandler(log *logger.Logger, svc NotificationService) *NotificationHandler {
	return &NotificationHandler{log: log.With("handler", "NotificationHandler"), inbox: svc}
}

// GET /notifications
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := requestUser(c)
	if !ok {
		return
	}
	rows, err := h.inbox.ListNotifications(c.Request.Context(), userID)
	if err != nil {
		fail(h.log, c, err, "load_notifications_failed")
		return
	}
	response.RespondOK(c, gin.H{"notifications": rows})
}
