package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/academy-backend/internal/domain"
	"github.com/yungbote/academy-backend/internal/http/response"
	"github.com/yungbote/academy-backend/internal/modules/catalog"
	"github.com/yungbote/academy-backend/internal/platform/logger"
)

type CatalogService interface {
	Enroll(ctx context.Context, userID, courseID uuid.UUID) (*catalog.EnrollOutput, error)
	ToggleLessonCompletion(ctx context.Context, userID, lessonID uuid.UUID) (*types.LessonProgress, error)
}

type CatalogHandler struct {
	log     *logger.Logger
	catalog CatalogService
}

func NewCatalogHandler(log *logger.Logger, svc CatalogService) *CatalogHandler {
	return &CatalogHandler{log: log.With("handler", "CatalogHandler"), catalog: svc}
}

// POST /courses/:id/enroll
func (h *CatalogHandler) Enroll(c *gin.Context) {
	userID, ok := requestUser(c)
	if !ok {
		return
	}
	courseID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	out, err := h.catalog.Enroll(c.Request.Context(), userID, courseID)
	if err != nil {
		fail(h.log, c, err, "enroll_failed")
		return
	}
	if out.Created {
		response.RespondCreated(c, out)
		return
	}
	response.RespondOK(c, out)
}

// POST /lessons/:id/toggle-complete
func (h *CatalogHandler) ToggleLessonCompletion(c *gin.Context) {
	userID, ok := requestUser(c)
	if !ok {
		return
	}
	lessonID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	p, err := h.catalog.ToggleLessonCompletion(c.Request.Context(), userID, lessonID)
	if err != nil {
		fail(h.log, c, err, "toggle_lesson_failed")
		return
	}
	response.RespondOK(c, gin.H{"completed": p.IsCompleted, "progress": p})
}
