package notify

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/yungbote/academy-backend/internal/data/repos"
	types "github.com/yungbote/academy-backend/internal/domain"
	"github.com/yungbote/academy-backend/internal/pkg/dbctx"
	apperrors "github.com/yungbote/academy-backend/internal/pkg/errors"
	"github.com/yungbote/academy-backend/internal/platform/apierr"
)

const inboxLimit = 50

type Inbox struct {
	repo repos.NotificationRepo
}

func NewInbox(repo repos.NotificationRepo) *Inbox { return &Inbox{repo: repo} }

// ListNotifications returns the latest notifications and marks the unread ones among them as read.
// The returned rows already reflect the new read state.
func (i *Inbox) ListNotifications(ctx context.Context, userID uuid.UUID) ([]*types.Notification, error) {
	if userID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", apperrors.ErrUnauthorized)
	}
	dbc := dbctx.Context{Ctx: ctx}
	rows, err := i.repo.ListRecent(dbc, userID, inboxLimit)
	if err != nil {
		return nil, apierr.Internal("load_notifications_failed", err)
	}
	unread := make([]uuid.UUID, 0, len(rows))
	for _, n := range rows {
		if !n.IsRead {
			unread = append(unread, n.ID)
		}
	}
	if len(unread) == 0 {
		return rows, nil
	}
	if _, err := i.repo.MarkRead(dbc, userID, unread); err != nil {
		return nil, apierr.Internal("mark_notifications_read_failed", err)
	}
	for _, n := range rows {
		n.IsRead = true
	}
	return rows, nil
}
