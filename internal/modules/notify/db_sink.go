package notify

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"

	"github.com/yungbote/academy-backend/internal/data/repos"
	types "github.com/yungbote/academy-backend/internal/domain"
	"github.com/yungbote/academy-backend/internal/pkg/dbctx"
)

type dbSink struct {
	repo repos.NotificationRepo
}

// NewDBSink stores each event as a notification row.
func NewDBSink(repo repos.NotificationRepo) Sink {
	return &dbSink{repo: repo}
}

func (s *dbSink) Name() string { return "db" }

func (s *dbSink) Deliver(ctx context.Context, ev Event) error {
	row := &types.Notification{
		UserID:  ev.UserID,
		Kind:    ev.Kind,
		Title:   truncate(ev.Title, 200),
		Message: ev.Message,
		Link:    truncate(ev.Link, 500),
	}
	if len(ev.Data) > 0 {
		raw, err := json.Marshal(ev.Data)
		if err != nil {
			return err
		}
		row.Data = datatypes.JSON(raw)
	}
	_, err := s.repo.Create(dbctx.Context{Ctx: ctx}, row)
	return err
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
