package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/academy-backend/internal/data/repos"
	"github.com/yungbote/academy-backend/internal/data/repos/testutil"
	types "github.com/yungbote/academy-backend/internal/domain"
)

type failingSink struct{ calls int }

func (s *failingSink) Name() string { return "failing" }
func (s *failingSink) Deliver(context.Context, Event) error {
	s.calls++
	return errors.New("boom")
}

type panickingSink struct{}

func (panickingSink) Name() string                         { return "panicking" }
func (panickingSink) Deliver(context.Context, Event) error { panic("sink exploded") }

type recordingSink struct{ got []Event }

func (s *recordingSink) Name() string { return "recording" }
func (s *recordingSink) Deliver(_ context.Context, ev Event) error {
	s.got = append(s.got, ev)
	return nil
}

type fakePublisher struct {
	channel string
	payload []byte
	err     error
}

func (p *fakePublisher) Publish(ctx context.Context, channel string, message interface{}) *goredis.IntCmd {
	p.channel = channel
	p.payload, _ = message.([]byte)
	cmd := goredis.NewIntCmd(ctx)
	if p.err != nil {
		cmd.SetErr(p.err)
	}
	return cmd
}

func TestEmitter_IsolatesFailingAndPanickingSinks(t *testing.T) {
	failing := &failingSink{}
	rec := &recordingSink{}
	e := NewEmitter(testutil.Logger(t), failing, panickingSink{}, rec)

	e.Emit(context.Background(), Event{UserID: uuid.New(), Kind: types.NotificationQuizResult, Title: "t"})

	if failing.calls != 1 {
		t.Fatalf("expected failing sink to be called once, got %d", failing.calls)
	}
	if len(rec.got) != 1 {
		t.Fatalf("expected later sinks to still receive the event, got %d", len(rec.got))
	}
}

func TestEmitter_SkipsEventsWithoutUser(t *testing.T) {
	rec := &recordingSink{}
	NewEmitter(testutil.Logger(t), rec).Emit(context.Background(), Event{Kind: types.NotificationCertificate})
	if len(rec.got) != 0 {
		t.Fatalf("expected no delivery, got %d", len(rec.got))
	}
}

func TestRedisSink_PublishesJSON(t *testing.T) {
	pub := &fakePublisher{}
	s, err := NewRedisSink(testutil.Logger(t), pub, "")
	if err != nil {
		t.Fatalf("NewRedisSink: %v", err)
	}
	if err := s.Deliver(context.Background(), Event{UserID: uuid.New(), Kind: types.NotificationCertificate, Title: "hi"}); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if pub.channel != "notifications" {
		t.Fatalf("expected default channel, got %q", pub.channel)
	}
	if len(pub.payload) == 0 {
		t.Fatalf("expected a JSON payload")
	}

	pub.err = errors.New("redis down")
	if err := s.Deliver(context.Background(), Event{UserID: uuid.New()}); err == nil {
		t.Fatalf("expected publish error to surface from the sink")
	}
}

func TestDBSinkAndInbox(t *testing.T) {
	conn := testutil.DB(t)
	ctx := context.Background()
	log := testutil.Logger(t)
	u := testutil.SeedUser(t, ctx, conn, "inbox")
	repo := repos.NewNotificationRepo(conn, log)

	e := NewEmitter(log, NewDBSink(repo))
	e.Emit(ctx, Event{UserID: u.ID, Kind: types.NotificationEnrollment, Title: "Enrolled", Data: map[string]any{"course": "Go"}})
	e.Emit(ctx, Event{UserID: u.ID, Kind: types.NotificationCertificate, Title: "Certificate"})

	inbox := NewInbox(repo)
	got, err := inbox.ListNotifications(ctx, u.ID)
	if err != nil {
		t.Fatalf("ListNotifications: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(got))
	}
	for _, n := range got {
		if !n.IsRead {
			t.Fatalf("expected returned notifications to be marked read")
		}
	}

	var unread int64
	if err := conn.Model(&types.Notification{}).Where("user_id = ? AND is_read = ?", u.ID, false).Count(&unread).Error; err != nil {
		t.Fatalf("count unread: %v", err)
	}
	if unread != 0 {
		t.Fatalf("expected 0 unread rows, got %d", unread)
	}
}
