package app

import (
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/academy-backend/internal/modules/catalog"
	"github.com/yungbote/academy-backend/internal/modules/certificates"
	"github.com/yungbote/academy-backend/internal/modules/notify"
	"github.com/yungbote/academy-backend/internal/modules/quiz"
	"github.com/yungbote/academy-backend/internal/platform/logger"
)

type Services struct {
	Notify       *notify.Emitter
	Inbox        *notify.Inbox
	Catalog      catalog.Usecases
	Quiz         quiz.Usecases
	Certificates certificates.Usecases

	redis *goredis.Client
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos) Services {
	log.Info("Wiring services...")

	sinks := []notify.Sink{notify.NewDBSink(r.Notifications)}
	var rdb *goredis.Client
	if cfg.Redis.Addr != "" {
		client, err := notify.DialRedis(cfg.Redis.Addr)
		if err != nil {
			log.Warn("Redis unavailable, realtime notifications disabled", "addr", cfg.Redis.Addr, "error", err)
		} else if sink, err := notify.NewRedisSink(log, client, cfg.Redis.Channel); err == nil {
			rdb = client
			sinks = append(sinks, sink)
		}
	}
	emitter := notify.NewEmitter(log, sinks...)

	cat := catalog.New(catalog.UsecasesDeps{
		Log:         log,
		Courses:     r.Courses,
		Lessons:     r.Lessons,
		Enrollments: r.Enrollments,
		Progress:    r.Progress,
		Notify:      emitter,
	})

	return Services{
		Notify:  emitter,
		Inbox:   notify.NewInbox(r.Notifications),
		Catalog: cat,
		Quiz: quiz.New(quiz.UsecasesDeps{
			DB:                   db,
			Log:                  log,
			Quizzes:              r.Quizzes,
			Attempts:             r.Attempts,
			Enrollment:           cat,
			Notify:               emitter,
			AttemptCreateRetries: cfg.Attempts,
		}),
		Certificates: certificates.New(certificates.UsecasesDeps{
			Log:          log,
			Certificates: r.Certificates,
			Courses:      r.Courses,
			Quizzes:      r.Quizzes,
			Attempts:     r.Attempts,
			Settings:     r.SiteSettings,
			Progress:     cat,
			Notify:       emitter,
			BaseURL:      cfg.BaseURL,
			IDRetries:    cfg.CertIDs,
		}),
		redis: rdb,
	}
}

func (s Services) close() error {
	if s.redis != nil {
		return s.redis.Close()
	}
	return nil
}
