package quiz

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"

	"github.com/yungbote/academy-backend/internal/data/db"
	"github.com/yungbote/academy-backend/internal/data/repos"
	"github.com/yungbote/academy-backend/internal/modules/notify"
	"github.com/yungbote/academy-backend/internal/platform/logger"
)

var tracer = otel.Tracer("github.com/yungbote/academy-backend/internal/modules/quiz")

// EnrollmentChecker reports whether a user may take a course's quizzes.
type EnrollmentChecker interface {
	Exists(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
}

type UsecasesDeps struct {
	DB  *gorm.DB
	Log *logger.Logger
	// Runner defaults to a gorm transaction runner on DB.
	Runner db.TxRunner

	Quizzes  repos.QuizRepo
	Attempts repos.AttemptRepo

	Enrollment EnrollmentChecker
	Notify     notify.Notifier

	// AttemptCreateRetries bounds retries when two starts race for the same attempt number.
	AttemptCreateRetries int

	Now     func() time.Time
	Shuffle Shuffler
}

type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases {
	if deps.Runner == nil {
		deps.Runner = db.NewGormTxRunner(deps.DB)
	}
	if deps.Notify == nil {
		deps.Notify = notify.Nop{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.AttemptCreateRetries <= 0 {
		deps.AttemptCreateRetries = 3
	}
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	deps.Log = deps.Log.With("service", "QuizUsecases")
	return Usecases{deps: deps}
}
