package certificates

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/singleflight"

	"github.com/yungbote/academy-backend/internal/data/repos"
	"github.com/yungbote/academy-backend/internal/modules/notify"
	"github.com/yungbote/academy-backend/internal/platform/logger"
)

var tracer = otel.Tracer("github.com/yungbote/academy-backend/internal/modules/certificates")

// Progress is the enrollment and lesson progress store eligibility reads from.
type Progress interface {
	Exists(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
	CountLessons(ctx context.Context, courseID uuid.UUID) (int, error)
	CountCompletedLessons(ctx context.Context, userID, courseID uuid.UUID) (int, error)
}

type UsecasesDeps struct {
	Log *logger.Logger

	Certificates repos.CertificateRepo
	Courses      repos.CourseRepo
	Quizzes      repos.QuizRepo
	Attempts     repos.AttemptRepo
	Settings     repos.SiteSettingsRepo

	Progress Progress
	Notify   notify.Notifier

	// BaseURL prefixes verification links: BaseURL + "/certificates/verify/" + id.
	BaseURL string
	// IDRetries bounds regeneration after a certificate_id collision.
	IDRetries int

	Now   func() time.Time
	NewID func() string
}

type Usecases struct {
	deps   UsecasesDeps
	verify *singleflight.Group
}

func New(deps UsecasesDeps) Usecases {
	if deps.Notify == nil {
		deps.Notify = notify.Nop{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewID == nil {
		deps.NewID = NewCertificateID
	}
	if deps.IDRetries <= 0 {
		deps.IDRetries = 5
	}
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	deps.Log = deps.Log.With("service", "CertificateUsecases")
	deps.BaseURL = strings.TrimRight(strings.TrimSpace(deps.BaseURL), "/")
	return Usecases{deps: deps, verify: &singleflight.Group{}}
}

// VerifyURL is the public verification link for a certificate id.
func (u Usecases) VerifyURL(certificateID string) string {
	return u.deps.BaseURL + "/certificates/verify/" + certificateID
}
