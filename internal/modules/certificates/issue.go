package certificates

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/academy-backend/internal/data/db"
	types "github.com/yungbote/academy-backend/internal/domain"
	"github.com/yungbote/academy-backend/internal/modules/notify"
	"github.com/yungbote/academy-backend/internal/pkg/dbctx"
	apperrors "github.com/yungbote/academy-backend/internal/pkg/errors"
	"github.com/yungbote/academy-backend/internal/platform/apierr"
)

type IssueStatus string

const (
	IssueStatusCreated       IssueStatus = "created"
	IssueStatusAlreadyIssued IssueStatus = "already_issued"
)

type IssueOutput struct {
	Certificate *types.Certificate `json:"certificate"`
	Status      IssueStatus        `json:"status"`
	VerifyURL   string             `json:"verify_url"`
}

type Eligibility struct {
	Eligible         bool `json:"eligible"`
	TotalLessons     int  `json:"total_lessons"`
	CompletedLessons int  `json:"completed_lessons"`
}

// CheckEligibility is true only when the course has lessons and the user completed every one.
func (u Usecases) CheckEligibility(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	e, err := u.Eligibility(ctx, userID, courseID)
	if err != nil {
		return false, err
	}
	return e.Eligible, nil
}

func (u Usecases) Eligibility(ctx context.Context, userID, courseID uuid.UUID) (*Eligibility, error) {
	total, err := u.deps.Progress.CountLessons(ctx, courseID)
	if err != nil {
		return nil, apierr.Internal("count_lessons_failed", err)
	}
	done, err := u.deps.Progress.CountCompletedLessons(ctx, userID, courseID)
	if err != nil {
		return nil, apierr.Internal("count_completed_lessons_failed", err)
	}
	return &Eligibility{
		Eligible:         total > 0 && done >= total,
		TotalLessons:     total,
		CompletedLessons: done,
	}, nil
}

// IssueCertificate creates the user's certificate for the course, or returns the existing one
// with IssueStatusAlreadyIssued. Concurrent callers end up with a single row.
func (u Usecases) IssueCertificate(ctx context.Context, userID, courseID uuid.UUID) (*IssueOutput, error) {
	ctx, span := tracer.Start(ctx, "certificates.IssueCertificate")
	defer span.End()
	span.SetAttributes(attribute.String("course.id", courseID.String()))

	out, err := u.issue(ctx, userID, courseID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "issue certificate failed")
		return nil, err
	}
	span.SetAttributes(attribute.String("certificate.status", string(out.Status)))
	return out, nil
}

func (u Usecases) issue(ctx context.Context, userID, courseID uuid.UUID) (*IssueOutput, error) {
	if userID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", apperrors.ErrUnauthorized)
	}
	dbc := dbctx.Context{Ctx: ctx}

	course, err := u.deps.Courses.GetByID(dbc, courseID)
	if err != nil {
		return nil, apierr.Internal("load_course_failed", err)
	}
	if course == nil {
		return nil, apierr.New(http.StatusNotFound, "course_not_found", apperrors.ErrNotFound)
	}

	enrolled, err := u.deps.Progress.Exists(ctx, userID, courseID)
	if err != nil {
		return nil, apierr.Internal("load_enrollment_failed", err)
	}
	if !enrolled {
		return nil, apierr.New(http.StatusForbidden, "not_eligible",
			fmt.Errorf("%w: not enrolled", apperrors.ErrNotEligible))
	}

	if existing, err := u.deps.Certificates.GetByUserCourse(dbc, userID, courseID); err != nil {
		return nil, apierr.Internal("load_certificate_failed", err)
	} else if existing != nil {
		return u.issued(existing, IssueStatusAlreadyIssued), nil
	}

	elig, err := u.Eligibility(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if !elig.Eligible {
		return nil, apierr.New(http.StatusForbidden, "not_eligible",
			fmt.Errorf("%w: %d of %d lessons completed", apperrors.ErrNotEligible, elig.CompletedLessons, elig.TotalLessons))
	}

	grade, err := u.grade(ctx, userID, courseID)
	if err != nil {
		return nil, apierr.Internal("load_grade_failed", err)
	}

	for try := 0; try < u.deps.IDRetries; try++ {
		now := u.deps.Now().UTC()
		cert := &types.Certificate{
			UserID:         userID,
			CourseID:       courseID,
			CertificateID:  u.deps.NewID(),
			IssueDate:      now,
			CompletionDate: now,
			Grade:          grade,
		}
		_, err := u.deps.Certificates.Create(dbc, cert)
		if err == nil {
			cert.Course = course
			u.announce(ctx, cert)
			return u.issued(cert, IssueStatusCreated), nil
		}
		if !db.IsUniqueViolation(err) {
			return nil, apierr.Internal("create_certificate_failed", err)
		}

		// Either a concurrent issue won the (user, course) pair or the id collided.
		existing, lerr := u.deps.Certificates.GetByUserCourse(dbc, userID, courseID)
		if lerr != nil {
			return nil, apierr.Internal("load_certificate_failed", lerr)
		}
		if existing != nil {
			return u.issued(existing, IssueStatusAlreadyIssued), nil
		}
		u.deps.Log.Warn("Certificate id collision, regenerating", "certificate_id", cert.CertificateID, "try", try+1)
	}
	return nil, apierr.Internal("certificate_id_exhausted",
		fmt.Errorf("no free certificate id after %d tries", u.deps.IDRetries))
}

func (u Usecases) issued(c *types.Certificate, status IssueStatus) *IssueOutput {
	return &IssueOutput{Certificate: c, Status: status, VerifyURL: u.VerifyURL(c.CertificateID)}
}

func (u Usecases) announce(ctx context.Context, c *types.Certificate) {
	u.deps.Log.Info("Certificate issued",
		"certificate_id", c.CertificateID,
		"course_id", c.CourseID.String(),
		"user_id", c.UserID.String(),
	)
	title := ""
	if c.Course != nil {
		title = c.Course.Title
	}
	u.deps.Notify.Emit(ctx, notify.Event{
		UserID:  c.UserID,
		Kind:    types.NotificationCertificate,
		Title:   "Congratulations! You earned a certificate",
		Message: fmt.Sprintf("Your completion certificate for %q is ready.", title),
		Link:    fmt.Sprintf("/certificates/download/%s/", c.CertificateID),
		Data: map[string]any{
			"certificate_id": c.CertificateID,
			"course_id":      c.CourseID.String(),
		},
	})
}
