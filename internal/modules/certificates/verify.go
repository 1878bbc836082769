package certificates

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	types "github.com/yungbote/academy-backend/internal/domain"
	"github.com/yungbote/academy-backend/internal/domain/certificate"
	"github.com/yungbote/academy-backend/internal/pkg/dbctx"
	apperrors "github.com/yungbote/academy-backend/internal/pkg/errors"
	"github.com/yungbote/academy-backend/internal/platform/apierr"
)

// Verification is the public view of a certificate. It carries nothing beyond these fields.
type Verification struct {
	CertificateID  string           `json:"certificate_id"`
	RecipientName  string           `json:"recipient_name"`
	CourseTitle    string           `json:"course_title"`
	IssueDate      time.Time        `json:"issue_date"`
	CompletionDate time.Time        `json:"completion_date"`
	Grade          *decimal.Decimal `json:"grade,omitempty"`
}

// VerifyCertificate resolves a public certificate id. Concurrent lookups of the same id share one query.
func (u Usecases) VerifyCertificate(ctx context.Context, certificateID string) (*Verification, error) {
	ctx, span := tracer.Start(ctx, "certificates.VerifyCertificate")
	defer span.End()

	id := strings.ToUpper(strings.TrimSpace(certificateID))
	if !certificate.IDPattern.MatchString(id) {
		return nil, apierr.New(http.StatusNotFound, "certificate_not_found", apperrors.ErrNotFound)
	}

	// The shared lookup outlives any single caller's cancellation.
	shared := context.WithoutCancel(ctx)
	v, err, _ := u.verify.Do(id, func() (interface{}, error) {
		c, err := u.deps.Certificates.GetByPublicID(dbctx.Context{Ctx: shared}, id)
		if err != nil {
			return nil, apierr.Internal("load_certificate_failed", err)
		}
		if c == nil {
			return nil, apierr.New(http.StatusNotFound, "certificate_not_found", apperrors.ErrNotFound)
		}
		return verificationOf(c), nil
	})
	if err != nil {
		return nil, err
	}
	out := *v.(*Verification)
	return &out, nil
}

func verificationOf(c *types.Certificate) *Verification {
	v := &Verification{
		CertificateID:  c.CertificateID,
		RecipientName:  c.User.DisplayName(),
		IssueDate:      c.IssueDate,
		CompletionDate: c.CompletionDate,
		Grade:          c.Grade,
	}
	if c.Course != nil {
		v.CourseTitle = c.Course.Title
	}
	return v
}
