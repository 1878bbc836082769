package certificates

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	types "github.com/yungbote/academy-backend/internal/domain"
	"github.com/yungbote/academy-backend/internal/modules/certificates/render"
	"github.com/yungbote/academy-backend/internal/pkg/dbctx"
	apperrors "github.com/yungbote/academy-backend/internal/pkg/errors"
	"github.com/yungbote/academy-backend/internal/platform/apierr"
)

// RenderCertificatePDF renders the owner's certificate. Rendering itself writes nothing.
func (u Usecases) RenderCertificatePDF(ctx context.Context, userID uuid.UUID, certificateID string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "certificates.RenderCertificatePDF")
	defer span.End()

	doc, err := u.document(ctx, userID, certificateID)
	if err != nil {
		return nil, err
	}
	out, err := render.PDF(doc)
	if err != nil {
		return nil, apierr.Internal("render_pdf_failed", err)
	}
	return out, nil
}

// RenderCertificateImage renders the owner's 1200x630 share card.
func (u Usecases) RenderCertificateImage(ctx context.Context, userID uuid.UUID, certificateID string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "certificates.RenderCertificateImage")
	defer span.End()

	doc, err := u.document(ctx, userID, certificateID)
	if err != nil {
		return nil, err
	}
	out, err := render.Image(doc)
	if err != nil {
		return nil, apierr.Internal("render_image_failed", err)
	}
	return out, nil
}

// ListUserCertificates returns the user's certificates newest first.
func (u Usecases) ListUserCertificates(ctx context.Context, userID uuid.UUID) ([]*types.Certificate, error) {
	if userID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", apperrors.ErrUnauthorized)
	}
	out, err := u.deps.Certificates.ListByUser(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, apierr.Internal("load_certificates_failed", err)
	}
	return out, nil
}

func (u Usecases) document(ctx context.Context, userID uuid.UUID, certificateID string) (render.Certificate, error) {
	if userID == uuid.Nil {
		return render.Certificate{}, apierr.New(http.StatusUnauthorized, "unauthorized", apperrors.ErrUnauthorized)
	}
	dbc := dbctx.Context{Ctx: ctx}
	c, err := u.deps.Certificates.GetByPublicID(dbc, certificateID)
	if err != nil {
		return render.Certificate{}, apierr.Internal("load_certificate_failed", err)
	}
	if c == nil {
		return render.Certificate{}, apierr.New(http.StatusNotFound, "certificate_not_found", apperrors.ErrNotFound)
	}
	if c.UserID != userID {
		return render.Certificate{}, apierr.New(http.StatusForbidden, "not_owner", apperrors.ErrNotOwner)
	}

	siteName := ""
	if u.deps.Settings != nil {
		s, err := u.deps.Settings.Get(dbc)
		if err != nil {
			u.deps.Log.Warn("Site settings unavailable, rendering without footer", "error", err)
		} else {
			siteName = s.SiteName
		}
	}

	doc := render.Certificate{
		RecipientName:  c.User.DisplayName(),
		CertificateID:  c.CertificateID,
		VerifyURL:      u.VerifyURL(c.CertificateID),
		SiteName:       siteName,
		CompletionDate: c.CompletionDate,
		Grade:          c.Grade,
	}
	if c.Course != nil {
		doc.CourseTitle = c.Course.Title
	}
	return doc, nil
}
