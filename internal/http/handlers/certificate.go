package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/academy-backend/internal/domain"
	"github.com/yungbote/academy-backend/internal/http/response"
	"github.com/yungbote/academy-backend/internal/modules/certificates"
	"github.com/yungbote/academy-backend/internal/platform/logger"
)

type CertificateService interface {
	Eligibility(ctx context.Context, userID, courseID uuid.UUID) (*certificates.Eligibility, error)
	IssueCertificate(ctx context.Context, userID, courseID uuid.UUID) (*certificates.IssueOutput, error)
	ListUserCertificates(ctx context.Context, userID uuid.UUID) ([]*types.Certificate, error)
	RenderCertificatePDF(ctx context.Context, userID uuid.UUID, certificateID string) ([]byte, error)
	RenderCertificateImage(ctx context.Context, userID uuid.UUID, certificateID string) ([]byte, error)
	VerifyCertificate(ctx context.Context, certificateID string) (*certificates.Verification, error)
	VerifyURL(certificateID string) string
}

type CertificateHandler struct {
	log   *logger.Logger
	certs CertificateService
}

func NewCertificateHandler(log *logger.Logger, svc CertificateService) *CertificateHandler {
	return &CertificateHandler{log: log.With("handler", "CertificateHandler"), certs: svc}
}

// GET /courses/:id/certificate/eligibility
func (h *CertificateHandler) GetEligibility(c *gin.Context) {
	userID, ok := requestUser(c)
	if !ok {
		return
	}
	courseID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	out, err := h.certs.Eligibility(c.Request.Context(), userID, courseID)
	if err != nil {
		fail(h.log, c, err, "eligibility_failed")
		return
	}
	response.RespondOK(c, out)
}

// POST /courses/:id/certificate
func (h *CertificateHandler) Issue(c *gin.Context) {
	userID, ok := requestUser(c)
	if !ok {
		return
	}
	courseID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	out, err := h.certs.IssueCertificate(c.Request.Context(), userID, courseID)
	if err != nil {
		fail(h.log, c, err, "issue_certificate_failed")
		return
	}
	if out.Status == certificates.IssueStatusCreated {
		response.RespondCreated(c, out)
		return
	}
	response.RespondOK(c, out)
}

type certificateItem struct {
	*types.Certificate
	VerifyURL string `json:"verify_url"`
}

// GET /certificates
func (h *CertificateHandler) ListMine(c *gin.Context) {
	userID, ok := requestUser(c)
	if !ok {
		return
	}
	rows, err := h.certs.ListUserCertificates(c.Request.Context(), userID)
	if err != nil {
		fail(h.log, c, err, "load_certificates_failed")
		return
	}
	items := make([]certificateItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, certificateItem{Certificate: r, VerifyURL: h.certs.VerifyURL(r.CertificateID)})
	}
	response.RespondOK(c, gin.H{"certificates": items})
}

// GET /certificates/:certificate_id/pdf
func (h *CertificateHandler) DownloadPDF(c *gin.Context) {
	userID, ok := requestUser(c)
	if !ok {
		return
	}
	id := c.Param("certificate_id")
	body, err := h.certs.RenderCertificatePDF(c.Request.Context(), userID, id)
	if err != nil {
		fail(h.log, c, err, "render_pdf_failed")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="certificate_%s.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", body)
}

// GET /certificates/:certificate_id/image
func (h *CertificateHandler) DownloadImage(c *gin.Context) {
	userID, ok := requestUser(c)
	if !ok {
		return
	}
	id := c.Param("certificate_id")
	body, err := h.certs.RenderCertificateImage(c.Request.Context(), userID, id)
	if err != nil {
		fail(h.log, c, err, "render_image_failed")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="certificate_%s.png"`, id))
	c.Data(http.StatusOK, "image/png", body)
}

// GET /certificates/verify/:certificate_id (public)
func (h *CertificateHandler) Verify(c *gin.Context) {
	out, err := h.certs.VerifyCertificate(c.Request.Context(), c.Param("certificate_id"))
	if err != nil {
		fail(h.log, c, err, "verify_certificate_failed")
		return
	}
	response.RespondOK(c, gin.H{"valid": true, "certificate": out})
}
