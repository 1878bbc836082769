package certificate

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/academy-backend/internal/domain"
	"github.com/yungbote/academy-backend/internal/pkg/dbctx"
	"github.com/yungbote/academy-backend/internal/platform/logger"
)

type CertificateRepo interface {
	// Create inserts one certificate. Unique violations are returned unchanged so the
	// caller can tell a (user, course) race from a certificate_id collision.
	Create(dbc dbctx.Context, c *types.Certificate) (*types.Certificate, error)
	GetByUserCourse(dbc dbctx.Context, userID, courseID uuid.UUID) (*types.Certificate, error)
	// GetByPublicID loads the certificate with its user and course.
	GetByPublicID(dbc dbctx.Context, certificateID string) (*types.Certificate, error)
	// ListByUser returns certificates newest first with their courses.
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Certificate, error)
	CountByUserCourse(dbc dbctx.Context, userID, courseID uuid.UUID) (int64, error)
}

type certificateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCertificateRepo(db *gorm.DB, baseLog *logger.Logger) CertificateRepo {
	return &certificateRepo{db: db, log: baseLog.With("repo", "CertificateRepo")}
}

func (r *certificateRepo) Create(dbc dbctx.Context, c *types.Certificate) (*types.Certificate, error) {
	if err := dbc.Conn(r.db).Omit("User", "Course").Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// GetByUserCourse returns nil, nil when none was issued.
func (r *certificateRepo) GetByUserCourse(dbc dbctx.Context, userID, courseID uuid.UUID) (*types.Certificate, error) {
	var c types.Certificate
	err := dbc.Conn(r.db).
		Preload("Course").
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByPublicID returns nil, nil when the id does not resolve.
func (r *certificateRepo) GetByPublicID(dbc dbctx.Context, certificateID string) (*types.Certificate, error) {
	var c types.Certificate
	err := dbc.Conn(r.db).
		Preload("User").
		Preload("Course").
		Where("certificate_id = ?", certificateID).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *certificateRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Certificate, error) {
	var out []*types.Certificate
	if err := dbc.Conn(r.db).
		Preload("Course").
		Where("user_id = ?", userID).
		Order("issue_date DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *certificateRepo) CountByUserCourse(dbc dbctx.Context, userID, courseID uuid.UUID) (int64, error) {
	var n int64
	if err := dbc.Conn(r.db).
		Model(&types.Certificate{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
