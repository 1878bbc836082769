package catalog

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/academy-backend/internal/domain"
	"github.com/yungbote/academy-backend/internal/pkg/dbctx"
	"github.com/yungbote/academy-backend/internal/platform/logger"
)

type EnrollmentRepo interface {
	// Create inserts the enrollment unless the (user, course) pair exists and reports whether a row was written.
	Create(dbc dbctx.Context, e *types.Enrollment) (bool, error)
	Exists(dbc dbctx.Context, userID, courseID uuid.UUID) (bool, error)
	Get(dbc dbctx.Context, userID, courseID uuid.UUID) (*types.Enrollment, error)
}

type enrollmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	return &enrollmentRepo{db: db, log: baseLog.With("repo", "EnrollmentRepo")}
}

func (r *enrollmentRepo) Create(dbc dbctx.Context, e *types.Enrollment) (bool, error) {
	if e == nil || e.UserID == uuid.Nil || e.CourseID == uuid.Nil {
		return false, nil
	}
	res := dbc.Conn(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoNothing: true,
		}).
		Create(e)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *enrollmentRepo) Exists(dbc dbctx.Context, userID, courseID uuid.UUID) (bool, error) {
	var n int64
	if err := dbc.Conn(r.db).
		Model(&types.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// Get returns nil, nil when the user is not enrolled.
func (r *enrollmentRepo) Get(dbc dbctx.Context, userID, courseID uuid.UUID) (*types.Enrollment, error) {
	var e types.Enrollment
	err := dbc.Conn(r.db).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}
