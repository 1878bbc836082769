package catalog

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/academy-backend/internal/domain"
	"github.com/yungbote/academy-backend/internal/pkg/dbctx"
	"github.com/yungbote/academy-backend/internal/platform/logger"
)

type LessonProgressRepo interface {
	Get(dbc dbctx.Context, userID, lessonID uuid.UUID) (*types.LessonProgress, error)
	SetCompleted(dbc dbctx.Context, userID, lessonID uuid.UUID, completed bool, at time.Time) (*types.LessonProgress, error)
	CountCompletedByCourse(dbc dbctx.Context, userID, courseID uuid.UUID) (int64, error)
}

type lessonProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonProgressRepo(db *gorm.DB, baseLog *logger.Logger) LessonProgressRepo {
	return &lessonProgressRepo{db: db, log: baseLog.With("repo", "LessonProgressRepo")}
}

// Get returns nil, nil when no progress row exists.
func (r *lessonProgressRepo) Get(dbc dbctx.Context, userID, lessonID uuid.UUID) (*types.LessonProgress, error) {
	var p types.LessonProgress
	err := dbc.Conn(r.db).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SetCompleted upserts the (user, lesson) row. completed_at is cleared when completed is false.
func (r *lessonProgressRepo) SetCompleted(dbc dbctx.Context, userID, lessonID uuid.UUID, completed bool, at time.Time) (*types.LessonProgress, error) {
	var completedAt *time.Time
	if completed {
		t := at.UTC()
		completedAt = &t
	}
	row := &types.LessonProgress{
		UserID:      userID,
		LessonID:    lessonID,
		IsCompleted: completed,
		CompletedAt: completedAt,
		UpdatedAt:   at.UTC(),
	}
	if err := dbc.Conn(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_completed", "completed_at", "updated_at"}),
		}).
		Create(row).Error; err != nil {
		return nil, err
	}
	return r.Get(dbc, userID, lessonID)
}

// CountCompletedByCourse counts distinct completed lessons that still belong to the course.
func (r *lessonProgressRepo) CountCompletedByCourse(dbc dbctx.Context, userID, courseID uuid.UUID) (int64, error) {
	var n int64
	if err := dbc.Conn(r.db).
		Model(&types.LessonProgress{}).
		Joins("JOIN lesson ON lesson.id = lesson_progress.lesson_id").
		Where("lesson_progress.user_id = ? AND lesson.course_id = ? AND lesson_progress.is_completed = ?", userID, courseID, true).
		Distinct("lesson_progress.lesson_id").
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
