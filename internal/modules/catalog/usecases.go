package catalog

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/academy-backend/internal/data/repos"
	types "github.com/yungbote/academy-backend/internal/domain"
	"github.com/yungbote/academy-backend/internal/modules/notify"
	"github.com/yungbote/academy-backend/internal/pkg/dbctx"
	apperrors "github.com/yungbote/academy-backend/internal/pkg/errors"
	"github.com/yungbote/academy-backend/internal/platform/apierr"
	"github.com/yungbote/academy-backend/internal/platform/logger"
)

type UsecasesDeps struct {
	Log *logger.Logger

	Courses     repos.CourseRepo
	Lessons     repos.LessonRepo
	Enrollments repos.EnrollmentRepo
	Progress    repos.LessonProgressRepo

	Notify notify.Notifier
	Now    func() time.Time
}

// Usecases is the enrollment and lesson progress store used by the quiz and certificate flows.
type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases {
	if deps.Notify == nil {
		deps.Notify = notify.Nop{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return Usecases{deps: deps}
}

func (u Usecases) Exists(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	return u.deps.Enrollments.Exists(dbctx.Context{Ctx: ctx}, userID, courseID)
}

func (u Usecases) CountLessons(ctx context.Context, courseID uuid.UUID) (int, error) {
	n, err := u.deps.Lessons.CountByCourse(dbctx.Context{Ctx: ctx}, courseID)
	return int(n), err
}

func (u Usecases) CountCompletedLessons(ctx context.Context, userID, courseID uuid.UUID) (int, error) {
	n, err := u.deps.Progress.CountCompletedByCourse(dbctx.Context{Ctx: ctx}, userID, courseID)
	return int(n), err
}

type EnrollOutput struct {
	Enrollment *types.Enrollment `json:"enrollment"`
	Created    bool              `json:"created"`
}

// Enroll is idempotent and only handles free courses; paid ones go through checkout.
func (u Usecases) Enroll(ctx context.Context, userID, courseID uuid.UUID) (*EnrollOutput, error) {
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
	if !course.IsFree() {
		return nil, apierr.New(http.StatusPaymentRequired, "payment_required",
			fmt.Errorf("%w: course %s costs %s", apperrors.ErrPaymentRequired, course.ID, course.Price.StringFixed(2)))
	}

	created, err := u.deps.Enrollments.Create(dbc, &types.Enrollment{
		UserID:     userID,
		CourseID:   courseID,
		EnrolledAt: u.deps.Now().UTC(),
	})
	if err != nil {
		return nil, apierr.Internal("enroll_failed", err)
	}
	row, err := u.deps.Enrollments.Get(dbc, userID, courseID)
	if err != nil || row == nil {
		return nil, apierr.Internal("load_enrollment_failed", err)
	}

	if created {
		u.deps.Notify.Emit(ctx, notify.Event{
			UserID:  userID,
			Kind:    types.NotificationEnrollment,
			Title:   "Enrollment successful!",
			Message: fmt.Sprintf("You are now enrolled in: %s", course.Title),
			Link:    fmt.Sprintf("/courses/%s/", course.ID),
		})
		if u.deps.Log != nil {
			u.deps.Log.Info("User enrolled", "user_id", userID.String(), "course_id", courseID.String())
		}
	}
	return &EnrollOutput{Enrollment: row, Created: created}, nil
}

// ToggleLessonCompletion flips the user's completion flag for the lesson.
func (u Usecases) ToggleLessonCompletion(ctx context.Context, userID, lessonID uuid.UUID) (*types.LessonProgress, error) {
	if userID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", apperrors.ErrUnauthorized)
	}
	dbc := dbctx.Context{Ctx: ctx}
	lesson, err := u.deps.Lessons.GetByID(dbc, lessonID)
	if err != nil {
		return nil, apierr.Internal("load_lesson_failed", err)
	}
	if lesson == nil {
		return nil, apierr.New(http.StatusNotFound, "lesson_not_found", apperrors.ErrNotFound)
	}
	enrolled, err := u.deps.Enrollments.Exists(dbc, userID, lesson.CourseID)
	if err != nil {
		return nil, apierr.Internal("load_enrollment_failed", err)
	}
	if !enrolled {
		return nil, apierr.New(http.StatusForbidden, "not_enrolled", apperrors.ErrNotEnrolled)
	}

	cur, err := u.deps.Progress.Get(dbc, userID, lessonID)
	if err != nil {
		return nil, apierr.Internal("load_progress_failed", err)
	}
	next := cur == nil || !cur.IsCompleted
	p, err := u.deps.Progress.SetCompleted(dbc, userID, lessonID, next, u.deps.Now())
	if err != nil {
		return nil, apierr.Internal("save_progress_failed", err)
	}
	return p, nil
}
