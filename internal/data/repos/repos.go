package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/academy-backend/internal/data/repos/catalog"
	"github.com/yungbote/academy-backend/internal/data/repos/certificate"
	"github.com/yungbote/academy-backend/internal/data/repos/notification"
	"github.com/yungbote/academy-backend/internal/data/repos/quiz"
	"github.com/yungbote/academy-backend/internal/data/repos/site"
	"github.com/yungbote/academy-backend/internal/data/repos/user"
	"github.com/yungbote/academy-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo

type CourseRepo = catalog.CourseRepo
type LessonRepo = catalog.LessonRepo
type EnrollmentRepo = catalog.EnrollmentRepo
type LessonProgressRepo = catalog.LessonProgressRepo

type QuizRepo = quiz.QuizRepo
type AttemptRepo = quiz.AttemptRepo
type AttemptResult = quiz.AttemptResult

type CertificateRepo = certificate.CertificateRepo

type NotificationRepo = notification.NotificationRepo

type SiteSettingsRepo = site.SettingsRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return catalog.NewCourseRepo(db, baseLog)
}
func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return catalog.NewLessonRepo(db, baseLog)
}
func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	return catalog.NewEnrollmentRepo(db, baseLog)
}
func NewLessonProgressRepo(db *gorm.DB, baseLog *logger.Logger) LessonProgressRepo {
	return catalog.NewLessonProgressRepo(db, baseLog)
}

func NewQuizRepo(db *gorm.DB, baseLog *logger.Logger) QuizRepo {
	return quiz.NewQuizRepo(db, baseLog)
}
func NewAttemptRepo(db *gorm.DB, baseLog *logger.Logger) AttemptRepo {
	return quiz.NewAttemptRepo(db, baseLog)
}

func NewCertificateRepo(db *gorm.DB, baseLog *logger.Logger) CertificateRepo {
	return certificate.NewCertificateRepo(db, baseLog)
}

func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	return notification.NewNotificationRepo(db, baseLog)
}

func NewSiteSettingsRepo(db *gorm.DB, baseLog *logger.Logger) SiteSettingsRepo {
	return site.NewSettingsRepo(db, baseLog)
}
