package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/academy-backend/internal/data/repos"
	"github.com/yungbote/academy-backend/internal/platform/logger"
)

type Repos struct {
	Users         repos.UserRepo
	Courses       repos.CourseRepo
	Lessons       repos.LessonRepo
	Enrollments   repos.EnrollmentRepo
	Progress      repos.LessonProgressRepo
	Quizzes       repos.QuizRepo
	Attempts      repos.AttemptRepo
	Certificates  repos.CertificateRepo
	Notifications repos.NotificationRepo
	SiteSettings  repos.SiteSettingsRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Users:         repos.NewUserRepo(db, log),
		Courses:       repos.NewCourseRepo(db, log),
		Lessons:       repos.NewLessonRepo(db, log),
		Enrollments:   repos.NewEnrollmentRepo(db, log),
		Progress:      repos.NewLessonProgressRepo(db, log),
		Quizzes:       repos.NewQuizRepo(db, log),
		Attempts:      repos.NewAttemptRepo(db, log),
		Certificates:  repos.NewCertificateRepo(db, log),
		Notifications: repos.NewNotificationRepo(db, log),
		SiteSettings:  repos.NewSiteSettingsRepo(db, log),
	}
}
