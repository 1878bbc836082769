package domain

import (
	"github.com/yungbote/academy-backend/internal/domain/catalog"
	"github.com/yungbote/academy-backend/internal/domain/certificate"
	"github.com/yungbote/academy-backend/internal/domain/notification"
	"github.com/yungbote/academy-backend/internal/domain/quiz"
	"github.com/yungbote/academy-backend/internal/domain/site"
	"github.com/yungbote/academy-backend/internal/domain/user"
)

type User = user.User

type Course = catalog.Course
type Lesson = catalog.Lesson
type Enrollment = catalog.Enrollment
type LessonProgress = catalog.LessonProgress

type Quiz = quiz.Quiz
type QuizType = quiz.Type
type Question = quiz.Question
type QuestionType = quiz.QuestionType
type Answer = quiz.Answer
type QuizAttempt = quiz.QuizAttempt
type UserAnswer = quiz.UserAnswer

type Certificate = certificate.Certificate

type Notification = notification.Notification
type NotificationKind = notification.Kind

type SiteSettings = site.Settings

const (
	QuizTypeLesson = quiz.TypeLesson
	QuizTypeCourse = quiz.TypeCourse

	QuestionMCQ         = quiz.QuestionMCQ
	QuestionTrueFalse   = quiz.QuestionTrueFalse
	QuestionShortAnswer = quiz.QuestionShortAnswer

	NotificationQuizResult  = notification.KindQuizResult
	NotificationCertificate = notification.KindCertificate
	NotificationEnrollment  = notification.KindEnrollment
)

// Models lists every table in dependency order for migrations.
func Models() []interface{} {
	return []interface{}{
		&User{},
		&SiteSettings{},
		&Course{},
		&Lesson{},
		&Enrollment{},
		&LessonProgress{},
		&Quiz{},
		&Question{},
		&Answer{},
		&QuizAttempt{},
		&UserAnswer{},
		&Certificate{},
		&Notification{},
	}
}
