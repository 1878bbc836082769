package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	types "github.com/yungbote/academy-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, username string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Username:  username,
		Email:     username + "@example.com",
		FirstName: "Ada",
		LastName:  "Lovelace",
		IsActive:  true,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB, title string, price string) *types.Course {
	tb.Helper()
	c := &types.Course{
		ID:    uuid.New(),
		Title: title,
		Price: decimal.RequireFromString(price),
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedLessons(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID uuid.UUID, n int) []*types.Lesson {
	tb.Helper()
	out := make([]*types.Lesson, 0, n)
	for i := 0; i < n; i++ {
		l := &types.Lesson{
			ID:       uuid.New(),
			CourseID: courseID,
			Title:    fmt.Sprintf("lesson %d", i+1),
			Order:    i,
		}
		if err := tx.WithContext(ctx).Create(l).Error; err != nil {
			tb.Fatalf("seed lesson: %v", err)
		}
		out = append(out, l)
	}
	return out
}

func SeedEnrollment(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) *types.Enrollment {
	tb.Helper()
	e := &types.Enrollment{UserID: userID, CourseID: courseID}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed enrollment: %v", err)
	}
	return e
}

func SeedCompletedLesson(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, lessonID uuid.UUID) *types.LessonProgress {
	tb.Helper()
	now := time.Now().UTC()
	p := &types.LessonProgress{
		UserID:      userID,
		LessonID:    lessonID,
		IsCompleted: true,
		CompletedAt: &now,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed lesson progress: %v", err)
	}
	return p
}

// SeedQuiz creates a quiz with one mcq question per entry in points. Each question
// has a correct first option and a wrong second option.
func SeedQuiz(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID uuid.UUID, points ...int) *types.Quiz {
	tb.Helper()
	q := &types.Quiz{
		ID:             uuid.New(),
		CourseID:       courseID,
		Title:          "quiz",
		QuizType:       types.QuizTypeCourse,
		PassPercentage: 70,
		MaxAttempts:    3,
		ShowAnswers:    true,
		IsActive:       true,
	}
	for i, p := range points {
		q.Questions = append(q.Questions, types.Question{
			ID:           uuid.New(),
			QuestionType: types.QuestionMCQ,
			Text:         fmt.Sprintf("question %d", i+1),
			Points:       p,
			Order:        i,
			Answers: []types.Answer{
				{ID: uuid.New(), Text: "right", IsCorrect: true, Order: 0},
				{ID: uuid.New(), Text: "wrong", IsCorrect: false, Order: 1},
			},
		})
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed quiz: %v", err)
	}
	return q
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrInt(v int) *int { return &v }
