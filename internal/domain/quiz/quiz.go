package quiz

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/academy-backend/internal/domain/validation"
)

type Type string

const (
	TypeLesson Type = "lesson"
	TypeCourse Type = "course"
)

type Quiz struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"course_id" validate:"required"`
	LessonID    *uuid.UUID `gorm:"type:uuid;index" json:"lesson_id,omitempty"`
	Title       string     `gorm:"column:title;not null" json:"title" validate:"required,max=200"`
	Description string     `gorm:"column:description;type:text" json:"description,omitempty"`
	QuizType    Type       `gorm:"column:quiz_type;not null;default:'lesson'" json:"quiz_type" validate:"oneof=lesson course"`

	PassPercentage     int  `gorm:"column:pass_percentage;not null" json:"pass_percentage" validate:"gte=0,lte=100"`
	TimeLimitMinutes   *int `gorm:"column:time_limit_minutes" json:"time_limit_minutes,omitempty" validate:"omitempty,gt=0"`
	MaxAttempts        int  `gorm:"column:max_attempts;not null;default:3" json:"max_attempts" validate:"gte=1"`
	ShowAnswers        bool `gorm:"column:show_answers;not null" json:"show_answers"`
	RandomizeQuestions bool `gorm:"column:randomize_questions;not null;default:false" json:"randomize_questions"`
	IsActive           bool `gorm:"column:is_active;not null" json:"is_active"`

	Questions []Question `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuizID;references:ID" json:"questions,omitempty" validate:"-"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Quiz) TableName() string { return "quiz" }

func (q *Quiz) BeforeCreate(*gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	if q.QuizType == "" {
		q.QuizType = TypeLesson
	}
	return nil
}

func (q *Quiz) Validate() error { return validation.Struct(q) }

// TotalPoints sums the point values of the loaded questions.
func (q *Quiz) TotalPoints() int {
	total := 0
	for i := range q.Questions {
		total += q.Questions[i].Points
	}
	return total
}

// Deadline is start plus the time limit, when the quiz has one.
func (q *Quiz) Deadline(start time.Time) *time.Time {
	if q == nil || q.TimeLimitMinutes == nil || *q.TimeLimitMinutes <= 0 {
		return nil
	}
	d := start.Add(time.Duration(*q.TimeLimitMinutes) * time.Minute)
	return &d
}
