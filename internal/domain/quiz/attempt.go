package quiz

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuizAttempt is open until SubmitAttempt completes it; completed attempts are terminal.
// (user_id, quiz_id, attempt_number) is unique.
type QuizAttempt struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_quiz_attempt_user_quiz_number,priority:1" json:"user_id"`
	QuizID        uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_quiz_attempt_user_quiz_number,priority:2;index" json:"quiz_id"`
	Quiz          *Quiz            `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuizID;references:ID" json:"quiz,omitempty"`
	AttemptNumber int              `gorm:"column:attempt_number;not null;uniqueIndex:idx_quiz_attempt_user_quiz_number,priority:3" json:"attempt_number"`
	StartTime     time.Time        `gorm:"column:start_time;not null" json:"start_time"`
	EndTime       *time.Time       `gorm:"column:end_time" json:"end_time,omitempty"`
	Score         *decimal.Decimal `gorm:"column:score;type:numeric(7,2)" json:"score,omitempty"`
	Percentage    *decimal.Decimal `gorm:"column:percentage;type:numeric(5,2)" json:"percentage,omitempty"`
	Passed        bool             `gorm:"column:passed;not null;default:false" json:"passed"`
	IsCompleted   bool             `gorm:"column:is_completed;not null;default:false;index" json:"is_completed"`

	// Question ids in the order they were presented for this attempt.
	QuestionOrder datatypes.JSON `gorm:"column:question_order" json:"question_order,omitempty"`

	UserAnswers []UserAnswer `gorm:"constraint:OnDelete:CASCADE;foreignKey:AttemptID;references:ID" json:"user_answers,omitempty"`
}

func (QuizAttempt) TableName() string { return "quiz_attempt" }

func (a *QuizAttempt) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// UserAnswer is one recorded response. (attempt_id, question_id) is unique.
type UserAnswer struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	AttemptID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_user_answer_attempt_question,priority:1" json:"attempt_id"`
	QuestionID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_user_answer_attempt_question,priority:2;index" json:"question_id"`
	Question         *Question       `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuestionID;references:ID" json:"-"`
	SelectedAnswerID *uuid.UUID      `gorm:"type:uuid;index" json:"selected_answer_id,omitempty"`
	SelectedAnswer   *Answer         `gorm:"constraint:OnDelete:CASCADE;foreignKey:SelectedAnswerID;references:ID" json:"-"`
	TextAnswer       string          `gorm:"column:text_answer;type:text" json:"text_answer,omitempty"`
	IsCorrect        bool            `gorm:"column:is_correct;not null;default:false" json:"is_correct"`
	PointsEarned     decimal.Decimal `gorm:"column:points_earned;type:numeric(5,2);not null" json:"points_earned"`
}

func (UserAnswer) TableName() string { return "user_answer" }

func (u *UserAnswer) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
