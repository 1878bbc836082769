package quiz

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/academy-backend/internal/domain/validation"
)

type QuestionType string

const (
	QuestionMCQ         QuestionType = "mcq"
	QuestionTrueFalse   QuestionType = "true_false"
	QuestionShortAnswer QuestionType = "short_answer"
)

// IsChoice reports whether responses are picked from answer options and auto-scored.
func (t QuestionType) IsChoice() bool {
	return t == QuestionMCQ || t == QuestionTrueFalse
}

type Question struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID       uuid.UUID    `gorm:"type:uuid;not null;index:idx_question_quiz_order,priority:1" json:"quiz_id"`
	QuestionType QuestionType `gorm:"column:question_type;not null;default:'mcq'" json:"question_type" validate:"oneof=mcq true_false short_answer"`
	Text         string       `gorm:"column:question_text;type:text;not null" json:"question_text" validate:"required"`
	Points       int          `gorm:"column:points;not null;default:1" json:"points" validate:"gt=0"`
	Order        int          `gorm:"column:order_index;not null;default:0;index:idx_question_quiz_order,priority:2" json:"order"`
	Explanation  string       `gorm:"column:explanation;type:text" json:"explanation,omitempty"`
	Answers      []Answer     `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuestionID;references:ID" json:"answers,omitempty" validate:"-"`
	CreatedAt    time.Time    `gorm:"not null" json:"created_at"`
}

func (Question) TableName() string { return "question" }

func (q *Question) BeforeCreate(*gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	if q.QuestionType == "" {
		q.QuestionType = QuestionMCQ
	}
	return nil
}

func (q *Question) Validate() error { return validation.Struct(q) }

// FindAnswer resolves an option id against this question's loaded options.
func (q *Question) FindAnswer(id uuid.UUID) (*Answer, bool) {
	if id == uuid.Nil {
		return nil, false
	}
	for i := range q.Answers {
		if q.Answers[i].ID == id {
			return &q.Answers[i], true
		}
	}
	return nil, false
}

type Answer struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;index:idx_answer_question_order,priority:1" json:"question_id"`
	Text       string    `gorm:"column:answer_text;not null" json:"answer_text" validate:"required,max=500"`
	IsCorrect  bool      `gorm:"column:is_correct;not null;default:false" json:"is_correct"`
	Order      int       `gorm:"column:order_index;not null;default:0;index:idx_answer_question_order,priority:2" json:"order"`
}

func (Answer) TableName() string { return "answer" }

func (a *Answer) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (a *Answer) Validate() error { return validation.Struct(a) }
