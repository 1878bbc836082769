package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lesson.Order is a sort key within its course; storage does not enforce uniqueness.
type Lesson struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null;index:idx_lesson_course_order,priority:1" json:"course_id"`
	Title     string    `gorm:"column:title;not null" json:"title" validate:"required,max=200"`
	VideoURL  string    `gorm:"column:video_url" json:"video_url,omitempty" validate:"omitempty,url"`
	Content   string    `gorm:"column:content;type:text" json:"content,omitempty"`
	Order     int       `gorm:"column:order_index;not null;default:0;index:idx_lesson_course_order,priority:2" json:"order" validate:"gte=0"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Lesson) TableName() string { return "lesson" }

func (l *Lesson) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
