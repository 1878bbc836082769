package notification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Kind string

const (
	KindQuizResult  Kind = "quiz_result"
	KindCertificate Kind = "certificate"
	KindEnrollment  Kind = "enrollment"
)

type Notification struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index:idx_notification_user_created,priority:1" json:"user_id"`
	Kind      Kind           `gorm:"column:notification_type;size:20;not null" json:"notification_type"`
	Title     string         `gorm:"column:title;size:200;not null" json:"title"`
	Message   string         `gorm:"column:message;type:text" json:"message"`
	Link      string         `gorm:"column:link;size:500" json:"link,omitempty"`
	Data      datatypes.JSON `gorm:"column:data" json:"data,omitempty"`
	IsRead    bool           `gorm:"column:is_read;not null;default:false" json:"is_read"`
	CreatedAt time.Time      `gorm:"not null;index:idx_notification_user_created,priority:2" json:"created_at"`
}

func (Notification) TableName() string { return "notification" }

func (n *Notification) BeforeCreate(*gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
