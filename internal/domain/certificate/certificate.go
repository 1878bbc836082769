package certificate

import (
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yungbote/academy-backend/internal/domain/catalog"
	"github.com/yungbote/academy-backend/internal/domain/user"
)

// IDPattern is the public format of Certificate.CertificateID.
var IDPattern = regexp.MustCompile(`^CERT-[A-Z0-9]{12}$`)

// Certificate is unique per (user_id, course_id). CertificateID is assigned once and never changes.
type Certificate struct {
	ID             uuid.UUID        `gorm:"type:uuid;primaryKey" json:"-"`
	UserID         uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_certificate_user_course,priority:1" json:"user_id"`
	User           *user.User       `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	CourseID       uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_certificate_user_course,priority:2;index" json:"course_id"`
	Course         *catalog.Course  `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	CertificateID  string           `gorm:"column:certificate_id;size:50;not null;uniqueIndex:idx_certificate_public_id" json:"certificate_id"`
	IssueDate      time.Time        `gorm:"column:issue_date;not null;index" json:"issue_date"`
	CompletionDate time.Time        `gorm:"column:completion_date;not null" json:"completion_date"`
	Grade          *decimal.Decimal `gorm:"column:grade;type:numeric(5,2)" json:"grade,omitempty"`
}

func (Certificate) TableName() string { return "certificate" }

func (c *Certificate) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// BeforeUpdate keeps the public id immutable once written.
func (c *Certificate) BeforeUpdate(tx *gorm.DB) error {
	if tx.Statement.Changed("CertificateID") {
		return gorm.ErrInvalidData
	}
	return nil
}
