package catalog

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/yungbote/academy-backend/internal/pkg/errors"
	"github.com/yungbote/academy-backend/internal/domain/validation"
)

type Course struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string          `gorm:"column:title;not null;index" json:"title" validate:"required,max=200"`
	Description string          `gorm:"column:description;type:text" json:"description"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(8,2);not null" json:"price"`
	Lessons     []Lesson        `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"lessons,omitempty" validate:"-"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`
}

func (Course) TableName() string { return "course" }

func (c *Course) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (c *Course) IsFree() bool { return c.Price.IsZero() }

func (c *Course) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}
	if c.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", apperrors.ErrInvalidArgument)
	}
	return nil
}
