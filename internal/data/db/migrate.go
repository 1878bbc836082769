package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/academy-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(domain.Models()...)
}

// EnsureIndexes adds the indexes that struct tags cannot express.
func EnsureIndexes(db *gorm.DB) error {
	// Best-attempt lookups for quiz listings.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_quiz_attempt_user_quiz_completed
		ON quiz_attempt (user_id, quiz_id, is_completed);
	`).Error; err != nil {
		return fmt.Errorf("create idx_quiz_attempt_user_quiz_completed: %w", err)
	}

	// Unread badge counts.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_notification_user_unread
		ON notification (user_id, is_read);
	`).Error; err != nil {
		return fmt.Errorf("create idx_notification_user_unread: %w", err)
	}

	return nil
}

func (s *Service) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureIndexes(s.db); err != nil {
		s.log.Error("Index migration failed", "error", err)
		return err
	}
	return nil
}
