package site

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/academy-backend/internal/domain"
	domainsite "github.com/yungbote/academy-backend/internal/domain/site"
	"github.com/yungbote/academy-backend/internal/pkg/dbctx"
	"github.com/yungbote/academy-backend/internal/platform/logger"
)

type SettingsRepo interface {
	// Get returns the singleton row, creating it with defaults on first use.
	Get(dbc dbctx.Context) (*types.SiteSettings, error)
	Update(dbc dbctx.Context, siteName, tagline string) (*types.SiteSettings, error)
}

type settingsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSettingsRepo(db *gorm.DB, baseLog *logger.Logger) SettingsRepo {
	return &settingsRepo{db: db, log: baseLog.With("repo", "SettingsRepo")}
}

func (r *settingsRepo) Get(dbc dbctx.Context) (*types.SiteSettings, error) {
	var s types.SiteSettings
	err := dbc.Conn(r.db).Where("id = ?", domainsite.SingletonID).First(&s).Error
	if err == nil {
		return &s, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	def := domainsite.Defaults()
	if err := dbc.Conn(r.db).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&def).Error; err != nil {
		return nil, err
	}
	if err := dbc.Conn(r.db).Where("id = ?", domainsite.SingletonID).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *settingsRepo) Update(dbc dbctx.Context, siteName, tagline string) (*types.SiteSettings, error) {
	if _, err := r.Get(dbc); err != nil {
		return nil, err
	}
	if err := dbc.Conn(r.db).
		Model(&types.SiteSettings{}).
		Where("id = ?", domainsite.SingletonID).
		Updates(map[string]interface{}{"site_name": siteName, "tagline": tagline}).Error; err != nil {
		return nil, err
	}
	return r.Get(dbc)
}
