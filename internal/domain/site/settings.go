package site

import "time"

// SingletonID is the only primary key the settings table ever holds.
const SingletonID = 1

type Settings struct {
	ID        uint      `gorm:"primaryKey;autoIncrement:false" json:"-"`
	SiteName  string    `gorm:"column:site_name;size:100;not null" json:"site_name"`
	Tagline   string    `gorm:"column:tagline;size:200" json:"tagline"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Settings) TableName() string { return "site_settings" }

func Defaults() Settings {
	return Settings{
		ID:       SingletonID,
		SiteName: "Academy",
		Tagline:  "Educational Platform",
	}
}
