package models

import "time"

type LoadPoint struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	EventID   *string   `gorm:"type:uuid" json:"event_id,omitempty"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
	LoadMW    float64   `gorm:"type:double precision;not null" json:"load_MW"`
	Freq      string    `gorm:"type:text;not null" json:"freq"`
	Market    string    `gorm:"type:text;not null" json:"market"`
	BaName    string    `gorm:"type:text;not null" json:"ba_name"`
}
