package models

import "time"

type GenerationPoint struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	EventID   *string   `gorm:"type:uuid" json:"event_id,omitempty"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
	FuelName  string    `gorm:"type:text;not null" json:"fuel_name"`
	GenMW     float64   `gorm:"type:double precision;not null" json:"gen_MW"`
	Freq      string    `gorm:"type:text;not null" json:"freq"`
	Market    string    `gorm:"type:text;not null" json:"market"`
	BaName    string    `gorm:"type:text;not null" json:"ba_name"`
}
