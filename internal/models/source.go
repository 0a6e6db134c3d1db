package models

type Source struct {
	ID      string  `gorm:"type:uuid;primaryKey" json:"id"`
	Name    string  `gorm:"type:text;not null;uniqueIndex" json:"name"`
	URL     string  `gorm:"type:text;not null" json:"url"`
	Comment *string `gorm:"type:text" json:"comment,omitempty"`
}
