package models

// Setting is a single site-wide key/value setting (cv_link, whatsapp_number, ...)
type Setting struct {
	Key   string `json:"key" db:"key" gorm:"primaryKey;type:text;not null"`
	Value string `json:"value" db:"value" gorm:"type:text"`
}
