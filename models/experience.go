package models

// Experience represents a single entry on the experience timeline
type Experience struct {
	ID          uint   `json:"id" db:"id" gorm:"primaryKey;autoIncrement;not null"`
	Position    string `json:"position" db:"position" gorm:"type:text;not null"`
	Company     string `json:"company" db:"company" gorm:"type:text;not null"`
	CompanyLink string `json:"company_link" db:"company_link" gorm:"column:company_link;type:text"`
	TimePeriod  string `json:"time_period" db:"time_period" gorm:"column:time_period;type:text"`
	Address     string `json:"address" db:"address" gorm:"type:text"`
	Description string `json:"description" db:"description" gorm:"type:text"`
	OrderIndex  int    `json:"order_index" db:"order_index"`
}
