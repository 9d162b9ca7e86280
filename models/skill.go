package models

// Skill represents one entry in the skills cloud. XPosition and YPosition
// place the badge on the rendered canvas; Proficiency runs from 1 to 5.
type Skill struct {
	ID          uint    `json:"id" db:"id" gorm:"primaryKey;autoIncrement;not null"`
	Name        string  `json:"name" db:"name" gorm:"type:text;not null"`
	Category    string  `json:"category" db:"category" gorm:"type:text"`
	XPosition   float64 `json:"x_position" db:"x_position" gorm:"column:x_position"`
	YPosition   float64 `json:"y_position" db:"y_position" gorm:"column:y_position"`
	Proficiency int     `json:"proficiency" db:"proficiency"`
	OrderIndex  int     `json:"order_index" db:"order_index"`
}
