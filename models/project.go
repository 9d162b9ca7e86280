package models

// Project represents a portfolio project shown on the projects page
type Project struct {
	ID         uint   `json:"id" db:"id" gorm:"primaryKey;autoIncrement;not null"`
	Title      string `json:"title" db:"title" gorm:"type:text;not null"`
	Type       string `json:"type" db:"type" gorm:"type:text"`
	Category   string `json:"category" db:"category" gorm:"type:text"` // web2 or web3
	Summary    string `json:"summary" db:"summary" gorm:"type:text"`
	Tools      string `json:"tools" db:"tools" gorm:"type:text"`
	ImageURL   string `json:"image_url" db:"image_url" gorm:"column:image_url;type:text"`
	Link       string `json:"link" db:"link" gorm:"type:text"`
	GithubURL  string `json:"github_url" db:"github_url" gorm:"column:github_url;type:text"`
	IsFeatured bool   `json:"is_featured" db:"is_featured"`
	OrderIndex int    `json:"order_index" db:"order_index"`
}
