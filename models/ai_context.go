package models

// AI context fragment categories. The assembler groups fragments by these
// when building the chat system prompt.
const (
	ContextCategoryAbout        = "about"
	ContextCategoryPersonality  = "personality"
	ContextCategoryBehavior     = "behavior"
	ContextCategoryInstructions = "instructions"
)

// AIContextFragment is one key/value piece of the assistant's system prompt.
// Keys are unique within a category.
type AIContextFragment struct {
	Category string `json:"category" db:"category" gorm:"primaryKey;type:text;not null"`
	Key      string `json:"key" db:"key" gorm:"primaryKey;type:text;not null"`
	Value    string `json:"value" db:"value" gorm:"type:text"`
}

// TableName keeps the table name the admin panel and dispatcher use.
func (AIContextFragment) TableName() string {
	return "ai_context"
}
