package database

import (
	"github.com/NizanHulq/portfolio-web/models"
	"gorm.io/gorm"
)

type AIContextRepo struct {
	db *gorm.DB
}

func NewAIContextRepo(db *gorm.DB) *AIContextRepo {
	return &AIContextRepo{db}
}

// FindAll returns every context fragment ordered by key so that prompt
// sections built from them come out in a stable order.
func (r *AIContextRepo) FindAll() ([]models.AIContextFragment, error) {
	var fragments []models.AIContextFragment
	err := r.db.Order("key asc").Find(&fragments).Error
	return fragments, err
}

// FindByCategory returns the fragments of a single category ordered by key
func (r *AIContextRepo) FindByCategory(category string) ([]models.AIContextFragment, error) {
	var fragments []models.AIContextFragment
	err := r.db.Where("category = ?", category).Order("key asc").Find(&fragments).Error
	return fragments, err
}
