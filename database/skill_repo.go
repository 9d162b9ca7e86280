package database

import (
	"github.com/NizanHulq/portfolio-web/models"
	"gorm.io/gorm"
)

type SkillRepo struct {
	db *gorm.DB
}

func NewSkillRepo(db *gorm.DB) *SkillRepo {
	return &SkillRepo{db}
}

// FindAll returns all skills ordered by order_index
func (r *SkillRepo) FindAll() ([]models.Skill, error) {
	var skills []models.Skill
	err := r.db.Order("order_index asc").Find(&skills).Error
	return skills, err
}
