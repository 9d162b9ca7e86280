package database

import (
	"github.com/NizanHulq/portfolio-web/models"
	"gorm.io/gorm"
)

type ExperienceRepo struct {
	db *gorm.DB
}

func NewExperienceRepo(db *gorm.DB) *ExperienceRepo {
	return &ExperienceRepo{db}
}

// FindAll returns all experiences ordered by order_index
func (r *ExperienceRepo) FindAll() ([]models.Experience, error) {
	var experiences []models.Experience
	err := r.db.Order("order_index asc").Find(&experiences).Error
	return experiences, err
}
