package database

import (
	"github.com/NizanHulq/portfolio-web/models"
	"gorm.io/gorm"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// FindAll returns all projects ordered by order_index. Category filters to
// web2/web3 when non-empty; featuredOnly keeps only featured projects.
func (r *ProjectRepo) FindAll(category string, featuredOnly bool) ([]models.Project, error) {
	query := r.db.Order("order_index asc")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if featuredOnly {
		query = query.Where("is_featured = ?", true)
	}

	var projects []models.Project
	err := query.Find(&projects).Error
	return projects, err
}
