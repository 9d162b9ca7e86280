package database

import (
	"github.com/NizanHulq/portfolio-web/models"
	"gorm.io/gorm"
)

type Database struct {
	projectRepo     *ProjectRepo
	experienceRepo  *ExperienceRepo
	skillRepo       *SkillRepo
	settingRepo     *SettingRepo
	aiContextRepo   *AIContextRepo
	collectionStore *CollectionStore
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		projectRepo:     NewProjectRepo(db),
		experienceRepo:  NewExperienceRepo(db),
		skillRepo:       NewSkillRepo(db),
		settingRepo:     NewSettingRepo(db),
		aiContextRepo:   NewAIContextRepo(db),
		collectionStore: NewCollectionStore(db),
	}
}

// Accessor methods for each repository

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) ExperienceRepo() *ExperienceRepo {
	return d.experienceRepo
}

func (d Database) SkillRepo() *SkillRepo {
	return d.skillRepo
}

func (d Database) SettingRepo() *SettingRepo {
	return d.settingRepo
}

func (d Database) AIContextRepo() *AIContextRepo {
	return d.aiContextRepo
}

func (d Database) CollectionStore() *CollectionStore {
	return d.collectionStore
}

// Content-read methods. These make Database satisfy services.ContentSource
// so the prompt assembler can be fed straight from the repositories.

func (d Database) Experiences() ([]models.Experience, error) {
	return d.experienceRepo.FindAll()
}

func (d Database) Projects() ([]models.Project, error) {
	return d.projectRepo.FindAll("", false)
}

func (d Database) Skills() ([]models.Skill, error) {
	return d.skillRepo.FindAll()
}

func (d Database) ContextFragments() ([]models.AIContextFragment, error) {
	return d.aiContextRepo.FindAll()
}
