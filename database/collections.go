package database

import (
	"github.com/NizanHulq/portfolio-web/models"
	"gorm.io/gorm"
)

// Collection describes one admin-managed table: its identity column and the
// typed record constructors the generic CRUD dispatcher works through.
// Settings and ai_context are identified by their key string; everything
// else by the generated integer id.
type Collection struct {
	Name           string
	IdentityColumn string
	NewRecord      func() any
	NewSlice       func() any
}

var collections = map[string]Collection{
	"projects": {
		Name:           "projects",
		IdentityColumn: "id",
		NewRecord:      func() any { return &models.Project{} },
		NewSlice:       func() any { return &[]models.Project{} },
	},
	"experiences": {
		Name:           "experiences",
		IdentityColumn: "id",
		NewRecord:      func() any { return &models.Experience{} },
		NewSlice:       func() any { return &[]models.Experience{} },
	},
	"skills": {
		Name:           "skills",
		IdentityColumn: "id",
		NewRecord:      func() any { return &models.Skill{} },
		NewSlice:       func() any { return &[]models.Skill{} },
	},
	"settings": {
		Name:           "settings",
		IdentityColumn: "key",
		NewRecord:      func() any { return &models.Setting{} },
		NewSlice:       func() any { return &[]models.Setting{} },
	},
	"ai_context": {
		Name:           "ai_context",
		IdentityColumn: "key",
		NewRecord:      func() any { return &models.AIContextFragment{} },
		NewSlice:       func() any { return &[]models.AIContextFragment{} },
	},
}

// LookupCollection resolves a table name against the whitelist
func LookupCollection(name string) (Collection, bool) {
	c, ok := collections[name]
	return c, ok
}

// CollectionStore runs the four admin CRUD operations against whitelisted
// collections. All operations are single-table; there is no cascading.
type CollectionStore struct {
	db *gorm.DB
}

func NewCollectionStore(db *gorm.DB) *CollectionStore {
	return &CollectionStore{db}
}

// FindAll returns every row of the collection ordered by its identity column
func (s *CollectionStore) FindAll(c Collection) (any, error) {
	rows := c.NewSlice()
	err := s.db.Order(c.IdentityColumn + " asc").Find(rows).Error
	return rows, err
}

// Insert stores record (a pointer produced by c.NewRecord and filled from
// the request body) and returns it with generated fields populated.
func (s *CollectionStore) Insert(c Collection, record any) error {
	return s.db.Create(record).Error
}

// Update applies patch to the rows whose identity column equals identity,
// then returns the updated rows. The patch must not contain the identity
// field; the dispatcher strips it before calling.
func (s *CollectionStore) Update(c Collection, identity any, patch map[string]any) (any, error) {
	result := s.db.Model(c.NewRecord()).Where(c.IdentityColumn+" = ?", identity).Updates(patch)
	if result.Error != nil {
		return nil, result.Error
	}

	rows := c.NewSlice()
	err := s.db.Where(c.IdentityColumn+" = ?", identity).Find(rows).Error
	return rows, err
}

// Delete removes the rows whose identity column equals identity
func (s *CollectionStore) Delete(c Collection, identity any) error {
	return s.db.Where(c.IdentityColumn+" = ?", identity).Delete(c.NewRecord()).Error
}
