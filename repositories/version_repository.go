package repositories

import (
	"prompthub/models"

	"gorm.io/gorm"
)

type VersionRepository interface {
	Create(version *models.PromptVersion) error
	ListByPrompt(promptID uint) ([]models.PromptVersion, error)
}

type versionRepository struct {
	db *gorm.DB
}

func NewVersionRepository(db *gorm.DB) VersionRepository {
	return &versionRepository{db: db}
}

func (r *versionRepository) Create(version *models.PromptVersion) error {
	return r.db.Create(version).Error
}

// ListByPrompt returns snapshots most recent first.
func (r *versionRepository) ListByPrompt(promptID uint) ([]models.PromptVersion, error) {
	var versions []models.PromptVersion
	err := r.db.Where("prompt_id = ?", promptID).
		Order("created_at DESC, id DESC").
		Find(&versions).Error
	return versions, err
}
