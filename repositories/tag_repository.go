package repositories

import (
	"prompthub/models"

	"gorm.io/gorm"
)

type TagRepository interface {
	CreateMany(tags []models.PromptTag) error
	ListByPrompt(promptID uint) ([]models.PromptTag, error)
	DeleteByPrompt(promptID uint) error
	ListDistinct() ([]models.TagCount, error)
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) CreateMany(tags []models.PromptTag) error {
	if len(tags) == 0 {
		return nil
	}
	return r.db.Create(&tags).Error
}

func (r *tagRepository) ListByPrompt(promptID uint) ([]models.PromptTag, error) {
	var tags []models.PromptTag
	err := r.db.Where("prompt_id = ?", promptID).Find(&tags).Error
	return tags, err
}

func (r *tagRepository) DeleteByPrompt(promptID uint) error {
	return r.db.Where("prompt_id = ?", promptID).Delete(&models.PromptTag{}).Error
}

func (r *tagRepository) ListDistinct() ([]models.TagCount, error) {
	var counts []models.TagCount
	err := r.db.Model(&models.PromptTag{}).
		Select("tag, COUNT(DISTINCT prompt_id) as count").
		Group("tag").
		Order("count DESC").
		Scan(&counts).Error
	return counts, err
}
