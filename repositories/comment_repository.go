package repositories

import (
	"prompthub/models"

	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(comment *models.Comment) error
	ListByPrompt(promptID uint) ([]models.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

func (r *commentRepository) ListByPrompt(promptID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Where("prompt_id = ?", promptID).
		Order("created_at DESC").
		Find(&comments).Error
	return comments, err
}
