package repositories

import (
	"strings"

	"prompthub/models"

	"gorm.io/gorm"
)

type PromptRepository interface {
	Create(prompt *models.Prompt) error
	GetByID(id uint) (*models.Prompt, error)
	GetList(filters models.PromptFilters, page models.Pagination) ([]models.Prompt, int64, error)
	ListByAuthor(authorID uint, sort string, page models.Pagination, forkedOnly bool) ([]models.Prompt, int64, error)
	ListAllByAuthor(authorID uint) ([]models.Prompt, error)
	GetRelated(aiTool string, excludeID uint, limit int) ([]models.Prompt, error)
	TopByUsage(limit int) ([]models.Prompt, error)
	Update(prompt *models.Prompt) error
	UpdateStats(id uint, stats models.PromptStats) error
}

type promptRepository struct {
	db *gorm.DB
}

func NewPromptRepository(db *gorm.DB) PromptRepository {
	return &promptRepository{db: db}
}

func (r *promptRepository) Create(prompt *models.Prompt) error {
	return r.db.Create(prompt).Error
}

// GetByID returns the row regardless of the soft-delete flag; callers
// decide whether a deleted prompt is visible.
func (r *promptRepository) GetByID(id uint) (*models.Prompt, error) {
	var prompt models.Prompt
	err := r.db.Preload("Tags").
		Preload("Author").
		Preload("OriginalPrompt").
		Preload("OriginalPrompt.Author").
		First(&prompt, id).Error
	return &prompt, err
}

func applySort(query *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case models.SortPopular:
		return query.Order("(stats->>'usage')::bigint DESC")
	case models.SortRated:
		return query.Order("(stats->>'avg_rating')::numeric DESC")
	default:
		// Unknown sort keys fall back to newest.
		return query.Order("prompts.created_at DESC")
	}
}

func (r *promptRepository) GetList(filters models.PromptFilters, page models.Pagination) ([]models.Prompt, int64, error) {
	var prompts []models.Prompt
	var total int64

	query := r.db.Model(&models.Prompt{}).Where("prompts.is_deleted = ?", false)

	if filters.Search != "" {
		pattern := "%" + strings.ToLower(filters.Search) + "%"
		query = query.Where("LOWER(prompts.title) LIKE ? OR LOWER(prompts.description) LIKE ?", pattern, pattern)
	}

	if len(filters.Tools) > 0 {
		query = query.Where("prompts.ai_tool IN ?", filters.Tools)
	}

	if len(filters.Purposes) > 0 {
		query = query.Where("prompts.purpose IN ?", filters.Purposes)
	}

	// EXISTS rather than a join: a prompt with several matching tags
	// must appear once, and DISTINCT would clash with the jsonb sort
	// expressions (ORDER BY must be in the select list).
	if len(filters.Tags) > 0 {
		query = query.Where(
			"EXISTS (SELECT 1 FROM prompt_tags WHERE prompt_tags.prompt_id = prompts.id AND prompt_tags.tag IN ?)",
			filters.Tags)
	}

	if filters.Rating > 0 {
		query = query.Where("(stats->>'avg_rating')::numeric >= ?", filters.Rating)
	}

	// Total reflects the full filtered set, not the returned page.
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applySort(query, filters.Sort)

	offset := (page.Page - 1) * page.PerPage
	err := query.Preload("Tags").Preload("Author").
		Offset(offset).Limit(page.PerPage).
		Find(&prompts).Error

	return prompts, total, err
}

func (r *promptRepository) ListByAuthor(authorID uint, sort string, page models.Pagination, forkedOnly bool) ([]models.Prompt, int64, error) {
	var prompts []models.Prompt
	var total int64

	query := r.db.Model(&models.Prompt{}).
		Where("prompts.author_id = ? AND prompts.is_deleted = ?", authorID, false)

	if forkedOnly {
		query = query.Where("prompts.original_prompt_id IS NOT NULL")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applySort(query, sort)

	offset := (page.Page - 1) * page.PerPage
	err := query.Preload("Tags").Preload("OriginalPrompt").
		Offset(offset).Limit(page.PerPage).
		Find(&prompts).Error

	return prompts, total, err
}

func (r *promptRepository) ListAllByAuthor(authorID uint) ([]models.Prompt, error) {
	var prompts []models.Prompt
	err := r.db.Where("author_id = ? AND is_deleted = ?", authorID, false).
		Find(&prompts).Error
	return prompts, err
}

func (r *promptRepository) GetRelated(aiTool string, excludeID uint, limit int) ([]models.Prompt, error) {
	var prompts []models.Prompt
	err := r.db.Preload("Tags").
		Where("ai_tool = ? AND id <> ? AND is_deleted = ?", aiTool, excludeID, false).
		Limit(limit).
		Find(&prompts).Error
	return prompts, err
}

func (r *promptRepository) TopByUsage(limit int) ([]models.Prompt, error) {
	var prompts []models.Prompt
	err := r.db.Where("is_deleted = ?", false).
		Order("(stats->>'usage')::bigint DESC").
		Limit(limit).
		Find(&prompts).Error
	return prompts, err
}

func (r *promptRepository) Update(prompt *models.Prompt) error {
	return r.db.Save(prompt).Error
}

// UpdateStats writes the whole stats blob back. This is the write half of
// the read-modify-write cycle; there is no database-side increment.
func (r *promptRepository) UpdateStats(id uint, stats models.PromptStats) error {
	return r.db.Model(&models.Prompt{}).Where("id = ?", id).
		Update("stats", stats).Error
}
