package services

import (
	"errors"

	"prompthub/models"
	"prompthub/repositories"

	"gorm.io/gorm"
)

type UserService interface {
	GetProfile(userID uint) (*models.Profile, error)
	UpdateProfile(userID uint, req models.UpdateProfileRequest) (*models.User, error)
	ListOwned(userID uint, sort string, page models.Pagination) ([]models.Prompt, int64, error)
	ListForked(userID uint, page models.Pagination) ([]models.Prompt, int64, error)
	DeletePrompt(promptID uint, callerID uint) error
}

type userService struct {
	userRepo   repositories.UserRepository
	promptRepo repositories.PromptRepository
}

func NewUserService(userRepo repositories.UserRepository, promptRepo repositories.PromptRepository) UserService {
	return &userService{userRepo: userRepo, promptRepo: promptRepo}
}

// GetProfile derives the aggregate stats from the user's non-deleted
// prompts on every load; nothing is stored.
func (s *userService) GetProfile(userID uint) (*models.Profile, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}

	prompts, err := s.promptRepo.ListAllByAuthor(userID)
	if err != nil {
		return nil, err
	}

	var stats models.ProfileStats
	var weightedSum float64
	stats.TotalPrompts = int64(len(prompts))
	for _, p := range prompts {
		stats.TotalUses += p.Stats.Usage
		stats.TotalRatings += p.Stats.RatingsCount
		weightedSum += p.Stats.AvgRating * float64(p.Stats.RatingsCount)
	}
	// Ratings-weighted mean across owned prompts, 0 when unrated.
	if stats.TotalRatings > 0 {
		stats.AvgRating = weightedSum / float64(stats.TotalRatings)
	}

	return &models.Profile{User: *user, Stats: stats}, nil
}

func (s *userService) UpdateProfile(userID uint, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}

	if req.Username != nil && *req.Username != user.Username {
		if *req.Username == "" {
			return nil, models.NewValidationError("username cannot be empty")
		}
		existing, err := s.userRepo.GetByUsername(*req.Username)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if err == nil && existing.ID != userID {
			return nil, models.ErrUsernameTaken
		}
		user.Username = *req.Username
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) ListOwned(userID uint, sort string, page models.Pagination) ([]models.Prompt, int64, error) {
	return s.promptRepo.ListByAuthor(userID, sort, page, false)
}

func (s *userService) ListForked(userID uint, page models.Pagination) ([]models.Prompt, int64, error) {
	return s.promptRepo.ListByAuthor(userID, models.SortNewest, page, true)
}

// DeletePrompt flips the soft-delete flag. Tags, comments and version
// snapshots are left in place.
func (s *userService) DeletePrompt(promptID uint, callerID uint) error {
	prompt, err := s.promptRepo.GetByID(promptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrNotFound
		}
		return err
	}
	if prompt.IsDeleted {
		return models.ErrNotFound
	}
	if prompt.AuthorID != callerID {
		return models.ErrForbidden
	}

	prompt.IsDeleted = true
	return s.promptRepo.Update(prompt)
}
