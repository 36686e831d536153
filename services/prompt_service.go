package services

import (
	"errors"
	"strings"
	"sync"

	"prompthub/models"
	"prompthub/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TrendingNotifier receives prompts whose stats blob changed. A nil
// notifier is allowed.
type TrendingNotifier interface {
	PromptChanged(prompt *models.Prompt)
}

type PromptService interface {
	List(params models.PromptListParams) ([]models.Prompt, int64, error)
	Create(req models.CreatePromptRequest, user *models.User) (*models.Prompt, error)
	Fork(sourceID uint, req models.CreatePromptRequest, user *models.User) (*models.Prompt, error)
	GetDetail(id uint, viewerID uint) (*models.PromptDetail, error)
	Copy(id uint, userID uint) error
	AddComment(promptID uint, req models.AddCommentRequest, user *models.User) (*models.Comment, error)
	Update(id uint, req models.CreatePromptRequest, callerID uint) (*models.Prompt, error)
	ListVersions(promptID uint, callerID uint) ([]models.PromptVersion, error)
	Purchase(promptID uint, userID uint) (*models.Purchase, error)
	ListTags() ([]models.TagCount, error)
}

type promptService struct {
	promptRepo   repositories.PromptRepository
	tagRepo      repositories.TagRepository
	commentRepo  repositories.CommentRepository
	versionRepo  repositories.VersionRepository
	purchaseRepo repositories.PurchaseRepository
	activityRepo repositories.ActivityRepository
	notifier     TrendingNotifier
	logger       *zap.Logger

	// Stats writes are read-modify-write over one jsonb blob. This
	// process is the only writer, so a per-prompt mutex is enough to
	// keep counters exact.
	statsMu    sync.Mutex
	statsLocks map[uint]*sync.Mutex
}

func NewPromptService(
	promptRepo repositories.PromptRepository,
	tagRepo repositories.TagRepository,
	commentRepo repositories.CommentRepository,
	versionRepo repositories.VersionRepository,
	purchaseRepo repositories.PurchaseRepository,
	activityRepo repositories.ActivityRepository,
	notifier TrendingNotifier,
	logger *zap.Logger,
) PromptService {
	return &promptService{
		promptRepo:   promptRepo,
		tagRepo:      tagRepo,
		commentRepo:  commentRepo,
		versionRepo:  versionRepo,
		purchaseRepo: purchaseRepo,
		activityRepo: activityRepo,
		notifier:     notifier,
		logger:       logger,
		statsLocks:   make(map[uint]*sync.Mutex),
	}
}

func (s *promptService) lockStats(id uint) func() {
	s.statsMu.Lock()
	mu, ok := s.statsLocks[id]
	if !ok {
		mu = &sync.Mutex{}
		s.statsLocks[id] = mu
	}
	s.statsMu.Unlock()
	mu.Lock()
	return mu.Unlock
}

// bumpStats applies mutate to a fresh read of the stats blob and writes
// it back, serialized per prompt.
func (s *promptService) bumpStats(id uint, mutate func(*models.PromptStats)) (*models.Prompt, error) {
	unlock := s.lockStats(id)
	defer unlock()

	prompt, err := s.promptRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	stats := prompt.Stats
	mutate(&stats)

	if err := s.promptRepo.UpdateStats(id, stats); err != nil {
		return nil, err
	}
	prompt.Stats = stats

	if s.notifier != nil {
		s.notifier.PromptChanged(prompt)
	}
	return prompt, nil
}

// getActive loads a prompt and hides soft-deleted rows behind NotFound.
func (s *promptService) getActive(id uint) (*models.Prompt, error) {
	prompt, err := s.promptRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	if prompt.IsDeleted {
		return nil, models.ErrNotFound
	}
	return prompt, nil
}

func (s *promptService) List(params models.PromptListParams) ([]models.Prompt, int64, error) {
	return s.promptRepo.GetList(params.Filters(), params.Pagination())
}

func validatePrompt(req models.CreatePromptRequest) *models.ValidationError {
	var messages []string

	if strings.TrimSpace(req.Title) == "" {
		messages = append(messages, "title is required")
	}
	if strings.TrimSpace(req.Content.En) == "" {
		messages = append(messages, "english content is required")
	}
	if req.AITool == "" {
		messages = append(messages, "an AI tool must be selected")
	}
	if req.Purpose == "" {
		messages = append(messages, "a purpose must be selected")
	}
	if len(req.Tags) == 0 {
		messages = append(messages, "at least one tag is required")
	}
	if req.Settings.Price < 0 {
		messages = append(messages, "price cannot be negative")
	}

	if len(messages) > 0 {
		return &models.ValidationError{Messages: messages}
	}
	return nil
}

func normalizeTags(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// insertTags attaches tags to a freshly written prompt. A tag failure
// after the prompt insert is logged, not surfaced: the prompt is kept.
func (s *promptService) insertTags(promptID uint, names []string) {
	names = normalizeTags(names)
	if len(names) == 0 {
		return
	}
	tags := make([]models.PromptTag, 0, len(names))
	for _, name := range names {
		tags = append(tags, models.PromptTag{PromptID: promptID, Tag: name})
	}
	if err := s.tagRepo.CreateMany(tags); err != nil {
		s.logger.Error("failed to insert prompt tags",
			zap.Uint("prompt_id", promptID), zap.Error(err))
	}
}

func (s *promptService) recordActivity(userID uint, activityType models.ActivityType, targetID uint, metadata models.JSONMap) {
	activity := &models.Activity{
		UserID:     userID,
		Type:       activityType,
		TargetID:   targetID,
		TargetType: "prompt",
		Metadata:   metadata,
	}
	if err := s.activityRepo.Create(activity); err != nil {
		s.logger.Error("failed to record activity",
			zap.String("type", string(activityType)), zap.Error(err))
	}
}

func (s *promptService) Create(req models.CreatePromptRequest, user *models.User) (*models.Prompt, error) {
	if user == nil {
		return nil, models.ErrNotAuthenticated
	}
	if err := validatePrompt(req); err != nil {
		return nil, err
	}

	prompt := &models.Prompt{
		Title:          req.Title,
		Description:    req.Description,
		Content:        req.Content,
		Explanation:    req.Explanation,
		AITool:         req.AITool,
		Purpose:        req.Purpose,
		AuthorID:       user.ID,
		AuthorUsername: user.Username,
		Settings:       req.Settings,
		Stats:          models.PromptStats{},
	}

	if err := s.promptRepo.Create(prompt); err != nil {
		return nil, err
	}

	s.insertTags(prompt.ID, req.Tags)
	s.recordActivity(user.ID, models.ActivityCreatePrompt, prompt.ID, models.JSONMap{
		"prompt_title": prompt.Title,
	})

	return s.promptRepo.GetByID(prompt.ID)
}

func (s *promptService) Fork(sourceID uint, req models.CreatePromptRequest, user *models.User) (*models.Prompt, error) {
	if user == nil {
		return nil, models.ErrNotAuthenticated
	}

	source, err := s.getActive(sourceID)
	if err != nil {
		return nil, err
	}
	if !source.Settings.AllowFork {
		return nil, models.ErrForkDisallowed
	}

	if err := validatePrompt(req); err != nil {
		return nil, err
	}

	prompt := &models.Prompt{
		Title:            req.Title,
		Description:      req.Description,
		Content:          req.Content,
		Explanation:      req.Explanation,
		AITool:           req.AITool,
		Purpose:          req.Purpose,
		AuthorID:         user.ID,
		AuthorUsername:   user.Username,
		OriginalPromptID: &source.ID,
		Settings:         req.Settings,
		Stats:            models.PromptStats{},
	}

	if err := s.promptRepo.Create(prompt); err != nil {
		return nil, err
	}

	s.insertTags(prompt.ID, req.Tags)

	if _, err := s.bumpStats(source.ID, func(st *models.PromptStats) {
		st.ForkCount++
	}); err != nil {
		s.logger.Warn("failed to bump fork count",
			zap.Uint("prompt_id", source.ID), zap.Error(err))
	}

	s.recordActivity(user.ID, models.ActivityForkPrompt, prompt.ID, models.JSONMap{
		"prompt_title":       prompt.Title,
		"original_prompt_id": source.ID,
	})

	return s.promptRepo.GetByID(prompt.ID)
}

func (s *promptService) GetDetail(id uint, viewerID uint) (*models.PromptDetail, error) {
	prompt, err := s.getActive(id)
	if err != nil {
		return nil, err
	}

	// Every successful fetch counts as a view.
	if viewed, err := s.bumpStats(id, func(st *models.PromptStats) {
		st.Views++
	}); err != nil {
		s.logger.Warn("failed to update view count", zap.Uint("prompt_id", id), zap.Error(err))
	} else {
		prompt = viewed
	}

	comments, err := s.commentRepo.ListByPrompt(id)
	if err != nil {
		return nil, err
	}

	related, err := s.promptRepo.GetRelated(prompt.AITool, id, 3)
	if err != nil {
		s.logger.Warn("failed to load related prompts", zap.Uint("prompt_id", id), zap.Error(err))
		related = nil
	}

	detail := &models.PromptDetail{
		Prompt:   *prompt,
		Comments: comments,
	}
	if prompt.Author != nil {
		detail.Author = prompt.Author.Summary()
	}
	for _, r := range related {
		detail.Related = append(detail.Related, models.RelatedPrompt{
			ID:     r.ID,
			Title:  r.Title,
			AITool: r.AITool,
			Tags:   r.TagNames(),
		})
	}

	if locked, err := s.contentLocked(prompt, viewerID); err != nil {
		return nil, err
	} else if locked {
		detail.Locked = true
		detail.Content = models.PromptContent{}
		detail.Explanation = ""
	}

	return detail, nil
}

// contentLocked reports whether the priced content must be withheld from
// the viewer. The owner always sees their own prompt.
func (s *promptService) contentLocked(prompt *models.Prompt, viewerID uint) (bool, error) {
	if prompt.Settings.Price <= 0 || (viewerID != 0 && viewerID == prompt.AuthorID) {
		return false, nil
	}
	if viewerID == 0 {
		return true, nil
	}
	purchased, err := s.purchaseRepo.Exists(viewerID, prompt.ID)
	if err != nil {
		return false, err
	}
	return !purchased, nil
}

// Copy records one use of the prompt. Anonymous callers still count.
func (s *promptService) Copy(id uint, userID uint) error {
	if _, err := s.getActive(id); err != nil {
		return err
	}

	if _, err := s.bumpStats(id, func(st *models.PromptStats) {
		st.Usage++
	}); err != nil {
		return err
	}

	if userID != 0 {
		s.recordActivity(userID, models.ActivityCopyPrompt, id, models.JSONMap{})
	}
	return nil
}

func (s *promptService) AddComment(promptID uint, req models.AddCommentRequest, user *models.User) (*models.Comment, error) {
	if user == nil {
		return nil, models.ErrNotAuthenticated
	}

	var messages []string
	if strings.TrimSpace(req.Content) == "" {
		messages = append(messages, "comment text is required")
	}
	if req.Rating < 1 || req.Rating > 5 {
		messages = append(messages, "rating must be between 1 and 5")
	}
	if len(messages) > 0 {
		return nil, &models.ValidationError{Messages: messages}
	}

	prompt, err := s.getActive(promptID)
	if err != nil {
		return nil, err
	}
	if !prompt.Settings.AllowComments {
		return nil, models.ErrCommentsDisallowed
	}

	comment := &models.Comment{
		PromptID:       promptID,
		AuthorID:       user.ID,
		AuthorUsername: user.Username,
		AuthorAvatar:   user.Avatar,
		Content:        req.Content,
		Rating:         req.Rating,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}

	// Running average: each rating contributes exactly once; comments
	// are append-only so the aggregate never needs recomputing.
	if _, err := s.bumpStats(promptID, func(st *models.PromptStats) {
		newCount := st.RatingsCount + 1
		st.AvgRating = (st.AvgRating*float64(st.RatingsCount) + float64(req.Rating)) / float64(newCount)
		st.RatingsCount = newCount
		st.Comments++
	}); err != nil {
		s.logger.Error("failed to update rating stats",
			zap.Uint("prompt_id", promptID), zap.Error(err))
	}

	return comment, nil
}

// Update overwrites the live row after archiving a snapshot of it.
func (s *promptService) Update(id uint, req models.CreatePromptRequest, callerID uint) (*models.Prompt, error) {
	prompt, err := s.getActive(id)
	if err != nil {
		return nil, err
	}
	if prompt.AuthorID != callerID {
		return nil, models.ErrForbidden
	}
	if err := validatePrompt(req); err != nil {
		return nil, err
	}

	snapshot := &models.PromptVersion{
		PromptID:    prompt.ID,
		Title:       prompt.Title,
		Content:     prompt.Content,
		Explanation: prompt.Explanation,
	}
	if err := s.versionRepo.Create(snapshot); err != nil {
		return nil, err
	}

	prompt.Title = req.Title
	prompt.Description = req.Description
	prompt.Content = req.Content
	prompt.Explanation = req.Explanation
	prompt.AITool = req.AITool
	prompt.Purpose = req.Purpose
	prompt.Settings = req.Settings
	prompt.Tags = nil

	if err := s.promptRepo.Update(prompt); err != nil {
		return nil, err
	}

	if err := s.tagRepo.DeleteByPrompt(prompt.ID); err != nil {
		s.logger.Error("failed to replace prompt tags",
			zap.Uint("prompt_id", prompt.ID), zap.Error(err))
	} else {
		s.insertTags(prompt.ID, req.Tags)
	}

	return s.promptRepo.GetByID(prompt.ID)
}

func (s *promptService) ListVersions(promptID uint, callerID uint) ([]models.PromptVersion, error) {
	prompt, err := s.getActive(promptID)
	if err != nil {
		return nil, err
	}
	if prompt.AuthorID != callerID {
		return nil, models.ErrForbidden
	}
	return s.versionRepo.ListByPrompt(promptID)
}

func (s *promptService) Purchase(promptID uint, userID uint) (*models.Purchase, error) {
	if userID == 0 {
		return nil, models.ErrNotAuthenticated
	}

	prompt, err := s.getActive(promptID)
	if err != nil {
		return nil, err
	}
	if prompt.Settings.Price <= 0 {
		return nil, models.NewValidationError("this prompt is free")
	}

	// Idempotent per (user, prompt).
	if exists, err := s.purchaseRepo.Exists(userID, promptID); err != nil {
		return nil, err
	} else if exists {
		return &models.Purchase{UserID: userID, PromptID: promptID, Amount: prompt.Settings.Price}, nil
	}

	purchase := &models.Purchase{
		UserID:   userID,
		PromptID: promptID,
		Amount:   prompt.Settings.Price,
	}
	if err := s.purchaseRepo.Create(purchase); err != nil {
		return nil, err
	}
	return purchase, nil
}

func (s *promptService) ListTags() ([]models.TagCount, error) {
	return s.tagRepo.ListDistinct()
}
