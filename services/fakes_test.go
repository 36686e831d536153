package services

import (
	"context"
	"sort"
	"time"

	"prompthub/models"

	"gorm.io/gorm"
)

// In-memory repositories for the service tests. They mimic the storage
// contracts the services rely on: copies out, ErrRecordNotFound for
// missing rows, soft-deleted prompts still readable.

type fakeUserRepo struct {
	nextID uint
	users  map[uint]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*models.User)}
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.nextID++
	user.ID = r.nextID
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(id uint) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByUsername(username string) (*models.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(user *models.User) error {
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

type fakePromptRepo struct {
	nextID  uint
	prompts map[uint]*models.Prompt
}

func newFakePromptRepo() *fakePromptRepo {
	return &fakePromptRepo{prompts: make(map[uint]*models.Prompt)}
}

func (r *fakePromptRepo) Create(prompt *models.Prompt) error {
	r.nextID++
	prompt.ID = r.nextID
	prompt.CreatedAt = time.Now()
	clone := *prompt
	r.prompts[prompt.ID] = &clone
	return nil
}

func (r *fakePromptRepo) GetByID(id uint) (*models.Prompt, error) {
	prompt, ok := r.prompts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *prompt
	return &clone, nil
}

func (r *fakePromptRepo) all() []models.Prompt {
	out := make([]models.Prompt, 0, len(r.prompts))
	for _, p := range r.prompts {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakePromptRepo) GetList(filters models.PromptFilters, page models.Pagination) ([]models.Prompt, int64, error) {
	var out []models.Prompt
	for _, p := range r.all() {
		if p.IsDeleted {
			continue
		}
		if len(filters.Tools) > 0 && !contains(filters.Tools, p.AITool) {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (r *fakePromptRepo) ListByAuthor(authorID uint, sort string, page models.Pagination, forkedOnly bool) ([]models.Prompt, int64, error) {
	var out []models.Prompt
	for _, p := range r.all() {
		if p.AuthorID != authorID || p.IsDeleted {
			continue
		}
		if forkedOnly && p.OriginalPromptID == nil {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *fakePromptRepo) ListAllByAuthor(authorID uint) ([]models.Prompt, error) {
	var out []models.Prompt
	for _, p := range r.all() {
		if p.AuthorID == authorID && !p.IsDeleted {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePromptRepo) GetRelated(aiTool string, excludeID uint, limit int) ([]models.Prompt, error) {
	var out []models.Prompt
	for _, p := range r.all() {
		if p.ID == excludeID || p.IsDeleted || p.AITool != aiTool {
			continue
		}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakePromptRepo) TopByUsage(limit int) ([]models.Prompt, error) {
	out := make([]models.Prompt, 0, len(r.prompts))
	for _, p := range r.all() {
		if !p.IsDeleted {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Stats.Usage > out[j].Stats.Usage
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakePromptRepo) Update(prompt *models.Prompt) error {
	if _, ok := r.prompts[prompt.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	clone := *prompt
	r.prompts[prompt.ID] = &clone
	return nil
}

func (r *fakePromptRepo) UpdateStats(id uint, stats models.PromptStats) error {
	prompt, ok := r.prompts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	prompt.Stats = stats
	return nil
}

type fakeTagRepo struct {
	tags []models.PromptTag
}

func (r *fakeTagRepo) CreateMany(tags []models.PromptTag) error {
	r.tags = append(r.tags, tags...)
	return nil
}

func (r *fakeTagRepo) ListByPrompt(promptID uint) ([]models.PromptTag, error) {
	var out []models.PromptTag
	for _, t := range r.tags {
		if t.PromptID == promptID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTagRepo) DeleteByPrompt(promptID uint) error {
	kept := r.tags[:0]
	for _, t := range r.tags {
		if t.PromptID != promptID {
			kept = append(kept, t)
		}
	}
	r.tags = kept
	return nil
}

func (r *fakeTagRepo) ListDistinct() ([]models.TagCount, error) {
	counts := make(map[string]map[uint]struct{})
	for _, t := range r.tags {
		if counts[t.Tag] == nil {
			counts[t.Tag] = make(map[uint]struct{})
		}
		counts[t.Tag][t.PromptID] = struct{}{}
	}
	out := make([]models.TagCount, 0, len(counts))
	for tag, prompts := range counts {
		out = append(out, models.TagCount{Tag: tag, Count: int64(len(prompts))})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out, nil
}

type fakeCommentRepo struct {
	nextID   uint
	comments []models.Comment
}

func (r *fakeCommentRepo) Create(comment *models.Comment) error {
	r.nextID++
	comment.ID = r.nextID
	comment.CreatedAt = time.Now()
	r.comments = append(r.comments, *comment)
	return nil
}

// ListByPrompt returns newest first, matching the storage ordering.
func (r *fakeCommentRepo) ListByPrompt(promptID uint) ([]models.Comment, error) {
	var out []models.Comment
	for i := len(r.comments) - 1; i >= 0; i-- {
		if r.comments[i].PromptID == promptID {
			out = append(out, r.comments[i])
		}
	}
	return out, nil
}

type fakeVersionRepo struct {
	nextID   uint
	versions []models.PromptVersion
}

func (r *fakeVersionRepo) Create(version *models.PromptVersion) error {
	r.nextID++
	version.ID = r.nextID
	version.CreatedAt = time.Now()
	r.versions = append(r.versions, *version)
	return nil
}

func (r *fakeVersionRepo) ListByPrompt(promptID uint) ([]models.PromptVersion, error) {
	var out []models.PromptVersion
	for i := len(r.versions) - 1; i >= 0; i-- {
		if r.versions[i].PromptID == promptID {
			out = append(out, r.versions[i])
		}
	}
	return out, nil
}

type fakePurchaseRepo struct {
	purchases []models.Purchase
}

func (r *fakePurchaseRepo) Create(purchase *models.Purchase) error {
	r.purchases = append(r.purchases, *purchase)
	return nil
}

func (r *fakePurchaseRepo) Exists(userID, promptID uint) (bool, error) {
	for _, p := range r.purchases {
		if p.UserID == userID && p.PromptID == promptID {
			return true, nil
		}
	}
	return false, nil
}

type fakeActivityRepo struct {
	activities []models.Activity
}

func (r *fakeActivityRepo) Create(activity *models.Activity) error {
	r.activities = append(r.activities, *activity)
	return nil
}

type fakeDraftRepo struct {
	drafts   map[string][]byte
	previews map[string][]byte
}

func newFakeDraftRepo() *fakeDraftRepo {
	return &fakeDraftRepo{
		drafts:   make(map[string][]byte),
		previews: make(map[string][]byte),
	}
}

func (r *fakeDraftRepo) Save(_ context.Context, deviceID string, payload []byte) error {
	r.drafts[deviceID] = payload
	return nil
}

func (r *fakeDraftRepo) Get(_ context.Context, deviceID string) ([]byte, error) {
	return r.drafts[deviceID], nil
}

func (r *fakeDraftRepo) Clear(_ context.Context, deviceID string) error {
	delete(r.drafts, deviceID)
	return nil
}

func (r *fakeDraftRepo) SavePreview(_ context.Context, token string, payload []byte, _ time.Duration) error {
	r.previews[token] = payload
	return nil
}

func (r *fakeDraftRepo) TakePreview(_ context.Context, token string) ([]byte, error) {
	payload := r.previews[token]
	delete(r.previews, token)
	return payload, nil
}

// captureBroadcaster records everything published to it.
type captureBroadcaster struct {
	frames [][]byte
}

func (b *captureBroadcaster) Broadcast(payload []byte) {
	b.frames = append(b.frames, payload)
}
