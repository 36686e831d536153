package models

import (
	"strings"
	"time"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// CreatePromptRequest is shared by create, fork and edit flows.
type CreatePromptRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Content     PromptContent  `json:"content"`
	Explanation string         `json:"explanation"`
	AITool      string         `json:"ai_tool"`
	Purpose     string         `json:"purpose"`
	Tags        []string       `json:"tags"`
	Settings    PromptSettings `json:"settings"`
}

type AddCommentRequest struct {
	Content string `json:"content"`
	Rating  int    `json:"rating"`
}

type UpdateProfileRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=50"`
	Bio      *string `json:"bio" validate:"omitempty,max=500"`
	Avatar   *string `json:"avatar" validate:"omitempty,max=255"`
}

const (
	SortNewest  = "newest"
	SortPopular = "popular"
	SortRated   = "rated"
)

// PromptListParams is the /prompts query surface. List-valued filters
// arrive comma-joined (tools=chatgpt,claude).
type PromptListParams struct {
	Search   string `form:"q"`
	Sort     string `form:"sort"`
	Tools    string `form:"tools"`
	Purposes string `form:"purposes"`
	Tags     string `form:"tags"`
	Rating   int    `form:"rating"`
	Page     int    `form:"page,default=1"`
	PerPage  int    `form:"per_page,default=12"`
}

// PromptFilters is the parsed filter set handed to the repository.
type PromptFilters struct {
	Search   string
	Tools    []string
	Purposes []string
	Tags     []string
	Rating   int
	Sort     string
}

type Pagination struct {
	Page    int
	PerPage int
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (p PromptListParams) Filters() PromptFilters {
	return PromptFilters{
		Search:   strings.TrimSpace(p.Search),
		Tools:    splitList(p.Tools),
		Purposes: splitList(p.Purposes),
		Tags:     splitList(p.Tags),
		Rating:   p.Rating,
		Sort:     p.Sort,
	}
}

func (p PromptListParams) Pagination() Pagination {
	page := p.Page
	if page < 1 {
		page = 1
	}
	perPage := p.PerPage
	if perPage < 1 {
		perPage = 12
	}
	return Pagination{Page: page, PerPage: perPage}
}

// RelatedPrompt is the short card shown under a prompt detail.
type RelatedPrompt struct {
	ID     uint     `json:"id"`
	Title  string   `json:"title"`
	AITool string   `json:"ai_tool"`
	Tags   []string `json:"tags"`
}

// PromptDetail is the aggregated detail response. When the prompt is
// priced and the viewer holds no purchase, Locked is true and the
// content/explanation fields are blanked.
type PromptDetail struct {
	Prompt
	Author   UserSummary     `json:"author"`
	Comments []Comment       `json:"comments"`
	Related  []RelatedPrompt `json:"related_prompts"`
	Locked   bool            `json:"locked"`
}

type ProfileStats struct {
	TotalPrompts int64   `json:"total_prompts"`
	TotalUses    int64   `json:"total_uses"`
	TotalRatings int64   `json:"total_ratings"`
	AvgRating    float64 `json:"avg_rating"`
}

type Profile struct {
	User  User         `json:"user"`
	Stats ProfileStats `json:"stats"`
}

// Draft is the single-slot, device-local creation form. Last write wins;
// LastSaved is advisory only.
type Draft struct {
	Form      JSONMap   `json:"form"`
	LastSaved time.Time `json:"last_saved"`
}
