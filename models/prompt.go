package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// PromptContent holds the bilingual prompt text. English is required,
// Vietnamese is optional.
type PromptContent struct {
	En string `json:"en"`
	Vi string `json:"vi"`
}

// PromptSettings is the per-prompt configuration blob.
type PromptSettings struct {
	AllowFork     bool  `json:"allow_fork"`
	IsPublic      bool  `json:"is_public"`
	AllowComments bool  `json:"allow_comments"`
	Price         int64 `json:"price"`
}

// PromptStats is the aggregate counter blob. It is updated with
// read-modify-write; the service layer serializes writers per prompt.
type PromptStats struct {
	Views        int64   `json:"views"`
	Usage        int64   `json:"usage"`
	Likes        int64   `json:"likes"`
	Comments     int64   `json:"comments"`
	AvgRating    float64 `json:"avg_rating"`
	RatingsCount int64   `json:"ratings_count"`
	ForkCount    int64   `json:"fork_count"`
}

func scanJSON(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return errors.New("unsupported type for jsonb column")
		}
		b = []byte(s)
	}
	return json.Unmarshal(b, dest)
}

func (c PromptContent) Value() (driver.Value, error)  { return json.Marshal(c) }
func (c *PromptContent) Scan(value interface{}) error { return scanJSON(value, c) }

func (s PromptSettings) Value() (driver.Value, error)  { return json.Marshal(s) }
func (s *PromptSettings) Scan(value interface{}) error { return scanJSON(value, s) }

func (s PromptStats) Value() (driver.Value, error)  { return json.Marshal(s) }
func (s *PromptStats) Scan(value interface{}) error { return scanJSON(value, s) }

// Prompt soft-deletes via an explicit flag rather than gorm.DeletedAt:
// "deleted" rows stay readable for version history and audit.
type Prompt struct {
	ID             uint           `json:"id" gorm:"primarykey"`
	Title          string         `json:"title" gorm:"not null"`
	Description    string         `json:"description" gorm:"type:text"`
	Content        PromptContent  `json:"content" gorm:"type:jsonb"`
	Explanation    string         `json:"explanation" gorm:"type:text"`
	AITool         string         `json:"ai_tool" gorm:"column:ai_tool;size:64;index"`
	Purpose        string         `json:"purpose" gorm:"size:64;index"`
	AuthorID       uint           `json:"author_id" gorm:"not null;index"`
	AuthorUsername string         `json:"author_username" gorm:"size:50"`
	Author         *User          `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	// One level of fork lineage only; ancestry is never walked.
	OriginalPromptID *uint          `json:"original_prompt_id" gorm:"index"`
	OriginalPrompt   *Prompt        `json:"original_prompt,omitempty" gorm:"foreignKey:OriginalPromptID"`
	Settings         PromptSettings `json:"settings" gorm:"type:jsonb"`
	Stats            PromptStats    `json:"stats" gorm:"type:jsonb"`
	Tags             []PromptTag    `json:"tags,omitempty" gorm:"foreignKey:PromptID"`
	IsDeleted        bool           `json:"is_deleted" gorm:"default:false;index"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

func (p *Prompt) TagNames() []string {
	names := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		names = append(names, t.Tag)
	}
	return names
}

type PromptTag struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	PromptID  uint      `json:"prompt_id" gorm:"not null;index"`
	Tag       string    `json:"tag" gorm:"size:100;not null;index"`
	CreatedAt time.Time `json:"created_at"`
}

// TagCount is a tag with its distinct prompt count, for the tag listing.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}
