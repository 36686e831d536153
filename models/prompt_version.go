package models

import "time"

// PromptVersion is a snapshot of the live row taken before an edit is
// applied. Snapshots are never pruned.
type PromptVersion struct {
	ID          uint          `json:"id" gorm:"primarykey"`
	PromptID    uint          `json:"prompt_id" gorm:"not null;index"`
	Title       string        `json:"title"`
	Content     PromptContent `json:"content" gorm:"type:jsonb"`
	Explanation string        `json:"explanation" gorm:"type:text"`
	CreatedAt   time.Time     `json:"created_at"`
}
