package models

import "time"

// Comment carries both free text and a 1-5 rating. Comments are
// append-only: there is no update or delete path, so each rating
// contributes to the prompt aggregate exactly once.
type Comment struct {
	ID             uint      `json:"id" gorm:"primarykey"`
	PromptID       uint      `json:"prompt_id" gorm:"not null;index"`
	AuthorID       uint      `json:"author_id" gorm:"not null"`
	AuthorUsername string    `json:"author_username" gorm:"size:50"`
	AuthorAvatar   string    `json:"author_avatar,omitempty"`
	Content        string    `json:"content" gorm:"type:text;not null"`
	Rating         int       `json:"rating" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at"`
}
