package models

import "time"

// Purchase gates access to priced prompt content: the existence of a row
// for (user, prompt) unlocks the content and explanation fields.
type Purchase struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_purchase_user_prompt"`
	PromptID  uint      `json:"prompt_id" gorm:"not null;uniqueIndex:idx_purchase_user_prompt"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

func (Purchase) TableName() string {
	return "prompt_purchases"
}
