package models

import "time"

type ActivityType string

const (
	ActivityCreatePrompt ActivityType = "create_prompt"
	ActivityForkPrompt   ActivityType = "fork_prompt"
	ActivityCopyPrompt   ActivityType = "copy_prompt"
)

type Activity struct {
	ID         uint         `json:"id" gorm:"primarykey"`
	UserID     uint         `json:"user_id" gorm:"not null;index"`
	Type       ActivityType `json:"type" gorm:"size:32;not null"`
	TargetID   uint         `json:"target_id"`
	TargetType string       `json:"target_type" gorm:"size:32"`
	Metadata   JSONMap      `json:"metadata" gorm:"type:jsonb"`
	CreatedAt  time.Time    `json:"created_at"`
}
