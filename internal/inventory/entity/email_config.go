package entity

import "time"

// EmailConfig is a notification recipient managed by administrators.
type EmailConfig struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Email     string    `json:"email" gorm:"size:128;not null"`
	IsActive  bool      `json:"is_active" gorm:"not null;default:true"`
	AddedBy   string    `json:"added_by" gorm:"size:32;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (EmailConfig) TableName() string {
	return "email_configs"
}
