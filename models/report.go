package models

import "time"

// Report is a user-filed moderation report against a submission. Reports
// are cascaded away with their submission on daily reset.
type Report struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	RushmoreID uint      `gorm:"index;not null" json:"rushmore_id"`
	Reason     string    `gorm:"size:512" json:"reason"`
	CreatedAt  time.Time `json:"created_at"`
}
