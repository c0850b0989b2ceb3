package models

import "time"

// Vote is a single +1/-1 on a submission. A repeat vote by the same user
// on the same submission updates Value in place rather than inserting.
type Vote struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"index;not null;uniqueIndex:idx_vote_user_rushmore" json:"user_id"`
	RushmoreID uint      `gorm:"index;not null;uniqueIndex:idx_vote_user_rushmore" json:"rushmore_id"`
	Value      int       `gorm:"not null" json:"value"` // +1 or -1
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
