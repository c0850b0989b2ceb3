package models

import "time"

// Rushmore is a user's ranked four-item submission for one day's question.
// The composite unique index enforces one submission per (user, question).
type Rushmore struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"index;not null;uniqueIndex:idx_rushmore_user_question" json:"user_id"`
	QuestionID uint      `gorm:"index;not null;uniqueIndex:idx_rushmore_user_question" json:"question_id"`
	Item1      string    `gorm:"size:255;not null" json:"item1"`
	Item2      string    `gorm:"size:255;not null" json:"item2"`
	Item3      string    `gorm:"size:255;not null" json:"item3"`
	Item4      string    `gorm:"size:255;not null" json:"item4"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	User     User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Votes    []Vote    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Comments []Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
