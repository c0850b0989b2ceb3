package models

import "time"

// Question is the daily prompt. At most one row exists per calendar day;
// Date is always normalized to midnight before it is written or compared.
type Question struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Prompt    string    `gorm:"size:255;not null" json:"prompt"`
	Date      time.Time `gorm:"uniqueIndex;not null" json:"date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Rushmores []Rushmore `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
