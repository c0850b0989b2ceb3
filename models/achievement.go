package models

import (
	"time"

	"gorm.io/gorm"
)

// Achievement is static catalog data seeded at boot and read-only afterwards.
type Achievement struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:64;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"size:255" json:"description"`
	Icon        string    `gorm:"size:16" json:"icon"`
	Category    string    `gorm:"size:32;index" json:"category"`
	Requirement int       `gorm:"not null" json:"requirement"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserAchievement records a single unlock. The composite unique index makes
// re-awarding impossible at the storage level.
type UserAchievement struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"index;not null;uniqueIndex:idx_user_achievement" json:"user_id"`
	AchievementID uint      `gorm:"not null;uniqueIndex:idx_user_achievement" json:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at"`
	Progress      int       `json:"progress"`

	Achievement Achievement `json:"achievement"`
}

// Achievement categories.
const (
	CategoryMilestone = "milestone"
	CategoryStreak    = "streak"
	CategorySocial    = "social"
	CategoryVoting    = "voting"
	CategorySpecial   = "special"
)

// AchievementCatalog is the fixed rule set. "special" entries are listed for
// display but have no automatic predicate in the engine.
var AchievementCatalog = []Achievement{
	{Name: "First Steps", Description: "Submit your first rushmore", Icon: "◆", Category: CategoryMilestone, Requirement: 1},
	{Name: "Week Warrior", Description: "Maintain a 7-day streak", Icon: "🔥", Category: CategoryStreak, Requirement: 7},
	{Name: "Fortnight Fighter", Description: "Maintain a 14-day streak", Icon: "⚡", Category: CategoryStreak, Requirement: 14},
	{Name: "Monthly Master", Description: "Maintain a 30-day streak", Icon: "👑", Category: CategoryStreak, Requirement: 30},
	{Name: "Century Club", Description: "Play 100 days", Icon: "💎", Category: CategoryMilestone, Requirement: 100},
	{Name: "Social Butterfly", Description: "Follow 10 friends", Icon: "🦋", Category: CategorySpecial, Requirement: 10},
	{Name: "Popular", Description: "Receive 50 total upvotes", Icon: "⭐", Category: CategorySocial, Requirement: 50},
	{Name: "Viral", Description: "Receive 100 total upvotes", Icon: "🌟", Category: CategorySocial, Requirement: 100},
	{Name: "Influencer", Description: "Receive 500 total upvotes", Icon: "🏆", Category: CategorySocial, Requirement: 500},
	{Name: "Active Voter", Description: "Cast 50 votes", Icon: "🗳️", Category: CategoryVoting, Requirement: 50},
	{Name: "Democracy Defender", Description: "Cast 100 votes", Icon: "🏛️", Category: CategoryVoting, Requirement: 100},
}

// SeedAchievements upserts the catalog by name so reseeding never duplicates.
func SeedAchievements(db *gorm.DB) error {
	for _, a := range AchievementCatalog {
		var existing Achievement
		err := db.Where("name = ?", a.Name).First(&existing).Error
		switch {
		case err == nil:
			existing.Description = a.Description
			existing.Icon = a.Icon
			existing.Category = a.Category
			existing.Requirement = a.Requirement
			if err := db.Save(&existing).Error; err != nil {
				return err
			}
		case err == gorm.ErrRecordNotFound:
			if err := db.Create(&a).Error; err != nil {
				return err
			}
		default:
			return err
		}
	}
	return nil
}
