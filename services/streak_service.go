package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rushmoreapp/rushmore/models"
	"github.com/rushmoreapp/rushmore/utils"
)

// StreakSnapshot is the user's streak state after a RecordPlay call.
type StreakSnapshot struct {
	CurrentStreak   int       `json:"current_streak"`
	LongestStreak   int       `json:"longest_streak"`
	TotalDaysPlayed int       `json:"total_days_played"`
	LastPlayedDate  time.Time `json:"last_played_date"`
}

// UnlockResult reports one achievement whose predicate fired during a call.
// Unlocked=false carries the persistence error so the caller can report
// partial success without losing the other grants.
type UnlockResult struct {
	Name     string `json:"name"`
	Unlocked bool   `json:"unlocked"`
	Error    string `json:"error,omitempty"`
}

// PlayResult bundles the updated streak with any newly fired achievements.
type PlayResult struct {
	Streak       StreakSnapshot `json:"streak"`
	Achievements []UnlockResult `json:"new_achievements"`
}

// StreakService maintains per-user consecutive-day streaks and unlocks
// achievements exactly once when their criteria are first satisfied.
type StreakService struct {
	db  *gorm.DB
	loc *time.Location
}

// NewStreakService creates a StreakService; a nil location means local time.
func NewStreakService(db *gorm.DB, loc *time.Location) *StreakService {
	if loc == nil {
		loc = time.Local
	}
	return &StreakService{db: db, loc: loc}
}

// RecordPlay updates the user's streak for the day containing now and
// evaluates the achievement catalog against the updated stats.
//
// The counter update runs in one transaction with a row lock on the user so
// concurrent same-day calls serialize: exactly one takes the increment
// branch, the rest see the same-day no-op. Achievement unlocks happen after
// commit, each as its own write.
func (s *StreakService) RecordPlay(userID uint, now time.Time) (*PlayResult, error) {
	today := DayStart(now, s.loc)

	var snap StreakSnapshot
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := lockForUpdate(tx).First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}

		playedToday := user.LastPlayedDate != nil && sameDay(*user.LastPlayedDate, today, s.loc)
		if !playedToday {
			yesterday := today.AddDate(0, 0, -1)
			if user.LastPlayedDate != nil && sameDay(*user.LastPlayedDate, yesterday, s.loc) {
				user.CurrentStreak++
			} else {
				user.CurrentStreak = 1
			}
			user.TotalDaysPlayed++
			if user.CurrentStreak > user.LongestStreak {
				user.LongestStreak = user.CurrentStreak
			}
			day := today
			user.LastPlayedDate = &day

			if err := tx.Save(&user).Error; err != nil {
				return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
			}
		}

		snap = StreakSnapshot{
			CurrentStreak:   user.CurrentStreak,
			LongestStreak:   user.LongestStreak,
			TotalDaysPlayed: user.TotalDaysPlayed,
			LastPlayedDate:  *user.LastPlayedDate,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	unlocks := s.evaluateAchievements(userID, snap)
	return &PlayResult{Streak: snap, Achievements: unlocks}, nil
}

// evaluateAchievements runs every not-yet-unlocked catalog entry against the
// updated stats. Each grant persists independently; one failure is recorded
// in its UnlockResult and evaluation continues. A failed catalog or
// unlocked-set load is reported the same way, as a single errored result.
func (s *StreakService) evaluateAchievements(userID uint, snap StreakSnapshot) []UnlockResult {
	var catalog []models.Achievement
	if err := s.db.Find(&catalog).Error; err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("achievement catalog load failed for user %d: %v", userID, err)
		}
		return []UnlockResult{{Unlocked: false, Error: "achievement catalog load failed: " + err.Error()}}
	}

	var unlockedIDs []uint
	if err := s.db.Model(&models.UserAchievement{}).
		Where("user_id = ?", userID).
		Pluck("achievement_id", &unlockedIDs).Error; err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("unlocked achievements load failed for user %d: %v", userID, err)
		}
		return []UnlockResult{{Unlocked: false, Error: "unlocked achievements load failed: " + err.Error()}}
	}
	unlocked := make(map[uint]bool, len(unlockedIDs))
	for _, id := range unlockedIDs {
		unlocked[id] = true
	}

	// Aggregate counters are queried lazily; most calls never need them.
	var upvotes, votesCast int64
	upvotesLoaded, votesLoaded := false, false

	var results []UnlockResult
	for _, a := range catalog {
		if unlocked[a.ID] {
			continue
		}

		satisfied := false
		switch a.Category {
		case models.CategoryStreak:
			satisfied = snap.CurrentStreak >= a.Requirement
		case models.CategoryMilestone:
			satisfied = snap.TotalDaysPlayed >= a.Requirement
		case models.CategorySocial:
			if !upvotesLoaded {
				n, err := s.countUpvotesReceived(userID)
				if err != nil {
					results = append(results, UnlockResult{Name: a.Name, Unlocked: false, Error: err.Error()})
					continue
				}
				upvotes, upvotesLoaded = n, true
			}
			satisfied = upvotes >= int64(a.Requirement)
		case models.CategoryVoting:
			if !votesLoaded {
				n, err := s.countVotesCast(userID)
				if err != nil {
					results = append(results, UnlockResult{Name: a.Name, Unlocked: false, Error: err.Error()})
					continue
				}
				votesCast, votesLoaded = n, true
			}
			satisfied = votesCast >= int64(a.Requirement)
		default:
			// "special" entries have no automatic predicate.
		}
		if !satisfied {
			continue
		}

		grant := models.UserAchievement{
			UserID:        userID,
			AchievementID: a.ID,
			UnlockedAt:    time.Now(),
			Progress:      a.Requirement,
		}
		if err := s.db.Create(&grant).Error; err != nil {
			if utils.Sugar != nil {
				utils.Sugar.Warnf("achievement %q unlock failed for user %d: %v", a.Name, userID, err)
			}
			results = append(results, UnlockResult{Name: a.Name, Unlocked: false, Error: err.Error()})
			continue
		}
		if utils.Sugar != nil {
			utils.Sugar.Infof("achievement unlocked: %q -> user %d", a.Name, userID)
		}
		results = append(results, UnlockResult{Name: a.Name, Unlocked: true})
	}
	return results
}

func (s *StreakService) countUpvotesReceived(userID uint) (int64, error) {
	var n int64
	err := s.db.Model(&models.Vote{}).
		Joins("JOIN rushmores ON rushmores.id = votes.rushmore_id").
		Where("rushmores.user_id = ? AND votes.value = 1", userID).
		Count(&n).Error
	return n, err
}

func (s *StreakService) countVotesCast(userID uint) (int64, error) {
	var n int64
	err := s.db.Model(&models.Vote{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

// lockForUpdate applies a SELECT ... FOR UPDATE row lock where the dialect
// supports it. SQLite (used by the test suite) serializes writers on its
// own and rejects the clause.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
