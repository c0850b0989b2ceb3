package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rushmoreapp/rushmore/config"
	"github.com/rushmoreapp/rushmore/models"
	"github.com/rushmoreapp/rushmore/utils"
)

// StatsController provides site statistics, per-user stats and the
// achievement catalog.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetStats returns aggregate statistics for the site.
func (s *StatsController) GetStats(ctx *gin.Context) {
	var userCount int64
	var rushmoreCount int64
	var voteCount int64
	var commentCount int64
	var dailyActive int64

	if err := s.db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		// Fallback to 0 instead of failing the whole endpoint
		userCount = 0
	}

	if err := s.db.Model(&models.Rushmore{}).Count(&rushmoreCount).Error; err != nil {
		rushmoreCount = 0
	}

	if err := s.db.Model(&models.Vote{}).Count(&voteCount).Error; err != nil {
		voteCount = 0
	}

	if err := s.db.Model(&models.Comment{}).Count(&commentCount).Error; err != nil {
		commentCount = 0
	}

	// Daily active (PV-based): sum of today's page views across all paths.
	// String date equality avoids timezone/type mismatches with the DATE
	// column; "today" follows the configured timezone like the services do.
	today := time.Now().In(config.Get().Location()).Format("2006-01-02")
	if err := s.db.Model(&models.PageView{}).
		Where("date = ?", today).
		Select("COALESCE(SUM(count),0)").
		Scan(&dailyActive).Error; err != nil {
		dailyActive = 0
	}

	utils.Success(ctx, gin.H{
		"user_count":         userCount,
		"rushmore_count":     rushmoreCount,
		"vote_count":         voteCount,
		"comment_count":      commentCount,
		"daily_active_count": dailyActive,
	})
}

// GetUserStats returns streaks, play totals, vote tallies and unlocked
// achievements for a user.
func (s *StatsController) GetUserStats(ctx *gin.Context) {
	id := strings.TrimSpace(ctx.Param("id"))
	if id == "" {
		utils.Error(ctx, http.StatusBadRequest, 40050, "missing user id")
		return
	}

	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50120, "failed to get user")
		return
	}

	var rushmoreCount int64
	if err := s.db.Model(&models.Rushmore{}).Where("user_id = ?", user.ID).Count(&rushmoreCount).Error; err != nil {
		rushmoreCount = 0
	}

	var upvotesReceived int64
	if err := s.db.Model(&models.Vote{}).
		Joins("JOIN rushmores ON rushmores.id = votes.rushmore_id").
		Where("rushmores.user_id = ? AND votes.value = 1", user.ID).
		Count(&upvotesReceived).Error; err != nil {
		upvotesReceived = 0
	}

	var votesCast int64
	if err := s.db.Model(&models.Vote{}).Where("user_id = ?", user.ID).Count(&votesCast).Error; err != nil {
		votesCast = 0
	}

	var unlocked []models.UserAchievement
	if err := s.db.Preload("Achievement").
		Where("user_id = ?", user.ID).
		Order("unlocked_at ASC").
		Find(&unlocked).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50121, "failed to list achievements")
		return
	}

	utils.Success(ctx, gin.H{
		"user_id":           user.ID,
		"username":          user.Username,
		"current_streak":    user.CurrentStreak,
		"longest_streak":    user.LongestStreak,
		"last_played_date":  user.LastPlayedDate,
		"total_days_played": user.TotalDaysPlayed,
		"rushmore_count":    rushmoreCount,
		"upvotes_received":  upvotesReceived,
		"votes_cast":        votesCast,
		"achievements":      unlocked,
	})
}

// ListAchievements returns the full achievement catalog.
func (s *StatsController) ListAchievements(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes("cache:achievements:catalog"); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var achievements []models.Achievement
	if err := s.db.Order("id ASC").Find(&achievements).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50122, "failed to list achievements")
		return
	}

	payload := gin.H{"items": achievements, "total": len(achievements)}
	wrapper := struct {
		Code    int         `json:"code"`
		Message string      `json:"message"`
		Data    interface{} `json:"data"`
	}{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON("cache:achievements:catalog", wrapper, time.Hour)
	utils.Success(ctx, payload)
}
