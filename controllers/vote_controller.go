package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rushmoreapp/rushmore/models"
	"github.com/rushmoreapp/rushmore/utils"
)

// VoteController handles the single vote endpoint: one upsert-style ballot
// per (user, submission).
type VoteController struct {
	db *gorm.DB
}

// NewVoteController creates a VoteController.
func NewVoteController(db *gorm.DB) *VoteController {
	return &VoteController{db: db}
}

// Cast records a +1 or -1 on a submission. Voting again replaces the
// previous value instead of stacking ballots.
func (v *VoteController) Cast(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		RushmoreID uint `json:"rushmore_id" binding:"required"`
		Value      int  `json:"value" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40090, "invalid request payload")
		return
	}
	if req.Value != 1 && req.Value != -1 {
		utils.Error(ctx, http.StatusBadRequest, 40091, "vote value must be 1 or -1")
		return
	}

	var rushmore models.Rushmore
	if err := v.db.First(&rushmore, req.RushmoreID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40430, "submission not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50100, "failed to load submission")
		return
	}

	vote := models.Vote{
		UserID:     userID,
		RushmoreID: rushmore.ID,
		Value:      req.Value,
	}
	err := v.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "rushmore_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"value": req.Value}),
	}).Create(&vote).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50101, "failed to record vote")
		return
	}

	var upvotes, downvotes int64
	if err := v.db.Model(&models.Vote{}).Where("rushmore_id = ? AND value > 0", rushmore.ID).Count(&upvotes).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50102, "failed to tally votes")
		return
	}
	if err := v.db.Model(&models.Vote{}).Where("rushmore_id = ? AND value < 0", rushmore.ID).Count(&downvotes).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50102, "failed to tally votes")
		return
	}

	utils.InvalidateByPrefix("cache:rushmores:")

	utils.Success(ctx, gin.H{
		"rushmore_id": rushmore.ID,
		"value":       req.Value,
		"upvotes":     upvotes,
		"downvotes":   downvotes,
		"score":       upvotes - downvotes,
	})
}
