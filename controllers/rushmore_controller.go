package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rushmoreapp/rushmore/models"
	"github.com/rushmoreapp/rushmore/services"
	"github.com/rushmoreapp/rushmore/utils"
)

// RushmoreController manages daily submissions: creation, listing,
// leaderboard ranking and moderation reports.
type RushmoreController struct {
	db          *gorm.DB
	submissions *services.SubmissionService
	loc         *time.Location
}

// NewRushmoreController creates a RushmoreController.
func NewRushmoreController(db *gorm.DB, submissions *services.SubmissionService, loc *time.Location) *RushmoreController {
	if loc == nil {
		loc = time.Local
	}
	return &RushmoreController{db: db, submissions: submissions, loc: loc}
}

// rushmoreView is a submission decorated with its vote tally.
type rushmoreView struct {
	models.Rushmore
	Upvotes   int64 `json:"upvotes"`
	Downvotes int64 `json:"downvotes"`
	Score     int64 `json:"score"`
}

// Create accepts a four-item submission for today's question. Items are
// screened against the banned-word list before anything is persisted, and a
// successful write feeds the author's streak.
func (r *RushmoreController) Create(ctx *gin.Context) {
	var req struct {
		Items []string `json:"items" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40085, "invalid request payload")
		return
	}

	items := make([]string, 0, len(req.Items))
	for _, item := range req.Items {
		item = strings.TrimSpace(item)
		if item == "" {
			utils.Error(ctx, http.StatusBadRequest, 40086, "all four items are required")
			return
		}
		if len([]rune(item)) > 100 {
			utils.Error(ctx, http.StatusBadRequest, 40086, "items must be at most 100 characters")
			return
		}
		items = append(items, item)
	}
	if len(items) != 4 {
		utils.Error(ctx, http.StatusBadRequest, 40086, "exactly four items are required")
		return
	}
	if len(utils.UniqueStrings(items)) != 4 {
		utils.Error(ctx, http.StatusBadRequest, 40087, "items must be distinct")
		return
	}

	if mod := utils.ValidateItems(items); !mod.IsValid {
		utils.ErrorWithData(ctx, http.StatusBadRequest, 40088, "submission contains disallowed words", gin.H{
			"banned_words":   mod.BannedWords,
			"filtered_items": mod.FilteredItems,
		})
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	rushmore, play, err := r.submissions.Submit(userID, [4]string{items[0], items[1], items[2], items[3]}, time.Now())
	switch {
	case errors.Is(err, services.ErrDuplicateSubmission):
		utils.Error(ctx, http.StatusBadRequest, 40089, "you already submitted for today's question")
		return
	case err != nil && rushmore == nil:
		utils.Error(ctx, http.StatusInternalServerError, 50085, "failed to store submission")
		return
	case err != nil:
		// submission stored, streak update failed
		if utils.Sugar != nil {
			utils.Sugar.Warnw("submission saved but streak update failed", "user_id", userID, "error", err)
		}
	}

	if err := r.db.Preload("User").First(rushmore, rushmore.ID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50087, "failed to load submission")
		return
	}

	utils.InvalidateByPrefix("cache:rushmores:")

	payload := gin.H{"rushmore": rushmore}
	if play != nil {
		payload["streak"] = play.Streak
		unlocked := make([]services.UnlockResult, 0, len(play.Achievements))
		for _, a := range play.Achievements {
			if a.Unlocked {
				unlocked = append(unlocked, a)
			}
		}
		payload["new_achievements"] = unlocked
	}
	utils.Success(ctx, payload)
}

// ListToday returns every submission for the current question with vote
// tallies, newest first.
func (r *RushmoreController) ListToday(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))

	cacheKey := fmt.Sprintf("cache:rushmores:today:%s:page=%d:size=%d",
		time.Now().In(r.loc).Format("2006-01-02"), page, pageSize)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	question, err := loadTodayQuestion(r.db, r.loc)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Success(ctx, gin.H{"items": []rushmoreView{}, "pagination": paginationMeta(page, pageSize, 0)})
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50088, "failed to load today's question")
		return
	}

	var total int64
	if err := r.db.Model(&models.Rushmore{}).Where("question_id = ?", question.ID).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50089, "failed to count submissions")
		return
	}

	var rushmores []models.Rushmore
	if err := r.db.Preload("User").
		Where("question_id = ?", question.ID).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&rushmores).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50090, "failed to list submissions")
		return
	}

	views, err := r.attachTallies(rushmores)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50091, "failed to tally votes")
		return
	}

	payload := gin.H{
		"question":   question,
		"items":      views,
		"pagination": paginationMeta(page, pageSize, total),
	}
	wrapper := struct {
		Code    int         `json:"code"`
		Message string      `json:"message"`
		Data    interface{} `json:"data"`
	}{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON(cacheKey, wrapper, time.Minute)
	utils.Success(ctx, payload)
}

// Leaderboard returns today's submissions ordered by net score descending.
// Ties break on earlier submission.
func (r *RushmoreController) Leaderboard(ctx *gin.Context) {
	question, err := loadTodayQuestion(r.db, r.loc)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Success(ctx, gin.H{"items": []rushmoreView{}})
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50092, "failed to load today's question")
		return
	}

	var rushmores []models.Rushmore
	if err := r.db.Preload("User").
		Where("question_id = ?", question.ID).
		Find(&rushmores).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50093, "failed to list submissions")
		return
	}

	views, err := r.attachTallies(rushmores)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50094, "failed to tally votes")
		return
	}

	sortByScore(views)

	limit := 20
	if len(views) > limit {
		views = views[:limit]
	}

	utils.Success(ctx, gin.H{"question": question, "items": views})
}

// Report files a moderation report against a submission.
func (r *RushmoreController) Report(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	_ = ctx.ShouldBindJSON(&req)

	rushmoreID := ctx.Param("id")
	var rushmore models.Rushmore
	if err := r.db.First(&rushmore, rushmoreID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40430, "submission not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50095, "failed to load submission")
		return
	}

	reason := strings.TrimSpace(req.Reason)
	if len([]rune(reason)) > 500 {
		reason = string([]rune(reason)[:500])
	}

	report := models.Report{
		UserID:     userID,
		RushmoreID: rushmore.ID,
		Reason:     utils.Sanitize(reason),
	}
	if err := r.db.Create(&report).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50096, "failed to file report")
		return
	}

	utils.Success(ctx, gin.H{"message": "report filed"})
}

// attachTallies decorates submissions with upvote/downvote counts in one
// grouped query instead of per-row counting.
func (r *RushmoreController) attachTallies(rushmores []models.Rushmore) ([]rushmoreView, error) {
	views := make([]rushmoreView, 0, len(rushmores))
	if len(rushmores) == 0 {
		return views, nil
	}

	ids := make([]uint, 0, len(rushmores))
	for _, rm := range rushmores {
		ids = append(ids, rm.ID)
	}

	type tallyRow struct {
		RushmoreID uint
		Upvotes    int64
		Downvotes  int64
	}
	var rows []tallyRow
	err := r.db.Model(&models.Vote{}).
		Select("rushmore_id, SUM(CASE WHEN value > 0 THEN 1 ELSE 0 END) AS upvotes, SUM(CASE WHEN value < 0 THEN 1 ELSE 0 END) AS downvotes").
		Where("rushmore_id IN ?", ids).
		Group("rushmore_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	tallies := make(map[uint]tallyRow, len(rows))
	for _, row := range rows {
		tallies[row.RushmoreID] = row
	}

	for _, rm := range rushmores {
		t := tallies[rm.ID]
		views = append(views, rushmoreView{
			Rushmore:  rm,
			Upvotes:   t.Upvotes,
			Downvotes: t.Downvotes,
			Score:     t.Upvotes - t.Downvotes,
		})
	}
	return views, nil
}

// sortByScore orders by net score descending; stability keeps earlier
// submissions ahead on ties.
func sortByScore(views []rushmoreView) {
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Score > views[j].Score
	})
}

func paginationMeta(page, pageSize int, total int64) gin.H {
	return gin.H{
		"page":        page,
		"page_size":   pageSize,
		"total":       total,
		"total_pages": int((total + int64(pageSize) - 1) / int64(pageSize)),
	}
}
