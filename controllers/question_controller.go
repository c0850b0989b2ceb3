package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rushmoreapp/rushmore/models"
	"github.com/rushmoreapp/rushmore/services"
	"github.com/rushmoreapp/rushmore/utils"
)

// QuestionController serves the daily prompt and the admin lifecycle endpoints.
type QuestionController struct {
	db        *gorm.DB
	questions *services.QuestionService
	loc       *time.Location
}

// NewQuestionController creates a QuestionController.
func NewQuestionController(db *gorm.DB, questions *services.QuestionService, loc *time.Location) *QuestionController {
	if loc == nil {
		loc = time.Local
	}
	return &QuestionController{db: db, questions: questions, loc: loc}
}

// Today returns the active question for the current day, creating it on
// first access. When storage is down a non-persisted fallback prompt is
// served so the page still renders.
func (q *QuestionController) Today(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes(todayCacheKey(q.loc)); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	question, err := q.questions.GetOrCreateToday(time.Now())
	if err != nil {
		if errors.Is(err, services.ErrStorageUnavailable) {
			utils.Success(ctx, gin.H{
				"question": q.questions.FallbackQuestion(time.Now()),
				"degraded": true,
			})
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50080, "failed to load today's question")
		return
	}

	payload := gin.H{"question": question}
	wrapper := struct {
		Code    int         `json:"code"`
		Message string      `json:"message"`
		Data    interface{} `json:"data"`
	}{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON(todayCacheKey(q.loc), wrapper, 5*time.Minute)
	utils.Success(ctx, payload)
}

// SetQuestion lets an admin override the prompt for the current day.
func (q *QuestionController) SetQuestion(ctx *gin.Context) {
	if !requireAdmin(ctx) {
		return
	}

	var req struct {
		Prompt string `json:"prompt" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40080, "invalid request payload")
		return
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		utils.Error(ctx, http.StatusBadRequest, 40081, "prompt cannot be empty")
		return
	}

	question, err := q.questions.GetOrCreateToday(time.Now())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50081, "failed to load today's question")
		return
	}

	if err := q.db.Model(question).Update("prompt", prompt).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50082, "failed to update prompt")
		return
	}
	question.Prompt = prompt

	utils.InvalidateByPrefix("cache:question:")
	utils.InvalidateByPrefix("cache:rushmores:")

	utils.Success(ctx, gin.H{"question": question})
}

// Reset wipes the current day: votes, comments, reports and submissions go
// with the question, and a fresh question is minted immediately.
func (q *QuestionController) Reset(ctx *gin.Context) {
	if !requireAdmin(ctx) {
		return
	}

	now := time.Now()
	if err := q.questions.ResetDay(now); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50083, "failed to reset day")
		return
	}

	question, err := q.questions.GetOrCreateToday(now)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50084, "failed to create fresh question")
		return
	}

	utils.InvalidateByPrefix("cache:question:")
	utils.InvalidateByPrefix("cache:rushmores:")

	utils.Success(ctx, gin.H{"question": question})
}

func todayCacheKey(loc *time.Location) string {
	return "cache:question:today:" + time.Now().In(loc).Format("2006-01-02")
}

// loadTodayQuestion resolves today's question without creating one, used by
// read paths that must not mint a question as a side effect.
func loadTodayQuestion(db *gorm.DB, loc *time.Location) (*models.Question, error) {
	day := services.DayStart(time.Now(), loc)
	var question models.Question
	if err := db.Where("date = ?", day).First(&question).Error; err != nil {
		return nil, err
	}
	return &question, nil
}
