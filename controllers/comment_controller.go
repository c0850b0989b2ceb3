package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rushmoreapp/rushmore/models"
	"github.com/rushmoreapp/rushmore/utils"
)

// CommentController manages replies on submissions.
type CommentController struct {
	db *gorm.DB
}

// NewCommentController creates a CommentController.
func NewCommentController(db *gorm.DB) *CommentController {
	return &CommentController{db: db}
}

// Create posts a comment on a submission. Content runs through the
// banned-word screen first and is HTML-sanitized before storage.
func (c *CommentController) Create(ctx *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40095, "invalid request payload")
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, 40096, "content cannot be empty")
		return
	}
	if len([]rune(content)) > 500 {
		utils.Error(ctx, http.StatusBadRequest, 40096, "comments must be at most 500 characters")
		return
	}

	if mod := utils.ValidateText(content); !mod.IsValid {
		utils.ErrorWithData(ctx, http.StatusBadRequest, 40097, "comment contains disallowed words", gin.H{
			"banned_words":  mod.BannedWords,
			"filtered_text": mod.FilteredText,
		})
		return
	}

	content = utils.Sanitize(content)
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, 40096, "content cannot be empty")
		return
	}

	rushmoreID := ctx.Param("id")
	var rushmore models.Rushmore
	if err := c.db.First(&rushmore, rushmoreID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40430, "submission not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50110, "failed to load submission")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	comment := models.Comment{
		RushmoreID: rushmore.ID,
		UserID:     userID,
		Content:    content,
	}
	if err := c.db.Create(&comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50111, "failed to create comment")
		return
	}

	if err := c.db.Preload("User").First(&comment, comment.ID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50112, "failed to load comment")
		return
	}

	utils.Success(ctx, gin.H{"comment": comment})
}

// List returns comments on a submission, oldest first.
func (c *CommentController) List(ctx *gin.Context) {
	rushmoreID := ctx.Param("id")
	var rushmore models.Rushmore
	if err := c.db.First(&rushmore, rushmoreID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40430, "submission not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50113, "failed to load submission")
		return
	}

	var comments []models.Comment
	if err := c.db.Preload("User").
		Where("rushmore_id = ?", rushmore.ID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50114, "failed to list comments")
		return
	}

	utils.Success(ctx, gin.H{"items": comments, "total": len(comments)})
}

// Delete removes a comment; only the author or an admin may do so.
func (c *CommentController) Delete(ctx *gin.Context) {
	cid := strings.TrimSpace(ctx.Param("commentId"))
	if cid == "" {
		utils.Error(ctx, http.StatusBadRequest, 40070, "missing comment id")
		return
	}
	var cmt models.Comment
	if err := c.db.First(&cmt, cid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40420, "comment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50115, "failed to load comment")
		return
	}

	uid, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40120, "unauthorized")
		return
	}
	if cmt.UserID != uid && !isAdmin(ctx) {
		utils.Error(ctx, http.StatusForbidden, 40320, "you can only delete your own comment")
		return
	}
	if err := c.db.Delete(&cmt).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50116, "failed to delete comment")
		return
	}

	if utils.Sugar != nil {
		utils.Sugar.Infow("comment deleted", "comment_id", cmt.ID, "by_user", uid)
	}
	utils.Success(ctx, gin.H{"message": "comment deleted"})
}
