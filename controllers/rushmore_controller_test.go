package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rushmoreapp/rushmore/middleware"
	"github.com/rushmoreapp/rushmore/models"
	"github.com/rushmoreapp/rushmore/services"
)

var testDBCounter int

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	testDBCounter++
	dsn := fmt.Sprintf("file:controllertest%d?mode=memory&cache=shared", testDBCounter)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Question{},
		&models.Rushmore{},
		&models.Vote{},
		&models.Comment{},
		&models.Report{},
		&models.Achievement{},
		&models.UserAchievement{},
	))
	require.NoError(t, models.SeedAchievements(db))

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// fakeAuth injects an authenticated user without a real JWT.
func fakeAuth(userID uint, username string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set(middleware.ContextUserIDKey, userID)
		ctx.Set(middleware.ContextUsernameKey, username)
		ctx.Next()
	}
}

func setupTestRouter(t *testing.T, db *gorm.DB, userID uint, username string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	questions := services.NewQuestionService(db, nil, time.UTC)
	streaks := services.NewStreakService(db, time.UTC)
	submissions := services.NewSubmissionService(db, questions, streaks)

	rc := NewRushmoreController(db, submissions, time.UTC)
	vc := NewVoteController(db)
	cc := NewCommentController(db)

	r := gin.New()
	r.GET("/api/v1/rushmores", rc.ListToday)
	r.GET("/api/v1/leaderboard", rc.Leaderboard)
	r.GET("/api/v1/rushmores/:id/comments", cc.List)

	auth := r.Group("", fakeAuth(userID, username))
	auth.POST("/api/v1/rushmores", rc.Create)
	auth.POST("/api/v1/votes", vc.Cast)
	auth.POST("/api/v1/rushmores/:id/comments", cc.Create)
	auth.POST("/api/v1/rushmores/:id/report", rc.Report)
	return r
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestCreateRushmore(t *testing.T) {
	db := setupTestDB(t)
	user := models.User{Username: "alice", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	r := setupTestRouter(t, db, user.ID, user.Username)

	w := doJSON(r, http.MethodPost, "/api/v1/rushmores", gin.H{
		"items": []string{"dogs", "cats", "birds", "fish"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	env := decodeEnvelope(t, w)
	var data struct {
		Rushmore models.Rushmore         `json:"rushmore"`
		Streak   services.StreakSnapshot `json:"streak"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "dogs", data.Rushmore.Item1)
	assert.Equal(t, user.ID, data.Rushmore.UserID)
	assert.Equal(t, 1, data.Streak.CurrentStreak)

	var count int64
	require.NoError(t, db.Model(&models.Rushmore{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateRushmoreRejectsBannedWords(t *testing.T) {
	db := setupTestDB(t)
	user := models.User{Username: "alice", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	r := setupTestRouter(t, db, user.ID, user.Username)

	w := doJSON(r, http.MethodPost, "/api/v1/rushmores", gin.H{
		"items": []string{"dogs", "cats", "fuck this", "fish"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	env := decodeEnvelope(t, w)
	var data struct {
		BannedWords []string `json:"banned_words"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Contains(t, data.BannedWords, "fuck")

	// nothing persisted
	var count int64
	require.NoError(t, db.Model(&models.Rushmore{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateRushmoreValidation(t *testing.T) {
	db := setupTestDB(t)
	user := models.User{Username: "alice", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	r := setupTestRouter(t, db, user.ID, user.Username)

	// three items
	w := doJSON(r, http.MethodPost, "/api/v1/rushmores", gin.H{
		"items": []string{"a", "b", "c"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// duplicate items
	w = doJSON(r, http.MethodPost, "/api/v1/rushmores", gin.H{
		"items": []string{"a", "b", "c", "a"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// blank item
	w = doJSON(r, http.MethodPost, "/api/v1/rushmores", gin.H{
		"items": []string{"a", "b", "c", "   "},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateRushmoreOncePerDay(t *testing.T) {
	db := setupTestDB(t)
	user := models.User{Username: "alice", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	r := setupTestRouter(t, db, user.ID, user.Username)

	w := doJSON(r, http.MethodPost, "/api/v1/rushmores", gin.H{
		"items": []string{"dogs", "cats", "birds", "fish"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, "/api/v1/rushmores", gin.H{
		"items": []string{"red", "green", "blue", "cyan"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Rushmore{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestVoteUpsert(t *testing.T) {
	db := setupTestDB(t)
	author := models.User{Username: "alice", PasswordHash: "x"}
	require.NoError(t, db.Create(&author).Error)
	voter := models.User{Username: "bob", PasswordHash: "x"}
	require.NoError(t, db.Create(&voter).Error)

	questions := services.NewQuestionService(db, nil, time.UTC)
	q, err := questions.GetOrCreateToday(time.Now())
	require.NoError(t, err)
	rushmore := models.Rushmore{UserID: author.ID, QuestionID: q.ID, Item1: "a", Item2: "b", Item3: "c", Item4: "d"}
	require.NoError(t, db.Create(&rushmore).Error)

	r := setupTestRouter(t, db, voter.ID, voter.Username)

	w := doJSON(r, http.MethodPost, "/api/v1/votes", gin.H{"rushmore_id": rushmore.ID, "value": 1})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// flip to downvote: replaces, does not stack
	w = doJSON(r, http.MethodPost, "/api/v1/votes", gin.H{"rushmore_id": rushmore.ID, "value": -1})
	require.Equal(t, http.StatusOK, w.Code)

	env := decodeEnvelope(t, w)
	var data struct {
		Upvotes   int64 `json:"upvotes"`
		Downvotes int64 `json:"downvotes"`
		Score     int64 `json:"score"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.EqualValues(t, 0, data.Upvotes)
	assert.EqualValues(t, 1, data.Downvotes)
	assert.EqualValues(t, -1, data.Score)

	var count int64
	require.NoError(t, db.Model(&models.Vote{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestVoteRejectsBadValue(t *testing.T) {
	db := setupTestDB(t)
	author := models.User{Username: "alice", PasswordHash: "x"}
	require.NoError(t, db.Create(&author).Error)

	questions := services.NewQuestionService(db, nil, time.UTC)
	q, err := questions.GetOrCreateToday(time.Now())
	require.NoError(t, err)
	rushmore := models.Rushmore{UserID: author.ID, QuestionID: q.ID, Item1: "a", Item2: "b", Item3: "c", Item4: "d"}
	require.NoError(t, db.Create(&rushmore).Error)

	r := setupTestRouter(t, db, author.ID, author.Username)
	w := doJSON(r, http.MethodPost, "/api/v1/votes", gin.H{"rushmore_id": rushmore.ID, "value": 5})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLeaderboardOrdersByScore(t *testing.T) {
	db := setupTestDB(t)
	questions := services.NewQuestionService(db, nil, time.UTC)
	q, err := questions.GetOrCreateToday(time.Now())
	require.NoError(t, err)

	var rushmores []models.Rushmore
	for i := 0; i < 3; i++ {
		u := models.User{Username: fmt.Sprintf("user%d", i), PasswordHash: "x"}
		require.NoError(t, db.Create(&u).Error)
		rm := models.Rushmore{UserID: u.ID, QuestionID: q.ID, Item1: "a", Item2: "b", Item3: "c", Item4: "d"}
		require.NoError(t, db.Create(&rm).Error)
		rushmores = append(rushmores, rm)
	}

	// second submission gets two upvotes, third gets one downvote
	voterA := models.User{Username: "voter-a", PasswordHash: "x"}
	require.NoError(t, db.Create(&voterA).Error)
	voterB := models.User{Username: "voter-b", PasswordHash: "x"}
	require.NoError(t, db.Create(&voterB).Error)
	require.NoError(t, db.Create(&models.Vote{UserID: voterA.ID, RushmoreID: rushmores[1].ID, Value: 1}).Error)
	require.NoError(t, db.Create(&models.Vote{UserID: voterB.ID, RushmoreID: rushmores[1].ID, Value: 1}).Error)
	require.NoError(t, db.Create(&models.Vote{UserID: voterA.ID, RushmoreID: rushmores[2].ID, Value: -1}).Error)

	r := setupTestRouter(t, db, voterA.ID, voterA.Username)
	w := doJSON(r, http.MethodGet, "/api/v1/leaderboard", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	env := decodeEnvelope(t, w)
	var data struct {
		Items []struct {
			ID    uint  `json:"id"`
			Score int64 `json:"score"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Items, 3)
	assert.Equal(t, rushmores[1].ID, data.Items[0].ID)
	assert.EqualValues(t, 2, data.Items[0].Score)
	assert.Equal(t, rushmores[0].ID, data.Items[1].ID)
	assert.Equal(t, rushmores[2].ID, data.Items[2].ID)
	assert.EqualValues(t, -1, data.Items[2].Score)
}

func TestCommentModerationGate(t *testing.T) {
	db := setupTestDB(t)
	author := models.User{Username: "alice", PasswordHash: "x"}
	require.NoError(t, db.Create(&author).Error)

	questions := services.NewQuestionService(db, nil, time.UTC)
	q, err := questions.GetOrCreateToday(time.Now())
	require.NoError(t, err)
	rushmore := models.Rushmore{UserID: author.ID, QuestionID: q.ID, Item1: "a", Item2: "b", Item3: "c", Item4: "d"}
	require.NoError(t, db.Create(&rushmore).Error)

	r := setupTestRouter(t, db, author.ID, author.Username)
	path := fmt.Sprintf("/api/v1/rushmores/%d/comments", rushmore.ID)

	w := doJSON(r, http.MethodPost, path, gin.H{"content": "what a b1tch list"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, path, gin.H{"content": "great picks"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var count int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
