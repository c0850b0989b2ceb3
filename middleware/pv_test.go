package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rushmoreapp/rushmore/models"
)

// Set before any test can trigger a config load, so the timezone below is
// what PageViewRecorder captures.
func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("APP_TIMEZONE", "America/New_York")
	os.Exit(m.Run())
}

var pvTestDBCounter int

func setupPVTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	pvTestDBCounter++
	dsn := fmt.Sprintf("file:pvtest%d?mode=memory&cache=shared", pvTestDBCounter)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.PageView{}))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func setupPVRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(PageViewRecorder(db))
	r.GET("/api/v1/rushmores", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{})
	})
	return r
}

func TestPageViewUsesConfiguredDayBoundary(t *testing.T) {
	db := setupPVTestDB(t)
	r := setupPVRouter(t, db)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/rushmores", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var pv models.PageView
	require.NoError(t, db.First(&pv).Error)

	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	now := time.Now().In(loc)
	want := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	assert.True(t, pv.Date.Equal(want), "recorded %v, want midnight %v", pv.Date, want)
	assert.EqualValues(t, 1, pv.Count)
}

func TestPageViewUpsertsRepeatVisits(t *testing.T) {
	db := setupPVTestDB(t)
	r := setupPVRouter(t, db)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/rushmores", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	var rows []models.PageView
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 3, rows[0].Count)
}
