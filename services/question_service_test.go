package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushmoreapp/rushmore/models"
)

var testPool = []string{
	"best fast food menu items",
	"Things that are overrated",
	"Best comfort foods",
}

func TestGetOrCreateTodayIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewQuestionService(db, testPool, time.UTC)

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	q1, err := svc.GetOrCreateToday(now)
	require.NoError(t, err)

	q2, err := svc.GetOrCreateToday(now.Add(8 * time.Hour))
	require.NoError(t, err)

	assert.Equal(t, q1.ID, q2.ID)
	assert.Equal(t, q1.Prompt, q2.Prompt)

	var count int64
	require.NoError(t, db.Model(&models.Question{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestPromptRotationIsDeterministic(t *testing.T) {
	dbA := setupTestDB(t)
	dbB := setupTestDB(t)
	svcA := NewQuestionService(dbA, testPool, time.UTC)
	svcB := NewQuestionService(dbB, testPool, time.UTC)

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	qa, err := svcA.GetOrCreateToday(now)
	require.NoError(t, err)
	qb, err := svcB.GetOrCreateToday(now)
	require.NoError(t, err)

	assert.Equal(t, qa.Prompt, qb.Prompt, "two instances agree on the day's prompt")
}

func TestConsecutiveDaysRotatePrompts(t *testing.T) {
	db := setupTestDB(t)
	svc := NewQuestionService(db, testPool, time.UTC)

	day1 := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	q1, err := svc.GetOrCreateToday(day1)
	require.NoError(t, err)
	q2, err := svc.GetOrCreateToday(day1.AddDate(0, 0, 1))
	require.NoError(t, err)

	assert.NotEqual(t, q1.ID, q2.ID)
	assert.NotEqual(t, q1.Prompt, q2.Prompt, "adjacent days step the pool")
}

func TestFallbackQuestionMatchesPersistedPrompt(t *testing.T) {
	db := setupTestDB(t)
	svc := NewQuestionService(db, testPool, time.UTC)

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	fallback := svc.FallbackQuestion(now)
	persisted, err := svc.GetOrCreateToday(now)
	require.NoError(t, err)

	assert.Equal(t, persisted.Prompt, fallback.Prompt)
	assert.Zero(t, fallback.ID)
}

func TestResetDayCascades(t *testing.T) {
	db := setupTestDB(t)
	svc := NewQuestionService(db, testPool, time.UTC)
	author := createTestUser(t, db, "alice")
	voter := createTestUser(t, db, "bob")

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	q, err := svc.GetOrCreateToday(now)
	require.NoError(t, err)

	rushmore := models.Rushmore{
		UserID: author.ID, QuestionID: q.ID,
		Item1: "a", Item2: "b", Item3: "c", Item4: "d",
	}
	require.NoError(t, db.Create(&rushmore).Error)
	require.NoError(t, db.Create(&models.Vote{UserID: voter.ID, RushmoreID: rushmore.ID, Value: 1}).Error)
	require.NoError(t, db.Create(&models.Comment{UserID: voter.ID, RushmoreID: rushmore.ID, Content: "nice"}).Error)
	require.NoError(t, db.Create(&models.Report{UserID: voter.ID, RushmoreID: rushmore.ID, Reason: "spam"}).Error)

	require.NoError(t, svc.ResetDay(now))

	for _, m := range []interface{}{&models.Question{}, &models.Rushmore{}, &models.Vote{}, &models.Comment{}, &models.Report{}} {
		var count int64
		require.NoError(t, db.Model(m).Count(&count).Error)
		assert.Zero(t, count)
	}

	// user rows survive the reset
	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.EqualValues(t, 2, users)

	fresh, err := svc.GetOrCreateToday(now)
	require.NoError(t, err)
	assert.NotEqual(t, q.ID, fresh.ID, "reset mints a fresh question row")
}

func TestResetDayWithoutQuestionIsNoOp(t *testing.T) {
	db := setupTestDB(t)
	svc := NewQuestionService(db, testPool, time.UTC)

	require.NoError(t, svc.ResetDay(time.Now()))
}
