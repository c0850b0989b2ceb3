package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/rushmoreapp/rushmore/models"
)

// SubmissionService persists daily submissions: one per user per question,
// each feeding the author's streak.
type SubmissionService struct {
	db        *gorm.DB
	questions *QuestionService
	streaks   *StreakService
}

// NewSubmissionService creates a SubmissionService.
func NewSubmissionService(db *gorm.DB, questions *QuestionService, streaks *StreakService) *SubmissionService {
	return &SubmissionService{db: db, questions: questions, streaks: streaks}
}

// Submit stores a four-item submission against today's question and records
// the play. A second submission for the same day fails with
// ErrDuplicateSubmission. The returned PlayResult is nil when the submission
// was stored but the streak update failed; the submission stands either way.
func (s *SubmissionService) Submit(userID uint, items [4]string, now time.Time) (*models.Rushmore, *PlayResult, error) {
	question, err := s.questions.GetOrCreateToday(now)
	if err != nil {
		return nil, nil, err
	}

	var existing models.Rushmore
	err = s.db.Where("user_id = ? AND question_id = ?", userID, question.ID).First(&existing).Error
	if err == nil {
		return nil, nil, ErrDuplicateSubmission
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	rushmore := models.Rushmore{
		UserID:     userID,
		QuestionID: question.ID,
		Item1:      items[0],
		Item2:      items[1],
		Item3:      items[2],
		Item4:      items[3],
	}
	if err := s.db.Create(&rushmore).Error; err != nil {
		// The unique (user, question) index closes the race two concurrent
		// submits would otherwise win together. Re-read to tell that apart
		// from a storage failure.
		var winner models.Rushmore
		if s.db.Where("user_id = ? AND question_id = ?", userID, question.ID).First(&winner).Error == nil {
			return nil, nil, ErrDuplicateSubmission
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	play, err := s.streaks.RecordPlay(userID, now)
	if err != nil {
		return &rushmore, nil, err
	}
	return &rushmore, play, nil
}
