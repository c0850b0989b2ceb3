package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/rushmoreapp/rushmore/models"
	"github.com/rushmoreapp/rushmore/utils"
)

// QuestionService owns the daily question lifecycle: exactly one question
// exists per calendar day, created lazily from the prompt pool and torn down
// (with its submissions, votes, comments and reports) on rotation.
type QuestionService struct {
	db   *gorm.DB
	pool []string
	loc  *time.Location
}

// NewQuestionService creates a QuestionService. An empty pool or nil
// location fall back to sane defaults so tests can construct it bare.
func NewQuestionService(db *gorm.DB, pool []string, loc *time.Location) *QuestionService {
	if len(pool) == 0 {
		pool = defaultPromptPool
	}
	if loc == nil {
		loc = time.Local
	}
	return &QuestionService{db: db, pool: pool, loc: loc}
}

// defaultPromptPool mirrors config.DefaultQuestionPool without importing the
// config package, keeping the service free of global configuration.
var defaultPromptPool = []string{
	"best fast food menu items",
	"Things that are overrated",
	"Best comfort foods",
	"Best pizza toppings",
	"Things that are underrated",
}

// GetOrCreateToday returns the question for the calendar day containing now,
// creating one from the pool when absent. Prompt selection is deterministic
// per day so every instance of the service agrees on the rotation.
func (s *QuestionService) GetOrCreateToday(now time.Time) (*models.Question, error) {
	day := DayStart(now, s.loc)

	var q models.Question
	err := s.db.Where("date = ?", day).First(&q).Error
	if err == nil {
		return &q, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	q = models.Question{
		Prompt: s.pool[dayIndex(day)%len(s.pool)],
		Date:   day,
	}
	if err := s.db.Create(&q).Error; err != nil {
		// A concurrent request may have won the unique-date race; re-read
		// before reporting the storage as broken.
		var existing models.Question
		if err2 := s.db.Where("date = ?", day).First(&existing).Error; err2 == nil {
			return &existing, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	if utils.Sugar != nil {
		utils.Sugar.Infof("created question for %s: %q", day.Format("2006-01-02"), q.Prompt)
	}
	return &q, nil
}

// ResetDay removes the question for the day containing now along with every
// dependent row, inside one transaction. A day with no question is a no-op.
func (s *QuestionService) ResetDay(now time.Time) error {
	day := DayStart(now, s.loc)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var q models.Question
		if err := tx.Where("date = ?", day).First(&q).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		var rushmoreIDs []uint
		if err := tx.Model(&models.Rushmore{}).
			Where("question_id = ?", q.ID).
			Pluck("id", &rushmoreIDs).Error; err != nil {
			return err
		}

		if len(rushmoreIDs) > 0 {
			if err := tx.Where("rushmore_id IN ?", rushmoreIDs).Delete(&models.Vote{}).Error; err != nil {
				return err
			}
			if err := tx.Where("rushmore_id IN ?", rushmoreIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("rushmore_id IN ?", rushmoreIDs).Delete(&models.Report{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", rushmoreIDs).Delete(&models.Rushmore{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Delete(&models.Question{}, q.ID).Error; err != nil {
			return err
		}

		if utils.Sugar != nil {
			utils.Sugar.Infof("reset day %s: removed question %d and %d submissions",
				day.Format("2006-01-02"), q.ID, len(rushmoreIDs))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// FallbackQuestion builds a non-persisted question for the day containing
// now. Served when storage is unreachable so the prompt page still renders;
// the rotation arithmetic matches GetOrCreateToday, so once storage returns
// the persisted prompt is the same one users already saw.
func (s *QuestionService) FallbackQuestion(now time.Time) *models.Question {
	day := DayStart(now, s.loc)
	return &models.Question{
		Prompt: s.pool[dayIndex(day)%len(s.pool)],
		Date:   day,
	}
}

// dayIndex counts whole days since the Unix epoch for rotation arithmetic.
func dayIndex(day time.Time) int {
	idx := int(day.Unix() / 86400)
	if idx < 0 {
		idx = -idx
	}
	return idx
}
