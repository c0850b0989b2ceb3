package services

import (
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/rushmoreapp/rushmore/utils"
)

// StartDailyRotation schedules the server-side question rotation: every day
// at resetHour (in loc) the previous question is torn down and a fresh one
// created, and the affected caches are dropped. Returns the scheduler so the
// caller can shut it down.
func StartDailyRotation(questions *QuestionService, loc *time.Location, resetHour int) (gocron.Scheduler, error) {
	if loc == nil {
		loc = time.Local
	}
	if resetHour < 0 || resetHour > 23 {
		resetHour = 0
	}

	sched, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(uint(resetHour), 0, 0))),
		gocron.NewTask(func() {
			now := time.Now()
			if err := questions.ResetDay(now); err != nil {
				if utils.Sugar != nil {
					utils.Sugar.Errorf("daily reset failed: %v", err)
				}
				return
			}
			q, err := questions.GetOrCreateToday(now)
			if err != nil {
				if utils.Sugar != nil {
					utils.Sugar.Errorf("daily rotation could not create question: %v", err)
				}
				return
			}
			utils.InvalidateByPrefix("cache:question:")
			utils.InvalidateByPrefix("cache:rushmores:")
			if utils.Sugar != nil {
				utils.Sugar.Infof("daily rotation complete, new prompt: %q", q.Prompt)
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	sched.Start()
	return sched, nil
}
