package main

import (
	"time"

	"github.com/rushmoreapp/rushmore/config"
	"github.com/rushmoreapp/rushmore/models"
	"github.com/rushmoreapp/rushmore/routes"
	"github.com/rushmoreapp/rushmore/services"
	"github.com/rushmoreapp/rushmore/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Question{},
		&models.Rushmore{},
		&models.Vote{},
		&models.Comment{},
		&models.Report{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.PageView{},
	)

	if err := models.SeedAchievements(db); err != nil {
		utils.Sugar.Fatalf("failed to seed achievements: %v", err)
	}

	loc := cfg.Location()
	questions := services.NewQuestionService(db, cfg.QuestionPool, loc)
	streaks := services.NewStreakService(db, loc)

	// Mint today's question eagerly so the first request never races the scheduler
	if _, err := questions.GetOrCreateToday(time.Now()); err != nil {
		utils.Sugar.Warnf("could not create today's question at boot: %v", err)
	}

	scheduler, err := services.StartDailyRotation(questions, loc, cfg.ResetHour)
	if err != nil {
		utils.Sugar.Fatalf("failed to start daily rotation: %v", err)
	}
	defer func() { _ = scheduler.Shutdown() }()

	r := routes.SetupRouter(db, questions, streaks)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
