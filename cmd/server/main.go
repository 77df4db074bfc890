package main

import (
	"log"
	"strings"

	"github.com/JohnMarkCapones/Aralify-sub003/internal/bootstrap"
	"github.com/JohnMarkCapones/Aralify-sub003/internal/config"
	"github.com/JohnMarkCapones/Aralify-sub003/internal/handler"
	"github.com/JohnMarkCapones/Aralify-sub003/internal/middleware"
	"github.com/JohnMarkCapones/Aralify-sub003/internal/model"
	"github.com/JohnMarkCapones/Aralify-sub003/internal/repository"
	"github.com/JohnMarkCapones/Aralify-sub003/internal/service"
	"github.com/JohnMarkCapones/Aralify-sub003/pkg/database"
	"github.com/JohnMarkCapones/Aralify-sub003/pkg/redisclient"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect()
	if err := migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if err := seed(db, cfg); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}

	rdb := redisclient.Connect()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	streakRepo := repository.NewStreakRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)
	badgeRepo := repository.NewBadgeRepository(db)
	counterRepo := repository.NewCounterRepository(db)

	// Engine
	leveling := service.NewLevelingService()
	locks := service.NewUserLocks()

	achievementEvaluator := service.NewAchievementEvaluator(userRepo, achievementRepo, counterRepo)
	badgeManager := service.NewBadgeManager(db, userRepo, badgeRepo, counterRepo, locks, cfg.Gamification)

	xpService := service.NewXPService(db, userRepo, ledgerRepo, counterRepo, streakRepo, leveling, locks,
		achievementEvaluator, badgeManager)
	streakTracker := service.NewStreakTracker(db, userRepo, streakRepo, xpService, locks, rdb, cfg.Gamification)
	eventIntake := service.NewEventIntake(xpService, streakTracker, cfg.Gamification)
	leaderboardService := service.NewLeaderboardService(userRepo, ledgerRepo, leveling, rdb)

	// Handlers
	eventHandler := handler.NewEventHandler(eventIntake, leveling)
	xpHandler := handler.NewXPHandler(xpService)
	streakHandler := handler.NewStreakHandler(streakTracker)
	achievementHandler := handler.NewAchievementHandler(achievementEvaluator)
	badgeHandler := handler.NewBadgeHandler(badgeManager)
	leaderboardHandler := handler.NewLeaderboardHandler(leaderboardService)

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.AllowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	authMiddleware := middleware.NewAuthMiddleware(userRepo, cfg.JWTSecret)

	api := router.Group("/api")

	// Public routes
	api.GET("/levels", eventHandler.GetReferenceData)
	api.GET("/leaderboard", leaderboardHandler.GetLeaderboard)

	// Protected routes
	api.Use(authMiddleware.RequireAuth())
	{
		api.POST("/events", eventHandler.ReportEvent)

		api.GET("/xp/summary", xpHandler.GetSummary)
		api.GET("/xp/history", xpHandler.GetHistory)

		api.POST("/streak/check-in", streakHandler.CheckIn)
		api.POST("/streak/daily-bonus", streakHandler.ClaimDailyBonus)
		api.GET("/streak", streakHandler.GetSummary)

		api.GET("/achievements", achievementHandler.List)

		api.GET("/badges", badgeHandler.List)
		api.PUT("/badges/:id/display", badgeHandler.SetDisplayed)

		admin := api.Group("/xp")
		admin.Use(authMiddleware.RequireAdmin())
		{
			admin.POST("/adjust", xpHandler.AdjustXP)
		}
	}

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.XPTransaction{},
		&model.StreakHistory{},
		&model.Achievement{},
		&model.UserAchievement{},
		&model.Badge{},
		&model.UserBadge{},
		&model.UserCounter{},
	)
}

func seed(db *gorm.DB, cfg *config.Config) error {
	if err := bootstrap.SeedRoles(db); err != nil {
		return err
	}
	if cfg.AppEnv == "development" {
		if err := bootstrap.SeedAdminUser(db); err != nil {
			return err
		}
	}
	if err := bootstrap.SeedAchievements(db); err != nil {
		return err
	}
	return bootstrap.SeedBadges(db)
}
