package testutil

import (
	"testing"

	"github.com/JohnMarkCapones/Aralify-sub003/internal/repository"
	"github.com/JohnMarkCapones/Aralify-sub003/internal/service"
	"gorm.io/gorm"
)

// Engine wires the full gamification service graph against a test database,
// mirroring the wiring in cmd/server.
type Engine struct {
	DB           *gorm.DB
	Users        repository.UserRepository
	Ledger       repository.LedgerRepository
	Streaks      repository.StreakRepository
	Counters     repository.CounterRepository
	Leveling     *service.LevelingService
	XP           *service.XPService
	Tracker      *service.StreakTracker
	Achievements *service.AchievementEvaluator
	Badges       *service.BadgeManager
	Intake       *service.EventIntake
	Leaderboard  *service.LeaderboardService
}

func NewEngine(tb testing.TB, db *gorm.DB) *Engine {
	tb.Helper()

	cfg := Gamification()

	users := repository.NewUserRepository(db)
	ledger := repository.NewLedgerRepository(db)
	streaks := repository.NewStreakRepository(db)
	achievements := repository.NewAchievementRepository(db)
	badges := repository.NewBadgeRepository(db)
	counters := repository.NewCounterRepository(db)

	leveling := service.NewLevelingService()
	locks := service.NewUserLocks()

	achievementEvaluator := service.NewAchievementEvaluator(users, achievements, counters)
	badgeManager := service.NewBadgeManager(db, users, badges, counters, locks, cfg)

	xp := service.NewXPService(db, users, ledger, counters, streaks, leveling, locks,
		achievementEvaluator, badgeManager)
	tracker := service.NewStreakTracker(db, users, streaks, xp, locks, nil, cfg)

	return &Engine{
		DB:           db,
		Users:        users,
		Ledger:       ledger,
		Streaks:      streaks,
		Counters:     counters,
		Leveling:     leveling,
		XP:           xp,
		Tracker:      tracker,
		Achievements: achievementEvaluator,
		Badges:       badgeManager,
		Intake:       service.NewEventIntake(xp, tracker, cfg),
		Leaderboard:  service.NewLeaderboardService(users, ledger, leveling, nil),
	}
}
