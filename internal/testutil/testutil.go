package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/JohnMarkCapones/Aralify-sub003/internal/config"
	"github.com/JohnMarkCapones/Aralify-sub003/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// DB opens a fresh in-memory sqlite database for one test and migrates the
// full schema. The single-connection pool keeps the shared-cache memory DB
// visible to every gorm session in the test.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(tb.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		tb.Fatalf("failed to open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := autoMigrateAll(db); err != nil {
		tb.Fatalf("failed to migrate test db: %v", err)
	}

	return db
}

func autoMigrateAll(db *gorm.DB) error {
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

// Gamification returns the default tuning used across tests.
func Gamification() config.GamificationConfig {
	return config.GamificationConfig{
		MaxFreezes:         3,
		MaxDisplayedBadges: 5,
		DailyBonusXP:       10,
		StreakMilestones:   []int{3, 7, 14, 30, 60, 100, 365},
		MilestoneBaseXP:    25,
		FastSolveSeconds:   120,
	}
}
