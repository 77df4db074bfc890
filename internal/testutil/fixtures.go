package testutil

import (
	"testing"

	"github.com/JohnMarkCapones/Aralify-sub003/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func SeedUser(tb testing.TB, db *gorm.DB, username string) *model.User {
	tb.Helper()

	user := &model.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Level:        1,
	}
	if err := db.Create(user).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return user
}

func SeedAchievement(tb testing.TB, db *gorm.DB, slug string, xpReward int, criteria model.Criteria, secret bool) *model.Achievement {
	tb.Helper()

	def := &model.Achievement{
		Slug:     slug,
		Name:     slug,
		Category: "test",
		XPReward: xpReward,
		Criteria: criteria,
		IsSecret: secret,
	}
	if err := db.Create(def).Error; err != nil {
		tb.Fatalf("seed achievement: %v", err)
	}
	return def
}

func SeedBadge(tb testing.TB, db *gorm.DB, slug string, rarity model.BadgeRarity, criteria model.Criteria) *model.Badge {
	tb.Helper()

	def := &model.Badge{
		Slug:     slug,
		Name:     slug,
		Rarity:   rarity,
		Criteria: criteria,
	}
	if err := db.Create(def).Error; err != nil {
		tb.Fatalf("seed badge: %v", err)
	}
	return def
}

func StrPtr(s string) *string {
	return &s
}
