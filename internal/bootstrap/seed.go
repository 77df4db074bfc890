package bootstrap

import (
	"log"

	"github.com/JohnMarkCapones/Aralify-sub003/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func SeedRoles(db *gorm.DB) error {
	defaultRoles := []model.Role{
		{Name: "admin", Description: "Platform administrator"},
		{Name: "learner", Description: "Regular learner"},
	}

	for _, role := range defaultRoles {
		var count int64
		if err := db.Model(&model.Role{}).
			Where("name = ?", role.Name).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := db.Create(&role).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

// SeedAdminUser creates the development admin account; never runs in prod.
func SeedAdminUser(db *gorm.DB) error {
	var adminRole model.Role
	if err := db.Where("name = ?", "admin").First(&adminRole).Error; err != nil {
		return err
	}

	var count int64
	if err := db.Model(&model.User{}).
		Where("email = ?", "admin@aralify.dev").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := model.User{
		Username:     "admin",
		Email:        "admin@aralify.dev",
		PasswordHash: string(hashed),
		RoleID:       &adminRole.ID,
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Println("Admin user seeded (admin@aralify.dev / admin123)")
	return nil
}

// SeedAchievements installs the achievement catalog. Slugs are stable keys;
// re-running the seed never duplicates or mutates existing definitions.
func SeedAchievements(db *gorm.DB) error {
	defs := []model.Achievement{
		{Slug: "first-steps", Name: "First Steps", Description: "Complete your first lesson", Icon: "footprints", Category: "learning", XPReward: 50,
			Criteria: model.Criteria{Kind: model.CriteriaLessonsCompleted, Target: 1}},
		{Slug: "dedicated-learner", Name: "Dedicated Learner", Description: "Complete 10 lessons", Icon: "book-open", Category: "learning", XPReward: 500,
			Criteria: model.Criteria{Kind: model.CriteriaLessonsCompleted, Target: 10}},
		{Slug: "lesson-marathon", Name: "Lesson Marathon", Description: "Complete 100 lessons", Icon: "library", Category: "learning", XPReward: 2000,
			Criteria: model.Criteria{Kind: model.CriteriaLessonsCompleted, Target: 100}},
		{Slug: "perfectionist", Name: "Perfectionist", Description: "Score 100% on 5 quizzes", Icon: "target", Category: "mastery", XPReward: 300,
			Criteria: model.Criteria{Kind: model.CriteriaPerfectScores, Target: 5}},
		{Slug: "speed-demon", Name: "Speed Demon", Description: "Solve 10 challenges under the time limit", Icon: "zap", Category: "mastery", XPReward: 400,
			Criteria: model.Criteria{Kind: model.CriteriaFastSolves, Target: 10}},
		{Slug: "course-graduate", Name: "Graduate", Description: "Complete your first course", Icon: "graduation-cap", Category: "learning", XPReward: 1000,
			Criteria: model.Criteria{Kind: model.CriteriaCoursesCompleted, Target: 1}},
		{Slug: "week-streak", Name: "Week Warrior", Description: "Reach a 7-day streak", Icon: "flame", Category: "consistency", XPReward: 200,
			Criteria: model.Criteria{Kind: model.CriteriaStreakDays, Target: 7}},
		{Slug: "month-streak", Name: "Unstoppable", Description: "Reach a 30-day streak", Icon: "fire", Category: "consistency", XPReward: 1000,
			Criteria: model.Criteria{Kind: model.CriteriaStreakDays, Target: 30}},
		{Slug: "xp-collector", Name: "XP Collector", Description: "Earn 10,000 total XP", Icon: "gem", Category: "progression", XPReward: 500,
			Criteria: model.Criteria{Kind: model.CriteriaTotalXP, Target: 10000}},
		{Slug: "level-ten", Name: "Double Digits", Description: "Reach level 10", Icon: "trending-up", Category: "progression", XPReward: 300,
			Criteria: model.Criteria{Kind: model.CriteriaLevelReached, Target: 10}},
		{Slug: "night-owl", Name: "Night Owl", Description: "???", Icon: "moon", Category: "secret", XPReward: 100, IsSecret: true,
			Criteria: model.Criteria{Kind: model.CriteriaEventCount, Target: 1, Event: "midnight-session"}},
		{Slug: "konami", Name: "Up Up Down Down", Description: "???", Icon: "gamepad", Category: "secret", XPReward: 250, IsSecret: true,
			Criteria: model.Criteria{Kind: model.CriteriaEventCount, Target: 1, Event: "konami-code"}},
	}

	for _, def := range defs {
		var count int64
		if err := db.Model(&model.Achievement{}).
			Where("slug = ?", def.Slug).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := db.Create(&def).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

// SeedBadges installs the badge catalog.
func SeedBadges(db *gorm.DB) error {
	defs := []model.Badge{
		{Slug: "newcomer", Name: "Newcomer", Description: "Earn your first XP", Icon: "sprout", Rarity: model.RarityCommon,
			Criteria: model.Criteria{Kind: model.CriteriaTotalXP, Target: 1}},
		{Slug: "rising-star", Name: "Rising Star", Description: "Reach level 5", Icon: "star", Rarity: model.RarityCommon,
			Criteria: model.Criteria{Kind: model.CriteriaLevelReached, Target: 5}},
		{Slug: "committed", Name: "Committed", Description: "Reach a 14-day streak", Icon: "calendar-check", Rarity: model.RarityRare,
			Criteria: model.Criteria{Kind: model.CriteriaStreakDays, Target: 14}},
		{Slug: "scholar", Name: "Scholar", Description: "Complete 3 courses", Icon: "scroll", Rarity: model.RarityRare,
			Criteria: model.Criteria{Kind: model.CriteriaCoursesCompleted, Target: 3}},
		{Slug: "grandmaster", Name: "Grandmaster", Description: "Reach level 30", Icon: "crown", Rarity: model.RarityEpic,
			Criteria: model.Criteria{Kind: model.CriteriaLevelReached, Target: 30}},
		{Slug: "centurion", Name: "Centurion", Description: "Reach a 100-day streak", Icon: "shield", Rarity: model.RarityLegendary,
			Criteria: model.Criteria{Kind: model.CriteriaStreakDays, Target: 100}},
	}

	for _, def := range defs {
		var count int64
		if err := db.Model(&model.Badge{}).
			Where("slug = ?", def.Slug).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := db.Create(&def).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
