package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	DatabaseURL string
	RedisURL    string

	JWTSecret string

	Gamification GamificationConfig
}

// GamificationConfig collects the product-tuned knobs of the engine. The
// level curve itself lives in service.LevelThresholds; everything that
// operations teams actually retune between releases is surfaced here.
type GamificationConfig struct {
	MaxFreezes         int
	MaxDisplayedBadges int
	DailyBonusXP       int
	StreakMilestones   []int
	MilestoneBaseXP    int
	FastSolveSeconds   int
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		JWTSecret: getEnv("JWT_SECRET", "12345"),
	}

	var err error
	cfg.Gamification, err = loadGamification()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadGamification() (GamificationConfig, error) {
	gc := GamificationConfig{}

	var err error
	gc.MaxFreezes, err = getEnvInt("MAX_FREEZES", 3)
	if err != nil {
		return gc, err
	}
	gc.MaxDisplayedBadges, err = getEnvInt("MAX_DISPLAYED_BADGES", 5)
	if err != nil {
		return gc, err
	}
	gc.DailyBonusXP, err = getEnvInt("DAILY_BONUS_XP", 10)
	if err != nil {
		return gc, err
	}
	gc.MilestoneBaseXP, err = getEnvInt("STREAK_MILESTONE_XP", 25)
	if err != nil {
		return gc, err
	}
	gc.FastSolveSeconds, err = getEnvInt("FAST_SOLVE_SECONDS", 120)
	if err != nil {
		return gc, err
	}

	gc.StreakMilestones, err = getEnvIntList("STREAK_MILESTONES", []int{3, 7, 14, 30, 60, 100, 365})
	if err != nil {
		return gc, err
	}

	return gc, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvIntList(key string, fallback []int) ([]int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback, nil
	}

	parts := strings.Split(value, ",")
	list := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
		list = append(list, n)
	}
	return list, nil
}
