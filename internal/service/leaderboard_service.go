package service

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"time"

	"github.com/JohnMarkCapones/Aralify-sub003/internal/repository"
	"github.com/redis/go-redis/v9"
)

type LeaderboardEntry struct {
	Position  int     `json:"position"`
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	XPTotal   int     `json:"xp_total"`
	WeeklyXP  int     `json:"weekly_xp,omitempty"`
	Level     int     `json:"level"`
	RankTitle string  `json:"rank_title"`
}

const leaderboardCacheTTL = 60 * time.Second

// LeaderboardService ranks users by ledger total. The all-time board reads
// the denormalized xp_total column; the weekly board sums the ledger's last
// seven days per user. Results are cached in redis for a short TTL.
type LeaderboardService struct {
	users    repository.UserRepository
	ledger   repository.LedgerRepository
	leveling *LevelingService
	rdb      *redis.Client
}

func NewLeaderboardService(
	users repository.UserRepository,
	ledger repository.LedgerRepository,
	leveling *LevelingService,
	rdb *redis.Client,
) *LeaderboardService {
	return &LeaderboardService{users: users, ledger: ledger, leveling: leveling, rdb: rdb}
}

func (s *LeaderboardService) GetLeaderboard(ctx context.Context, limit int, timeframe string) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	if timeframe != "weekly" {
		timeframe = "all_time"
	}

	cacheKey := "leaderboard:" + timeframe
	if cached := s.fromCache(ctx, cacheKey, limit); cached != nil {
		return cached, nil
	}

	users, err := s.users.TopByXP(ctx, limit)
	if err != nil {
		return nil, err
	}

	weekAgo := time.Now().UTC().AddDate(0, 0, -7)
	entries := make([]LeaderboardEntry, 0, len(users))
	for _, u := range users {
		entry := LeaderboardEntry{
			Username:  u.Username,
			AvatarURL: u.AvatarURL,
			XPTotal:   u.XPTotal,
			Level:     u.Level,
			RankTitle: s.leveling.RankForLevel(u.Level),
		}
		if timeframe == "weekly" {
			weekly, err := s.ledger.SumByUserSince(ctx, u.ID, weekAgo)
			if err != nil {
				return nil, err
			}
			entry.WeeklyXP = weekly
		}
		entries = append(entries, entry)
	}

	if timeframe == "weekly" {
		// Re-rank by the weekly sums; the candidate set is still the
		// all-time top, which is what the product shows.
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].WeeklyXP > entries[j].WeeklyXP
		})
	}

	for i := range entries {
		entries[i].Position = i + 1
	}

	s.toCache(ctx, cacheKey, entries)
	return entries, nil
}

func (s *LeaderboardService) fromCache(ctx context.Context, key string, limit int) []LeaderboardEntry {
	if s.rdb == nil {
		return nil
	}
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	var entries []LeaderboardEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}
	if len(entries) < limit {
		return nil
	}
	return entries[:limit]
}

func (s *LeaderboardService) toCache(ctx context.Context, key string, entries []LeaderboardEntry) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, raw, leaderboardCacheTTL).Err(); err != nil {
		log.Printf("failed to cache leaderboard: %v", err)
	}
}
