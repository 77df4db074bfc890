package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/JohnMarkCapones/Aralify-sub003/internal/model"
	"github.com/JohnMarkCapones/Aralify-sub003/internal/service"
	"github.com/JohnMarkCapones/Aralify-sub003/internal/testutil"
	"github.com/JohnMarkCapones/Aralify-sub003/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func awardLesson(t *testing.T, e *testutil.Engine, userID uuid.UUID, lessonID string) *service.AwardResult {
	t.Helper()
	res, err := e.XP.AwardXP(context.Background(), service.AwardInput{
		UserID:     userID,
		Amount:     50,
		SourceType: model.SourceLessonComplete,
		SourceID:   testutil.StrPtr(lessonID),
		Multiplier: 1,
	})
	require.NoError(t, err)
	return res
}

func TestCounterCriterionUnlocks(t *testing.T) {
	e := testutil.NewEngine(t, testutil.DB(t))
	user := testutil.SeedUser(t, e.DB, "alice")
	testutil.SeedAchievement(t, e.DB, "two-lessons", 20,
		model.Criteria{Kind: model.CriteriaLessonsCompleted, Target: 2}, false)

	first := awardLesson(t, e, user.ID, "lesson-1")
	assert.Empty(t, first.Unlocked)

	second := awardLesson(t, e, user.ID, "lesson-2")
	assert.Equal(t, []string{"two-lessons"}, second.Unlocked)
	assert.Equal(t, 120, second.XPTotal, "two lessons plus the unlock reward")
}

func TestStreakCriterionUsesLongestStreak(t *testing.T) {
	e := testutil.NewEngine(t, testutil.DB(t))
	user := testutil.SeedUser(t, e.DB, "bob")
	testutil.SeedAchievement(t, e.DB, "three-day-streak", 0,
		model.Criteria{Kind: model.CriteriaStreakDays, Target: 3}, false)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := e.Tracker.RecordActivity(ctx, user.ID, day(i))
		require.NoError(t, err)
	}

	list, err := e.Achievements.ListForUser(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 1, list.UnlockedCount)
	assert.Equal(t, "three-day-streak", list.Achievements[0].Slug)
	assert.True(t, list.Achievements[0].Unlocked)
}

func TestLevelCriterionUnlocks(t *testing.T) {
	e := testutil.NewEngine(t, testutil.DB(t))
	user := testutil.SeedUser(t, e.DB, "carol")
	testutil.SeedAchievement(t, e.DB, "level-2", 0,
		model.Criteria{Kind: model.CriteriaLevelReached, Target: 2}, false)
	ctx := context.Background()

	res, err := e.XP.Adjust(ctx, user.ID, 100, "seed")
	require.NoError(t, err)

	assert.Equal(t, 2, res.Level)
	assert.Contains(t, res.Unlocked, "level-2",
		"the level-up and its unlock land in the same unit of work")
}

func TestLevelCriterionSeesRewardLevelUp(t *testing.T) {
	e := testutil.NewEngine(t, testutil.DB(t))
	user := testutil.SeedUser(t, e.DB, "carla")
	// The base award stays below level 2; only the unlock reward crosses
	// the 100 XP boundary.
	testutil.SeedAchievement(t, e.DB, "xp-90", 20,
		model.Criteria{Kind: model.CriteriaTotalXP, Target: 90}, false)
	ctx := context.Background()

	res, err := e.XP.Adjust(ctx, user.ID, 90, "seed")
	require.NoError(t, err)

	assert.Contains(t, res.Unlocked, "xp-90")
	assert.Equal(t, 110, res.XPTotal)
	assert.Equal(t, 2, res.Level, "the reward's level-up is reflected immediately")
	assert.True(t, res.LeveledUp)
}

func TestEventCriterionUnlocks(t *testing.T) {
	e := testutil.NewEngine(t, testutil.DB(t))
	user := testutil.SeedUser(t, e.DB, "dave")
	testutil.SeedAchievement(t, e.DB, "night-owl", 0,
		model.Criteria{Kind: model.CriteriaEventCount, Target: 2, Event: "midnight-session"}, true)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		res, err := e.XP.AwardXP(ctx, service.AwardInput{
			UserID:        user.ID,
			Amount:        0,
			SourceType:    model.SourceEvent,
			SourceID:      testutil.StrPtr(fmt.Sprintf("midnight-session:%d", i)),
			Multiplier:    1,
			ExtraCounters: []string{service.EventCounterKind("midnight-session")},
		})
		require.NoError(t, err)
		if i == 0 {
			assert.Empty(t, res.Unlocked)
		} else {
			assert.Contains(t, res.Unlocked, "night-owl")
		}
	}
}

func TestSecretAchievementHiddenUntilUnlocked(t *testing.T) {
	e := testutil.NewEngine(t, testutil.DB(t))
	user := testutil.SeedUser(t, e.DB, "eve")
	testutil.SeedAchievement(t, e.DB, "visible", 0,
		model.Criteria{Kind: model.CriteriaLessonsCompleted, Target: 10}, false)
	testutil.SeedAchievement(t, e.DB, "hidden", 0,
		model.Criteria{Kind: model.CriteriaTotalXP, Target: 50}, true)
	ctx := context.Background()

	list, err := e.Achievements.ListForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, list.TotalVisible)
	assert.Equal(t, "visible", list.Achievements[0].Slug)

	awardLesson(t, e, user.ID, "lesson-1")

	list, err = e.Achievements.ListForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, list.TotalVisible)
	assert.Equal(t, 1, list.UnlockedCount)
}

func TestProgressPercentageCapped(t *testing.T) {
	e := testutil.NewEngine(t, testutil.DB(t))
	user := testutil.SeedUser(t, e.DB, "frank")
	testutil.SeedAchievement(t, e.DB, "far-away", 0,
		model.Criteria{Kind: model.CriteriaTotalXP, Target: 40}, false)
	ctx := context.Background()

	_, err := e.XP.Adjust(ctx, user.ID, 30, "seed")
	require.NoError(t, err)

	list, err := e.Achievements.ListForUser(ctx, user.ID)
	require.NoError(t, err)
	status := list.Achievements[0]
	assert.False(t, status.Unlocked)
	assert.Equal(t, 30, status.Current)
	assert.InDelta(t, 75.0, status.Percentage, 0.01)
	assert.Len(t, list.NearCompletion, 1)
}

func TestByCategorySummary(t *testing.T) {
	e := testutil.NewEngine(t, testutil.DB(t))
	user := testutil.SeedUser(t, e.DB, "grace")
	ctx := context.Background()

	a := testutil.SeedAchievement(t, e.DB, "cat-a-1", 0,
		model.Criteria{Kind: model.CriteriaTotalXP, Target: 10}, false)
	a.Category = "learning"
	require.NoError(t, e.DB.Save(a).Error)
	b := testutil.SeedAchievement(t, e.DB, "cat-a-2", 0,
		model.Criteria{Kind: model.CriteriaTotalXP, Target: 1000}, false)
	b.Category = "learning"
	require.NoError(t, e.DB.Save(b).Error)

	_, err := e.XP.Adjust(ctx, user.ID, 10, "seed")
	require.NoError(t, err)

	list, err := e.Achievements.ListForUser(ctx, user.ID)
	require.NoError(t, err)
	summary := list.ByCategory["learning"]
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.Unlocked)
}

func TestListForUnknownUser(t *testing.T) {
	e := testutil.NewEngine(t, testutil.DB(t))

	_, err := e.Achievements.ListForUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
