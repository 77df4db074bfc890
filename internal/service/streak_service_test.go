package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/JohnMarkCapones/Aralify-sub003/internal/model"
	"github.com/JohnMarkCapones/Aralify-sub003/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time {
	return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func TestRecordActivityFirstDay(t *testing.T) {
	e := testutil.NewEngine(t, testutil.DB(t))
	user := testutil.SeedUser(t, e.DB, "alice")
	ctx := context.Background()

	res, err := e.Tracker.RecordActivity(ctx, user.ID, day(0))
	require.NoError(t, err)

	assert.Equal(t, 1, res.StreakCurrent)
	assert.Equal(t, 1, res.StreakLongest)
	assert.False(t, res.StreakReset)
	assert.False(t, res.FreezeUsed)
}

func TestRecordActivityConsecutiveDays(t *testing.T) {
	e := testutil.NewEngine(t, testutil.DB(t))
	user := testutil.SeedUser(t, e.DB, "bob")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := e.Tracker.RecordActivity(ctx, user.ID, day(i))
		require.NoError(t, err)
	}

	stored, err := e.Users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.StreakCurrent)
	assert.Equal(t, 2, stored.StreakLongest)
}

func TestRecordActivitySameDayIsNoOp(t *testing.T) {
	e := testutil.NewEngine(t, testutil.DB(t))
	user := testutil.SeedUser(t, e.DB, "carol")
	ctx := context.Background()

	_, err := e.Tracker.RecordActivity(ctx, user.ID, day(0))
	require.NoError(t, err)

	res, err := e.Tracker.RecordActivity(ctx, user.ID, day(0).Add(5*time.Hour))
	require.NoError(t, err)
	assert.True(t, res.AlreadyRecorded)
	assert.Equal(t, 1, res.StreakCurrent)

	// The second visit still counts as activity on the history row.
	entry, err := e.Streaks.FindByDate(ctx, user.ID, day(0))
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, 2, entry.ActivityCount)
}

func TestRecordActivityFreezeCoversOneMissedDay(t *testing.T) {
	e := testutil.NewEngine(t, testutil.DB(t))
	user := testutil.SeedUser(t, e.DB, "dave")
	ctx := context.Background()

	user.FreezesAvailable = 1
	require.NoError(t, e.Users.Save(ctx, user))

	_, err := e.Tracker.RecordActivity(ctx, user.ID, day(0))
	require.NoError(t, err)
	_, err = e.Tracker.RecordActivity(ctx, user.ID, day(1))
	require.NoError(t, err)

	// Day 2 missed; day 3 lands with a freeze in inventory.
	res, err := e.Tracker.RecordActivity(ctx, user.ID, day(3))
	require.NoError(t, err)

	assert.True(t, res.FreezeUsed)
	assert.False(t, res.StreakReset)
	assert.Equal(t, 3, res.StreakCurrent)
	// The freeze is spent, then the 3-day milestone replenishes one.
	assert.Equal(t, 3, res.MilestoneReached)
	assert.Equal(t, 1, res.FreezesAvailable)

	// The bridged day gets a zero-activity history row.
	bridged, err := e.Streaks.FindByDate(ctx, user.ID, day(2))
	require.NoError(t, err)
	require.NotNil(t, bridged)
	assert.Equal(t, 0, bridged.ActivityCount)
}

func TestRecordActivityResetWithoutFreeze(t *testing.T) {
	e := testutil.NewEngine(t, testutil.DB(t))
	user := testutil.SeedUser(t, e.DB, "eve")
	ctx := context.Background()

	_, err := e.Tracker.RecordActivity(ctx, user.ID, day(0))
	require.NoError(t, err)
	_, err = e.Tracker.RecordActivity(ctx, user.ID, day(1))
	require.NoError(t, err)

	res, err := e.Tracker.RecordActivity(ctx, user.ID, day(3))
	require.NoError(t, err)

	assert.True(t, res.StreakReset)
	assert.Equal(t, 1, res.StreakCurrent)
	assert.Equal(t, 2, res.StreakLongest, "longest survives the reset")
}

func TestRecordActivityFreezeDoesNotCoverTwoMissedDays(t *testing.T) {
	e := testutil.NewEngine(t, testutil.DB(t))
	user := testutil.SeedUser(t, e.DB, "frank")
	ctx := context.Background()

	user.FreezesAvailable = 3
	require.NoError(t, e.Users.Save(ctx, user))

	_, err := e.Tracker.RecordActivity(ctx, user.ID, day(0))
	require.NoError(t, err)

	res, err := e.Tracker.RecordActivity(ctx, user.ID, day(3))
	require.NoError(t, err)

	assert.True(t, res.StreakReset)
	assert.False(t, res.FreezeUsed)
	assert.Equal(t, 3, res.FreezesAvailable, "freezes are not spent on a reset")
}

func TestRecordActivityMilestoneBonus(t *testing.T) {
	e := testutil.NewEngine(t, testutil.DB(t))
	user := testutil.SeedUser(t, e.DB, "grace")
	ctx := context.Background()

	var milestoneXP int
	for i := 0; i < 3; i++ {
		res, err := e.Tracker.RecordActivity(ctx, user.ID, day(i))
		require.NoError(t, err)
		if i < 2 {
			assert.Zero(t, res.MilestoneReached)
		} else {
			assert.Equal(t, 3, res.MilestoneReached)
			assert.Equal(t, 1, res.FreezesAvailable, "milestone grants a freeze")
			milestoneXP = res.MilestoneXP
		}
	}
	assert.Equal(t, 25, milestoneXP)

	stored, err := e.Users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 25, stored.XPTotal, "milestone bonus lands on the ledger total")

	sum, err := e.Ledger.SumByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.XPTotal, sum)
}

func TestRecordActivityMilestoneBonusGrantedOnce(t *testing.T) {
	e := testutil.NewEngine(t, testutil.DB(t))
	user := testutil.SeedUser(t, e.DB, "heidi")
	ctx := context.Background()

	// Reach the 3-day milestone, break the streak, then reach it again.
	for i := 0; i < 3; i++ {
		_, err := e.Tracker.RecordActivity(ctx, user.ID, day(i))
		require.NoError(t, err)
	}
	_, err := e.Tracker.RecordActivity(ctx, user.ID, day(10))
	require.NoError(t, err)

	for i := 11; i <= 12; i++ {
		res, err := e.Tracker.RecordActivity(ctx, user.ID, day(i))
		require.NoError(t, err)
		assert.Zero(t, res.MilestoneReached, "the 3-day bonus is once per lifetime")
	}

	count, err := e.Ledger.CountBySource(ctx, user.ID, model.SourceStreakBonus)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestRecordActivityFreezeGrantCapped(t *testing.T) {
	e := testutil.NewEngine(t, testutil.DB(t))
	user := testutil.SeedUser(t, e.DB, "ivan")
	ctx := context.Background()

	user.FreezesAvailable = 3
	require.NoError(t, e.Users.Save(ctx, user))

	for i := 0; i < 3; i++ {
		_, err := e.Tracker.RecordActivity(ctx, user.ID, day(i))
		require.NoError(t, err)
	}

	stored, err := e.Users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.FreezesAvailable)
}

func TestRecordActivityStaleDateIsNoOp(t *testing.T) {
	e := testutil.NewEngine(t, testutil.DB(t))
	user := testutil.SeedUser(t, e.DB, "judy")
	ctx := context.Background()

	_, err := e.Tracker.RecordActivity(ctx, user.ID, day(5))
	require.NoError(t, err)

	res, err := e.Tracker.RecordActivity(ctx, user.ID, day(2))
	require.NoError(t, err)
	assert.True(t, res.AlreadyRecorded)
	assert.Equal(t, 1, res.StreakCurrent)
}

func TestClaimDailyBonusOncePerDay(t *testing.T) {
	e := testutil.NewEngine(t, testutil.DB(t))
	user := testutil.SeedUser(t, e.DB, "karl")
	ctx := context.Background()

	first, err := e.Tracker.ClaimDailyBonus(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, first.AlreadyClaimed)
	assert.Equal(t, 10, first.Transaction.Amount)
	assert.Equal(t, 10, first.XPTotal)

	second, err := e.Tracker.ClaimDailyBonus(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, second.AlreadyClaimed)
	assert.Equal(t, 10, second.XPTotal)

	count, err := e.Ledger.CountBySource(ctx, user.ID, model.SourceDailyBonus)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestClaimDailyBonusConcurrentSingleGrant(t *testing.T) {
	e := testutil.NewEngine(t, testutil.DB(t))
	user := testutil.SeedUser(t, e.DB, "laura")
	ctx := context.Background()

	const workers = 6
	var wg sync.WaitGroup
	claimed := make([]bool, workers)
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := e.Tracker.ClaimDailyBonus(ctx, user.ID)
			if err != nil {
				errs[i] = err
				return
			}
			claimed[i] = !res.AlreadyClaimed
		}(i)
	}
	wg.Wait()

	grants := 0
	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		if claimed[i] {
			grants++
		}
	}
	assert.Equal(t, 1, grants)

	stored, err := e.Users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.XPTotal)
}

func TestSummaryAtRiskAndNextMilestone(t *testing.T) {
	e := testutil.NewEngine(t, testutil.DB(t))
	user := testutil.SeedUser(t, e.DB, "mallory")
	ctx := context.Background()

	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	_, err := e.Tracker.RecordActivity(ctx, user.ID, yesterday)
	require.NoError(t, err)

	summary, err := e.Tracker.Summary(ctx, user.ID)
	require.NoError(t, err)

	assert.True(t, summary.AtRisk, "one day since activity, no freeze in inventory")
	assert.Equal(t, 1, summary.StreakCurrent)
	assert.Equal(t, 3, summary.NextMilestone)
	assert.True(t, summary.DailyBonusClaimable)
	assert.NotEmpty(t, summary.RecentHistory)
}

func TestSummaryNotAtRiskWithFreeze(t *testing.T) {
	e := testutil.NewEngine(t, testutil.DB(t))
	user := testutil.SeedUser(t, e.DB, "nina")
	ctx := context.Background()

	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	_, err := e.Tracker.RecordActivity(ctx, user.ID, yesterday)
	require.NoError(t, err)

	stored, err := e.Users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	stored.FreezesAvailable = 1
	require.NoError(t, e.Users.Save(ctx, stored))

	summary, err := e.Tracker.Summary(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, summary.AtRisk)
}
