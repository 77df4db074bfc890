package service_test

import (
	"context"
	"testing"

	"github.com/JohnMarkCapones/Aralify-sub003/internal/model"
	"github.com/JohnMarkCapones/Aralify-sub003/internal/service"
	"github.com/JohnMarkCapones/Aralify-sub003/internal/testutil"
	"github.com/JohnMarkCapones/Aralify-sub003/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleLessonCompleted(t *testing.T) {
	e := testutil.NewEngine(t, testutil.DB(t))
	user := testutil.SeedUser(t, e.DB, "alice")
	ctx := context.Background()

	res, err := e.Intake.Handle(ctx, user.ID, service.DomainEvent{
		Type:     service.EventLessonCompleted,
		EntityID: "go-basics-1",
	})
	require.NoError(t, err)

	require.NotNil(t, res.Award)
	assert.Equal(t, service.BaseXPLesson, res.Award.Transaction.Amount)
	assert.Equal(t, model.SourceLessonComplete, res.Award.Transaction.SourceType)

	require.NotNil(t, res.Streak, "a lesson counts as daily activity")
	assert.Equal(t, 1, res.Streak.StreakCurrent)

	count, err := e.Counters.Get(ctx, user.ID, string(model.CriteriaLessonsCompleted))
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestHandleAppliesDifficultyMultiplier(t *testing.T) {
	e := testutil.NewEngine(t, testutil.DB(t))
	user := testutil.SeedUser(t, e.DB, "bob")
	ctx := context.Background()

	res, err := e.Intake.Handle(ctx, user.ID, service.DomainEvent{
		Type:       service.EventChallengeCompleted,
		EntityID:   "two-sum",
		Difficulty: "hard",
	})
	require.NoError(t, err)
	assert.Equal(t, 120, res.Award.Transaction.Amount, "80 base at 1.5x")
}

func TestHandleRejectsUnknownDifficulty(t *testing.T) {
	e := testutil.NewEngine(t, testutil.DB(t))
	user := testutil.SeedUser(t, e.DB, "carol")

	_, err := e.Intake.Handle(context.Background(), user.ID, service.DomainEvent{
		Type:       service.EventLessonCompleted,
		EntityID:   "go-basics-1",
		Difficulty: "nightmare",
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestHandlePerfectQuizBumpsCounter(t *testing.T) {
	e := testutil.NewEngine(t, testutil.DB(t))
	user := testutil.SeedUser(t, e.DB, "dave")
	ctx := context.Background()

	_, err := e.Intake.Handle(ctx, user.ID, service.DomainEvent{
		Type:     service.EventQuizCompleted,
		EntityID: "quiz-1",
		Perfect:  true,
	})
	require.NoError(t, err)

	_, err = e.Intake.Handle(ctx, user.ID, service.DomainEvent{
		Type:     service.EventQuizCompleted,
		EntityID: "quiz-2",
	})
	require.NoError(t, err)

	perfect, err := e.Counters.Get(ctx, user.ID, string(model.CriteriaPerfectScores))
	require.NoError(t, err)
	assert.Equal(t, 1, perfect)

	quizzes, err := e.Counters.Get(ctx, user.ID, string(model.CriteriaQuizzesCompleted))
	require.NoError(t, err)
	assert.Equal(t, 2, quizzes)
}

func TestHandleFastSolveCounter(t *testing.T) {
	e := testutil.NewEngine(t, testutil.DB(t))
	user := testutil.SeedUser(t, e.DB, "eve")
	ctx := context.Background()

	_, err := e.Intake.Handle(ctx, user.ID, service.DomainEvent{
		Type:            service.EventChallengeCompleted,
		EntityID:        "fizzbuzz",
		DurationSeconds: 90,
	})
	require.NoError(t, err)

	_, err = e.Intake.Handle(ctx, user.ID, service.DomainEvent{
		Type:            service.EventChallengeCompleted,
		EntityID:        "n-queens",
		DurationSeconds: 1800,
	})
	require.NoError(t, err)

	fast, err := e.Counters.Get(ctx, user.ID, string(model.CriteriaFastSolves))
	require.NoError(t, err)
	assert.Equal(t, 1, fast)
}

func TestHandleCourseCompletedIdempotent(t *testing.T) {
	e := testutil.NewEngine(t, testutil.DB(t))
	user := testutil.SeedUser(t, e.DB, "frank")
	ctx := context.Background()

	event := service.DomainEvent{
		Type:     service.EventCourseCompleted,
		EntityID: "golang-101",
	}

	first, err := e.Intake.Handle(ctx, user.ID, event)
	require.NoError(t, err)
	assert.Equal(t, service.BaseXPCourse, first.Award.Transaction.Amount)
	assert.False(t, first.Award.AlreadyAwarded)

	second, err := e.Intake.Handle(ctx, user.ID, event)
	require.NoError(t, err)
	assert.True(t, second.Award.AlreadyAwarded)

	courses, err := e.Counters.Get(ctx, user.ID, string(model.CriteriaCoursesCompleted))
	require.NoError(t, err)
	assert.Equal(t, 1, courses, "the replay must not re-count the course")
}

func TestHandleOnboardingDoesNotTouchStreak(t *testing.T) {
	e := testutil.NewEngine(t, testutil.DB(t))
	user := testutil.SeedUser(t, e.DB, "grace")
	ctx := context.Background()

	res, err := e.Intake.Handle(ctx, user.ID, service.DomainEvent{
		Type: service.EventOnboardingCompleted,
	})
	require.NoError(t, err)

	assert.Equal(t, service.BaseXPOnboarding, res.Award.Transaction.Amount)
	assert.Nil(t, res.Streak)

	stored, err := e.Users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.StreakCurrent)
}

func TestHandleDailyCheckInIsActivityOnly(t *testing.T) {
	e := testutil.NewEngine(t, testutil.DB(t))
	user := testutil.SeedUser(t, e.DB, "heidi")
	ctx := context.Background()

	res, err := e.Intake.Handle(ctx, user.ID, service.DomainEvent{
		Type: service.EventDailyCheckIn,
	})
	require.NoError(t, err)

	assert.Nil(t, res.Award)
	require.NotNil(t, res.Streak)
	assert.Equal(t, 1, res.Streak.StreakCurrent)

	sum, err := e.Ledger.SumByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, sum)
}

func TestHandleCustomEventFeedsCriteria(t *testing.T) {
	e := testutil.NewEngine(t, testutil.DB(t))
	user := testutil.SeedUser(t, e.DB, "ivan")
	ctx := context.Background()

	res, err := e.Intake.Handle(ctx, user.ID, service.DomainEvent{
		Type:      service.EventCustom,
		EventSlug: "konami-code",
		EntityID:  "settings-page",
	})
	require.NoError(t, err)
	assert.Zero(t, res.Award.Transaction.Amount)

	count, err := e.Counters.Get(ctx, user.ID, service.EventCounterKind("konami-code"))
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestHandleRejectsMalformedEvents(t *testing.T) {
	e := testutil.NewEngine(t, testutil.DB(t))
	user := testutil.SeedUser(t, e.DB, "judy")
	ctx := context.Background()

	cases := []service.DomainEvent{
		{Type: "made-up-type"},
		{Type: service.EventLessonCompleted},
		{Type: service.EventCustom},
	}
	for _, event := range cases {
		_, err := e.Intake.Handle(ctx, user.ID, event)
		assert.ErrorIs(t, err, apperror.ErrInvalidInput, "event %q", event.Type)
	}
}

func TestReferenceDataExposesTuning(t *testing.T) {
	e := testutil.NewEngine(t, testutil.DB(t))

	ref := e.Intake.ReferenceData(e.Leveling)
	assert.Equal(t, 50, ref.MaxLevel)
	assert.Len(t, ref.LevelThresholds, 50)
	assert.Equal(t, []int{3, 7, 14, 30, 60, 100, 365}, ref.Milestones)
	assert.Equal(t, 10, ref.DailyBonusXP)
	assert.Equal(t, 3, ref.MaxFreezes)
	assert.Contains(t, ref.Multipliers, "expert")
	assert.NotEmpty(t, ref.XPSources)
	assert.NotEmpty(t, ref.RankTitles)
}
