package ledger

import (
	"testing"
	"time"

	"github.com/kiyohan/StarHack/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(offset int) time.Time {
	base := time.Date(2025, time.March, 10, 14, 30, 0, 0, time.UTC)
	return base.AddDate(0, 0, offset)
}

func TestDayTruncation(t *testing.T) {
	lateNight := time.Date(2025, time.March, 10, 23, 59, 59, 0, time.UTC)
	earlyMorning := time.Date(2025, time.March, 11, 0, 0, 1, 0, time.UTC)

	assert.True(t, Day(lateNight).Before(Day(earlyMorning)), "23:59 and 00:00 must fall on different days")
	assert.True(t, Day(lateNight).Equal(Day(lateNight.Add(-23*time.Hour))), "same calendar day must truncate equal")
}

func TestFirstCompletionStartsStreak(t *testing.T) {
	u := &models.User{ID: 1}

	rec, err := ApplyCompletion(u, map[string]time.Time{}, "Meditation", 45, day(0))
	require.NoError(t, err)

	assert.Equal(t, 1, u.Streak)
	assert.Equal(t, 45, u.Points)
	require.NotNil(t, u.LastCompletionDate)
	assert.True(t, u.LastCompletionDate.Equal(day(0)))
	assert.Equal(t, "Meditation", rec.TaskType)
	assert.Equal(t, 45, rec.PointsEarned)
}

func TestConsecutiveDaysGrowStreak(t *testing.T) {
	u := &models.User{ID: 1}
	stamps := map[string]time.Time{}

	for i := 0; i < 7; i++ {
		_, err := ApplyCompletion(u, stamps, "Jogging", 45, day(i))
		require.NoError(t, err)
		stamps["Jogging"] = day(i)
	}

	assert.Equal(t, 7, u.Streak)
	assert.Equal(t, 7*45, u.Points)
}

func TestGapResetsStreak(t *testing.T) {
	last := day(0)
	u := &models.User{ID: 1, Streak: 9, Points: 400, LastCompletionDate: &last}

	// Two missed days, then a completion.
	_, err := ApplyCompletion(u, map[string]time.Time{"Yoga": day(0)}, "Yoga", 50, day(3))
	require.NoError(t, err)

	assert.Equal(t, 1, u.Streak)
	assert.Equal(t, 450, u.Points)
}

func TestSameTaskTwiceSameDayRejected(t *testing.T) {
	u := &models.User{ID: 1}
	stamps := map[string]time.Time{}

	_, err := ApplyCompletion(u, stamps, "Meditation", 45, day(0))
	require.NoError(t, err)
	stamps["Meditation"] = day(0)

	before := *u

	_, err = ApplyCompletion(u, stamps, "Meditation", 45, day(0).Add(2*time.Hour))
	require.ErrorIs(t, err, ErrAlreadyCompletedToday)

	assert.Equal(t, before.Points, u.Points, "failed call must not change points")
	assert.Equal(t, before.Streak, u.Streak, "failed call must not change streak")
	assert.True(t, u.LastCompletionDate.Equal(*before.LastCompletionDate))
}

func TestTwoDifferentTasksSameDay(t *testing.T) {
	yesterday := day(-1)
	u := &models.User{ID: 1, Streak: 5, Points: 100, LastCompletionDate: &yesterday}
	stamps := map[string]time.Time{"Jogging": yesterday}

	// First task of the day moves the streak.
	_, err := ApplyCompletion(u, stamps, "Jogging", 45, day(0))
	require.NoError(t, err)
	assert.Equal(t, 6, u.Streak)
	assert.Equal(t, 145, u.Points)
	stamps["Jogging"] = day(0)

	// Second, different task the same day earns points but not streak.
	_, err = ApplyCompletion(u, stamps, "Meditation", 45, day(0).Add(4*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 6, u.Streak, "streak may only move once per day")
	assert.Equal(t, 190, u.Points)
}

func TestCompletionNextDayAfterSameTask(t *testing.T) {
	// The per-task cap is per calendar day; the same task completes fine
	// the next morning.
	u := &models.User{ID: 1}
	stamps := map[string]time.Time{}

	_, err := ApplyCompletion(u, stamps, "Push-ups", 55, day(0))
	require.NoError(t, err)
	stamps["Push-ups"] = day(0)

	_, err = ApplyCompletion(u, stamps, "Push-ups", 55, day(1))
	require.NoError(t, err)
	assert.Equal(t, 2, u.Streak)
	assert.Equal(t, 110, u.Points)
}

func TestClaimRewardInsufficientPoints(t *testing.T) {
	u := &models.User{ID: 1, Points: 200}
	item := models.RewardItem{Name: "Spotify Premium (1 Month)", Cost: 400}

	_, err := ApplyClaim(u, item, day(0))
	require.ErrorIs(t, err, ErrInsufficientPoints)
	assert.Equal(t, 200, u.Points, "rejected claim must not touch points")
}

func TestClaimRewardExactBalance(t *testing.T) {
	u := &models.User{ID: 1, Points: 300}
	item := models.RewardItem{Name: "Swiggy One Lite Pass", Description: "Free deliveries", Cost: 300}

	claimed, err := ApplyClaim(u, item, day(0))
	require.NoError(t, err)

	assert.Equal(t, 0, u.Points)
	assert.Equal(t, "Swiggy One Lite Pass", claimed.Name)
	assert.False(t, claimed.Redeemed)
	assert.True(t, claimed.DateEarned.Equal(day(0)))
}

func TestClaimSameRewardTwice(t *testing.T) {
	// Claims are not deduplicated: holding a reward does not block claiming
	// the same catalog item again.
	u := &models.User{ID: 1, Points: 600}
	item := models.RewardItem{Name: "Zomato Gold Trial (1 Month)", Cost: 250}

	_, err := ApplyClaim(u, item, day(0))
	require.NoError(t, err)
	_, err = ApplyClaim(u, item, day(0))
	require.NoError(t, err)

	assert.Equal(t, 100, u.Points)
}

func TestRedeemReward(t *testing.T) {
	rewards := []models.UserReward{
		{ID: 10, Name: "Zomato Gold Trial (1 Month)"},
		{ID: 11, Name: "Spotify Premium (1 Month)"},
	}

	redeemed, err := ApplyRedeem(rewards, 11)
	require.NoError(t, err)
	assert.True(t, redeemed.Redeemed)
	assert.False(t, rewards[0].Redeemed, "other instances stay untouched")

	_, err = ApplyRedeem(rewards, 11)
	require.ErrorIs(t, err, ErrAlreadyRedeemed, "second redeem is an error, not a no-op")
}

func TestRedeemUnknownReward(t *testing.T) {
	_, err := ApplyRedeem([]models.UserReward{{ID: 10}}, 99)
	require.ErrorIs(t, err, ErrRewardNotFound)
}
