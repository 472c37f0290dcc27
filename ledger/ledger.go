package ledger

import (
	"time"

	"github.com/kiyohan/StarHack/models"
)

// Day truncates t to midnight UTC. All streak and daily-cap comparisons go
// through this so the day boundary is the same everywhere.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ApplyCompletion is the single task-completion algorithm. Both the generic
// task endpoint and the journal endpoint go through here; nothing else may
// touch points, streak or the completion timestamps.
//
// stamps maps task type to that task's most recent completion time. On
// success the user is mutated in place and the audit record to persist is
// returned; on rejection nothing is touched.
func ApplyCompletion(u *models.User, stamps map[string]time.Time, taskType string, points int, now time.Time) (*models.TaskCompletion, error) {
	today := Day(now)

	// Each task type completes at most once per calendar day.
	if last, ok := stamps[taskType]; ok && Day(last).Equal(today) {
		return nil, ErrAlreadyCompletedToday
	}

	// Only the first completion of the day moves the streak: the any-task
	// date only changes once per day, so a second task the same day lands
	// in neither branch.
	yesterday := today.AddDate(0, 0, -1)
	if u.LastCompletionDate != nil && Day(*u.LastCompletionDate).Equal(yesterday) {
		u.Streak++
	} else if u.LastCompletionDate == nil || Day(*u.LastCompletionDate).Before(yesterday) {
		u.Streak = 1
	}

	u.Points += points
	completedAt := now
	u.LastCompletionDate = &completedAt

	return &models.TaskCompletion{
		UserID:       u.ID,
		TaskType:     taskType,
		PointsEarned: points,
		CreatedAt:    now,
	}, nil
}

// ApplyClaim deducts the catalog cost and returns the claimed instance to
// append. Duplicate claims of the same catalog item are allowed.
func ApplyClaim(u *models.User, item models.RewardItem, now time.Time) (*models.UserReward, error) {
	if u.Points < item.Cost {
		return nil, ErrInsufficientPoints
	}

	u.Points -= item.Cost
	return &models.UserReward{
		UserID:      u.ID,
		Name:        item.Name,
		Description: item.Description,
		DateEarned:  now,
		Redeemed:    false,
	}, nil
}

// ApplyRedeem marks one claimed reward as redeemed. Redeeming twice is an
// error, not a no-op.
func ApplyRedeem(rewards []models.UserReward, rewardID uint) (*models.UserReward, error) {
	for i := range rewards {
		if rewards[i].ID != rewardID {
			continue
		}
		if rewards[i].Redeemed {
			return nil, ErrAlreadyRedeemed
		}
		rewards[i].Redeemed = true
		return &rewards[i], nil
	}
	return nil, ErrRewardNotFound
}
