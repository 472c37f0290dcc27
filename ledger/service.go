package ledger

import (
	"errors"
	"time"

	"github.com/kiyohan/StarHack/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service wraps the pure ledger transitions in database transactions.
// Every operation loads the user under a row lock, applies the transition
// and persists the result, so either all writes happen or none do, and
// concurrent operations on the same user serialize instead of losing
// updates.
type Service struct {
	db *gorm.DB

	// Now is the clock; tests replace it to pin the calendar day.
	Now func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{
		db:  db,
		Now: func() time.Time { return time.Now().UTC() },
	}
}

// lockedUser loads the user FOR UPDATE. Sqlite (used in tests) is a single
// writer and rejects the locking clause, so it is applied on postgres only.
func lockedUser(tx *gorm.DB, userID uint) (*models.User, error) {
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var user models.User
	if err := q.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// CompleteTask runs the daily completion for one task type and returns the
// updated user together with the appended audit record. Extra write hooks
// run inside the same transaction; the journal endpoint uses one so the
// entry and the completion commit or roll back together.
func (s *Service) CompleteTask(userID uint, taskType string, points int, extra ...func(tx *gorm.DB) error) (*models.User, *models.TaskCompletion, error) {
	var (
		user   *models.User
		record *models.TaskCompletion
	)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		user, err = lockedUser(tx, userID)
		if err != nil {
			return err
		}

		var rows []models.TaskStamp
		if err := tx.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
			return err
		}
		stamps := make(map[string]time.Time, len(rows))
		for _, st := range rows {
			stamps[st.TaskType] = st.CompletedAt
		}

		now := s.Now()
		record, err = ApplyCompletion(user, stamps, taskType, points, now)
		if err != nil {
			return err
		}

		stamp := models.TaskStamp{UserID: userID, TaskType: taskType, CompletedAt: now}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "task_type"}},
			DoUpdates: clause.AssignmentColumns([]string{"completed_at"}),
		}).Create(&stamp).Error; err != nil {
			return err
		}

		if err := tx.Create(record).Error; err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(user).Error; err != nil {
			return err
		}
		for _, fn := range extra {
			if err := fn(tx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return user, record, nil
}

// ClaimReward spends points on a catalog item and appends the claimed
// instance. Claims are not deduplicated; the same item may be claimed again.
func (s *Service) ClaimReward(userID uint, item models.RewardItem) (*models.User, error) {
	var user *models.User

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		user, err = lockedUser(tx, userID)
		if err != nil {
			return err
		}

		claimed, err := ApplyClaim(user, item, s.Now())
		if err != nil {
			return err
		}

		if err := tx.Create(claimed).Error; err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(user).Error; err != nil {
			return err
		}
		user.Rewards = append(user.Rewards, *claimed)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// RedeemReward marks one claimed reward instance as redeemed.
func (s *Service) RedeemReward(userID, rewardID uint) (*models.User, error) {
	var user *models.User

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		user, err = lockedUser(tx, userID)
		if err != nil {
			return err
		}

		var rewards []models.UserReward
		if err := tx.Where("user_id = ?", userID).Order("id").Find(&rewards).Error; err != nil {
			return err
		}

		redeemed, err := ApplyRedeem(rewards, rewardID)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.UserReward{}).
			Where("id = ?", redeemed.ID).
			Update("redeemed", true).Error; err != nil {
			return err
		}
		user.Rewards = rewards
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// RecentCompletions returns the user's audit trail, newest first.
func (s *Service) RecentCompletions(userID uint, limit int) ([]models.TaskCompletion, error) {
	var completions []models.TaskCompletion
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&completions).Error
	return completions, err
}
