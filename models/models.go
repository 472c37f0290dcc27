package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	CategoryMental   = "Mental"
	CategoryPhysical = "Physical"
)

// JournalTaskType is the implicit third task type: journaling has no catalog
// entry but still counts toward points and the daily streak.
const JournalTaskType = "Journal"

// DefaultTaskPoints is awarded when the activity catalog has no entry for a
// task type (the journal task relies on this).
const DefaultTaskPoints = 45

type User struct {
	ID                 uint         `gorm:"primaryKey" json:"id"`
	Username           string       `gorm:"unique" json:"username"`
	Email              string       `gorm:"unique" json:"email"`
	PasswordHash       string       `json:"-"`
	Role               string       `gorm:"default:user" json:"role"`
	Points             int          `gorm:"default:0" json:"points"`
	Streak             int          `gorm:"default:0" json:"streak"`
	LastCompletionDate *time.Time   `json:"last_completion_date"`
	PreferredMental    string       `gorm:"default:Meditation" json:"preferred_mental"`
	PreferredPhysical  string       `gorm:"default:Jogging" json:"preferred_physical"`
	Rewards            []UserReward `gorm:"foreignKey:UserID" json:"rewards"`
	TaskStamps         []TaskStamp  `gorm:"foreignKey:UserID" json:"task_stamps"`
	CreatedAt          time.Time    `gorm:"autoCreateTime" json:"created_at"`
}

// TaskStamp records the most recent completion of one task type for one user.
// One row per (user, task type); the ledger updates it in place.
type TaskStamp struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"uniqueIndex:idx_user_task" json:"user_id"`
	TaskType    string    `gorm:"uniqueIndex:idx_user_task" json:"task_type"`
	CompletedAt time.Time `json:"completed_at"`
}

// TaskCompletion is the append-only audit log. Rows are never updated or
// deleted; points and streaks must always be explainable from this table.
type TaskCompletion struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"index" json:"user_id"`
	TaskType     string    `json:"task_type"`
	PointsEarned int       `json:"points_earned"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type Activity struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"unique" json:"name"`
	Type        string `json:"type"` // Mental or Physical
	Description string `json:"description"`
	Points      int    `gorm:"default:45" json:"points"`
	Duration    string `gorm:"default:'15 min'" json:"duration"`
}

// RewardItem is a catalog entry. The catalog is static configuration seeded
// at boot and looked up by name when a user claims.
type RewardItem struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"unique" json:"name"`
	Description string `json:"description"`
	Cost        int    `json:"cost"`
}

// UserReward is one claimed reward instance. The same catalog item may be
// claimed more than once; each claim gets its own row.
type UserReward struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index" json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	DateEarned  time.Time `json:"date_earned"`
	Redeemed    bool      `gorm:"default:false" json:"redeemed"`
}

type JournalEntry struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"index" json:"user_id"`
	Content   string          `json:"content"`
	Upvotes   []JournalUpvote `gorm:"foreignKey:EntryID" json:"upvotes"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

type JournalUpvote struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	EntryID uint `gorm:"uniqueIndex:idx_entry_user" json:"entry_id"`
	UserID  uint `gorm:"uniqueIndex:idx_entry_user" json:"user_id"`
}
