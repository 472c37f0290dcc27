package ledger

// Error is a business-rule rejection. These are expected, user-facing
// conditions; storage failures are returned as plain errors and must not be
// matched against these.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string { return e.Message }

var (
	ErrAlreadyCompletedToday = &Error{Code: "ALREADY_COMPLETED_TODAY", Message: "This task has already been completed today"}
	ErrInsufficientPoints    = &Error{Code: "INSUFFICIENT_POINTS", Message: "You do not have enough points to claim this reward"}
	ErrRewardNotFound        = &Error{Code: "REWARD_NOT_FOUND", Message: "Reward not found"}
	ErrAlreadyRedeemed       = &Error{Code: "ALREADY_REDEEMED", Message: "Reward has already been redeemed"}
	ErrUserNotFound          = &Error{Code: "USER_NOT_FOUND", Message: "User not found"}
	ErrUnknownTaskType       = &Error{Code: "UNKNOWN_TASK_TYPE", Message: "Invalid task type provided"}
)
