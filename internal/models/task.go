package models

import "time"

const (
	TaskActionComplete   = "complete"
	TaskActionUncomplete = "uncomplete"
	TaskActionModify     = "modify"
	TaskActionFreeze     = "freeze"
)

type DailyTask struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	TrioID      string     `json:"trio_id"`
	TaskDate    time.Time  `json:"task_date"`
	TaskType    string     `json:"task_type"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
	TargetValue *float64   `json:"target_value"`
	ActualValue *float64   `json:"actual_value"`
	TargetUnit  *string    `json:"target_unit"`
	Notes       *string    `json:"notes"`
	ModifiedAt  time.Time  `json:"modified_at"`
}

// TaskValue is the snapshot recorded in the task history on every change.
type TaskValue struct {
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
}

type TaskHistoryEntry struct {
	ID         string    `json:"id"`
	TaskID     string    `json:"task_id"`
	UserID     string    `json:"user_id"`
	ActionType string    `json:"action_type"`
	OldValue   TaskValue `json:"old_value"`
	NewValue   TaskValue `json:"new_value"`
	ModifiedBy string    `json:"modified_by"`
	Reason     *string   `json:"reason,omitempty"`
	ModifiedAt time.Time `json:"modified_at"`
}
