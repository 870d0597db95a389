package models

import "time"

const (
	QueueStatusActive  = "active"
	QueueStatusPaused  = "paused"
	QueueStatusMatched = "matched"
)

// DefaultQueuePriority is assigned to every new entry. The column exists so
// that priority aging can be added later without a schema change; nothing
// varies it today.
const DefaultQueuePriority = 100

type QueueEntry struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Priority      int       `json:"priority"`
	WaitTimeHours float64   `json:"wait_time_hours"`
	Status        string    `json:"status"`
	FlexibleAge   bool      `json:"flexible_age"`
	FlexibleLevel bool      `json:"flexible_level"`
	FlexibleGoal  bool      `json:"flexible_goal"`
	CreatedAt     time.Time `json:"created_at"`
}
