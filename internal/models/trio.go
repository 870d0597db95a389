package models

import "time"

const (
	TrioStatusActive    = "active"
	TrioStatusCompleted = "completed"
)

// ProgramDays is the fixed length of a trio's shared program.
const ProgramDays = 90

type Trio struct {
	ID                 string    `json:"id"`
	User1ID            string    `json:"user1_id"`
	User2ID            string    `json:"user2_id"`
	User3ID            string    `json:"user3_id"`
	Language           string    `json:"language"`
	WeightGoal         string    `json:"weight_goal"`
	FitnessLevel       string    `json:"fitness_level"`
	AgeMin             int       `json:"age_min"`
	AgeMax             int       `json:"age_max"`
	CompatibilityScore int       `json:"compatibility_score"`
	StartDate          time.Time `json:"start_date"`
	EndDate            time.Time `json:"end_date"`
	Status             string    `json:"status"`
	CurrentDay         int       `json:"current_day"`
	CreatedAt          time.Time `json:"created_at"`
}

// MemberIDs returns the three member identifiers in slot order.
func (t *Trio) MemberIDs() []string {
	return []string{t.User1ID, t.User2ID, t.User3ID}
}

// HasMember reports whether the given user occupies one of the trio's slots.
func (t *Trio) HasMember(userID string) bool {
	return t.User1ID == userID || t.User2ID == userID || t.User3ID == userID
}

type TrioDetail struct {
	Trio
	Members []MemberSummary `json:"members"`
}
