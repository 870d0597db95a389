package models

import "time"

// Matching status values a user moves through while looking for a trio.
const (
	MatchingStatusAvailable = "available"
	MatchingStatusMatching  = "matching"
	MatchingStatusInTrio    = "in_trio"
)

type User struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	PasswordHash       string    `json:"-"`
	Name               *string   `json:"name"`
	Age                *int      `json:"age"`
	Languages          []string  `json:"languages"`
	WeightGoal         *string   `json:"weight_goal"`
	FitnessLevel       *string   `json:"fitness_level"`
	MatchingStatus     string    `json:"matching_status"`
	TrioID             *string   `json:"trio_id"`
	OnboardingComplete bool      `json:"onboarding_complete"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// MemberSummary is the subset of a profile shown to the other members of a trio.
type MemberSummary struct {
	ID           string   `json:"id"`
	Name         *string  `json:"name"`
	Age          *int     `json:"age"`
	Languages    []string `json:"languages"`
	WeightGoal   *string  `json:"weight_goal"`
	FitnessLevel *string  `json:"fitness_level"`
}
