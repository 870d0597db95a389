package handlers

import "strings"

var allowedWeightGoals = map[string]struct{}{
	"5-10kg":  {},
	"10-15kg": {},
	"15+kg":   {},
}

var allowedFitnessLevels = map[string]struct{}{
	"beginner":     {},
	"intermediate": {},
	"advanced":     {},
}

func validateWeightGoal(goal string) string {
	if _, ok := allowedWeightGoals[strings.TrimSpace(goal)]; !ok {
		return "weight_goal must be one of: 5-10kg, 10-15kg, 15+kg"
	}
	return ""
}

func validateFitnessLevel(level string) string {
	if _, ok := allowedFitnessLevels[strings.TrimSpace(level)]; !ok {
		return "fitness_level must be one of: beginner, intermediate, advanced"
	}
	return ""
}

func validateLanguages(languages []string) string {
	if len(languages) == 0 {
		return "languages must contain at least one item"
	}
	for _, language := range languages {
		if strings.TrimSpace(language) == "" {
			return "languages must not contain empty values"
		}
	}
	return ""
}

func validateOnboardingRequest(req onboardingRequest) string {
	if strings.TrimSpace(req.Name) == "" {
		return "name is required"
	}
	if req.Age <= 0 {
		return "age must be greater than 0"
	}
	if err := validateLanguages(req.Languages); err != "" {
		return err
	}
	if err := validateWeightGoal(req.WeightGoal); err != "" {
		return err
	}
	return validateFitnessLevel(req.FitnessLevel)
}

func validateProfileUpdateRequest(req updateProfileRequest) string {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return "name must not be empty"
	}
	if req.Age != nil && *req.Age <= 0 {
		return "age must be greater than 0"
	}
	if req.Languages != nil {
		if err := validateLanguages(*req.Languages); err != "" {
			return err
		}
	}
	if req.WeightGoal != nil {
		if err := validateWeightGoal(*req.WeightGoal); err != "" {
			return err
		}
	}
	if req.FitnessLevel != nil {
		return validateFitnessLevel(*req.FitnessLevel)
	}
	return ""
}
