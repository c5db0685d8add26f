package dto

import "time"

type ProfileRequest struct {
	ProgrammingLevel    string `json:"programming_level" validate:"required,oneof=none beginner intermediate advanced"`
	RoboticsFamiliarity string `json:"robotics_familiarity" validate:"required,oneof=none hobbyist academic professional"`
	HardwareExperience  string `json:"hardware_experience" validate:"required,oneof=none arduino embedded industrial"`
	LearningGoal        string `json:"learning_goal" validate:"required,oneof=career_change academic hobby professional_dev"`
}

type ProfileResponse struct {
	ProgrammingLevel    string    `json:"programming_level"`
	RoboticsFamiliarity string    `json:"robotics_familiarity"`
	HardwareExperience  string    `json:"hardware_experience"`
	LearningGoal        string    `json:"learning_goal"`
	UpdatedAt           time.Time `json:"updated_at"`
}
