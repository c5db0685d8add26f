package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id                  uuid.UUID
	Email               string
	PasswordHash        string
	FailedLoginAttempts int
	LockedUntil         *time.Time
	LastLogin           *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsLocked reports whether the account is locked at the given instant.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}

type ProgrammingLevel string
type RoboticsFamiliarity string
type HardwareExperience string
type LearningGoal string

const (
	ProgrammingNone         ProgrammingLevel = "none"
	ProgrammingBeginner     ProgrammingLevel = "beginner"
	ProgrammingIntermediate ProgrammingLevel = "intermediate"
	ProgrammingAdvanced     ProgrammingLevel = "advanced"

	RoboticsNone         RoboticsFamiliarity = "none"
	RoboticsHobbyist     RoboticsFamiliarity = "hobbyist"
	RoboticsAcademic     RoboticsFamiliarity = "academic"
	RoboticsProfessional RoboticsFamiliarity = "professional"

	HardwareNone       HardwareExperience = "none"
	HardwareArduino    HardwareExperience = "arduino"
	HardwareEmbedded   HardwareExperience = "embedded"
	HardwareIndustrial HardwareExperience = "industrial"

	GoalCareerChange    LearningGoal = "career_change"
	GoalAcademic        LearningGoal = "academic"
	GoalHobby           LearningGoal = "hobby"
	GoalProfessionalDev LearningGoal = "professional_dev"
)

type UserProfile struct {
	Id                  uuid.UUID
	UserId              uuid.UUID
	ProgrammingLevel    ProgrammingLevel
	RoboticsFamiliarity RoboticsFamiliarity
	HardwareExperience  HardwareExperience
	LearningGoal        LearningGoal
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Attributes flattens the questionnaire answers into the string map used for
// prompt personalization.
func (p *UserProfile) Attributes() map[string]string {
	if p == nil {
		return nil
	}
	return map[string]string{
		"programming_level":    string(p.ProgrammingLevel),
		"robotics_familiarity": string(p.RoboticsFamiliarity),
		"hardware_experience":  string(p.HardwareExperience),
		"learning_goal":        string(p.LearningGoal),
	}
}
