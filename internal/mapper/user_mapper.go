package mapper

import (
	"physical-ai-textbook-be/internal/entity"
	"physical-ai-textbook-be/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Id:                  u.Id,
		Email:               u.Email,
		PasswordHash:        u.PasswordHash,
		FailedLoginAttempts: u.FailedLoginAttempts,
		LockedUntil:         u.LockedUntil,
		LastLogin:           u.LastLogin,
		CreatedAt:           u.CreatedAt,
		UpdatedAt:           u.UpdatedAt,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		Id:                  u.Id,
		Email:               u.Email,
		PasswordHash:        u.PasswordHash,
		FailedLoginAttempts: u.FailedLoginAttempts,
		LockedUntil:         u.LockedUntil,
		LastLogin:           u.LastLogin,
		CreatedAt:           u.CreatedAt,
		UpdatedAt:           u.UpdatedAt,
	}
}

func (m *UserMapper) ProfileToEntity(p *model.UserProfile) *entity.UserProfile {
	if p == nil {
		return nil
	}
	return &entity.UserProfile{
		Id:                  p.Id,
		UserId:              p.UserId,
		ProgrammingLevel:    entity.ProgrammingLevel(p.ProgrammingLevel),
		RoboticsFamiliarity: entity.RoboticsFamiliarity(p.RoboticsFamiliarity),
		HardwareExperience:  entity.HardwareExperience(p.HardwareExperience),
		LearningGoal:        entity.LearningGoal(p.LearningGoal),
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

func (m *UserMapper) ProfileToModel(p *entity.UserProfile) *model.UserProfile {
	if p == nil {
		return nil
	}
	return &model.UserProfile{
		Id:                  p.Id,
		UserId:              p.UserId,
		ProgrammingLevel:    string(p.ProgrammingLevel),
		RoboticsFamiliarity: string(p.RoboticsFamiliarity),
		HardwareExperience:  string(p.HardwareExperience),
		LearningGoal:        string(p.LearningGoal),
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}
