package service

import (
	"context"
	"errors"

	"physical-ai-textbook-be/internal/dto"
	"physical-ai-textbook-be/internal/entity"
	"physical-ai-textbook-be/internal/pkg/logger"
	"physical-ai-textbook-be/internal/repository/specification"
	"physical-ai-textbook-be/internal/repository/unitofwork"
	"physical-ai-textbook-be/pkg/events"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrProfileExists   = errors.New("Profile already exists. Use PUT to update.")
	ErrProfileNotFound = errors.New("Profile not found")
)

type IUserService interface {
	CreateProfile(ctx context.Context, userID uuid.UUID, req *dto.ProfileRequest, client dto.ClientInfo) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.ProfileRequest, client dto.ClientInfo) (*dto.ProfileResponse, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error)
	// ProfileAttributes returns the answers used to personalize chat replies, or
	// nil when the user has not completed the questionnaire.
	ProfileAttributes(ctx context.Context, userID uuid.UUID) (map[string]string, error)
}

type userService struct {
	uowFactory     unitofwork.RepositoryFactory
	audit          IAuditService
	eventPublisher events.Publisher
	logger         logger.ILogger
}

func NewUserService(uowFactory unitofwork.RepositoryFactory, audit IAuditService, eventPublisher events.Publisher, log logger.ILogger) IUserService {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &userService{
		uowFactory:     uowFactory,
		audit:          audit,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *userService) CreateProfile(ctx context.Context, userID uuid.UUID, req *dto.ProfileRequest, client dto.ClientInfo) (*dto.ProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserProfileRepository().FindOne(ctx, specification.UserOwnedBy{UserID: userID})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrProfileExists
	}

	profile := &entity.UserProfile{
		Id:     uuid.New(),
		UserId: userID,
	}
	applyProfile(profile, req)

	if err := uow.UserProfileRepository().Create(ctx, profile); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrProfileExists
		}
		return nil, err
	}

	attrs := profile.Attributes()
	s.audit.Record(ctx, entity.AuditProfileCreated, &userID, client, toDetails(attrs))

	data := toDetails(attrs)
	data["user_id"] = userID.String()
	if err := events.Publish(ctx, s.eventPublisher, events.New(events.ProfileCompleted, data)); err != nil {
		s.logger.Warn("PROFILE", "Failed to publish PROFILE_COMPLETED", map[string]interface{}{"error": err.Error()})
	}

	return toProfileResponse(profile), nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.ProfileRequest, client dto.ClientInfo) (*dto.ProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	profile, err := uow.UserProfileRepository().FindOne(ctx, specification.UserOwnedBy{UserID: userID})
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	before := profile.Attributes()
	applyProfile(profile, req)
	after := profile.Attributes()

	changes := make(map[string]interface{})
	for field, from := range before {
		if to := after[field]; to != from {
			changes[field] = map[string]interface{}{"from": from, "to": to}
		}
	}

	if err := uow.UserProfileRepository().Update(ctx, profile); err != nil {
		return nil, err
	}

	if len(changes) > 0 {
		s.audit.Record(ctx, entity.AuditProfileUpdated, &userID, client, map[string]interface{}{"changes": changes})
	}

	return toProfileResponse(profile), nil
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	profile, err := uow.UserProfileRepository().FindOne(ctx, specification.UserOwnedBy{UserID: userID})
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return toProfileResponse(profile), nil
}

func (s *userService) ProfileAttributes(ctx context.Context, userID uuid.UUID) (map[string]string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	profile, err := uow.UserProfileRepository().FindOne(ctx, specification.UserOwnedBy{UserID: userID})
	if err != nil {
		return nil, err
	}
	return profile.Attributes(), nil
}

func applyProfile(p *entity.UserProfile, req *dto.ProfileRequest) {
	p.ProgrammingLevel = entity.ProgrammingLevel(req.ProgrammingLevel)
	p.RoboticsFamiliarity = entity.RoboticsFamiliarity(req.RoboticsFamiliarity)
	p.HardwareExperience = entity.HardwareExperience(req.HardwareExperience)
	p.LearningGoal = entity.LearningGoal(req.LearningGoal)
}

func toProfileResponse(p *entity.UserProfile) *dto.ProfileResponse {
	if p == nil {
		return nil
	}
	return &dto.ProfileResponse{
		ProgrammingLevel:    string(p.ProgrammingLevel),
		RoboticsFamiliarity: string(p.RoboticsFamiliarity),
		HardwareExperience:  string(p.HardwareExperience),
		LearningGoal:        string(p.LearningGoal),
		UpdatedAt:           p.UpdatedAt,
	}
}

func toDetails(m map[string]string) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
