package service

import (
	"context"
	"testing"

	"physical-ai-textbook-be/internal/dto"
	"physical-ai-textbook-be/internal/entity"
	"physical-ai-textbook-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserFixture() (*fakeStore, *events.Recorder, IUserService) {
	store := newFakeStore()
	factory := fakeFactory{store: store}
	recorder := &events.Recorder{}
	svc := NewUserService(factory, NewAuditService(factory, nil, nil), recorder, nil)
	return store, recorder, svc
}

var beginnerProfile = dto.ProfileRequest{
	ProgrammingLevel:    "beginner",
	RoboticsFamiliarity: "hobbyist",
	HardwareExperience:  "arduino",
	LearningGoal:        "hobby",
}

func TestCreateProfile(t *testing.T) {
	store, recorder, svc := newUserFixture()
	ctx := context.Background()
	userID := uuid.New()

	resp, err := svc.CreateProfile(ctx, userID, &beginnerProfile, testClient)
	require.NoError(t, err)
	assert.Equal(t, "beginner", resp.ProgrammingLevel)
	assert.Equal(t, "hobby", resp.LearningGoal)

	assert.Equal(t, []entity.AuditEventType{entity.AuditProfileCreated}, store.auditTypes())
	require.Equal(t, []string{events.ProfileCompleted}, recorder.Types())
	assert.Equal(t, userID.String(), recorder.Events[0].Payload()["user_id"])

	_, err = svc.CreateProfile(ctx, userID, &beginnerProfile, testClient)
	assert.ErrorIs(t, err, ErrProfileExists)
}

func TestUpdateProfile(t *testing.T) {
	store, _, svc := newUserFixture()
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.UpdateProfile(ctx, userID, &beginnerProfile, testClient)
	assert.ErrorIs(t, err, ErrProfileNotFound)

	_, err = svc.CreateProfile(ctx, userID, &beginnerProfile, testClient)
	require.NoError(t, err)

	// Same answers: nothing to audit.
	_, err = svc.UpdateProfile(ctx, userID, &beginnerProfile, testClient)
	require.NoError(t, err)
	assert.Len(t, store.audits, 1)

	changed := beginnerProfile
	changed.ProgrammingLevel = "advanced"
	resp, err := svc.UpdateProfile(ctx, userID, &changed, testClient)
	require.NoError(t, err)
	assert.Equal(t, "advanced", resp.ProgrammingLevel)

	require.Len(t, store.audits, 2)
	last := store.audits[1]
	assert.Equal(t, entity.AuditProfileUpdated, last.EventType)
	assert.Equal(t, map[string]interface{}{
		"programming_level": map[string]interface{}{"from": "beginner", "to": "advanced"},
	}, last.Details["changes"])
}

func TestGetProfileAndAttributes(t *testing.T) {
	_, _, svc := newUserFixture()
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.GetProfile(ctx, userID)
	assert.ErrorIs(t, err, ErrProfileNotFound)

	attrs, err := svc.ProfileAttributes(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, attrs)

	_, err = svc.CreateProfile(ctx, userID, &beginnerProfile, testClient)
	require.NoError(t, err)

	resp, err := svc.GetProfile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "arduino", resp.HardwareExperience)

	attrs, err = svc.ProfileAttributes(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "hobbyist", attrs["robotics_familiarity"])
}
