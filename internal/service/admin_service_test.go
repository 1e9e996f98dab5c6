package service

import (
	"context"
	"testing"
	"time"

	"design-team-be/internal/constant"
	"design-team-be/internal/dto"
	"design-team-be/internal/entity"
	"design-team-be/internal/errs"
	"design-team-be/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminInfoCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userId := uuid.New()

	sessionId := f.createSession(t, userId, "pitch")
	f.driveToGate(t, userId, sessionId, 1)
	_, err := f.states.SetAppState(ctx, "gdd", &dto.SetStateRequest{Key: "k", Value: "v"})
	require.NoError(t, err)
	_, err = f.states.SetUserState(ctx, userId, &dto.SetStateRequest{Key: "k", Value: "v"})
	require.NoError(t, err)

	info, err := f.admin.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), info.Sessions)
	assert.Equal(t, int64(6), info.Events)
	assert.Equal(t, int64(1), info.AppStates)
	assert.Equal(t, int64(1), info.UserStates)
}

func TestAdminDeleteSessionRemovesLog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userId := uuid.New()
	sessionId := f.createSession(t, userId, "pitch")
	f.driveToGate(t, userId, sessionId, 1)

	res, err := f.admin.DeleteSession(ctx, sessionId)
	require.NoError(t, err)
	assert.Equal(t, int64(6), res.EventsDeleted)

	_, err = f.sequencer.Status(ctx, userId, sessionId)
	assert.ErrorIs(t, err, errs.ErrSessionNotFound)

	_, err = f.admin.DeleteSession(ctx, sessionId)
	assert.ErrorIs(t, err, errs.ErrSessionNotFound)
}

func TestAdminDeleteUserDataPurgesEverything(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	target := uuid.New()
	bystander := uuid.New()

	first := f.createSession(t, target, "one")
	f.driveToGate(t, target, first, 1)
	f.createSession(t, target, "two")
	kept := f.createSession(t, bystander, "keep me")
	_, err := f.states.SetUserState(ctx, target, &dto.SetStateRequest{Key: "k", Value: "v"})
	require.NoError(t, err)

	res, err := f.admin.DeleteUserData(ctx, target)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.SessionsDeleted)
	assert.Equal(t, int64(7), res.EventsDeleted)

	sessions, err := f.sessions.GetAll(ctx, target)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	state, err := f.states.GetUserState(ctx, target)
	require.NoError(t, err)
	assert.Empty(t, state.State)

	// The other user's session is untouched.
	_, err = f.sequencer.Status(ctx, bystander, kept)
	require.NoError(t, err)
}

func TestAdminCleanupPurgesStaleSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userId := uuid.New()

	fresh := f.createSession(t, userId, "fresh")

	stale := &entity.Session{
		Id:        uuid.New(),
		UserId:    userId,
		AppName:   constant.DefaultAppName,
		Status:    constant.SessionStatusActive,
		CreatedAt: time.Now().AddDate(0, 0, -90),
	}
	require.NoError(t, memory.NewSessionRepository(f.store).Create(ctx, stale))

	res, err := f.admin.Cleanup(ctx, &dto.CleanupRequest{OlderThanDays: 30})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.SessionsDeleted)

	_, err = f.sequencer.Status(ctx, userId, stale.Id)
	assert.ErrorIs(t, err, errs.ErrSessionNotFound)
	_, err = f.sequencer.Status(ctx, userId, fresh)
	require.NoError(t, err)
}
