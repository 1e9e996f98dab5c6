package service

import (
	"context"
	"testing"

	"design-team-be/internal/constant"
	"design-team-be/internal/dto"
	"design-team-be/internal/errs"
	"design-team-be/pkg/pipeline"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRecordsPitchAtomically(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userId := uuid.New()

	created, err := f.sessions.Create(ctx, userId, &dto.CreateSessionRequest{
		Pitch: "a cozy roguelike",
	})
	require.NoError(t, err)
	assert.Equal(t, constant.SessionStatusActive, created.Status)
	assert.Equal(t, 0, created.CurrentStageIndex)
	assert.Equal(t, constant.DefaultAppName, created.AppName)

	evts := f.history(t, userId, created.Id)
	require.Len(t, evts, 1)
	assert.Equal(t, int64(1), evts[0].Sequence)
	assert.Equal(t, constant.EventKindStageInput, evts[0].Kind)
	assert.Equal(t, "a cozy roguelike", evts[0].Payload[constant.PayloadKeyContent])
	assert.Equal(t, constant.AuthorDirector, evts[0].Payload[constant.PayloadKeyAuthor])
}

func TestGetAllListsOnlyOwnSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := uuid.New()
	other := uuid.New()

	first := f.createSession(t, owner, "first")
	second := f.createSession(t, owner, "second")
	f.createSession(t, other, "not mine")

	sessions, err := f.sessions.GetAll(ctx, owner)
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	ids := []uuid.UUID{sessions[0].Id, sessions[1].Id}
	assert.Contains(t, ids, first)
	assert.Contains(t, ids, second)
}

func TestResumeReactivatesPausedSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userId := uuid.New()
	sessionId := f.createSession(t, userId, "pitch")
	f.driveToGate(t, userId, sessionId, 1)

	paused, err := f.sessions.Pause(ctx, userId, sessionId)
	require.NoError(t, err)
	assert.Equal(t, constant.SessionStatusPaused, paused.Status)

	resumed, err := f.sessions.Resume(ctx, userId, sessionId)
	require.NoError(t, err)
	assert.Equal(t, constant.SessionStatusActive, resumed.Status)
	assert.Equal(t, 1, resumed.CurrentStageIndex)
	assert.Equal(t, string(pipeline.PhaseAwaitingGate), resumed.Phase)
	assert.Equal(t, "GameplayDesigner", resumed.StageRole)
	assert.Equal(t, int64(6), resumed.EventCount)
}

func TestPauseIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userId := uuid.New()
	sessionId := f.createSession(t, userId, "pitch")

	for i := 0; i < 2; i++ {
		paused, err := f.sessions.Pause(ctx, userId, sessionId)
		require.NoError(t, err)
		assert.Equal(t, constant.SessionStatusPaused, paused.Status)
	}

	_, err := f.sessions.Close(ctx, userId, &dto.CloseSessionRequest{Id: sessionId, Outcome: constant.OutcomeAborted})
	require.NoError(t, err)
	_, err = f.sessions.Pause(ctx, userId, sessionId)
	assert.ErrorIs(t, err, errs.ErrSessionClosed)
}

func TestCloseIsTerminal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userId := uuid.New()
	sessionId := f.createSession(t, userId, "pitch")

	closed, err := f.sessions.Close(ctx, userId, &dto.CloseSessionRequest{Id: sessionId, Outcome: constant.OutcomeCompleted})
	require.NoError(t, err)
	assert.Equal(t, constant.SessionStatusCompleted, closed.Status)

	_, err = f.sessions.Close(ctx, userId, &dto.CloseSessionRequest{Id: sessionId, Outcome: constant.OutcomeAborted})
	assert.ErrorIs(t, err, errs.ErrSessionClosed)

	// The log stays readable after close.
	evts := f.history(t, userId, sessionId)
	assert.Len(t, evts, 1)
}

func TestHistoryFromSequence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userId := uuid.New()
	sessionId := f.createSession(t, userId, "pitch")
	f.driveToGate(t, userId, sessionId, 1)

	all := f.history(t, userId, sessionId)
	require.Len(t, all, 6)
	requireGapless(t, all)

	tail, err := f.sessions.History(ctx, userId, &dto.SessionHistoryRequest{Id: sessionId, FromSeq: 3})
	require.NoError(t, err)
	require.Len(t, tail, 4)
	assert.Equal(t, int64(3), tail[0].Sequence)
	assert.Equal(t, int64(6), tail[3].Sequence)
}
