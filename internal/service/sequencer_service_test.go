package service

import (
	"context"
	"errors"
	"testing"

	"design-team-be/internal/constant"
	"design-team-be/internal/dto"
	"design-team-be/internal/errs"
	"design-team-be/pkg/contributor"
	"design-team-be/pkg/pipeline"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineEndToEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userId := uuid.New()
	sessionId := f.createSession(t, userId, "a cozy roguelike about a lighthouse keeper")

	// Stage 0 auto-advances: one run commits the overview and moves on.
	run, err := f.sequencer.RunStage(ctx, userId, sessionId)
	require.NoError(t, err)
	assert.Equal(t, 0, run.StageIndex)
	assert.True(t, run.AutoAdvanced)
	assert.Equal(t, string(pipeline.PhaseAwaitingInput), run.Phase)

	status, err := f.sequencer.Status(ctx, userId, sessionId)
	require.NoError(t, err)
	assert.Equal(t, 1, status.CurrentStageIndex)
	assert.Equal(t, "GameplayDesigner", status.StageRole)

	// Stage 1 gates on a human decision.
	run, err = f.sequencer.RunStage(ctx, userId, sessionId)
	require.NoError(t, err)
	assert.False(t, run.AutoAdvanced)
	assert.Equal(t, string(pipeline.PhaseAwaitingGate), run.Phase)
	assert.Contains(t, run.Content, "attempt 1")

	// Revision re-invokes the stage with the feedback.
	sig, err := f.sequencer.Signal(ctx, userId, &dto.SignalRequest{
		SessionId: sessionId,
		Decision:  constant.GateDecisionRevision,
		Feedback:  "tighten pacing",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, sig.CurrentStageIndex)
	assert.Equal(t, string(pipeline.PhaseAwaitingGate), sig.Phase)

	evts := f.history(t, userId, sessionId)
	var inputs, outputs, revisions int
	for _, evt := range evts {
		switch evt.Kind {
		case constant.EventKindStageInput:
			inputs++
		case constant.EventKindStageOutput:
			outputs++
		case constant.EventKindRevisionRequest:
			revisions++
		}
	}
	assert.Equal(t, 4, inputs, "pitch plus one context bundle per run")
	assert.Equal(t, 3, outputs, "overview plus two gameplay drafts")
	assert.Equal(t, 1, revisions)

	// The re-run logged its context bundle right before its output, with
	// the revision feedback folded in.
	rerunInput := evts[len(evts)-2]
	assert.Equal(t, constant.EventKindStageInput, rerunInput.Kind)
	assert.Equal(t, constant.AuthorSequencer, rerunInput.Payload[constant.PayloadKeyAuthor])
	assert.Equal(t, "tighten pacing", rerunInput.Payload[constant.PayloadKeyFeedback])

	last := evts[len(evts)-1]
	assert.Equal(t, constant.EventKindStageOutput, last.Kind)
	assert.Contains(t, last.Payload[constant.PayloadKeyContent], "attempt 2")
	assert.Contains(t, last.Payload[constant.PayloadKeyContent], "tighten pacing")

	// Accept the revision and walk the remaining gated stages.
	_, err = f.sequencer.Signal(ctx, userId, &dto.SignalRequest{
		SessionId: sessionId,
		Decision:  constant.GateDecisionContinue,
	})
	require.NoError(t, err)

	for stage := 2; stage < f.plan.Len(); stage++ {
		run, err = f.sequencer.RunStage(ctx, userId, sessionId)
		require.NoError(t, err)
		assert.Equal(t, stage, run.StageIndex)
		_, err = f.sequencer.Signal(ctx, userId, &dto.SignalRequest{
			SessionId: sessionId,
			Decision:  constant.GateDecisionContinue,
		})
		require.NoError(t, err)
	}

	status, err = f.sequencer.Status(ctx, userId, sessionId)
	require.NoError(t, err)
	assert.Equal(t, constant.SessionStatusCompleted, status.Status)
	assert.Equal(t, string(pipeline.PhaseFinalized), status.Phase)

	doc, err := f.sequencer.Document(ctx, userId, sessionId)
	require.NoError(t, err)
	assert.True(t, doc.Complete)
	assert.Len(t, doc.Sections, f.plan.Len())
	assert.Contains(t, doc.Rendered, "## Overview")
	assert.Contains(t, doc.Rendered, "## Production")

	requireGapless(t, f.history(t, userId, sessionId))
}

func TestRepeatedRevisionsNeverWedge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userId := uuid.New()
	sessionId := f.createSession(t, userId, "pitch")
	f.driveToGate(t, userId, sessionId, 1)

	before := len(f.history(t, userId, sessionId))
	for i := 0; i < 50; i++ {
		sig, err := f.sequencer.Signal(ctx, userId, &dto.SignalRequest{
			SessionId: sessionId,
			Decision:  constant.GateDecisionRevision,
			Feedback:  "again",
		})
		require.NoError(t, err, "revision %d", i)
		require.Equal(t, string(pipeline.PhaseAwaitingGate), sig.Phase)
	}

	evts := f.history(t, userId, sessionId)
	// Each revision appends exactly one revision_request, then the re-run's
	// stage_input and stage_output.
	assert.Len(t, evts, before+150)
	requireGapless(t, evts)

	status, err := f.sequencer.Status(ctx, userId, sessionId)
	require.NoError(t, err)
	assert.Equal(t, 1, status.CurrentStageIndex)
	assert.Equal(t, string(pipeline.PhaseAwaitingGate), status.Phase)
}

func TestContributorFailureRecordsNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userId := uuid.New()
	sessionId := f.createSession(t, userId, "pitch")

	_, err := f.sequencer.RunStage(ctx, userId, sessionId)
	require.NoError(t, err)
	before := f.history(t, userId, sessionId)

	f.scripted.FailOnce(1, errors.New("model offline"))
	_, err = f.sequencer.RunStage(ctx, userId, sessionId)
	require.Error(t, err)
	assert.True(t, errs.IsContributorError(err))

	// The failed run left no trace; the session is exactly where it was.
	assert.Len(t, f.history(t, userId, sessionId), len(before))
	status, err := f.sequencer.Status(ctx, userId, sessionId)
	require.NoError(t, err)
	assert.Equal(t, 1, status.CurrentStageIndex)
	assert.Equal(t, string(pipeline.PhaseAwaitingInput), status.Phase)

	// The stage recovers on the next run.
	_, err = f.sequencer.RunStage(ctx, userId, sessionId)
	require.NoError(t, err)
}

func TestGateGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userId := uuid.New()
	sessionId := f.createSession(t, userId, "pitch")

	// No output yet, so there is no gate to resolve.
	_, err := f.sequencer.Signal(ctx, userId, &dto.SignalRequest{
		SessionId: sessionId,
		Decision:  constant.GateDecisionContinue,
	})
	assert.ErrorIs(t, err, errs.ErrNoGatePending)

	f.driveToGate(t, userId, sessionId, 1)

	// Output awaiting a decision, so another run is rejected.
	_, err = f.sequencer.RunStage(ctx, userId, sessionId)
	assert.ErrorIs(t, err, errs.ErrGatePending)
}

func TestOwnershipIsolation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := uuid.New()
	intruder := uuid.New()
	sessionId := f.createSession(t, owner, "pitch")

	_, err := f.sequencer.Status(ctx, intruder, sessionId)
	assert.ErrorIs(t, err, errs.ErrForbidden)
	_, err = f.sequencer.RunStage(ctx, intruder, sessionId)
	assert.ErrorIs(t, err, errs.ErrForbidden)
	_, err = f.sessions.History(ctx, intruder, &dto.SessionHistoryRequest{Id: sessionId})
	assert.ErrorIs(t, err, errs.ErrForbidden)

	_, err = f.sequencer.Status(ctx, owner, uuid.New())
	assert.ErrorIs(t, err, errs.ErrSessionNotFound)
}

func TestClosedSessionRejectsWork(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userId := uuid.New()

	aborted := f.createSession(t, userId, "pitch")
	_, err := f.sessions.Close(ctx, userId, &dto.CloseSessionRequest{Id: aborted, Outcome: constant.OutcomeAborted})
	require.NoError(t, err)

	_, err = f.sequencer.RunStage(ctx, userId, aborted)
	assert.ErrorIs(t, err, errs.ErrSessionClosed)
	_, err = f.sequencer.Signal(ctx, userId, &dto.SignalRequest{SessionId: aborted, Decision: constant.GateDecisionContinue})
	assert.ErrorIs(t, err, errs.ErrSessionClosed)

	completed := f.createSession(t, userId, "pitch")
	_, err = f.sessions.Close(ctx, userId, &dto.CloseSessionRequest{Id: completed, Outcome: constant.OutcomeCompleted})
	require.NoError(t, err)

	_, err = f.sequencer.RunStage(ctx, userId, completed)
	assert.ErrorIs(t, err, errs.ErrPipelineFinished)
}

func TestPausedSessionRejectsRuns(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userId := uuid.New()
	sessionId := f.createSession(t, userId, "pitch")

	_, err := f.sessions.Pause(ctx, userId, sessionId)
	require.NoError(t, err)

	_, err = f.sequencer.RunStage(ctx, userId, sessionId)
	assert.ErrorIs(t, err, errs.ErrSessionPaused)
	_, err = f.sequencer.Signal(ctx, userId, &dto.SignalRequest{SessionId: sessionId, Decision: constant.GateDecisionContinue})
	assert.ErrorIs(t, err, errs.ErrSessionPaused)

	_, err = f.sessions.Resume(ctx, userId, sessionId)
	require.NoError(t, err)
	_, err = f.sequencer.RunStage(ctx, userId, sessionId)
	require.NoError(t, err)
}

func TestResumeAfterRestartReplaysPosition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userId := uuid.New()
	sessionId := f.createSession(t, userId, "pitch")
	f.driveToGate(t, userId, sessionId, 1)

	// The revision lands on the log, then the process dies mid re-run.
	f.scripted.FailOnce(1, errors.New("model offline"))
	_, err := f.sequencer.Signal(ctx, userId, &dto.SignalRequest{
		SessionId: sessionId,
		Decision:  constant.GateDecisionRevision,
		Feedback:  "tighten pacing",
	})
	require.Error(t, err)
	assert.True(t, errs.IsContributorError(err))

	// A restarted process derives the same position from the log alone.
	restarted := f.rewire()
	resumed, err := restarted.sessions.Resume(ctx, userId, sessionId)
	require.NoError(t, err)
	assert.Equal(t, 1, resumed.CurrentStageIndex)
	assert.Equal(t, string(pipeline.PhaseAwaitingInput), resumed.Phase)
	assert.Equal(t, "tighten pacing", resumed.PendingFeedback)

	run, err := restarted.sequencer.RunStage(ctx, userId, sessionId)
	require.NoError(t, err)
	assert.Contains(t, run.Content, "tighten pacing")
	requireGapless(t, restarted.history(t, userId, sessionId))
}

func TestContributorReceivesStateContext(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userId := uuid.New()

	_, err := f.states.SetAppState(ctx, constant.DefaultAppName, &dto.SetStateRequest{Key: "art_style", Value: "noir"})
	require.NoError(t, err)
	_, err = f.states.SetUserState(ctx, userId, &dto.SetStateRequest{Key: "preference", Value: "pixel art"})
	require.NoError(t, err)

	sessionId := f.createSession(t, userId, "pitch")

	var captured *contributor.Invocation
	f.scripted.Compose = func(inv *contributor.Invocation, attempt int) string {
		captured = inv
		return "draft"
	}

	_, err = f.sequencer.RunStage(ctx, userId, sessionId)
	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, "noir", captured.AppState["art_style"])
	assert.Equal(t, "pixel art", captured.UserState["preference"])

	// A session of a user with no stored state gets empty maps, not nils.
	other := uuid.New()
	otherSession := f.createSession(t, other, "pitch")
	captured = nil
	_, err = f.sequencer.RunStage(ctx, other, otherSession)
	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.NotNil(t, captured.UserState)
	assert.Empty(t, captured.UserState)
	assert.Equal(t, "noir", captured.AppState["art_style"], "app scope is shared across users")
}

func TestDocumentGrowsWithCommittedStages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userId := uuid.New()
	sessionId := f.createSession(t, userId, "pitch")

	doc, err := f.sequencer.Document(ctx, userId, sessionId)
	require.NoError(t, err)
	assert.False(t, doc.Complete)
	assert.Empty(t, doc.Sections)

	// Stage 0 commits on run; stage 1's draft is uncommitted until its gate.
	_, err = f.sequencer.RunStage(ctx, userId, sessionId)
	require.NoError(t, err)
	_, err = f.sequencer.RunStage(ctx, userId, sessionId)
	require.NoError(t, err)

	doc, err = f.sequencer.Document(ctx, userId, sessionId)
	require.NoError(t, err)
	require.Len(t, doc.Sections, 1)
	assert.Equal(t, "Overview", doc.Sections[0].Path)

	_, err = f.sequencer.Signal(ctx, userId, &dto.SignalRequest{SessionId: sessionId, Decision: constant.GateDecisionContinue})
	require.NoError(t, err)

	doc, err = f.sequencer.Document(ctx, userId, sessionId)
	require.NoError(t, err)
	require.Len(t, doc.Sections, 2)
	assert.Equal(t, "Gameplay", doc.Sections[1].Path)
}
