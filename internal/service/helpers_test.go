package service

import (
	"context"
	"testing"

	"design-team-be/internal/constant"
	"design-team-be/internal/dto"
	"design-team-be/internal/pkg/logger"
	"design-team-be/internal/repository/memory"
	"design-team-be/pkg/contributor"
	"design-team-be/pkg/pipeline"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// fixture wires the services over the in-memory store with a scripted
// contributor, the same way cmd/simulation does.
type fixture struct {
	store     *memory.Store
	plan      *pipeline.Plan
	scripted  *contributor.Scripted
	sessions  ISessionService
	sequencer ISequencerService
	states    IStateService
	admin     IAdminService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	uowFactory := memory.NewRepositoryFactory(store)
	plan := constant.DefaultDesignPlan()
	scripted := contributor.NewScripted()
	nop := logger.NewNopLogger()

	return &fixture{
		store:     store,
		plan:      plan,
		scripted:  scripted,
		sessions:  NewSessionService(uowFactory, plan, nil, nop),
		sequencer: NewSequencerService(uowFactory, plan, scripted, nil, nop),
		states:    NewStateService(uowFactory),
		admin:     NewAdminService(uowFactory, nop),
	}
}

// rewire rebuilds the services over the same store, as a process restart
// would. The scripted contributor is fresh too; only the store survives.
func (f *fixture) rewire() *fixture {
	uowFactory := memory.NewRepositoryFactory(f.store)
	nop := logger.NewNopLogger()
	scripted := contributor.NewScripted()
	return &fixture{
		store:     f.store,
		plan:      f.plan,
		scripted:  scripted,
		sessions:  NewSessionService(uowFactory, f.plan, nil, nop),
		sequencer: NewSequencerService(uowFactory, f.plan, scripted, nil, nop),
		states:    NewStateService(uowFactory),
		admin:     NewAdminService(uowFactory, nop),
	}
}

func (f *fixture) createSession(t *testing.T, userId uuid.UUID, pitch string) uuid.UUID {
	t.Helper()
	created, err := f.sessions.Create(context.Background(), userId, &dto.CreateSessionRequest{Pitch: pitch})
	require.NoError(t, err)
	return created.Id
}

// driveToGate runs stages and continues past gates until the session sits
// at the given stage awaiting a gate decision.
func (f *fixture) driveToGate(t *testing.T, userId, sessionId uuid.UUID, stageIndex int) {
	t.Helper()
	ctx := context.Background()
	for {
		status, err := f.sequencer.Status(ctx, userId, sessionId)
		require.NoError(t, err)
		if status.CurrentStageIndex == stageIndex && status.Phase == string(pipeline.PhaseAwaitingGate) {
			return
		}
		require.Less(t, status.CurrentStageIndex, f.plan.Len(), "drove past the target stage")

		switch status.Phase {
		case string(pipeline.PhaseAwaitingInput):
			_, err = f.sequencer.RunStage(ctx, userId, sessionId)
		case string(pipeline.PhaseAwaitingGate):
			_, err = f.sequencer.Signal(ctx, userId, &dto.SignalRequest{
				SessionId: sessionId,
				Decision:  constant.GateDecisionContinue,
			})
		default:
			t.Fatalf("unexpected phase %q while driving to stage %d", status.Phase, stageIndex)
		}
		require.NoError(t, err)
	}
}

func (f *fixture) history(t *testing.T, userId, sessionId uuid.UUID) []*dto.EventResponse {
	t.Helper()
	evts, err := f.sessions.History(context.Background(), userId, &dto.SessionHistoryRequest{Id: sessionId})
	require.NoError(t, err)
	return evts
}

func requireGapless(t *testing.T, evts []*dto.EventResponse) {
	t.Helper()
	for i, evt := range evts {
		require.Equal(t, int64(i+1), evt.Sequence, "event log has a gap at position %d", i)
	}
}
