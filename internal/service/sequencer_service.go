package service

import (
	"context"
	"fmt"
	"time"

	"design-team-be/internal/constant"
	"design-team-be/internal/dto"
	"design-team-be/internal/entity"
	"design-team-be/internal/errs"
	"design-team-be/internal/pkg/logger"
	"design-team-be/internal/repository/specification"
	"design-team-be/internal/repository/unitofwork"
	"design-team-be/pkg/contributor"
	"design-team-be/pkg/events"
	"design-team-be/pkg/pipeline"

	"github.com/google/uuid"
)

type ISequencerService interface {
	// Status reports the session's replayed pipeline position.
	Status(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.StatusResponse, error)
	// RunStage invokes the current stage's contributor and records the
	// output. Auto-advance stages commit and move on in the same
	// transaction; gated stages leave the session awaiting a signal.
	RunStage(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.RunStageResponse, error)
	// Signal resolves a pending gate with continue or revise. Revise
	// records the feedback and immediately re-runs the stage with it.
	Signal(ctx context.Context, userId uuid.UUID, req *dto.SignalRequest) (*dto.SignalResponse, error)
	// Document assembles the committed sections into the artifact.
	Document(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.DocumentResponse, error)
}

type sequencerService struct {
	uowFactory unitofwork.RepositoryFactory
	plan       *pipeline.Plan
	provider   contributor.Provider
	publisher  IPublisherService
	log        logger.ILogger
}

func NewSequencerService(
	uowFactory unitofwork.RepositoryFactory,
	plan *pipeline.Plan,
	provider contributor.Provider,
	publisher IPublisherService,
	log logger.ILogger,
) ISequencerService {
	return &sequencerService{
		uowFactory: uowFactory,
		plan:       plan,
		provider:   provider,
		publisher:  publisher,
		log:        log,
	}
}

// runState is a session's position inside the pipeline, replayed from the
// session record plus its ordered event log. Nothing here is cached across
// calls; every operation rebuilds it, which is what makes crash recovery
// free.
type runState struct {
	session *entity.Session
	events  []*entity.Event
	phase   pipeline.Phase

	// pitch is the premise recorded by the initial stage_input.
	pitch string
	// latestOutput maps stage index to its most recent stage_output.
	latestOutput map[int]*entity.Event
	// pendingFeedback is set when the current stage was sent back for
	// revision and has not produced a new draft yet.
	pendingFeedback string
}

// deriveRunState replays the event log. The phase of the current stage
// falls out of the relative order of its latest stage_output and its
// latest gate_decision / revision_request.
func deriveRunState(plan *pipeline.Plan, session *entity.Session, evts []*entity.Event) *runState {
	st := &runState{
		session:      session,
		events:       evts,
		latestOutput: make(map[int]*entity.Event),
	}

	current := session.CurrentStageIndex
	var latestOut *entity.Event
	var latestVerdict *entity.Event
	for _, e := range evts {
		switch e.Kind {
		case constant.EventKindStageInput:
			if st.pitch == "" {
				st.pitch = e.Content()
			}
		case constant.EventKindStageOutput:
			st.latestOutput[e.StageIndex()] = e
			if e.StageIndex() == current {
				latestOut = e
			}
		case constant.EventKindGateDecision, constant.EventKindRevisionRequest:
			if e.StageIndex() == current {
				latestVerdict = e
			}
		}
	}

	switch session.Status {
	case constant.SessionStatusCompleted:
		st.phase = pipeline.PhaseFinalized
	case constant.SessionStatusAborted:
		st.phase = pipeline.PhaseAborted
	default:
		if latestOut != nil && (latestVerdict == nil || latestVerdict.Sequence < latestOut.Sequence) {
			st.phase = pipeline.PhaseAwaitingGate
		} else {
			st.phase = pipeline.PhaseAwaitingInput
			if latestVerdict != nil && latestVerdict.Kind == constant.EventKindRevisionRequest {
				st.pendingFeedback = latestVerdict.Feedback()
			}
		}
	}
	return st
}

// document assembles the committed sections. A stage's output counts as
// committed once the session moved past it (or the whole pipeline
// finished).
func (st *runState) document(plan *pipeline.Plan) *pipeline.Document {
	doc := pipeline.NewDocument()
	limit := st.session.CurrentStageIndex
	if st.session.Status == constant.SessionStatusCompleted {
		limit = plan.Len()
	}
	for _, stage := range plan.Stages() {
		if stage.Index >= limit {
			break
		}
		out, ok := st.latestOutput[stage.Index]
		if !ok {
			continue
		}
		for _, path := range stage.Sections {
			doc.Set(path, out.Content())
		}
	}
	return doc
}

func (st *runState) guardOpen() error {
	switch st.session.Status {
	case constant.SessionStatusPaused:
		return errs.ErrSessionPaused
	case constant.SessionStatusCompleted:
		return errs.ErrPipelineFinished
	case constant.SessionStatusAborted:
		return errs.ErrSessionClosed
	}
	return nil
}

// loadState fetches the session (optionally row-locked for the enclosing
// transaction) plus its full event log and replays it.
func (s *sequencerService) loadState(ctx context.Context, uow unitofwork.UnitOfWork, userId, sessionId uuid.UUID, lock bool) (*runState, error) {
	specs := []specification.Specification{specification.ByID{ID: sessionId}}
	if lock {
		specs = append(specs, specification.LockForUpdate{})
	}
	session, err := uow.SessionRepository().FindOne(ctx, specs...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
	if session == nil {
		return nil, errs.ErrSessionNotFound
	}
	if session.UserId != userId {
		return nil, errs.ErrForbidden
	}
	evts, err := uow.EventRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "sequence"},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
	return deriveRunState(s.plan, session, evts), nil
}

// appendWorkflowEvent assigns the next sequence and inserts the event. The
// caller must hold the session row lock inside an open unit of work.
func appendWorkflowEvent(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.Session, kind string, payload map[string]interface{}) (*entity.Event, error) {
	if session.Closed() {
		return nil, errs.ErrSessionClosed
	}
	seq, err := uow.EventRepository().NextSequence(ctx, session.Id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
	evt := &entity.Event{
		Id:        uuid.New(),
		SessionId: session.Id,
		Sequence:  seq,
		Kind:      kind,
		Payload:   payload,
		CreatedAt: time.Now(),
	}
	if err := uow.EventRepository().Append(ctx, evt); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
	return evt, nil
}

func (s *sequencerService) Status(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.StatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	st, err := s.loadState(ctx, uow, userId, sessionId, false)
	if err != nil {
		return nil, err
	}

	res := &dto.StatusResponse{
		SessionId:         st.session.Id,
		Status:            st.session.Status,
		Phase:             string(st.phase),
		CurrentStageIndex: st.session.CurrentStageIndex,
		PendingFeedback:   st.pendingFeedback,
		TotalStages:       s.plan.Len(),
	}
	if stage, ok := s.plan.Stage(st.session.CurrentStageIndex); ok {
		res.StageRole = stage.Role
		res.StageName = stage.Name
	}
	return res, nil
}

func (s *sequencerService) RunStage(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.RunStageResponse, error) {
	return s.runCurrentStage(ctx, userId, sessionId)
}

// runCurrentStage reads the position without holding a lock, invokes the
// contributor (possibly a slow model call), then revalidates under the row
// lock before committing. A failed contributor call records nothing.
func (s *sequencerService) runCurrentStage(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.RunStageResponse, error) {
	readUow := s.uowFactory.NewUnitOfWork(ctx)
	st, err := s.loadState(ctx, readUow, userId, sessionId, false)
	if err != nil {
		return nil, err
	}
	if err := st.guardOpen(); err != nil {
		return nil, err
	}
	if st.phase == pipeline.PhaseAwaitingGate {
		return nil, errs.ErrGatePending
	}

	stage, ok := s.plan.Stage(st.session.CurrentStageIndex)
	if !ok {
		return nil, fmt.Errorf("session %s points at unknown stage %d", sessionId, st.session.CurrentStageIndex)
	}

	inv := s.buildInvocation(st, stage)
	inv.AppState, inv.UserState = s.loadStateMaps(ctx, readUow, st.session)

	content, err := s.provider.Contribute(ctx, inv)
	if err != nil {
		return nil, errs.NewContributorError(stage.Index, stage.Role, err)
	}

	res, appended, err := s.commitOutput(ctx, userId, sessionId, stage, inv, content)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, appended)
	return res, nil
}

func (s *sequencerService) buildInvocation(st *runState, stage pipeline.Stage) *contributor.Invocation {
	var prior []contributor.Section
	for _, prev := range s.plan.Stages() {
		if prev.Index >= stage.Index {
			break
		}
		out, ok := st.latestOutput[prev.Index]
		if !ok {
			continue
		}
		for _, path := range prev.Sections {
			prior = append(prior, contributor.Section{Path: path, Content: out.Content()})
		}
	}
	var previousDraft string
	if out, ok := st.latestOutput[stage.Index]; ok {
		previousDraft = out.Content()
	}
	return &contributor.Invocation{
		StageIndex:    stage.Index,
		Role:          stage.Role,
		StageName:     stage.Name,
		Instruction:   stage.Instruction,
		Pitch:         st.pitch,
		PriorSections: prior,
		PreviousDraft: previousDraft,
		Feedback:      st.pendingFeedback,
	}
}

// loadStateMaps reads the session's app and user scoped state for the
// contributor's context bundle. The read is best-effort: an unreachable or
// unconfigured scope contributes an empty map, never a failed run.
func (s *sequencerService) loadStateMaps(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.Session) (map[string]interface{}, map[string]interface{}) {
	appState := map[string]interface{}{}
	if state, err := uow.AppStateRepository().Find(ctx, session.AppName); err != nil {
		s.log.Warn("sequencer", "failed to load app state for invocation", map[string]interface{}{
			"error":    err.Error(),
			"app_name": session.AppName,
		})
	} else if state != nil && state.State != nil {
		appState = state.State
	}

	userState := map[string]interface{}{}
	if state, err := uow.UserStateRepository().Find(ctx, session.UserId); err != nil {
		s.log.Warn("sequencer", "failed to load user state for invocation", map[string]interface{}{
			"error":   err.Error(),
			"user_id": session.UserId.String(),
		})
	} else if state != nil && state.State != nil {
		userState = state.State
	}

	return appState, userState
}

func (s *sequencerService) commitOutput(ctx context.Context, userId, sessionId uuid.UUID, stage pipeline.Stage, inv *contributor.Invocation, content string) (*dto.RunStageResponse, []*entity.Event, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = uow.Rollback()
		}
	}()

	st, err := s.loadState(ctx, uow, userId, sessionId, true)
	if err != nil {
		return nil, nil, err
	}
	if err := st.guardOpen(); err != nil {
		return nil, nil, err
	}
	if st.session.CurrentStageIndex != stage.Index || st.phase != pipeline.PhaseAwaitingInput {
		return nil, nil, errs.ErrStaleRun
	}

	// The run's context bundle and its output land in one transaction, so a
	// failed contributor call leaves no trace on the log.
	priorPaths := make([]string, 0, len(inv.PriorSections))
	for _, section := range inv.PriorSections {
		priorPaths = append(priorPaths, section.Path)
	}
	inputPayload := map[string]interface{}{
		constant.PayloadKeyStageIndex: stage.Index,
		constant.PayloadKeyRole:       stage.Role,
		constant.PayloadKeyAuthor:     constant.AuthorSequencer,
		constant.PayloadKeySections:   priorPaths,
	}
	if inv.Feedback != "" {
		inputPayload[constant.PayloadKeyFeedback] = inv.Feedback
	}
	inEvt, err := appendWorkflowEvent(ctx, uow, st.session, constant.EventKindStageInput, inputPayload)
	if err != nil {
		return nil, nil, err
	}

	outEvt, err := appendWorkflowEvent(ctx, uow, st.session, constant.EventKindStageOutput, map[string]interface{}{
		constant.PayloadKeyStageIndex: stage.Index,
		constant.PayloadKeyRole:       stage.Role,
		constant.PayloadKeyContent:    content,
	})
	if err != nil {
		return nil, nil, err
	}
	appended := []*entity.Event{inEvt, outEvt}

	phase := pipeline.PhaseAwaitingGate
	autoAdvanced := false
	if stage.Gate == pipeline.GateAutoAdvance {
		gateEvt, err := appendWorkflowEvent(ctx, uow, st.session, constant.EventKindGateDecision, map[string]interface{}{
			constant.PayloadKeyStageIndex: stage.Index,
			constant.PayloadKeyDecision:   constant.GateDecisionContinue,
			constant.PayloadKeyMode:       constant.GateModeAuto,
		})
		if err != nil {
			return nil, nil, err
		}
		appended = append(appended, gateEvt)
		autoAdvanced = true
		phase = s.advance(st.session, stage)
	}

	now := time.Now()
	st.session.UpdatedAt = &now
	if err := uow.SessionRepository().Update(ctx, st.session); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
	if err := uow.Commit(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
	committed = true

	return &dto.RunStageResponse{
		SessionId:    sessionId,
		StageIndex:   stage.Index,
		StageRole:    stage.Role,
		Content:      content,
		Phase:        string(phase),
		AutoAdvanced: autoAdvanced,
	}, appended, nil
}

// advance moves the session to the next stage, or completes it when the
// committed stage was the last one.
func (s *sequencerService) advance(session *entity.Session, stage pipeline.Stage) pipeline.Phase {
	if stage.Index == s.plan.LastIndex() {
		session.Status = constant.SessionStatusCompleted
		return pipeline.PhaseFinalized
	}
	session.CurrentStageIndex = stage.Index + 1
	return pipeline.PhaseAwaitingInput
}

func (s *sequencerService) Signal(ctx context.Context, userId uuid.UUID, req *dto.SignalRequest) (*dto.SignalResponse, error) {
	switch req.Decision {
	case constant.GateDecisionContinue:
		return s.signalContinue(ctx, userId, req.SessionId)
	case constant.GateDecisionRevision:
		return s.signalRevise(ctx, userId, req.SessionId, req.Feedback)
	default:
		return nil, fmt.Errorf("unknown gate decision %q", req.Decision)
	}
}

func (s *sequencerService) signalContinue(ctx context.Context, userId, sessionId uuid.UUID) (*dto.SignalResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = uow.Rollback()
		}
	}()

	st, err := s.loadState(ctx, uow, userId, sessionId, true)
	if err != nil {
		return nil, err
	}
	if err := st.guardOpen(); err != nil {
		return nil, err
	}
	if st.phase != pipeline.PhaseAwaitingGate {
		return nil, errs.ErrNoGatePending
	}

	stage, _ := s.plan.Stage(st.session.CurrentStageIndex)
	gateEvt, err := appendWorkflowEvent(ctx, uow, st.session, constant.EventKindGateDecision, map[string]interface{}{
		constant.PayloadKeyStageIndex: stage.Index,
		constant.PayloadKeyDecision:   constant.GateDecisionContinue,
		constant.PayloadKeyMode:       constant.GateModeManual,
	})
	if err != nil {
		return nil, err
	}

	phase := s.advance(st.session, stage)
	now := time.Now()
	st.session.UpdatedAt = &now
	if err := uow.SessionRepository().Update(ctx, st.session); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
	committed = true
	s.publish(ctx, []*entity.Event{gateEvt})

	return &dto.SignalResponse{
		SessionId:         sessionId,
		Decision:          constant.GateDecisionContinue,
		Phase:             string(phase),
		CurrentStageIndex: st.session.CurrentStageIndex,
	}, nil
}

// signalRevise records the feedback, then immediately re-runs the stage
// with it. If the re-run's contributor call fails, the revision_request
// stays on the log and the session is left awaiting input; a later
// RunStage picks the feedback up again.
func (s *sequencerService) signalRevise(ctx context.Context, userId, sessionId uuid.UUID, feedback string) (*dto.SignalResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = uow.Rollback()
		}
	}()

	st, err := s.loadState(ctx, uow, userId, sessionId, true)
	if err != nil {
		return nil, err
	}
	if err := st.guardOpen(); err != nil {
		return nil, err
	}
	if st.phase != pipeline.PhaseAwaitingGate {
		return nil, errs.ErrNoGatePending
	}

	stage, _ := s.plan.Stage(st.session.CurrentStageIndex)
	revEvt, err := appendWorkflowEvent(ctx, uow, st.session, constant.EventKindRevisionRequest, map[string]interface{}{
		constant.PayloadKeyStageIndex: stage.Index,
		constant.PayloadKeyFeedback:   feedback,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	st.session.UpdatedAt = &now
	if err := uow.SessionRepository().Update(ctx, st.session); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
	committed = true
	s.publish(ctx, []*entity.Event{revEvt})

	runRes, err := s.runCurrentStage(ctx, userId, sessionId)
	if err != nil {
		return nil, err
	}
	return &dto.SignalResponse{
		SessionId:         sessionId,
		Decision:          constant.GateDecisionRevision,
		Phase:             runRes.Phase,
		CurrentStageIndex: runRes.StageIndex,
	}, nil
}

func (s *sequencerService) Document(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	st, err := s.loadState(ctx, uow, userId, sessionId, false)
	if err != nil {
		return nil, err
	}

	doc := st.document(s.plan)
	sections := make([]dto.DocumentSectionResponse, 0, doc.Len())
	for _, view := range doc.Sections() {
		sections = append(sections, dto.DocumentSectionResponse{Path: view.Path, Content: view.Text})
	}
	return &dto.DocumentResponse{
		SessionId: sessionId,
		Complete:  doc.Complete(s.plan),
		Sections:  sections,
		Rendered:  doc.Render(),
	}, nil
}

// publish fans committed events out on the bus. Publication is auxiliary;
// failures are logged and swallowed.
func (s *sequencerService) publish(ctx context.Context, evts []*entity.Event) {
	if s.publisher == nil {
		return
	}
	for _, evt := range evts {
		msg := events.SessionEvent{
			SessionId:  evt.SessionId,
			Sequence:   evt.Sequence,
			Kind:       evt.Kind,
			Data:       evt.Payload,
			OccurredAt: evt.CreatedAt,
		}
		if err := s.publisher.PublishSessionEvent(ctx, msg); err != nil {
			s.log.Warn("sequencer", "failed to publish session event", map[string]interface{}{
				"error":      err.Error(),
				"session_id": evt.SessionId.String(),
				"sequence":   evt.Sequence,
			})
		}
	}
}
