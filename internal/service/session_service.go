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
	"design-team-be/pkg/events"
	"design-team-be/pkg/pipeline"

	"github.com/google/uuid"
)

type ISessionService interface {
	// Create opens a session at stage 0 and records the pitch as the
	// first event, atomically.
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.SessionListResponse, error)
	// Resume returns the session with its replayed pipeline position and
	// reactivates it when paused.
	Resume(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.ResumeSessionResponse, error)
	// Pause suspends processing without losing position. Idempotent.
	Pause(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.PauseSessionResponse, error)
	// Close terminates the session with the given outcome. Terminal; no
	// further events are accepted.
	Close(ctx context.Context, userId uuid.UUID, req *dto.CloseSessionRequest) (*dto.CloseSessionResponse, error)
	// History returns the ordered event log from a sequence onwards.
	History(ctx context.Context, userId uuid.UUID, req *dto.SessionHistoryRequest) ([]*dto.EventResponse, error)
}

type sessionService struct {
	uowFactory unitofwork.RepositoryFactory
	plan       *pipeline.Plan
	publisher  IPublisherService
	log        logger.ILogger
}

func NewSessionService(
	uowFactory unitofwork.RepositoryFactory,
	plan *pipeline.Plan,
	publisher IPublisherService,
	log logger.ILogger,
) ISessionService {
	return &sessionService{
		uowFactory: uowFactory,
		plan:       plan,
		publisher:  publisher,
		log:        log,
	}
}

func (s *sessionService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	appName := req.AppName
	if appName == "" {
		appName = constant.DefaultAppName
	}

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

	session := &entity.Session{
		Id:                uuid.New(),
		UserId:            userId,
		AppName:           appName,
		Status:            constant.SessionStatusActive,
		CurrentStageIndex: 0,
		CreatedAt:         time.Now(),
	}
	if err := uow.SessionRepository().Create(ctx, session); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}

	pitchEvt, err := appendWorkflowEvent(ctx, uow, session, constant.EventKindStageInput, map[string]interface{}{
		constant.PayloadKeyStageIndex: 0,
		constant.PayloadKeyAuthor:     constant.AuthorDirector,
		constant.PayloadKeyContent:    req.Pitch,
	})
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
	committed = true
	s.publishEvent(ctx, pitchEvt.SessionId, pitchEvt.Sequence, pitchEvt.Kind, pitchEvt.Payload, pitchEvt.CreatedAt)

	s.log.Info("session", "session created", map[string]interface{}{
		"session_id": session.Id.String(),
		"app_name":   appName,
	})

	return &dto.CreateSessionResponse{
		Id:                session.Id,
		AppName:           session.AppName,
		Status:            session.Status,
		CurrentStageIndex: session.CurrentStageIndex,
	}, nil
}

func (s *sessionService) GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.SessionListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessions, err := uow.SessionRepository().FindAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}

	res := make([]*dto.SessionListResponse, 0, len(sessions))
	for _, session := range sessions {
		res = append(res, &dto.SessionListResponse{
			Id:                session.Id,
			AppName:           session.AppName,
			Status:            session.Status,
			CurrentStageIndex: session.CurrentStageIndex,
			CreatedAt:         session.CreatedAt,
			UpdatedAt:         session.UpdatedAt,
		})
	}
	return res, nil
}

func (s *sessionService) Resume(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.ResumeSessionResponse, error) {
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

	session, err := s.findOwned(ctx, uow, userId, sessionId, true)
	if err != nil {
		return nil, err
	}

	if session.Status == constant.SessionStatusPaused {
		session.Status = constant.SessionStatusActive
		now := time.Now()
		session.UpdatedAt = &now
		if err := uow.SessionRepository().Update(ctx, session); err != nil {
			return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
		}
	}

	evts, err := uow.EventRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "sequence"},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
	committed = true

	st := deriveRunState(s.plan, session, evts)
	res := &dto.ResumeSessionResponse{
		Id:                session.Id,
		AppName:           session.AppName,
		Status:            session.Status,
		CurrentStageIndex: session.CurrentStageIndex,
		Phase:             string(st.phase),
		PendingFeedback:   st.pendingFeedback,
		EventCount:        int64(len(evts)),
		CreatedAt:         session.CreatedAt,
		UpdatedAt:         session.UpdatedAt,
	}
	if stage, ok := s.plan.Stage(session.CurrentStageIndex); ok {
		res.StageRole = stage.Role
		res.StageName = stage.Name
	}
	return res, nil
}

func (s *sessionService) Pause(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.PauseSessionResponse, error) {
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

	session, err := s.findOwned(ctx, uow, userId, sessionId, true)
	if err != nil {
		return nil, err
	}
	if session.Closed() {
		return nil, errs.ErrSessionClosed
	}

	if session.Status != constant.SessionStatusPaused {
		session.Status = constant.SessionStatusPaused
		now := time.Now()
		session.UpdatedAt = &now
		if err := uow.SessionRepository().Update(ctx, session); err != nil {
			return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
		}
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
	committed = true

	return &dto.PauseSessionResponse{Id: session.Id, Status: session.Status}, nil
}

func (s *sessionService) Close(ctx context.Context, userId uuid.UUID, req *dto.CloseSessionRequest) (*dto.CloseSessionResponse, error) {
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

	session, err := s.findOwned(ctx, uow, userId, req.Id, true)
	if err != nil {
		return nil, err
	}
	if session.Closed() {
		return nil, errs.ErrSessionClosed
	}

	switch req.Outcome {
	case constant.OutcomeCompleted:
		session.Status = constant.SessionStatusCompleted
	case constant.OutcomeAborted:
		session.Status = constant.SessionStatusAborted
	default:
		return nil, fmt.Errorf("unknown close outcome %q", req.Outcome)
	}
	now := time.Now()
	session.UpdatedAt = &now
	if err := uow.SessionRepository().Update(ctx, session); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
	committed = true

	s.log.Info("session", "session closed", map[string]interface{}{
		"session_id": session.Id.String(),
		"outcome":    req.Outcome,
	})

	return &dto.CloseSessionResponse{Id: session.Id, Status: session.Status}, nil
}

func (s *sessionService) History(ctx context.Context, userId uuid.UUID, req *dto.SessionHistoryRequest) ([]*dto.EventResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.findOwned(ctx, uow, userId, req.Id, false); err != nil {
		return nil, err
	}

	specs := []specification.Specification{
		specification.BySessionID{SessionID: req.Id},
		specification.OrderBy{Field: "sequence"},
	}
	if req.FromSeq > 0 {
		specs = append(specs, specification.FromSequence{From: req.FromSeq})
	}
	evts, err := uow.EventRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}

	res := make([]*dto.EventResponse, 0, len(evts))
	for _, evt := range evts {
		res = append(res, &dto.EventResponse{
			Id:        evt.Id,
			Sequence:  evt.Sequence,
			Kind:      evt.Kind,
			Payload:   evt.Payload,
			CreatedAt: evt.CreatedAt,
		})
	}
	return res, nil
}

func (s *sessionService) findOwned(ctx context.Context, uow unitofwork.UnitOfWork, userId, sessionId uuid.UUID, lock bool) (*entity.Session, error) {
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
	return session, nil
}

func (s *sessionService) publishEvent(ctx context.Context, sessionId uuid.UUID, seq int64, kind string, payload map[string]interface{}, at time.Time) {
	if s.publisher == nil {
		return
	}
	msg := events.SessionEvent{
		SessionId:  sessionId,
		Sequence:   seq,
		Kind:       kind,
		Data:       payload,
		OccurredAt: at,
	}
	if err := s.publisher.PublishSessionEvent(ctx, msg); err != nil {
		s.log.Warn("session", "failed to publish session event", map[string]interface{}{
			"error":      err.Error(),
			"session_id": sessionId.String(),
		})
	}
}
