package service

import (
	"context"
	"fmt"
	"time"

	"design-team-be/internal/dto"
	"design-team-be/internal/errs"
	"design-team-be/internal/pkg/logger"
	"design-team-be/internal/repository/specification"
	"design-team-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IAdminService interface {
	Info(ctx context.Context) (*dto.InfoResponse, error)
	// DeleteSession hard-deletes a session and its whole log, events
	// first. Whole-log deletion keeps the gapless sequence invariant.
	DeleteSession(ctx context.Context, sessionId uuid.UUID) (*dto.DeleteSessionResponse, error)
	// DeleteUserData removes every session, event and user-scope state
	// record belonging to one user.
	DeleteUserData(ctx context.Context, userId uuid.UUID) (*dto.DeleteUserDataResponse, error)
	// Cleanup purges sessions (and their logs) not touched for the given
	// number of days.
	Cleanup(ctx context.Context, req *dto.CleanupRequest) (*dto.CleanupResponse, error)
}

type adminService struct {
	uowFactory unitofwork.RepositoryFactory
	log        logger.ILogger
}

func NewAdminService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IAdminService {
	return &adminService{uowFactory: uowFactory, log: log}
}

func (s *adminService) Info(ctx context.Context) (*dto.InfoResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.SessionRepository().Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
	evts, err := uow.EventRepository().Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
	appStates, err := uow.AppStateRepository().Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
	userStates, err := uow.UserStateRepository().Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}

	return &dto.InfoResponse{
		Sessions:   sessions,
		Events:     evts,
		AppStates:  appStates,
		UserStates: userStates,
	}, nil
}

func (s *adminService) DeleteSession(ctx context.Context, sessionId uuid.UUID) (*dto.DeleteSessionResponse, error) {
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

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: sessionId}, specification.LockForUpdate{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
	if session == nil {
		return nil, errs.ErrSessionNotFound
	}

	evtCount, err := uow.EventRepository().Count(ctx, specification.BySessionID{SessionID: sessionId})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
	if err := uow.EventRepository().DeleteAllBySessionIdUnscoped(ctx, sessionId); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
	if err := uow.SessionRepository().DeleteUnscoped(ctx, sessionId); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
	committed = true

	s.log.Info("admin", "session hard-deleted", map[string]interface{}{
		"session_id": sessionId.String(),
		"events":     evtCount,
	})
	return &dto.DeleteSessionResponse{Id: sessionId, EventsDeleted: evtCount}, nil
}

func (s *adminService) DeleteUserData(ctx context.Context, userId uuid.UUID) (*dto.DeleteUserDataResponse, error) {
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

	sessions, err := uow.SessionRepository().FindAll(ctx, specification.ByUserID{UserID: userId})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}

	var eventsDeleted int64
	for _, session := range sessions {
		count, err := uow.EventRepository().Count(ctx, specification.BySessionID{SessionID: session.Id})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
		}
		if err := uow.EventRepository().DeleteAllBySessionIdUnscoped(ctx, session.Id); err != nil {
			return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
		}
		eventsDeleted += count
	}
	if err := uow.SessionRepository().DeleteAllByUserIdUnscoped(ctx, userId); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
	if err := uow.UserStateRepository().DeleteUnscoped(ctx, userId); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
	committed = true

	s.log.Info("admin", "user data purged", map[string]interface{}{
		"user_id":  userId.String(),
		"sessions": len(sessions),
		"events":   eventsDeleted,
	})
	return &dto.DeleteUserDataResponse{
		UserId:          userId,
		SessionsDeleted: int64(len(sessions)),
		EventsDeleted:   eventsDeleted,
	}, nil
}

func (s *adminService) Cleanup(ctx context.Context, req *dto.CleanupRequest) (*dto.CleanupResponse, error) {
	cutoff := time.Now().AddDate(0, 0, -req.OlderThanDays)

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

	stale, err := uow.SessionRepository().FindAll(ctx, specification.UpdatedBefore{Cutoff: cutoff})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}

	var eventsDeleted int64
	for _, session := range stale {
		count, err := uow.EventRepository().Count(ctx, specification.BySessionID{SessionID: session.Id})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
		}
		if err := uow.EventRepository().DeleteAllBySessionIdUnscoped(ctx, session.Id); err != nil {
			return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
		}
		if err := uow.SessionRepository().DeleteUnscoped(ctx, session.Id); err != nil {
			return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
		}
		eventsDeleted += count
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
	committed = true

	s.log.Info("admin", "stale sessions purged", map[string]interface{}{
		"older_than_days": req.OlderThanDays,
		"sessions":        len(stale),
		"events":          eventsDeleted,
	})
	return &dto.CleanupResponse{
		SessionsDeleted: int64(len(stale)),
		EventsDeleted:   eventsDeleted,
	}, nil
}
