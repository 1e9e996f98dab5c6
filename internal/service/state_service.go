package service

import (
	"context"
	"fmt"

	"design-team-be/internal/dto"
	"design-team-be/internal/entity"
	"design-team-be/internal/errs"
	"design-team-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IStateService interface {
	GetAppState(ctx context.Context, appName string) (*dto.StateResponse, error)
	// SetAppState writes one key under the app scope, read-modify-write,
	// last writer wins.
	SetAppState(ctx context.Context, appName string, req *dto.SetStateRequest) (*dto.SetStateResponse, error)
	GetUserState(ctx context.Context, userId uuid.UUID) (*dto.StateResponse, error)
	SetUserState(ctx context.Context, userId uuid.UUID, req *dto.SetStateRequest) (*dto.SetStateResponse, error)
}

type stateService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewStateService(uowFactory unitofwork.RepositoryFactory) IStateService {
	return &stateService{uowFactory: uowFactory}
}

func (s *stateService) GetAppState(ctx context.Context, appName string) (*dto.StateResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	state, err := uow.AppStateRepository().Find(ctx, appName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
	res := &dto.StateResponse{Scope: "app", Key: appName, State: map[string]interface{}{}}
	if state != nil {
		res.State = state.State
	}
	return res, nil
}

func (s *stateService) SetAppState(ctx context.Context, appName string, req *dto.SetStateRequest) (*dto.SetStateResponse, error) {
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

	state, err := uow.AppStateRepository().Find(ctx, appName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
	if state == nil {
		state = &entity.AppState{AppName: appName, State: map[string]interface{}{}}
	}
	if state.State == nil {
		state.State = map[string]interface{}{}
	}
	state.State[req.Key] = req.Value

	if err := uow.AppStateRepository().Upsert(ctx, state); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
	committed = true

	return &dto.SetStateResponse{Scope: "app", Key: req.Key}, nil
}

func (s *stateService) GetUserState(ctx context.Context, userId uuid.UUID) (*dto.StateResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	state, err := uow.UserStateRepository().Find(ctx, userId)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
	res := &dto.StateResponse{Scope: "user", Key: userId.String(), State: map[string]interface{}{}}
	if state != nil {
		res.State = state.State
	}
	return res, nil
}

func (s *stateService) SetUserState(ctx context.Context, userId uuid.UUID, req *dto.SetStateRequest) (*dto.SetStateResponse, error) {
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

	state, err := uow.UserStateRepository().Find(ctx, userId)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
	if state == nil {
		state = &entity.UserState{UserId: userId, State: map[string]interface{}{}}
	}
	if state.State == nil {
		state.State = map[string]interface{}{}
	}
	state.State[req.Key] = req.Value

	if err := uow.UserStateRepository().Upsert(ctx, state); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
	committed = true

	return &dto.SetStateResponse{Scope: "user", Key: req.Key}, nil
}
