package implementation

import (
	"context"
	"errors"

	"design-team-be/internal/entity"
	"design-team-be/internal/mapper"
	"design-team-be/internal/model"
	"design-team-be/internal/repository/contract"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AppStateRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.StateMapper
}

func NewAppStateRepository(db *gorm.DB) contract.AppStateRepository {
	return &AppStateRepositoryImpl{
		db:     db,
		mapper: mapper.NewStateMapper(),
	}
}

func (r *AppStateRepositoryImpl) Find(ctx context.Context, appName string) (*entity.AppState, error) {
	var m model.AppState
	err := r.db.WithContext(ctx).Where("app_name = ?", appName).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.AppStateToEntity(&m), nil
}

func (r *AppStateRepositoryImpl) Upsert(ctx context.Context, state *entity.AppState) error {
	m := r.mapper.AppStateToModel(state)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "app_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"state", "updated_at"}),
	}).Create(m).Error
}

func (r *AppStateRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.AppState{}).Count(&count).Error
	return count, err
}
