package implementation

import (
	"context"
	"errors"

	"design-team-be/internal/entity"
	"design-team-be/internal/mapper"
	"design-team-be/internal/model"
	"design-team-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserStateRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.StateMapper
}

func NewUserStateRepository(db *gorm.DB) contract.UserStateRepository {
	return &UserStateRepositoryImpl{
		db:     db,
		mapper: mapper.NewStateMapper(),
	}
}

func (r *UserStateRepositoryImpl) Find(ctx context.Context, userId uuid.UUID) (*entity.UserState, error) {
	var m model.UserState
	err := r.db.WithContext(ctx).Where("user_id = ?", userId).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.UserStateToEntity(&m), nil
}

func (r *UserStateRepositoryImpl) Upsert(ctx context.Context, state *entity.UserState) error {
	m := r.mapper.UserStateToModel(state)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"state", "updated_at"}),
	}).Create(m).Error
}

func (r *UserStateRepositoryImpl) DeleteUnscoped(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).Unscoped().Where("user_id = ?", userId).Delete(&model.UserState{}).Error
}

func (r *UserStateRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.UserState{}).Count(&count).Error
	return count, err
}
