package repositoryImp

import (
	"context"

	"gorm.io/gorm"

	"plantio/entities"
	"plantio/pkg/plan/repository"
)

type planRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.PlanRepository { return &planRepo{db} }

func (r *planRepo) Create(ctx context.Context, p *entities.PlanRecord) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *planRepo) FindByID(ctx context.Context, id string) (*entities.PlanRecord, error) {
	var p entities.PlanRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *planRepo) ListRecent(ctx context.Context, limit int) ([]entities.PlanRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var ps []entities.PlanRecord
	if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&ps).Error; err != nil {
		return nil, err
	}
	return ps, nil
}
