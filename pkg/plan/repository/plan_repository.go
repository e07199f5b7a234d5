package repository

import (
	"context"

	"plantio/entities"
)

type PlanRepository interface {
	Create(ctx context.Context, r *entities.PlanRecord) error
	FindByID(ctx context.Context, id string) (*entities.PlanRecord, error)
	ListRecent(ctx context.Context, limit int) ([]entities.PlanRecord, error)
}
