package repository

import (
	"context"

	"github.com/pedro-cabreu/next-level-week/internal/domain/model"
)

type ItemsRepository interface {
	GetAll(ctx context.Context) ([]model.ItemRecord, error)
	GetByIDs(ctx context.Context, ids []int64) ([]model.ItemRecord, error)
}
