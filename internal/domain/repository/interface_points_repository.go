package repository

import (
	"context"

	"github.com/pedro-cabreu/next-level-week/internal/domain/model"
)

type PointsRepository interface {
	// Create アイテムとの紐付けを含めて保存し、point.IDを設定
	Create(ctx context.Context, point *model.Point) error
	GetByID(ctx context.Context, id int64) (*model.Point, error)
	Search(ctx context.Context, filter model.PointFilter) ([]model.Point, error)
	GetByBoundingBox(ctx context.Context, box model.BoundingBox) ([]model.Point, error)
}
