package repository

import (
	"context"

	"github.com/pedro-cabreu/next-level-week/internal/domain/model"
)

// PointEventPublisher 保存済みポイントを下流のコンシューマーへ通知
type PointEventPublisher interface {
	PublishPointCreated(ctx context.Context, event model.PointCreatedEvent) error
	Close() error
}
