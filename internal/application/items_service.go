package application

import (
	"context"
	"fmt"

	"github.com/pedro-cabreu/next-level-week/internal/domain/model"
	"github.com/pedro-cabreu/next-level-week/internal/domain/repository"
)

// ItemsService 廃棄物アイテムカタログの参照サービス
type ItemsService interface {
	// ListItems 公開画像URL付きのカタログをID順で取得
	ListItems(ctx context.Context) ([]model.Item, error)
}

type itemsServiceImpl struct {
	itemsRepo repository.ItemsRepository
	baseURL   string
}

// NewItemsService ItemsServiceの新しいインスタンスを作成（baseURLは/uploadsリンクの接頭辞）
func NewItemsService(itemsRepo repository.ItemsRepository, baseURL string) ItemsService {
	return &itemsServiceImpl{
		itemsRepo: itemsRepo,
		baseURL:   baseURL,
	}
}

func (s *itemsServiceImpl) ListItems(ctx context.Context) ([]model.Item, error) {
	records, err := s.itemsRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	items := make([]model.Item, len(records))
	for i, record := range records {
		items[i] = record.ToItem(s.baseURL)
	}
	return items, nil
}
