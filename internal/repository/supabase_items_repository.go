package repository

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"github.com/pedro-cabreu/next-level-week/internal/domain/model"
	"github.com/pedro-cabreu/next-level-week/internal/domain/repository"
	"github.com/pedro-cabreu/next-level-week/internal/infrastructure/database"
)

type SupabaseItemsRepository struct {
	client *database.SupabaseClient
}

func NewSupabaseItemsRepository(client *database.SupabaseClient) repository.ItemsRepository {
	return &SupabaseItemsRepository{
		client: client,
	}
}

func (r *SupabaseItemsRepository) GetAll(ctx context.Context) ([]model.ItemRecord, error) {
	data, _, err := r.client.GetClient().From("items").Select("id,title,image", "exact", false).Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch items: %w", err)
	}
	return decodeItemRecords(data)
}

func (r *SupabaseItemsRepository) GetByIDs(ctx context.Context, ids []int64) ([]model.ItemRecord, error) {
	if len(ids) == 0 {
		return []model.ItemRecord{}, nil
	}

	values := make([]string, len(ids))
	for i, id := range ids {
		values[i] = strconv.FormatInt(id, 10)
	}

	data, _, err := r.client.GetClient().From("items").Select("id,title,image", "exact", false).In("id", values).Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch items by id: %w", err)
	}
	return decodeItemRecords(data)
}

// decodeItemRecords PostgRESTのレスポンスを解析してID順に並べる
func decodeItemRecords(data []byte) ([]model.ItemRecord, error) {
	items := []model.ItemRecord{}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal items: %w", err)
	}
	slices.SortFunc(items, func(a, b model.ItemRecord) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return items, nil
}
