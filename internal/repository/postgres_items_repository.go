package repository

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/pedro-cabreu/next-level-week/internal/domain/model"
	"github.com/pedro-cabreu/next-level-week/internal/domain/repository"
	"github.com/pedro-cabreu/next-level-week/internal/infrastructure/database"
)

type PostgresItemsRepository struct {
	client *database.PostgreSQLClient
}

func NewPostgresItemsRepository(client *database.PostgreSQLClient) repository.ItemsRepository {
	return &PostgresItemsRepository{
		client: client,
	}
}

func (r *PostgresItemsRepository) GetAll(ctx context.Context) ([]model.ItemRecord, error) {
	query := `SELECT id, title, image FROM items ORDER BY id`

	rows, err := r.client.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

func (r *PostgresItemsRepository) GetByIDs(ctx context.Context, ids []int64) ([]model.ItemRecord, error) {
	if len(ids) == 0 {
		return []model.ItemRecord{}, nil
	}

	query := `SELECT id, title, image FROM items WHERE id = ANY($1) ORDER BY id`

	rows, err := r.client.DB.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query items by id: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanItems(rows rowScanner) ([]model.ItemRecord, error) {
	items := []model.ItemRecord{}
	for rows.Next() {
		var item model.ItemRecord
		if err := rows.Scan(&item.ID, &item.Title, &item.Image); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}
	return items, nil
}
