package repository

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/pedro-cabreu/next-level-week/internal/domain/model"
	"github.com/pedro-cabreu/next-level-week/internal/domain/repository"
	"github.com/pedro-cabreu/next-level-week/internal/infrastructure/database"
)

// MemoryItemsRepository メモリ上の固定カタログ
type MemoryItemsRepository struct {
	items []model.ItemRecord
}

// NewMemoryItemsRepository database.DefaultItemsでカタログを作成（IDは1から）
func NewMemoryItemsRepository() repository.ItemsRepository {
	items := make([]model.ItemRecord, len(database.DefaultItems))
	for i, seed := range database.DefaultItems {
		items[i] = model.ItemRecord{ID: int64(i + 1), Title: seed.Title, Image: seed.Image}
	}
	return &MemoryItemsRepository{items: items}
}

func (r *MemoryItemsRepository) GetAll(ctx context.Context) ([]model.ItemRecord, error) {
	return slices.Clone(r.items), nil
}

func (r *MemoryItemsRepository) GetByIDs(ctx context.Context, ids []int64) ([]model.ItemRecord, error) {
	items := []model.ItemRecord{}
	for _, item := range r.items {
		if slices.Contains(ids, item.ID) {
			items = append(items, item)
		}
	}
	return items, nil
}

// MemoryPointsRepository メモリ上のポイント（再起動で消える）
type MemoryPointsRepository struct {
	mu     sync.RWMutex
	points map[int64]model.Point
	lastID int64
}

func NewMemoryPointsRepository() repository.PointsRepository {
	return &MemoryPointsRepository{
		points: make(map[int64]model.Point),
	}
}

func (r *MemoryPointsRepository) Create(ctx context.Context, point *model.Point) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	point.ID = r.lastID
	stored := *point
	stored.Items = slices.Clone(point.Items)
	if stored.Items == nil {
		stored.Items = []int64{}
	}
	r.points[stored.ID] = stored
	return nil
}

func (r *MemoryPointsRepository) GetByID(ctx context.Context, id int64) (*model.Point, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	point, ok := r.points[id]
	if !ok {
		return nil, fmt.Errorf("point %d: %w", id, model.ErrPointNotFound)
	}
	point.Items = slices.Clone(point.Items)
	return &point, nil
}

func (r *MemoryPointsRepository) Search(ctx context.Context, filter model.PointFilter) ([]model.Point, error) {
	return r.collect(filter.Matches), nil
}

func (r *MemoryPointsRepository) GetByBoundingBox(ctx context.Context, box model.BoundingBox) ([]model.Point, error) {
	return r.collect(func(p *model.Point) bool {
		return box.Contains(p.Position())
	}), nil
}

func (r *MemoryPointsRepository) collect(keep func(*model.Point) bool) []model.Point {
	r.mu.RLock()
	defer r.mu.RUnlock()

	points := []model.Point{}
	for _, point := range r.points {
		if keep(&point) {
			point.Items = slices.Clone(point.Items)
			points = append(points, point)
		}
	}
	sortPointsByID(points)
	return points
}

func sortPointsByID(points []model.Point) {
	slices.SortFunc(points, func(a, b model.Point) int {
		return cmp.Compare(a.ID, b.ID)
	})
}
