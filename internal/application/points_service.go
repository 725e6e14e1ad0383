package application

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/pedro-cabreu/next-level-week/internal/domain/model"
	"github.com/pedro-cabreu/next-level-week/internal/domain/repository"
)

// PointsService 収集ポイントの登録・検索サービス
type PointsService interface {
	// CreatePoint ポイントを保存してイベントを配信（ペイロードは受け取った通りに保存）
	CreatePoint(ctx context.Context, req *model.CreatePointRequest) (*model.CreatePointResponse, error)

	// SubmitPoint 登録ページ用のCreatePoint
	SubmitPoint(ctx context.Context, req *model.CreatePointRequest) (*model.CreatePointResponse, error)

	// GetPoint アイテム付きでポイントを取得
	GetPoint(ctx context.Context, id int64) (*model.PointDetail, error)

	// SearchPoints UF・都市・いずれかのアイテムに一致するポイントを検索
	SearchPoints(ctx context.Context, filter model.PointFilter) ([]model.Point, error)

	// GetPointsByBoundingBox 境界ボックス内のポイントを取得
	GetPointsByBoundingBox(ctx context.Context, box model.BoundingBox) ([]model.Point, error)
}

type pointsServiceImpl struct {
	pointsRepo repository.PointsRepository
	itemsRepo  repository.ItemsRepository
	publisher  repository.PointEventPublisher
	baseURL    string
	logger     zerolog.Logger
	now        func() time.Time
}

func NewPointsService(
	pointsRepo repository.PointsRepository,
	itemsRepo repository.ItemsRepository,
	publisher repository.PointEventPublisher,
	baseURL string,
	logger zerolog.Logger,
) PointsService {
	return &pointsServiceImpl{
		pointsRepo: pointsRepo,
		itemsRepo:  itemsRepo,
		publisher:  publisher,
		baseURL:    baseURL,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *pointsServiceImpl) CreatePoint(ctx context.Context, req *model.CreatePointRequest) (*model.CreatePointResponse, error) {
	// アイテムは重複を除きID順（どのストアも読み出し時はID順）
	items := slices.Clone(req.Items)
	slices.Sort(items)
	items = slices.Compact(items)
	if items == nil {
		items = []int64{}
	}

	point := &model.Point{
		Name:      req.Name,
		Email:     req.Email,
		Whatsapp:  req.Whatsapp,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		City:      req.City,
		UF:        req.UF,
		Items:     items,
		CreatedAt: s.now().UTC(),
	}

	if err := s.pointsRepo.Create(ctx, point); err != nil {
		return nil, fmt.Errorf("failed to save point: %w", err)
	}
	s.logger.Info().Int64("point_id", point.ID).Str("uf", point.UF).Str("city", point.City).Msg("📍 collection point created")

	// 保存後のイベント配信はベストエフォート
	if err := s.publisher.PublishPointCreated(ctx, model.NewPointCreatedEvent(point)); err != nil {
		s.logger.Warn().Err(err).Int64("point_id", point.ID).Msg("⚠️ point event not published")
	}

	return &model.CreatePointResponse{
		ID:     point.ID,
		Status: "success",
	}, nil
}

func (s *pointsServiceImpl) SubmitPoint(ctx context.Context, req *model.CreatePointRequest) (*model.CreatePointResponse, error) {
	return s.CreatePoint(ctx, req)
}

func (s *pointsServiceImpl) GetPoint(ctx context.Context, id int64) (*model.PointDetail, error) {
	point, err := s.pointsRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get point: %w", err)
	}

	records, err := s.itemsRepo.GetByIDs(ctx, point.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to get items of point %d: %w", id, err)
	}

	items := make([]model.Item, len(records))
	for i, record := range records {
		items[i] = record.ToItem(s.baseURL)
	}

	s.withImageURL(point)
	return &model.PointDetail{Point: *point, Items: items}, nil
}

func (s *pointsServiceImpl) SearchPoints(ctx context.Context, filter model.PointFilter) ([]model.Point, error) {
	points, err := s.pointsRepo.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search points: %w", err)
	}
	for i := range points {
		s.withImageURL(&points[i])
	}
	return points, nil
}

func (s *pointsServiceImpl) GetPointsByBoundingBox(ctx context.Context, box model.BoundingBox) ([]model.Point, error) {
	if err := validateBoundingBox(box); err != nil {
		return nil, err
	}

	points, err := s.pointsRepo.GetByBoundingBox(ctx, box)
	if err != nil {
		return nil, fmt.Errorf("failed to get points by bounding box: %w", err)
	}
	for i := range points {
		s.withImageURL(&points[i])
	}
	return points, nil
}

func (s *pointsServiceImpl) withImageURL(point *model.Point) {
	point.ImageURL = model.UploadURL(s.baseURL, point.Image)
}

// validateBoundingBox 両軸でmin<max、かつWGS84の範囲内であることを検証
func validateBoundingBox(box model.BoundingBox) error {
	if box.MinLng >= box.MaxLng {
		return fmt.Errorf("%w: min longitude must be less than max longitude", model.ErrInvalidBBox)
	}
	if box.MinLat >= box.MaxLat {
		return fmt.Errorf("%w: min latitude must be less than max latitude", model.ErrInvalidBBox)
	}
	if box.MinLng < -180 || box.MaxLng > 180 {
		return fmt.Errorf("%w: longitude must be between -180 and 180", model.ErrInvalidBBox)
	}
	if box.MinLat < -90 || box.MaxLat > 90 {
		return fmt.Errorf("%w: latitude must be between -90 and 90", model.ErrInvalidBBox)
	}
	return nil
}
