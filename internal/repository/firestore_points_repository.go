package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/genproto/googleapis/type/latlng"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/pedro-cabreu/next-level-week/internal/domain/model"
	"github.com/pedro-cabreu/next-level-week/internal/domain/repository"
)

const (
	pointsCollection   = "points"
	countersCollection = "counters"
)

// firestorePoint ポイントのドキュメント形式
// 範囲クエリで使えるようにGeoPointとは別に緯度・経度も保持する
type firestorePoint struct {
	ID        int64          `firestore:"id"`
	Name      string         `firestore:"name"`
	Email     string         `firestore:"email"`
	Whatsapp  string         `firestore:"whatsapp"`
	Location  *latlng.LatLng `firestore:"location"`
	Latitude  float64        `firestore:"latitude"`
	Longitude float64        `firestore:"longitude"`
	City      string         `firestore:"city"`
	UF        string         `firestore:"uf"`
	Image     string         `firestore:"image"`
	Items     []int64        `firestore:"items"`
	CreatedAt time.Time      `firestore:"created_at"`
}

func toFirestorePoint(p *model.Point) firestorePoint {
	items := p.Items
	if items == nil {
		items = []int64{}
	}
	return firestorePoint{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		Whatsapp:  p.Whatsapp,
		Location:  PositionToLatLng(p.Position()),
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		City:      p.City,
		UF:        p.UF,
		Image:     p.Image,
		Items:     items,
		CreatedAt: p.CreatedAt,
	}
}

func (d firestorePoint) toPoint() model.Point {
	pos := model.Position{Latitude: d.Latitude, Longitude: d.Longitude}
	if d.Location != nil {
		pos = LatLngToPosition(d.Location)
	}
	items := d.Items
	if items == nil {
		items = []int64{}
	}
	return model.Point{
		ID:        d.ID,
		Name:      d.Name,
		Email:     d.Email,
		Whatsapp:  d.Whatsapp,
		Latitude:  pos.Latitude,
		Longitude: pos.Longitude,
		City:      d.City,
		UF:        d.UF,
		Image:     d.Image,
		Items:     items,
		CreatedAt: d.CreatedAt,
	}
}

// FirestorePointsRepository 数値IDをキーにしたドキュメントとしてポイントを保存
type FirestorePointsRepository struct {
	client *firestore.Client
}

func NewFirestorePointsRepository(client *firestore.Client) repository.PointsRepository {
	return &FirestorePointsRepository{
		client: client,
	}
}

// Create counters/pointsドキュメントから次のIDを採番し、同じトランザクションでポイントを保存
func (r *FirestorePointsRepository) Create(ctx context.Context, point *model.Point) error {
	counterRef := r.client.Collection(countersCollection).Doc(pointsCollection)

	var id int64
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		next := int64(1)
		snap, err := tx.Get(counterRef)
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}
		if err == nil {
			last, dataErr := snap.DataAt("last")
			if dataErr != nil {
				return dataErr
			}
			if n, ok := last.(int64); ok {
				next = n + 1
			}
		}

		doc := toFirestorePoint(point)
		doc.ID = next
		if err := tx.Set(counterRef, map[string]any{"last": next}); err != nil {
			return err
		}
		if err := tx.Create(r.pointRef(next), doc); err != nil {
			return err
		}
		id = next
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save point: %w", err)
	}

	point.ID = id
	return nil
}

func (r *FirestorePointsRepository) GetByID(ctx context.Context, id int64) (*model.Point, error) {
	snap, err := r.pointRef(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("point %d: %w", id, model.ErrPointNotFound)
		}
		return nil, fmt.Errorf("failed to get point %d: %w", id, err)
	}

	var doc firestorePoint
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode point %d: %w", id, err)
	}
	point := doc.toPoint()
	return &point, nil
}

// Search UF・都市は等価条件、アイテムはarray-contains-anyで絞り込み
func (r *FirestorePointsRepository) Search(ctx context.Context, filter model.PointFilter) ([]model.Point, error) {
	query := r.client.Collection(pointsCollection).Query
	if filter.UF != "" {
		query = query.Where("uf", "==", filter.UF)
	}
	if filter.City != "" {
		query = query.Where("city", "==", filter.City)
	}
	if len(filter.Items) > 0 {
		query = query.Where("items", "array-contains-any", filter.Items)
	}

	points, err := r.collect(ctx, query, filter.Matches)
	if err != nil {
		return nil, fmt.Errorf("failed to search points: %w", err)
	}
	return points, nil
}

// GetByBoundingBox 緯度の範囲でクエリし、経度はメモリ上で絞り込む
func (r *FirestorePointsRepository) GetByBoundingBox(ctx context.Context, box model.BoundingBox) ([]model.Point, error) {
	query := r.client.Collection(pointsCollection).
		Where("latitude", ">=", box.MinLat).
		Where("latitude", "<=", box.MaxLat)

	points, err := r.collect(ctx, query, func(p *model.Point) bool {
		return box.Contains(p.Position())
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search points in bounding box: %w", err)
	}
	return points, nil
}

func (r *FirestorePointsRepository) collect(ctx context.Context, query firestore.Query, keep func(*model.Point) bool) ([]model.Point, error) {
	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}

	points := []model.Point{}
	for _, snap := range docs {
		var doc firestorePoint
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode point %s: %w", snap.Ref.ID, err)
		}
		point := doc.toPoint()
		if keep(&point) {
			points = append(points, point)
		}
	}
	sortPointsByID(points)
	return points, nil
}

func (r *FirestorePointsRepository) pointRef(id int64) *firestore.DocumentRef {
	return r.client.Collection(pointsCollection).Doc(strconv.FormatInt(id, 10))
}
