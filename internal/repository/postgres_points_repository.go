package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/pedro-cabreu/next-level-week/internal/domain/model"
	"github.com/pedro-cabreu/next-level-week/internal/domain/repository"
	"github.com/pedro-cabreu/next-level-week/internal/infrastructure/database"
)

type PostgresPointsRepository struct {
	client *database.PostgreSQLClient
}

func NewPostgresPointsRepository(client *database.PostgreSQLClient) repository.PointsRepository {
	return &PostgresPointsRepository{
		client: client,
	}
}

// pointColumns ポイント検索で共通のSELECT句（アイテムはpoint_itemsから集約）
const pointColumns = `
	p.id, p.name, p.email, p.whatsapp, p.latitude, p.longitude, p.city, p.uf, p.image, p.created_at,
	COALESCE(ARRAY(SELECT pi.item_id FROM point_items pi WHERE pi.point_id = p.id ORDER BY pi.item_id), '{}')`

// Create ポイントとアイテムの紐付けを1つのトランザクションで挿入
func (r *PostgresPointsRepository) Create(ctx context.Context, point *model.Point) error {
	tx, err := r.client.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO points (name, email, whatsapp, latitude, longitude, city, uf, image, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	err = tx.QueryRowContext(ctx, query,
		point.Name, point.Email, point.Whatsapp, point.Latitude, point.Longitude,
		point.City, point.UF, point.Image, point.CreatedAt,
	).Scan(&point.ID)
	if err != nil {
		return fmt.Errorf("failed to insert point: %w", err)
	}

	if len(point.Items) > 0 {
		linkQuery := `INSERT INTO point_items (point_id, item_id) SELECT $1, unnest($2::bigint[])`
		if _, err := tx.ExecContext(ctx, linkQuery, point.ID, pq.Array(point.Items)); err != nil {
			return fmt.Errorf("failed to link items to point %d: %w", point.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit point: %w", err)
	}
	return nil
}

func (r *PostgresPointsRepository) GetByID(ctx context.Context, id int64) (*model.Point, error) {
	query := `SELECT ` + pointColumns + ` FROM points p WHERE p.id = $1`

	point, err := scanPoint(r.client.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("point %d: %w", id, model.ErrPointNotFound)
		}
		return nil, fmt.Errorf("failed to get point %d: %w", id, err)
	}
	return point, nil
}

// Search UF・都市・いずれかのアイテムで絞り込み（空の条件は無視）
func (r *PostgresPointsRepository) Search(ctx context.Context, filter model.PointFilter) ([]model.Point, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.UF != "" {
		args = append(args, filter.UF)
		conditions = append(conditions, fmt.Sprintf("p.uf = $%d", len(args)))
	}
	if filter.City != "" {
		args = append(args, filter.City)
		conditions = append(conditions, fmt.Sprintf("p.city = $%d", len(args)))
	}
	if len(filter.Items) > 0 {
		args = append(args, pq.Array(filter.Items))
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM point_items pi WHERE pi.point_id = p.id AND pi.item_id = ANY($%d))", len(args)))
	}

	query := `SELECT ` + pointColumns + ` FROM points p`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY p.id`

	return r.queryPoints(ctx, query, args...)
}

// GetByBoundingBox 境界ボックス内のポイントを取得（PostGIS）
func (r *PostgresPointsRepository) GetByBoundingBox(ctx context.Context, box model.BoundingBox) ([]model.Point, error) {
	query := `SELECT ` + pointColumns + ` FROM points p
		WHERE ST_Intersects(
			ST_GeomFromText($1, 4326),
			ST_SetSRID(ST_MakePoint(p.longitude, p.latitude), 4326)
		)
		ORDER BY p.id`

	return r.queryPoints(ctx, query, BoundingBoxToWKT(box))
}

func (r *PostgresPointsRepository) queryPoints(ctx context.Context, query string, args ...any) ([]model.Point, error) {
	rows, err := r.client.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query points: %w", err)
	}
	defer rows.Close()

	points := []model.Point{}
	for rows.Next() {
		point, err := scanPoint(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan point: %w", err)
		}
		points = append(points, *point)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate points: %w", err)
	}
	return points, nil
}

func scanPoint(row interface{ Scan(dest ...any) error }) (*model.Point, error) {
	var (
		point model.Point
		items pq.Int64Array
	)
	err := row.Scan(&point.ID, &point.Name, &point.Email, &point.Whatsapp, &point.Latitude, &point.Longitude,
		&point.City, &point.UF, &point.Image, &point.CreatedAt, &items)
	if err != nil {
		return nil, err
	}
	point.Items = []int64(items)
	if point.Items == nil {
		point.Items = []int64{}
	}
	return &point, nil
}
