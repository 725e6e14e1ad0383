package model

import "time"

// Point 登録済みの廃棄物収集ポイント
type Point struct {
	ID        int64     `json:"id" firestore:"id"`
	Name      string    `json:"name" firestore:"name"`
	Email     string    `json:"email" firestore:"email"`
	Whatsapp  string    `json:"whatsapp" firestore:"whatsapp"`
	Latitude  float64   `json:"latitude" firestore:"latitude"`
	Longitude float64   `json:"longitude" firestore:"longitude"`
	City      string    `json:"city" firestore:"city"`
	UF        string    `json:"uf" firestore:"uf"`
	Image     string    `json:"image" firestore:"image"`
	ImageURL  string    `json:"image_url" firestore:"-"`
	Items     []int64   `json:"items" firestore:"items"`
	CreatedAt time.Time `json:"created_at" firestore:"created_at"`
}

// Position ポイントの位置
func (p *Point) Position() Position {
	return Position{Latitude: p.Latitude, Longitude: p.Longitude}
}

// CreatePointRequest POST /points に送信するペイロード
type CreatePointRequest struct {
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Whatsapp  string  `json:"whatsapp"`
	UF        string  `json:"uf"`
	City      string  `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Items     []int64 `json:"items"`
}

// CreatePointResponse POST /points のレスポンス
type CreatePointResponse struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

// PointFilter GET /points の検索条件（空のフィールドは条件にしない）
type PointFilter struct {
	UF    string
	City  string
	Items []int64
}

// Matches ポイントが条件を満たすか（アイテムはいずれか一致）
func (f PointFilter) Matches(p *Point) bool {
	if f.UF != "" && p.UF != f.UF {
		return false
	}
	if f.City != "" && p.City != f.City {
		return false
	}
	if len(f.Items) == 0 {
		return true
	}
	for _, want := range f.Items {
		for _, have := range p.Items {
			if want == have {
				return true
			}
		}
	}
	return false
}

// PointCreatedEvent ポイント保存後に配信するメッセージ
type PointCreatedEvent struct {
	Type      string    `json:"type"`
	PointID   int64     `json:"point_id"`
	Name      string    `json:"name"`
	UF        string    `json:"uf"`
	City      string    `json:"city"`
	Items     []int64   `json:"items"`
	Location  *Geometry `json:"location"`
	CreatedAt time.Time `json:"created_at"`
}

// EventPointCreated PointCreatedEventの種別
const EventPointCreated = "point.created"

// NewPointCreatedEvent 保存済みポイントのイベントを作成
func NewPointCreatedEvent(p *Point) PointCreatedEvent {
	return PointCreatedEvent{
		Type:      EventPointCreated,
		PointID:   p.ID,
		Name:      p.Name,
		UF:        p.UF,
		City:      p.City,
		Items:     p.Items,
		Location:  p.Position().ToGeometry(),
		CreatedAt: p.CreatedAt,
	}
}

// GetPointsResponse GET /points のレスポンス
type GetPointsResponse struct {
	Points []Point `json:"points"`
}

// PointDetail GET /points/:id のレスポンス
type PointDetail struct {
	Point Point  `json:"point"`
	Items []Item `json:"items"`
}
