package model

import "github.com/paulmach/orb"

// Position 地図の中心とマーカーに使う緯度・経度
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Point orb.Pointに変換（[lng, lat]の順）
func (p Position) Point() orb.Point {
	return orb.Point{p.Longitude, p.Latitude}
}

// IsZero 位置が未設定かどうか
func (p Position) IsZero() bool {
	return p.Latitude == 0 && p.Longitude == 0
}

// Geometry GeoJSONのPointジオメトリ
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"` // [経度, 緯度]
}

// ToGeometry GeoJSONのPointに変換
func (p Position) ToGeometry() *Geometry {
	return &Geometry{
		Type:        "Point",
		Coordinates: []float64{p.Longitude, p.Latitude},
	}
}

// BoundingBox ポイント検索に使う経度・緯度の矩形
type BoundingBox struct {
	MinLng float64
	MinLat float64
	MaxLng float64
	MaxLat float64
}

// Bound orb.Boundに変換
func (b BoundingBox) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.MinLng, b.MinLat},
		Max: orb.Point{b.MaxLng, b.MaxLat},
	}
}

// Contains pがボックス内にあるか（境界を含む）
func (b BoundingBox) Contains(p Position) bool {
	return b.Bound().Contains(p.Point())
}
