package repository

import (
	"github.com/paulmach/orb/encoding/wkt"
	"google.golang.org/genproto/googleapis/type/latlng"

	"github.com/pedro-cabreu/next-level-week/internal/domain/model"
)

// PositionToLatLng FirestoreのGeoPointに変換
func PositionToLatLng(pos model.Position) *latlng.LatLng {
	return &latlng.LatLng{
		Latitude:  pos.Latitude,
		Longitude: pos.Longitude,
	}
}

// LatLngToPosition FirestoreのGeoPointから変換
func LatLngToPosition(geoPoint *latlng.LatLng) model.Position {
	if geoPoint == nil {
		return model.Position{}
	}
	return model.Position{
		Latitude:  geoPoint.GetLatitude(),
		Longitude: geoPoint.GetLongitude(),
	}
}

// BoundingBoxToWKT ST_GeomFromText用の閉じたPOLYGON
func BoundingBoxToWKT(box model.BoundingBox) string {
	return wkt.MarshalString(box.Bound().ToPolygon())
}
