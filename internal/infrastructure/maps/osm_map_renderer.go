package maps

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/maptile"

	"github.com/pedro-cabreu/next-level-week/internal/domain/model"
)

const (
	// DefaultTileURL OpenStreetMapの公開タイルサーバー
	DefaultTileURL = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	// DefaultAttribution OSMタイル利用規約で必要な帰属表示
	DefaultAttribution = `&copy; <a href="http://osm.org/copyright">OpenStreetMap</a> contributors`
	// DefaultZoom 登録ページの地図のズームレベル
	DefaultZoom = 15
)

// OSMMapRenderer OpenStreetMapタイルを使うLeaflet地図の情報を生成
// タイルの描画はブラウザ側で行う
type OSMMapRenderer struct {
	tileURL     string
	attribution string
	zoom        int
}

// NewOSMMapRenderer レンダラーを作成（空の引数はOSMのデフォルト値）
func NewOSMMapRenderer(tileURL, attribution string, zoom int) *OSMMapRenderer {
	if tileURL == "" {
		tileURL = DefaultTileURL
	}
	if attribution == "" {
		attribution = DefaultAttribution
	}
	if zoom <= 0 {
		zoom = DefaultZoom
	}
	return &OSMMapRenderer{
		tileURL:     tileURL,
		attribution: attribution,
		zoom:        zoom,
	}
}

// Render 中心とマーカー位置から地図情報を生成
func (r *OSMMapRenderer) Render(center, marker model.Position) model.MapView {
	return model.MapView{
		Center:        center,
		Zoom:          r.zoom,
		Marker:        marker,
		TileURL:       r.tileURL,
		Attribution:   r.attribution,
		CenterTile:    r.TileURLAt(center),
		MarkerGeoJSON: markerGeoJSON(marker),
	}
}

// TileURLAt レンダラーのズームで位置を含むタイルのURL
func (r *OSMMapRenderer) TileURLAt(pos model.Position) string {
	tile := maptile.At(pos.Point(), maptile.Zoom(r.zoom))
	url := strings.NewReplacer(
		"{s}", "a",
		"{z}", fmt.Sprint(tile.Z),
		"{x}", fmt.Sprint(tile.X),
		"{y}", fmt.Sprint(tile.Y),
	).Replace(r.tileURL)
	return url
}

// markerGeoJSON マーカーのGeoJSON Feature（エンコード失敗時は空）
func markerGeoJSON(pos model.Position) string {
	feature := geojson.NewFeature(pos.Point())
	feature.Properties["kind"] = "selected_position"
	data, err := feature.MarshalJSON()
	if err != nil {
		return ""
	}
	return string(data)
}
