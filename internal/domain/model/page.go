package model

// Placeholder UF・都市セレクトの未選択値
const Placeholder = "0"

// 基本情報入力欄のフィールド名
const (
	FieldName     = "name"
	FieldEmail    = "email"
	FieldWhatsapp = "whatsapp"
)

// PointForm 登録フォームの基本情報
type PointForm struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Whatsapp string `json:"whatsapp"`
}

// With 指定フィールドを置き換えたコピーを返す
func (f PointForm) With(field, value string) (PointForm, error) {
	switch field {
	case FieldName:
		f.Name = value
	case FieldEmail:
		f.Email = value
	case FieldWhatsapp:
		f.Whatsapp = value
	default:
		return f, ErrUnknownField
	}
	return f, nil
}

// MapView 地図ウィジェットの描画に必要な情報
type MapView struct {
	Center        Position `json:"center"`
	Zoom          int      `json:"zoom"`
	Marker        Position `json:"marker"`
	TileURL       string   `json:"tile_url"`
	Attribution   string   `json:"attribution"`
	CenterTile    string   `json:"center_tile"`
	MarkerGeoJSON string   `json:"marker_geojson"`
}

// Option セレクト要素の選択肢
type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// ItemTile アイテムグリッドの要素
type ItemTile struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
	Selected bool   `json:"selected"`
}

// PageView 登録ページの描画結果
type PageView struct {
	SessionID     string     `json:"session_id"`
	Title         string     `json:"title"`
	BackLink      string     `json:"back_link"`
	BackLabel     string     `json:"back_label"`
	Form          PointForm  `json:"form"`
	UFOptions     []Option   `json:"uf_options"`
	CityOptions   []Option   `json:"city_options"`
	SelectedUF    string     `json:"selected_uf"`
	SelectedCity  string     `json:"selected_city"`
	Map           MapView    `json:"map"`
	Items         []ItemTile `json:"items"`
	SelectedItems []int64    `json:"selected_items"`
	SubmitLabel   string     `json:"submit_label"`
	// Pending バックグラウンド取得が未反映の間true
	Pending bool `json:"pending"`
}
