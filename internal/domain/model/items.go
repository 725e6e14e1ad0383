package model

// Item 収集ポイントが受け付ける廃棄物アイテムの種類
type Item struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

// ItemRecord itemsテーブルの行（Imageは/uploads配下のオブジェクトキー）
type ItemRecord struct {
	ID    int64  `json:"id" db:"id"`
	Title string `json:"title" db:"title"`
	Image string `json:"image" db:"image"`
}

// ToItem baseURLを基に公開画像URLを解決
func (r ItemRecord) ToItem(baseURL string) Item {
	return Item{
		ID:       r.ID,
		Name:     r.Title,
		ImageURL: UploadURL(baseURL, r.Image),
	}
}

// UploadURL アップロードファイルの公開URL
func UploadURL(baseURL, file string) string {
	if file == "" {
		return ""
	}
	return baseURL + "/uploads/" + file
}
