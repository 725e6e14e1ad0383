// Package web HTMLテンプレートとデフォルトのアイテム画像をまとめたパッケージ
package web

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed uploads/*.svg
var uploadFiles embed.FS

// Templates 全ページのテンプレートを解析
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFiles, "templates/*.html")
}

// Uploads デフォルトのアイテム画像（ファイル名がルート）
func Uploads() fs.FS {
	sub, err := fs.Sub(uploadFiles, "uploads")
	if err != nil {
		panic(err)
	}
	return sub
}
