package database

import (
	"context"
	"fmt"
)

// schemaStatements Ecoletaバックエンドのテーブル定義
var schemaStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS postgis`,
	`CREATE TABLE IF NOT EXISTS items (
		id    BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		image TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS points (
		id         BIGSERIAL PRIMARY KEY,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL,
		whatsapp   TEXT NOT NULL,
		latitude   DOUBLE PRECISION NOT NULL,
		longitude  DOUBLE PRECISION NOT NULL,
		city       TEXT NOT NULL,
		uf         VARCHAR(2) NOT NULL,
		image      TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS point_items (
		point_id BIGINT NOT NULL REFERENCES points(id) ON DELETE CASCADE,
		item_id  BIGINT NOT NULL REFERENCES items(id),
		PRIMARY KEY (point_id, item_id)
	)`,
}

// SeedItem EnsureSchemaが投入するカタログ項目
type SeedItem struct {
	Title string
	Image string
}

// DefaultItems 固定の廃棄物アイテムカタログ
var DefaultItems = []SeedItem{
	{Title: "Lâmpadas", Image: "lampadas.svg"},
	{Title: "Pilhas e Baterias", Image: "baterias.svg"},
	{Title: "Papéis e Papelão", Image: "papeis-papelao.svg"},
	{Title: "Resíduos Eletrônicos", Image: "eletronicos.svg"},
	{Title: "Resíduos Orgânicos", Image: "organicos.svg"},
	{Title: "Óleo de Cozinha", Image: "oleo.svg"},
}

// EnsureSchema テーブルを作成し、カタログが空ならアイテムを投入
func (pc *PostgreSQLClient) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := pc.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("スキーマの適用に失敗: %w", err)
		}
	}

	var count int
	if err := pc.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&count); err != nil {
		return fmt.Errorf("アイテム件数の取得に失敗: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, item := range DefaultItems {
		if _, err := pc.DB.ExecContext(ctx, `INSERT INTO items (title, image) VALUES ($1, $2)`, item.Title, item.Image); err != nil {
			return fmt.Errorf("アイテム %s の投入に失敗: %w", item.Title, err)
		}
	}
	return nil
}
