package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pedro-cabreu/next-level-week/internal/domain/model"
)

// Client EcoletaバックエンドのHTTPクライアント（アイテムカタログとポイント登録）
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient baseURL（例: http://localhost:3333）のバックエンド用クライアントを作成
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// ListItems GET /items - アイテム一覧の取得
func (c *Client) ListItems(ctx context.Context) ([]model.Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/items", nil)
	if err != nil {
		return nil, fmt.Errorf("アイテム取得リクエストの作成に失敗: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("アイテム取得リクエストに失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var items []model.Item
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("アイテムのデコードに失敗: %w", err)
	}
	return items, nil
}

// SubmitPoint POST /points - 収集ポイントの登録
func (c *Client) SubmitPoint(ctx context.Context, point *model.CreatePointRequest) (*model.CreatePointResponse, error) {
	body, err := json.Marshal(point)
	if err != nil {
		return nil, fmt.Errorf("ポイントのエンコードに失敗: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/points", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ポイント登録リクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ポイント登録リクエストに失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var created model.CreatePointResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("ポイント登録レスポンスのデコードに失敗: %w", err)
	}
	return &created, nil
}

func statusError(resp *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("バックエンド呼び出しエラー (status: %s): %s", resp.Status, strings.TrimSpace(string(msg)))
}
