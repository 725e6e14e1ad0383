package ibge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pedro-cabreu/next-level-week/internal/domain/model"
)

// DefaultBaseURL IBGE localidades APIのベースURL
const DefaultBaseURL = "https://servicodados.ibge.gov.br/api/v1/localidades"

// Client IBGE localidades APIクライアント（UF・市区町村の検索）
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient クライアントを作成（baseURLが空なら公開エンドポイントを使用）
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// GetUFs 州一覧をIBGEの順序で取得
func (c *Client) GetUFs(ctx context.Context) ([]model.UF, error) {
	var ufs []model.UF
	if err := c.get(ctx, c.baseURL+"/estados", &ufs); err != nil {
		return nil, fmt.Errorf("UF一覧の取得に失敗: %w", err)
	}
	return ufs, nil
}

// GetCities UFの市区町村一覧をIBGEの順序で取得
func (c *Client) GetCities(ctx context.Context, uf string) ([]model.City, error) {
	if uf == "" {
		return nil, fmt.Errorf("ufが指定されていません")
	}
	reqURL := fmt.Sprintf("%s/estados/%s/municipios", c.baseURL, url.PathEscape(uf))

	var cities []model.City
	if err := c.get(ctx, reqURL, &cities); err != nil {
		return nil, fmt.Errorf("%s の都市一覧の取得に失敗: %w", uf, err)
	}
	return cities, nil
}

func (c *Client) get(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("HTTPリクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("APIリクエストに失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("IBGE API呼び出しエラー (status: %s)", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("レスポンスのパースに失敗: %w", err)
	}
	return nil
}
