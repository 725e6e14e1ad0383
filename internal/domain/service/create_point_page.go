package service

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/pedro-cabreu/next-level-week/internal/domain/model"
)

// ItemCatalog 選択可能な廃棄物アイテムの取得元
type ItemCatalog interface {
	ListItems(ctx context.Context) ([]model.Item, error)
}

// RegionLookup UF・都市の検索（IBGE）
type RegionLookup interface {
	GetUFs(ctx context.Context) ([]model.UF, error)
	GetCities(ctx context.Context, uf string) ([]model.City, error)
}

// PositionProvider 端末位置の単発取得
type PositionProvider interface {
	CurrentPosition(ctx context.Context) (model.Position, error)
}

// MapRenderer 地図ウィジェットの情報を生成
type MapRenderer interface {
	Render(center, marker model.Position) model.MapView
}

// PointSubmitter 組み立てたフォームの送信先
type PointSubmitter interface {
	SubmitPoint(ctx context.Context, req *model.CreatePointRequest) (*model.CreatePointResponse, error)
}

// PageDeps CreatePointPageの依存コンポーネント
type PageDeps struct {
	Catalog   ItemCatalog
	Regions   RegionLookup
	Positions PositionProvider
	Map       MapRenderer
	Submitter PointSubmitter
	Logger    zerolog.Logger
}

// CreatePointPage ブラウザセッション1つ分の登録ページの状態とイベント処理
// イベントと取得結果の反映はすべてmuの下で1つずつ実行する
type CreatePointPage struct {
	id   string
	deps PageDeps

	mu               sync.Mutex
	items            []model.Item
	ufs              []string
	cities           []string
	selectedUF       string
	selectedCity     string
	form             model.PointForm
	initialPosition  model.Position
	selectedPosition model.Position
	selectedItems    []int64

	// cityGeneration 最新の都市取得を識別（古い結果は破棄）
	cityGeneration uint64
	cancelCities   context.CancelFunc

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	pending atomic.Int32
}

// NewCreatePointPage マウント前のページを作成
func NewCreatePointPage(id string, deps PageDeps) *CreatePointPage {
	ctx, cancel := context.WithCancel(context.Background())
	return &CreatePointPage{
		id:           id,
		deps:         deps,
		selectedUF:   model.Placeholder,
		selectedCity: model.Placeholder,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// ID ページのセッションID
func (p *CreatePointPage) ID() string {
	return p.id
}

// Mount マウント時の3つの独立した取得（アイテム、端末位置、UF一覧）を開始
// 失敗時は対応する状態を空のままにする。取得はマウントしたリクエストより長く生き、Closeでのみ止まる
func (p *CreatePointPage) Mount() {
	ctx := p.ctx

	p.goFetch(func() {
		items, err := p.deps.Catalog.ListItems(ctx)
		if err != nil {
			p.deps.Logger.Warn().Err(err).Str("session", p.id).Msg("⚠️ item catalog fetch failed")
			return
		}
		p.mu.Lock()
		p.items = items
		p.mu.Unlock()
	})

	p.goFetch(func() {
		pos, err := p.deps.Positions.CurrentPosition(ctx)
		if err != nil {
			p.deps.Logger.Warn().Err(err).Str("session", p.id).Msg("⚠️ geolocation unavailable")
			return
		}
		p.mu.Lock()
		p.initialPosition = pos
		p.mu.Unlock()
	})

	p.goFetch(func() {
		ufs, err := p.deps.Regions.GetUFs(ctx)
		if err != nil {
			p.deps.Logger.Warn().Err(err).Str("session", p.id).Msg("⚠️ UF list fetch failed")
			return
		}
		siglas := make([]string, len(ufs))
		for i, uf := range ufs {
			siglas[i] = uf.Sigla
		}
		p.mu.Lock()
		p.ufs = siglas
		p.mu.Unlock()
	})
}

// ChangeUF UFを選択し、都市一覧と都市の選択をリセット
// 未選択値以外なら都市取得を1回だけ開始し、その結果は最新の場合のみ反映する
func (p *CreatePointPage) ChangeUF(uf string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.selectedUF = uf
	p.selectedCity = model.Placeholder
	p.cities = nil
	p.cityGeneration++
	if p.cancelCities != nil {
		p.cancelCities()
		p.cancelCities = nil
	}

	if uf == model.Placeholder {
		return
	}

	generation := p.cityGeneration
	ctx, cancel := context.WithCancel(p.ctx)
	p.cancelCities = cancel

	p.goFetch(func() {
		defer cancel()
		cities, err := p.deps.Regions.GetCities(ctx, uf)
		if err != nil {
			if ctx.Err() == nil {
				p.deps.Logger.Warn().Err(err).Str("session", p.id).Str("uf", uf).Msg("⚠️ city list fetch failed")
			}
			return
		}
		names := make([]string, len(cities))
		for i, city := range cities {
			names[i] = city.Nome
		}

		p.mu.Lock()
		defer p.mu.Unlock()
		if generation != p.cityGeneration {
			p.deps.Logger.Debug().Str("session", p.id).Str("uf", uf).Msg("stale city list dropped")
			return
		}
		p.cities = names
	})
}

// CenterOn マウント時の位置取得がタイムアウトした後に届いた位置を地図の中心にする
func (p *CreatePointPage) CenterOn(pos model.Position) {
	p.mu.Lock()
	p.initialPosition = pos
	p.mu.Unlock()
}

// ChangeCity 都市を選択
func (p *CreatePointPage) ChangeCity(city string) {
	p.mu.Lock()
	p.selectedCity = city
	p.mu.Unlock()
}

// ClickMap クリックした座標にマーカーを移動
func (p *CreatePointPage) ClickMap(pos model.Position) {
	p.mu.Lock()
	p.selectedPosition = pos
	p.mu.Unlock()
}

// ToggleItem アイテムを選択に追加（選択済みなら解除）
func (p *CreatePointPage) ToggleItem(id int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if i := slices.Index(p.selectedItems, id); i >= 0 {
		p.selectedItems = slices.Delete(p.selectedItems, i, i+1)
		return
	}
	p.selectedItems = append(p.selectedItems, id)
}

// ChangeInput 名前で指定した基本情報フィールドを更新
func (p *CreatePointPage) ChangeInput(field, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	form, err := p.form.With(field, value)
	if err != nil {
		return fmt.Errorf("%w: %q", err, field)
	}
	p.form = form
	return nil
}

// Render ページのスナップショットを返す
func (p *CreatePointPage) Render() model.PageView {
	p.mu.Lock()
	defer p.mu.Unlock()

	ufOptions := make([]model.Option, 0, len(p.ufs)+1)
	ufOptions = append(ufOptions, model.Option{
		Value:    model.Placeholder,
		Label:    "Selecione uma UF",
		Selected: p.selectedUF == model.Placeholder,
	})
	for _, uf := range p.ufs {
		ufOptions = append(ufOptions, model.Option{Value: uf, Label: uf, Selected: uf == p.selectedUF})
	}

	cityOptions := make([]model.Option, 0, len(p.cities)+1)
	cityOptions = append(cityOptions, model.Option{
		Value:    model.Placeholder,
		Label:    "Escolha uma cidade",
		Selected: p.selectedCity == model.Placeholder,
	})
	for _, city := range p.cities {
		cityOptions = append(cityOptions, model.Option{Value: city, Label: city, Selected: city == p.selectedCity})
	}

	tiles := make([]model.ItemTile, len(p.items))
	for i, item := range p.items {
		tiles[i] = model.ItemTile{
			ID:       item.ID,
			Name:     item.Name,
			ImageURL: item.ImageURL,
			Selected: slices.Contains(p.selectedItems, item.ID),
		}
	}

	return model.PageView{
		SessionID:     p.id,
		Title:         "Cadastro do ponto de coleta",
		BackLink:      "/",
		BackLabel:     "Voltar para home",
		Form:          p.form,
		UFOptions:     ufOptions,
		CityOptions:   cityOptions,
		SelectedUF:    p.selectedUF,
		SelectedCity:  p.selectedCity,
		Map:           p.deps.Map.Render(p.initialPosition, p.selectedPosition),
		Items:         tiles,
		SelectedItems: slices.Clone(p.selectedItems),
		SubmitLabel:   "Cadastrar ponto de coleta",
		Pending:       p.Pending(),
	}
}

// SubmitRequest 現在の状態から送信ペイロードを組み立てる
func (p *CreatePointPage) SubmitRequest() *model.CreatePointRequest {
	p.mu.Lock()
	defer p.mu.Unlock()

	items := slices.Clone(p.selectedItems)
	if items == nil {
		items = []int64{}
	}
	return &model.CreatePointRequest{
		Name:      p.form.Name,
		Email:     p.form.Email,
		Whatsapp:  p.form.Whatsapp,
		UF:        p.selectedUF,
		City:      p.selectedCity,
		Latitude:  p.selectedPosition.Latitude,
		Longitude: p.selectedPosition.Longitude,
		Items:     items,
	}
}

// Submit 組み立てたフォームを送信先に渡す
func (p *CreatePointPage) Submit(ctx context.Context) (*model.CreatePointResponse, error) {
	req := p.SubmitRequest()
	resp, err := p.deps.Submitter.SubmitPoint(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("point submission failed: %w", err)
	}
	p.deps.Logger.Info().Str("session", p.id).Int64("point_id", resp.ID).Msg("✅ collection point submitted")
	return resp, nil
}

// Wait 実行中の取得がすべて反映または破棄されるまで待つ
func (p *CreatePointPage) Wait() {
	p.wg.Wait()
}

// Close 実行中の取得をキャンセル
func (p *CreatePointPage) Close() {
	p.cancel()
}

// Pending 実行中の取得があるか
func (p *CreatePointPage) Pending() bool {
	return p.pending.Load() > 0
}

func (p *CreatePointPage) goFetch(fn func()) {
	p.wg.Add(1)
	p.pending.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.pending.Add(-1)
		fn()
	}()
}
