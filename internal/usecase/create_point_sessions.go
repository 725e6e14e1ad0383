package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pedro-cabreu/next-level-week/internal/domain/model"
	"github.com/pedro-cabreu/next-level-week/internal/domain/service"
	"github.com/pedro-cabreu/next-level-week/internal/infrastructure/geolocation"
)

type CreatePointSessions interface {
	// Start ページを作成してマウント（reportedがあれば位置取得に即回答）
	Start(ctx context.Context, reported *model.Position) (*service.CreatePointPage, error)

	// Get セッションのページを返し、アクティブとして記録
	Get(id string) (*service.CreatePointPage, error)

	// ReportPosition セッションの位置取得に回答
	ReportPosition(id string, pos model.Position) error

	// DenyPosition セッションの位置取得を失敗させる
	DenyPosition(id string, reason string) error

	// Discard セッションのページを閉じる（ページ離脱）
	Discard(id string) error

	// EvictIdle TTLを超えてアイドルなセッションを破棄し、その件数を返す
	EvictIdle() int

	// Run ctxが終わるまで定期的にアイドルセッションを破棄
	Run(ctx context.Context)

	// CloseAll 全セッションを破棄し、取得の終了を待つ
	CloseAll()

	// Len 有効なセッション数
	Len() int
}

// SessionDeps 全ページ共通の依存コンポーネント（位置取得はセッションごと）
type SessionDeps struct {
	Catalog            service.ItemCatalog
	Regions            service.RegionLookup
	Map                service.MapRenderer
	Submitter          service.PointSubmitter
	Logger             zerolog.Logger
	GeolocationTimeout time.Duration
	TTL                time.Duration
}

type pageSession struct {
	page      *service.CreatePointPage
	positions *geolocation.BrowserPositionProvider
	lastSeen  time.Time
}

type createPointSessionsImpl struct {
	deps SessionDeps
	now  func() time.Time

	mu       sync.RWMutex
	sessions map[string]*pageSession
}

func NewCreatePointSessions(deps SessionDeps) CreatePointSessions {
	return newCreatePointSessions(deps, time.Now)
}

func newCreatePointSessions(deps SessionDeps, now func() time.Time) *createPointSessionsImpl {
	return &createPointSessionsImpl{
		deps:     deps,
		now:      now,
		sessions: make(map[string]*pageSession),
	}
}

func (u *createPointSessionsImpl) Start(ctx context.Context, reported *model.Position) (*service.CreatePointPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("session start aborted: %w", err)
	}

	id := uuid.NewString()
	positions := geolocation.NewBrowserPositionProvider(u.deps.GeolocationTimeout)
	if reported != nil {
		positions.Report(*reported)
	}

	page := service.NewCreatePointPage(id, service.PageDeps{
		Catalog:   u.deps.Catalog,
		Regions:   u.deps.Regions,
		Positions: positions,
		Map:       u.deps.Map,
		Submitter: u.deps.Submitter,
		Logger:    u.deps.Logger,
	})

	u.mu.Lock()
	u.sessions[id] = &pageSession{page: page, positions: positions, lastSeen: u.now()}
	u.mu.Unlock()

	page.Mount()
	u.deps.Logger.Info().Str("session", id).Bool("position_reported", reported != nil).Msg("🆕 create-point session started")
	return page, nil
}

func (u *createPointSessionsImpl) Get(id string) (*service.CreatePointPage, error) {
	s, err := u.touch(id)
	if err != nil {
		return nil, err
	}
	return s.page, nil
}

func (u *createPointSessionsImpl) ReportPosition(id string, pos model.Position) error {
	s, err := u.touch(id)
	if err != nil {
		return err
	}
	if s.positions.Report(pos) {
		return nil
	}
	if s.positions.Expired() {
		s.page.CenterOn(pos)
		u.deps.Logger.Info().Str("session", id).Msg("📍 late browser position applied")
		return nil
	}
	u.deps.Logger.Debug().Str("session", id).Msg("position already answered, report ignored")
	return nil
}

func (u *createPointSessionsImpl) DenyPosition(id string, reason string) error {
	s, err := u.touch(id)
	if err != nil {
		return err
	}
	s.positions.Deny(reason)
	return nil
}

func (u *createPointSessionsImpl) Discard(id string) error {
	u.mu.Lock()
	s, ok := u.sessions[id]
	delete(u.sessions, id)
	u.mu.Unlock()

	if !ok {
		return fmt.Errorf("session %s: %w", id, model.ErrSessionNotFound)
	}
	s.page.Close()
	u.deps.Logger.Info().Str("session", id).Msg("👋 create-point session discarded")
	return nil
}

func (u *createPointSessionsImpl) EvictIdle() int {
	if u.deps.TTL <= 0 {
		return 0
	}
	deadline := u.now().Add(-u.deps.TTL)

	u.mu.Lock()
	var idle []*pageSession
	for id, s := range u.sessions {
		if s.lastSeen.Before(deadline) {
			idle = append(idle, s)
			delete(u.sessions, id)
		}
	}
	u.mu.Unlock()

	for _, s := range idle {
		s.page.Close()
	}
	if len(idle) > 0 {
		u.deps.Logger.Info().Int("evicted", len(idle)).Msg("🧹 idle create-point sessions evicted")
	}
	return len(idle)
}

func (u *createPointSessionsImpl) Run(ctx context.Context) {
	interval := u.deps.TTL / 2
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			u.EvictIdle()
		}
	}
}

func (u *createPointSessionsImpl) CloseAll() {
	u.mu.Lock()
	sessions := u.sessions
	u.sessions = make(map[string]*pageSession)
	u.mu.Unlock()

	for _, s := range sessions {
		s.page.Close()
	}
	for _, s := range sessions {
		s.page.Wait()
	}
	u.deps.Logger.Info().Int("closed", len(sessions)).Msg("create-point sessions closed")
}

func (u *createPointSessionsImpl) Len() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return len(u.sessions)
}

func (u *createPointSessionsImpl) touch(id string) (*pageSession, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	s, ok := u.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, model.ErrSessionNotFound)
	}
	s.lastSeen = u.now()
	return s, nil
}
