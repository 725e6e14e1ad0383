package geolocation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pedro-cabreu/next-level-week/internal/domain/model"
)

// ErrPositionDenied ブラウザが位置情報を取得できなかった
var ErrPositionDenied = errors.New("geolocation denied by the browser")

// BrowserPositionProvider ブラウザが回答する単発の位置取得
// ページはCurrentPositionで問い合わせ、ブラウザはReportかDenyで一度だけ回答する
type BrowserPositionProvider struct {
	timeout time.Duration

	once    sync.Once
	done    chan struct{}
	pos     model.Position
	err     error
	expired bool
}

// NewBrowserPositionProvider プロバイダーを作成（timeout <= 0なら呼び出し側のcontextが終わるまで待つ）
func NewBrowserPositionProvider(timeout time.Duration) *BrowserPositionProvider {
	return &BrowserPositionProvider{
		timeout: timeout,
		done:    make(chan struct{}),
	}
}

// Report 位置で回答する（最初の回答のみ有効）
// falseは回答済みまたは期限切れ
func (b *BrowserPositionProvider) Report(pos model.Position) bool {
	return b.resolve(pos, nil, false)
}

// Deny 失敗で回答する（最初の回答のみ有効）
func (b *BrowserPositionProvider) Deny(reason string) bool {
	return b.resolve(model.Position{}, fmt.Errorf("%w: %s", ErrPositionDenied, reason), false)
}

// Expired ブラウザの回答前に待機を打ち切ったか
func (b *BrowserPositionProvider) Expired() bool {
	select {
	case <-b.done:
		return b.expired
	default:
		return false
	}
}

// CurrentPosition ブラウザの回答を待つ
func (b *BrowserPositionProvider) CurrentPosition(ctx context.Context) (model.Position, error) {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	select {
	case <-b.done:
		return b.pos, b.err
	case <-ctx.Done():
		// 期限と同時に届いた回答はそちらを優先
		b.resolve(model.Position{}, fmt.Errorf("waiting for browser position: %w", ctx.Err()), true)
		<-b.done
		return b.pos, b.err
	}
}

func (b *BrowserPositionProvider) resolve(pos model.Position, err error, expired bool) bool {
	resolved := false
	b.once.Do(func() {
		b.pos = pos
		b.err = err
		b.expired = expired
		close(b.done)
		resolved = true
	})
	return resolved
}
