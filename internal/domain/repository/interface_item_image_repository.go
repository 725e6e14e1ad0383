package repository

import (
	"context"
	"io"
)

// ItemImage アップロード画像のストリーム（Bodyは呼び出し側でClose）
type ItemImage struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

type ItemImageRepository interface {
	// Open 存在しない名前にはmodel.ErrImageNotFoundを返す
	Open(ctx context.Context, name string) (*ItemImage, error)
}
