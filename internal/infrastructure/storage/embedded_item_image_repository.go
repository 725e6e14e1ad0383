package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/pedro-cabreu/next-level-week/internal/domain/model"
	"github.com/pedro-cabreu/next-level-week/internal/domain/repository"
)

// EmbeddedItemImageRepository バイナリに埋め込んだアイテム画像を配信
type EmbeddedItemImageRepository struct {
	assets fs.FS
}

func NewEmbeddedItemImageRepository(assets fs.FS) *EmbeddedItemImageRepository {
	return &EmbeddedItemImageRepository{assets: assets}
}

func (r *EmbeddedItemImageRepository) Open(ctx context.Context, name string) (*repository.ItemImage, error) {
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("%s: %w", name, model.ErrImageNotFound)
	}

	data, err := fs.ReadFile(r.assets, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", name, model.ErrImageNotFound)
		}
		return nil, fmt.Errorf("failed to read item image %s: %w", name, err)
	}

	return &repository.ItemImage{
		Body:        io.NopCloser(bytes.NewReader(data)),
		ContentType: contentTypeOf(name),
		Size:        int64(len(data)),
	}, nil
}
