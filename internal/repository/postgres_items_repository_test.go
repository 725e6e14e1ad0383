package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedro-cabreu/next-level-week/internal/domain/model"
	"github.com/pedro-cabreu/next-level-week/internal/infrastructure/database"
)

func newMockClient(t *testing.T) (*database.PostgreSQLClient, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &database.PostgreSQLClient{DB: db}, mock
}

func TestPostgresItemsRepository_GetAll(t *testing.T) {
	client, mock := newMockClient(t)
	repo := NewPostgresItemsRepository(client)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, image FROM items ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "image"}).
			AddRow(1, "Lâmpadas", "lampadas.svg").
			AddRow(2, "Pilhas e Baterias", "baterias.svg"))

	items, err := repo.GetAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []model.ItemRecord{
		{ID: 1, Title: "Lâmpadas", Image: "lampadas.svg"},
		{ID: 2, Title: "Pilhas e Baterias", Image: "baterias.svg"},
	}, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresItemsRepository_GetAllQueryError(t *testing.T) {
	client, mock := newMockClient(t)
	repo := NewPostgresItemsRepository(client)

	mock.ExpectQuery("SELECT id, title, image FROM items").WillReturnError(errors.New("connection reset"))

	_, err := repo.GetAll(context.Background())

	assert.ErrorContains(t, err, "failed to query items")
}

func TestPostgresItemsRepository_GetByIDs(t *testing.T) {
	client, mock := newMockClient(t)
	repo := NewPostgresItemsRepository(client)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = ANY($1)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "image"}).AddRow(3, "Papéis e Papelão", "papeis-papelao.svg"))

	items, err := repo.GetByIDs(context.Background(), []int64{3})

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Papéis e Papelão", items[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresItemsRepository_GetByIDsEmpty(t *testing.T) {
	client, mock := newMockClient(t)
	repo := NewPostgresItemsRepository(client)

	items, err := repo.GetByIDs(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}
