package web

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedro-cabreu/next-level-week/internal/infrastructure/database"
)

func TestTemplates(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	assert.NotNil(t, tmpl.Lookup("create_point.html"))
	assert.NotNil(t, tmpl.Lookup("home.html"))
}

func TestUploadsCoverDefaultItems(t *testing.T) {
	uploads := Uploads()

	for _, item := range database.DefaultItems {
		_, err := fs.Stat(uploads, item.Image)
		assert.NoError(t, err, item.Image)
	}
}
