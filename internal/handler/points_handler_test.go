package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedro-cabreu/next-level-week/internal/domain/model"
)

func seedPoints(t *testing.T, s *testServer) {
	t.Helper()
	for _, body := range []string{
		`{"name":"Mercado Verde","email":"a@example.com","whatsapp":"31","uf":"MG","city":"Belo Horizonte","latitude":-19.92,"longitude":-43.94,"items":[1,2]}`,
		`{"name":"Ecoponto Campinas","email":"b@example.com","whatsapp":"19","uf":"SP","city":"Campinas","latitude":-22.90,"longitude":-47.06,"items":[3]}`,
	} {
		w := s.do(t, http.MethodPost, "/points", body)
		require.Equal(t, http.StatusCreated, w.Code)
	}
}

func TestPointsHandler_CreatePoint(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/points", `{"name":"Mercado Verde","uf":"MG","city":"Belo Horizonte","items":[1]}`)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, model.CreatePointResponse{ID: 1, Status: "success"}, decode[model.CreatePointResponse](t, w))

	w = s.do(t, http.MethodPost, "/points", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/points", `{"items":["x"]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPointsHandler_ListPoints(t *testing.T) {
	s := newTestServer(t)
	seedPoints(t, s)

	tests := []struct {
		name  string
		query string
		names []string
	}{
		{name: "all", query: "", names: []string{"Mercado Verde", "Ecoponto Campinas"}},
		{name: "by uf and city", query: "?uf=MG&city=Belo%20Horizonte", names: []string{"Mercado Verde"}},
		{name: "by any item", query: "?items=3,4", names: []string{"Ecoponto Campinas"}},
		{name: "no match", query: "?uf=RJ", names: []string{}},
		{name: "bbox", query: "?bbox=-44.5,-20.5,-43.5,-19.5", names: []string{"Mercado Verde"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodGet, "/points"+tt.query, "")
			require.Equal(t, http.StatusOK, w.Code)

			resp := decode[model.GetPointsResponse](t, w)
			names := make([]string, len(resp.Points))
			for i, p := range resp.Points {
				names[i] = p.Name
			}
			assert.Equal(t, tt.names, names)
		})
	}
}

func TestPointsHandler_ListPointsBadParameters(t *testing.T) {
	s := newTestServer(t)

	for _, query := range []string{
		"?bbox=1,2,3",
		"?bbox=a,2,3,4",
		"?bbox=-43,-20,-44,-19",
		"?items=1,x",
	} {
		t.Run(query, func(t *testing.T) {
			w := s.do(t, http.MethodGet, "/points"+query, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "invalid_parameter", decode[map[string]any](t, w)["error"])
		})
	}
}

func TestPointsHandler_GetPoint(t *testing.T) {
	s := newTestServer(t)
	seedPoints(t, s)

	w := s.do(t, http.MethodGet, "/points/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[model.PointDetail](t, w)
	assert.Equal(t, "Mercado Verde", detail.Point.Name)
	require.Len(t, detail.Items, 2)
	assert.Equal(t, "Lâmpadas", detail.Items[0].Name)

	w = s.do(t, http.MethodGet, "/points/99", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "point_not_found", decode[map[string]any](t, w)["error"])

	w = s.do(t, http.MethodGet, "/points/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_parameter", decode[map[string]any](t, w)["error"])
}
