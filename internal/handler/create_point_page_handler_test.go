package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedro-cabreu/next-level-week/internal/domain/model"
)

const (
	eventuallyTimeout = 2 * time.Second
	eventuallyTick    = 10 * time.Millisecond
)

func TestCreatePointPageHandler_FullFlow(t *testing.T) {
	s := newTestServer(t)
	id := s.startSession(t, "?lat=-19.9191&lng=-43.9386")

	w := s.do(t, http.MethodGet, "/create-point/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Cadastro do ponto de coleta")
	assert.Contains(t, w.Body.String(), "Voltar para home")
	assert.Contains(t, w.Body.String(), "Cadastrar ponto de coleta")

	require.Eventually(t, func() bool {
		view := s.state(t, id)
		return len(view.UFOptions) == 3 && len(view.Items) == 6 && !view.Map.Center.IsZero()
	}, eventuallyTimeout, eventuallyTick)

	view := s.state(t, id)
	assert.Equal(t, model.Position{Latitude: -19.9191, Longitude: -43.9386}, view.Map.Center)
	assert.Equal(t, 15, view.Map.Zoom)
	assert.Equal(t, testBaseURL+"/uploads/lampadas.svg", view.Items[0].ImageURL)

	w = s.do(t, http.MethodPost, "/create-point/"+id+"/uf", `{"uf":"MG"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MG", decode[model.PageView](t, w).SelectedUF)

	require.Eventually(t, func() bool {
		return len(s.state(t, id).CityOptions) == 3
	}, eventuallyTimeout, eventuallyTick)

	w = s.do(t, http.MethodPost, "/create-point/"+id+"/city", `{"city":"Contagem"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/create-point/"+id+"/map-click", `{"latitude":-19.93,"longitude":-44.05}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.Position{Latitude: -19.93, Longitude: -44.05}, decode[model.PageView](t, w).Map.Marker)

	for _, body := range []string{
		`{"name":"name","value":"Mercado Verde"}`,
		`{"name":"email","value":"contato@mercadoverde.com"}`,
		`{"name":"whatsapp","value":"31999999999"}`,
	} {
		w = s.do(t, http.MethodPost, "/create-point/"+id+"/input", body)
		require.Equal(t, http.StatusOK, w.Code)
	}

	s.do(t, http.MethodPost, "/create-point/"+id+"/items/2/toggle", "")
	s.do(t, http.MethodPost, "/create-point/"+id+"/items/6/toggle", "")
	w = s.do(t, http.MethodPost, "/create-point/"+id+"/items/2/toggle", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int64{6}, decode[model.PageView](t, w).SelectedItems)

	w = s.do(t, http.MethodPost, "/create-point/"+id+"/submit", "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, model.CreatePointResponse{ID: 1, Status: "success"}, decode[model.CreatePointResponse](t, w))

	w = s.do(t, http.MethodGet, "/points/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[model.PointDetail](t, w)
	assert.Equal(t, "Mercado Verde", detail.Point.Name)
	assert.Equal(t, "contato@mercadoverde.com", detail.Point.Email)
	assert.Equal(t, "MG", detail.Point.UF)
	assert.Equal(t, "Contagem", detail.Point.City)
	assert.Equal(t, -19.93, detail.Point.Latitude)
	assert.Equal(t, []int64{6}, detail.Point.Items)
	require.Len(t, detail.Items, 1)
	assert.Equal(t, "Óleo de Cozinha", detail.Items[0].Name)
}

func TestCreatePointPageHandler_ReportPosition(t *testing.T) {
	s := newTestServer(t)
	id := s.startSession(t, "")

	w := s.do(t, http.MethodPost, "/create-point/"+id+"/position", `{"latitude":-23.55,"longitude":-46.63}`)
	require.Equal(t, http.StatusNoContent, w.Code)

	require.Eventually(t, func() bool {
		return !s.state(t, id).Map.Center.IsZero()
	}, eventuallyTimeout, eventuallyTick)
	assert.Equal(t, model.Position{Latitude: -23.55, Longitude: -46.63}, s.state(t, id).Map.Center)
}

func TestCreatePointPageHandler_PositionDenied(t *testing.T) {
	s := newTestServer(t)
	id := s.startSession(t, "")

	w := s.do(t, http.MethodPost, "/create-point/"+id+"/position", `{"error":"User denied Geolocation"}`)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodPost, "/create-point/"+id+"/position", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreatePointPageHandler_Errors(t *testing.T) {
	s := newTestServer(t)
	id := s.startSession(t, "")

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{name: "unknown session state", method: http.MethodGet, path: "/create-point/nope/state", status: http.StatusNotFound, code: "session_not_found"},
		{name: "unknown session event", method: http.MethodPost, path: "/create-point/nope/uf", body: `{"uf":"MG"}`, status: http.StatusNotFound, code: "session_not_found"},
		{name: "unknown session position", method: http.MethodPost, path: "/create-point/nope/position", body: `{"latitude":1,"longitude":1}`, status: http.StatusNotFound, code: "session_not_found"},
		{name: "malformed json", method: http.MethodPost, path: "/create-point/" + id + "/uf", body: `{"uf":`, status: http.StatusBadRequest, code: "invalid_request"},
		{name: "missing uf", method: http.MethodPost, path: "/create-point/" + id + "/uf", body: `{}`, status: http.StatusBadRequest, code: "invalid_request"},
		{name: "missing coordinates", method: http.MethodPost, path: "/create-point/" + id + "/map-click", body: `{"latitude":1}`, status: http.StatusBadRequest, code: "invalid_request"},
		{name: "unknown input field", method: http.MethodPost, path: "/create-point/" + id + "/input", body: `{"name":"address","value":"x"}`, status: http.StatusBadRequest, code: "invalid_request"},
		{name: "non numeric item", method: http.MethodPost, path: "/create-point/" + id + "/items/abc/toggle", status: http.StatusBadRequest, code: "invalid_request"},
		{name: "bad start coordinates", method: http.MethodGet, path: "/create-point?lat=x&lng=1", status: http.StatusBadRequest, code: "invalid_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decode[map[string]any](t, w)["error"])
		})
	}
}

func TestCreatePointPageHandler_SubmitFailure(t *testing.T) {
	s := newTestServer(t, withSubmitter(failingSubmitter{}))
	id := s.startSession(t, "")

	w := s.do(t, http.MethodPost, "/create-point/"+id+"/submit", "")

	assert.Equal(t, http.StatusBadGateway, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, "submit_failed", body["error"])
	assert.Contains(t, body["message"], "backend unavailable")
}

func TestCreatePointPageHandler_ExpiredPageStartsOver(t *testing.T) {
	s := newTestServer(t)
	id := s.startSession(t, "")
	require.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/create-point/"+id, "").Code)

	w := s.do(t, http.MethodGet, "/create-point/"+id, "")

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/create-point", w.Header().Get("Location"))
}

func TestCreatePointPageHandler_PageCarriesMapFallbacks(t *testing.T) {
	s := newTestServer(t)
	id := s.startSession(t, "?lat=-23.5505&lng=-46.6333")
	require.Eventually(t, func() bool {
		return !s.state(t, id).Map.Center.IsZero()
	}, eventuallyTimeout, eventuallyTick)

	w := s.do(t, http.MethodGet, "/create-point/"+id, "")

	require.Equal(t, http.StatusOK, w.Code)
	view := s.state(t, id)
	assert.Contains(t, w.Body.String(), `id="center-tile"`)
	assert.Contains(t, w.Body.String(), "tile.openstreetmap.org/15/")
	assert.Contains(t, w.Body.String(), "data-marker-geojson=")
	assert.NotEmpty(t, view.Map.CenterTile)
	assert.NotEmpty(t, view.Map.MarkerGeoJSON)
}

func TestCreatePointPageHandler_Discard(t *testing.T) {
	s := newTestServer(t)
	id := s.startSession(t, "")

	w := s.do(t, http.MethodDelete, "/create-point/"+id, "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodGet, "/create-point/"+id+"/state", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodDelete, "/create-point/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

type slowRegions struct {
	stubRegions
	release chan struct{}
}

func (s slowRegions) GetCities(ctx context.Context, uf string) ([]model.City, error) {
	select {
	case <-s.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return s.stubRegions.GetCities(ctx, uf)
}

func TestCreatePointPageHandler_PendingUntilCitiesArrive(t *testing.T) {
	regions := slowRegions{release: make(chan struct{})}
	s := newTestServer(t, withRegions(regions))
	id := s.startSession(t, "?lat=-19.9191&lng=-43.9386")

	require.Eventually(t, func() bool {
		return !s.state(t, id).Pending
	}, eventuallyTimeout, eventuallyTick)

	w := s.do(t, http.MethodPost, "/create-point/"+id+"/uf", `{"uf":"MG"}`)
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[model.PageView](t, w)
	assert.True(t, view.Pending)
	assert.Len(t, view.CityOptions, 1)

	view = s.state(t, id)
	assert.True(t, view.Pending)
	assert.Len(t, view.CityOptions, 1)

	close(regions.release)

	require.Eventually(t, func() bool {
		return !s.state(t, id).Pending
	}, eventuallyTimeout, eventuallyTick)
	view = s.state(t, id)
	require.Len(t, view.CityOptions, 3)
	assert.Equal(t, "Belo Horizonte", view.CityOptions[1].Value)
	assert.Equal(t, "Contagem", view.CityOptions[2].Value)
}
