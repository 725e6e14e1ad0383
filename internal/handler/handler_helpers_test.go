package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/pedro-cabreu/next-level-week/internal/application"
	"github.com/pedro-cabreu/next-level-week/internal/domain/model"
	"github.com/pedro-cabreu/next-level-week/internal/domain/service"
	"github.com/pedro-cabreu/next-level-week/internal/infrastructure/maps"
	"github.com/pedro-cabreu/next-level-week/internal/infrastructure/messaging"
	"github.com/pedro-cabreu/next-level-week/internal/infrastructure/storage"
	"github.com/pedro-cabreu/next-level-week/internal/repository"
	"github.com/pedro-cabreu/next-level-week/internal/usecase"
	"github.com/pedro-cabreu/next-level-week/web"
)

const testBaseURL = "http://localhost:3333"

func init() {
	gin.SetMode(gin.TestMode)
}

type stubRegions struct {
	err error
}

func (s stubRegions) GetUFs(ctx context.Context) ([]model.UF, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []model.UF{{ID: 31, Sigla: "MG", Nome: "Minas Gerais"}, {ID: 35, Sigla: "SP", Nome: "São Paulo"}}, nil
}

func (s stubRegions) GetCities(ctx context.Context, uf string) ([]model.City, error) {
	if s.err != nil {
		return nil, s.err
	}
	if uf == "MG" {
		return []model.City{{ID: 3106200, Nome: "Belo Horizonte"}, {ID: 3118601, Nome: "Contagem"}}, nil
	}
	return []model.City{{ID: 3509502, Nome: "Campinas"}}, nil
}

type failingSubmitter struct{}

func (failingSubmitter) SubmitPoint(ctx context.Context, req *model.CreatePointRequest) (*model.CreatePointResponse, error) {
	return nil, errors.New("backend unavailable")
}

type testServer struct {
	router   *gin.Engine
	sessions usecase.CreatePointSessions
	points   application.PointsService
}

type serverOption func(*usecase.SessionDeps, *Handlers)

func withSubmitter(submitter service.PointSubmitter) serverOption {
	return func(deps *usecase.SessionDeps, _ *Handlers) {
		deps.Submitter = submitter
	}
}

func withRegions(regions service.RegionLookup) serverOption {
	return func(deps *usecase.SessionDeps, h *Handlers) {
		deps.Regions = regions
		h.Regions = NewRegionsHandler(regions)
	}
}

func withHealthChecks(checks map[string]HealthCheck) serverOption {
	return func(_ *usecase.SessionDeps, h *Handlers) {
		h.Health = NewHealthHandler(checks)
	}
}

func newTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()
	log := zerolog.Nop()

	itemsRepo := repository.NewMemoryItemsRepository()
	itemsService := application.NewItemsService(itemsRepo, testBaseURL)
	pointsService := application.NewPointsService(
		repository.NewMemoryPointsRepository(),
		itemsRepo,
		messaging.NewNoopPointEventPublisher(log),
		testBaseURL,
		log,
	)

	deps := usecase.SessionDeps{
		Catalog:            itemsService,
		Regions:            stubRegions{},
		Map:                maps.NewOSMMapRenderer("", "", 0),
		Submitter:          pointsService,
		Logger:             log,
		GeolocationTimeout: 2 * time.Second,
		TTL:                time.Hour,
	}
	handlers := Handlers{
		Items:   NewItemsHandler(itemsService),
		Points:  NewPointsHandler(pointsService),
		Uploads: NewUploadsHandler(storage.NewEmbeddedItemImageRepository(web.Uploads())),
		Regions: NewRegionsHandler(stubRegions{}),
		Health:  NewHealthHandler(nil),
	}
	for _, opt := range opts {
		opt(&deps, &handlers)
	}

	sessions := usecase.NewCreatePointSessions(deps)
	t.Cleanup(sessions.CloseAll)
	handlers.Page = NewCreatePointPageHandler(sessions)

	templates, err := web.Templates()
	require.NoError(t, err)

	return &testServer{
		router:   NewRouter(handlers, templates, log),
		sessions: sessions,
		points:   pointsService,
	}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// startSession セッションを開始してIDを返す
func (s *testServer) startSession(t *testing.T, query string) string {
	t.Helper()
	w := s.do(t, http.MethodGet, "/create-point"+query, "")
	require.Equal(t, http.StatusSeeOther, w.Code)
	location := w.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "/create-point/"), location)
	return strings.TrimPrefix(location, "/create-point/")
}

func (s *testServer) state(t *testing.T, id string) model.PageView {
	t.Helper()
	w := s.do(t, http.MethodGet, "/create-point/"+id+"/state", "")
	require.Equal(t, http.StatusOK, w.Code)
	return decode[model.PageView](t, w)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
