package handler

import (
	"html/template"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pedro-cabreu/next-level-week/internal/logger"
)

// Handlers サーバーの全HTTPハンドラー（nilのハンドラーはルートを登録しない）
type Handlers struct {
	Page    *CreatePointPageHandler
	Items   *ItemsHandler
	Points  *PointsHandler
	Uploads *UploadsHandler
	Regions *RegionsHandler
	Health  *HealthHandler
}

// NewRouter リクエストログ・リカバリー・全ルートを設定したginエンジンを作成
func NewRouter(h Handlers, templates *template.Template, log zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logger.GinMiddleware(log))
	if templates != nil {
		r.SetHTMLTemplate(templates)
	}

	if h.Health != nil {
		r.GET("/", h.Health.Home)
		r.GET("/api/health", h.Health.Health)
	}

	if h.Page != nil {
		r.GET("/create-point", h.Page.StartSession)
		page := r.Group("/create-point/:id")
		{
			page.GET("", h.Page.ShowPage)
			page.GET("/state", h.Page.GetState)
			page.POST("/uf", h.Page.ChangeUF)
			page.POST("/city", h.Page.ChangeCity)
			page.POST("/map-click", h.Page.ClickMap)
			page.POST("/input", h.Page.ChangeInput)
			page.POST("/position", h.Page.ReportPosition)
			page.POST("/items/:itemID/toggle", h.Page.ToggleItem)
			page.POST("/submit", h.Page.Submit)
			page.DELETE("", h.Page.Discard)
		}
	}

	if h.Items != nil {
		r.GET("/items", h.Items.ListItems)
	}

	if h.Points != nil {
		r.POST("/points", h.Points.CreatePoint)
		r.GET("/points", h.Points.ListPoints)
		r.GET("/points/:id", h.Points.GetPoint)
	}

	if h.Uploads != nil {
		r.GET("/uploads/:file", h.Uploads.GetUpload)
	}

	if h.Regions != nil {
		regions := r.Group("/regions")
		{
			regions.GET("/ufs", h.Regions.ListUFs)
			regions.GET("/ufs/:uf/cities", h.Regions.ListCities)
		}
	}

	return r
}
