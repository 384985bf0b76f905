package router

import (
	"html/template"
	"path/filepath"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/lenslog/internal/handler"
)

// Options 汇总构建路由所需的外部参数。
type Options struct {
	SessionSecret string
	TemplateGlob  string
	StaticDir     string
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, opts Options) *gin.Engine {
	r := gin.Default()

	secret := opts.SessionSecret
	if secret == "" {
		secret = "lenslog-dev-secret"
	}
	store := cookie.NewStore([]byte(secret))
	r.Use(sessions.Sessions("lenslog_session", store))

	// 加载模板并添加自定义函数
	r.SetFuncMap(template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"gt": func(a, b int) bool {
			return a > b
		},
		"lt": func(a, b int) bool {
			return a < b
		},
		"eq": func(a, b interface{}) bool {
			return a == b
		},
	})
	glob := opts.TemplateGlob
	if glob == "" {
		glob = "web/template/**/*.html"
	}
	if matches, err := filepath.Glob(glob); err == nil && len(matches) > 0 {
		r.LoadHTMLGlob(glob)
	}

	// 静态文件服务
	static := opts.StaticDir
	if static == "" {
		static = "./web/static"
	}
	r.Static("/static", static)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// 公开画廊页面
	r.GET("/", api.ShowGalleryIndex)
	r.GET("/galleries", api.ShowGalleryIndex)
	r.GET("/galleries/:slug", api.ShowGalleryBySlug)

	// 后台管理路由
	admin := r.Group("/admin")
	{
		admin.GET("/login", handler.ShowLoginPage)
		admin.POST("/login", handler.Login)
		admin.GET("/logout", handler.Logout)

		// 需要认证的后台路由
		auth := admin.Group("")
		auth.Use(handler.AuthRequired())
		{
			auth.GET("/dashboard", api.ShowDashboard)
			auth.GET("/images", api.ShowImageManagement)
			auth.GET("/galleries", api.ShowGalleryManagement)
			auth.GET("/galleries/:id/edit", api.ShowGalleryEdit)
			auth.GET("/settings", api.ShowSystemSettings)

			auth.POST("/upload", api.UploadImage)

			// API路由
			apiGroup := auth.Group("/api")
			{
				apiGroup.GET("/images", api.ListImages)
				apiGroup.GET("/images/:id", api.GetImage)
				apiGroup.POST("/images", api.CreateImage)
				apiGroup.PUT("/images/:id", api.UpdateImage)
				apiGroup.DELETE("/images/:id", api.DeleteImage)
				apiGroup.GET("/images/:id/usage", api.GetImageUsage)

				apiGroup.GET("/tags", api.GetTags)
				apiGroup.POST("/tags", api.CreateTag)
				apiGroup.PUT("/tags/:id", api.UpdateTag)
				apiGroup.DELETE("/tags/:id", api.DeleteTag)
				apiGroup.PUT("/tags/reorder", api.ReorderTags)

				apiGroup.GET("/galleries", api.ListGalleries)
				apiGroup.GET("/galleries/:id", api.GetGallery)
				apiGroup.POST("/galleries", api.CreateGallery)
				apiGroup.PUT("/galleries/:id", api.UpdateGallery)
				apiGroup.DELETE("/galleries/:id", api.DeleteGallery)

				apiGroup.GET("/galleries/:id/entries", api.GetGalleryEntries)
				apiGroup.PUT("/galleries/:id/entries", api.SaveGalleryEntries)
				apiGroup.POST("/galleries/:id/entries/move", api.MoveGalleryEntry)
				apiGroup.DELETE("/galleries/:id/entries/:entryId", api.RemoveGalleryEntry)

				apiGroup.PUT("/settings", api.UpdateSystemSettings)
			}
		}
	}

	return r
}
