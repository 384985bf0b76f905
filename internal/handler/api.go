package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lenslog/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db        *gorm.DB
	images    *service.ImageService
	galleries *service.GalleryService
	tags      *service.TagService
	system    *service.SystemSettingService
	uploadDir string
	uploadURL string
}

type siteViewModel struct {
	Name         string
	LogoURL      string
	PublicFooter string
}

const siteSettingsContextKey = "__site_settings"

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB, uploadDir, uploadURL string) *API {
	return &API{
		db:        db,
		images:    service.NewImageService(db),
		galleries: service.NewGalleryService(db),
		tags:      service.NewTagService(db),
		system:    service.NewSystemSettingService(db),
		uploadDir: uploadDir,
		uploadURL: uploadURL,
	}
}

// DB exposes the underlying gorm instance for legacy paths.
func (a *API) DB() *gorm.DB {
	return a.db
}

func (a *API) siteSettings(c *gin.Context) siteViewModel {
	if cached, exists := c.Get(siteSettingsContextKey); exists {
		if view, ok := cached.(siteViewModel); ok {
			return view
		}
	}

	settings, err := a.system.GetSettings()
	if err != nil {
		c.Error(err)
	}

	view := siteViewModel{
		Name:         strings.TrimSpace(settings.SiteName),
		LogoURL:      strings.TrimSpace(settings.SiteLogoURL),
		PublicFooter: strings.TrimSpace(settings.PublicFooterText),
	}
	if view.Name == "" {
		view.Name = "LensLog"
	}
	if view.PublicFooter == "" {
		view.PublicFooter = "光影为证"
	}

	c.Set(siteSettingsContextKey, view)
	return view
}

// renderHTML 在向模板渲染时自动附加系统设置中的站点名称与 Logo 信息。
func (a *API) renderHTML(c *gin.Context, status int, template string, data gin.H) {
	view := a.siteSettings(c)

	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}

	if _, exists := payload["site"]; !exists {
		payload["site"] = gin.H{
			"name":         view.Name,
			"logoUrl":      view.LogoURL,
			"publicFooter": view.PublicFooter,
		}
	}
	if _, exists := payload["siteName"]; !exists {
		payload["siteName"] = view.Name
	}

	c.HTML(status, template, payload)
}
