package handler

import (
	"bytes"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lenslog/internal/db"
	"github.com/lenslog/internal/service"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// galleryEntryView 是公开页面渲染一条画廊条目所需的数据。
type galleryEntryView struct {
	Title   string
	URL     string
	Width   int
	Height  int
	Caption template.HTML
	IsCover bool
}

// ShowGalleryIndex renders the public gallery listing.
func (a *API) ShowGalleryIndex(c *gin.Context) {
	page := parsePositiveInt(c.DefaultQuery("page", "1"), 1)
	result, err := a.galleries.ListPublished(page, 12)
	if err != nil {
		a.renderHTML(c, http.StatusInternalServerError, "gallery_index.html", gin.H{
			"title": "画廊",
			"error": "加载画廊列表失败，请稍后重试",
			"year":  time.Now().Year(),
		})
		return
	}

	a.renderHTML(c, http.StatusOK, "gallery_index.html", gin.H{
		"title":      "画廊",
		"items":      result.Items,
		"page":       result.Page,
		"totalPages": result.TotalPages,
		"hasMore":    result.Page < result.TotalPages,
		"canonical":  "/galleries",
		"year":       time.Now().Year(),
	})
}

// ShowGalleryBySlug renders one gallery through its display mode
// template, feeding it the ordered membership list and cover flag.
func (a *API) ShowGalleryBySlug(c *gin.Context) {
	slug := c.Param("slug")

	gallery, err := a.galleries.GetBySlug(slug)
	if err != nil {
		a.renderHTML(c, http.StatusNotFound, "gallery_index.html", gin.H{
			"title": "画廊",
			"error": "画廊不存在",
			"year":  time.Now().Year(),
		})
		return
	}
	if gallery.Status != service.GalleryStatusPublished {
		a.renderHTML(c, http.StatusNotFound, "gallery_index.html", gin.H{
			"title": "画廊",
			"error": "画廊不存在",
			"year":  time.Now().Year(),
		})
		return
	}

	entries := make([]galleryEntryView, 0, len(gallery.Entries))
	for _, entry := range gallery.Entries {
		entries = append(entries, buildEntryView(gallery, entry))
	}

	description, err := renderMarkdown(gallery.Description)
	if err != nil {
		c.Error(err)
	}

	a.renderHTML(c, http.StatusOK, displayTemplate(gallery.DisplayMode), gin.H{
		"title":       gallery.Title,
		"gallery":     gallery,
		"description": description,
		"entries":     entries,
		"theme":       gallery.Theme,
		"canonical":   "/galleries/" + gallery.Slug,
		"year":        time.Now().Year(),
	})
}

func buildEntryView(gallery *db.Gallery, entry db.GalleryEntry) galleryEntryView {
	caption := entry.Caption
	if caption == "" {
		caption = entry.Image.Description
	}
	rendered, err := renderMarkdown(caption)
	if err != nil {
		rendered = ""
	}

	return galleryEntryView{
		Title:   entry.Image.Title,
		URL:     entry.Image.URL,
		Width:   entry.Image.Width,
		Height:  entry.Image.Height,
		Caption: rendered,
		IsCover: gallery.CoverImageID != nil && *gallery.CoverImageID == entry.ImageID,
	}
}

func displayTemplate(mode string) string {
	switch mode {
	case service.DisplayModeCarousel:
		return "gallery_carousel.html"
	case service.DisplayModeSlideshow:
		return "gallery_slideshow.html"
	default:
		return "gallery_grid.html"
	}
}

func renderMarkdown(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	safe := sanitizer.SanitizeBytes(buf.Bytes())
	return template.HTML(safe), nil
}
