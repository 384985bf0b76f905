package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lenslog/internal/service"
)

type imagePayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	TagIDs      []uint `json:"tag_ids"`
}

func (p imagePayload) toInput() service.ImageInput {
	return service.ImageInput{
		Title:       p.Title,
		Description: p.Description,
		URL:         p.URL,
		Width:       p.Width,
		Height:      p.Height,
		TagIDs:      p.TagIDs,
	}
}

// ShowImageManagement renders the admin image library page.
func (a *API) ShowImageManagement(c *gin.Context) {
	page := parsePositiveInt(c.DefaultQuery("page", "1"), 1)
	result, err := a.images.List(service.ImageFilter{
		Search: c.Query("search"),
		Page:   page,
	})
	if err != nil {
		a.renderHTML(c, http.StatusInternalServerError, "image_manage.html", gin.H{
			"title": "图片库",
			"error": "加载图片库失败",
		})
		return
	}

	tags, err := a.tags.List()
	if err != nil {
		c.Error(err)
	}

	a.renderHTML(c, http.StatusOK, "image_manage.html", gin.H{
		"title":      "图片库",
		"items":      result.Items,
		"tags":       tags,
		"page":       result.Page,
		"totalPages": result.TotalPages,
		"search":     c.Query("search"),
	})
}

// ListImages returns images matching the query filters.
func (a *API) ListImages(c *gin.Context) {
	var tagID uint
	if raw := c.Query("tag_id"); raw != "" {
		parsed, err := parseUintQueryValue(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "无效的标签ID")
			return
		}
		tagID = parsed
	}

	result, err := a.images.List(service.ImageFilter{
		Search:  c.Query("search"),
		TagID:   tagID,
		Page:    parsePositiveInt(c.DefaultQuery("page", "1"), 1),
		PerPage: parsePositiveInt(c.DefaultQuery("per_page", "24"), 24),
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取图片列表失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":       result.Items,
		"total":       result.Total,
		"page":        result.Page,
		"total_pages": result.TotalPages,
	})
}

// GetImage returns a single image with its tags.
func (a *API) GetImage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的图片ID")
		return
	}

	item, err := a.images.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrImageNotFound):
			respondError(c, http.StatusNotFound, "图片不存在")
		default:
			respondError(c, http.StatusInternalServerError, "获取图片失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": item})
}

// CreateImage creates a new image record.
func (a *API) CreateImage(c *gin.Context) {
	var payload imagePayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	item, err := a.images.Create(payload.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrImageURLMissing):
			respondError(c, http.StatusBadRequest, "请先上传图片")
		case errors.Is(err, service.ErrImageSizeInvalid):
			respondError(c, http.StatusBadRequest, "图片尺寸无效")
		default:
			respondError(c, http.StatusInternalServerError, "创建图片失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "图片已创建", "item": item})
}

// UpdateImage updates an existing image record.
func (a *API) UpdateImage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的图片ID")
		return
	}

	var payload imagePayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	item, err := a.images.Update(id, payload.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrImageNotFound):
			respondError(c, http.StatusNotFound, "图片不存在")
		case errors.Is(err, service.ErrImageURLMissing):
			respondError(c, http.StatusBadRequest, "请先上传图片")
		case errors.Is(err, service.ErrImageSizeInvalid):
			respondError(c, http.StatusBadRequest, "图片尺寸无效")
		default:
			respondError(c, http.StatusInternalServerError, "更新图片失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "图片已更新", "item": item})
}

// GetImageUsage 返回删除确认对话框所需的跨画廊引用信息。
func (a *API) GetImageUsage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的图片ID")
		return
	}

	if _, err := a.images.Get(id); err != nil {
		switch {
		case errors.Is(err, service.ErrImageNotFound):
			respondError(c, http.StatusNotFound, "图片不存在")
		default:
			respondError(c, http.StatusInternalServerError, "获取图片失败")
		}
		return
	}

	usages, err := a.images.Usage(id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "查询图片引用失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"usages": usages})
}

// DeleteImage removes an image. Deleting an image still referenced by
// galleries requires the force query flag, which authorizes the
// cascade explicitly.
func (a *API) DeleteImage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的图片ID")
		return
	}

	force := parseBoolQuery(c, "force")
	if err := a.images.Delete(id, force); err != nil {
		switch {
		case errors.Is(err, service.ErrImageNotFound):
			respondError(c, http.StatusNotFound, "图片不存在")
		case errors.Is(err, service.ErrImageInUse):
			respondError(c, http.StatusConflict, "图片仍被画廊引用，需确认后强制删除")
		default:
			respondError(c, http.StatusInternalServerError, "删除图片失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "图片已删除"})
}
