package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lenslog/internal/editor"
	"github.com/lenslog/internal/service"
)

type galleryPayload struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	DisplayMode string `json:"display_mode"`
	Theme       string `json:"theme"`
	Status      string `json:"status"`
}

func (p galleryPayload) toInput() service.GalleryInput {
	return service.GalleryInput{
		Title:       p.Title,
		Slug:        p.Slug,
		Description: p.Description,
		DisplayMode: p.DisplayMode,
		Theme:       p.Theme,
		Status:      p.Status,
	}
}

type membershipPayload struct {
	Entries      []membershipEntryPayload `json:"entries"`
	CoverImageID *uint                    `json:"cover_image_id"`
}

type membershipEntryPayload struct {
	ImageID uint   `json:"image_id"`
	Caption string `json:"caption"`
	Order   int    `json:"order"`
}

type entryMovePayload struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// ShowGalleryManagement renders the admin gallery list page.
func (a *API) ShowGalleryManagement(c *gin.Context) {
	page := parsePositiveInt(c.DefaultQuery("page", "1"), 1)
	result, err := a.galleries.List(service.GalleryFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
		Page:   page,
	})
	if err != nil {
		a.renderHTML(c, http.StatusInternalServerError, "gallery_manage.html", gin.H{
			"title": "画廊管理",
			"error": "加载画廊列表失败",
		})
		return
	}

	a.renderHTML(c, http.StatusOK, "gallery_manage.html", gin.H{
		"title":      "画廊管理",
		"items":      result.Items,
		"page":       result.Page,
		"totalPages": result.TotalPages,
		"search":     c.Query("search"),
	})
}

// ShowGalleryEdit renders the gallery editor page with the ordered
// membership list and current cover selection.
func (a *API) ShowGalleryEdit(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的画廊ID")
		return
	}

	gallery, err := a.galleries.Get(id)
	if err != nil {
		a.renderHTML(c, http.StatusNotFound, "gallery_edit.html", gin.H{
			"title": "编辑画廊",
			"error": "画廊不存在",
		})
		return
	}

	entries, err := a.galleries.Membership(id)
	if err != nil {
		a.renderHTML(c, http.StatusInternalServerError, "gallery_edit.html", gin.H{
			"title": "编辑画廊",
			"error": "加载画廊条目失败",
		})
		return
	}

	a.renderHTML(c, http.StatusOK, "gallery_edit.html", gin.H{
		"title":   "编辑画廊",
		"gallery": gallery,
		"entries": entries,
	})
}

// ListGalleries returns galleries matching the query filters.
func (a *API) ListGalleries(c *gin.Context) {
	result, err := a.galleries.List(service.GalleryFilter{
		Search:  c.Query("search"),
		Status:  c.Query("status"),
		Page:    parsePositiveInt(c.DefaultQuery("page", "1"), 1),
		PerPage: parsePositiveInt(c.DefaultQuery("per_page", "12"), 12),
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取画廊列表失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":       result.Items,
		"total":       result.Total,
		"page":        result.Page,
		"total_pages": result.TotalPages,
	})
}

// GetGallery returns a single gallery.
func (a *API) GetGallery(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的画廊ID")
		return
	}

	item, err := a.galleries.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGalleryNotFound):
			respondError(c, http.StatusNotFound, "画廊不存在")
		default:
			respondError(c, http.StatusInternalServerError, "获取画廊失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": item})
}

// CreateGallery creates a new gallery.
func (a *API) CreateGallery(c *gin.Context) {
	var payload galleryPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	item, err := a.galleries.Create(payload.toInput())
	if err != nil {
		respondGalleryError(c, err, "创建画廊失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "画廊已创建", "item": item})
}

// UpdateGallery updates an existing gallery.
func (a *API) UpdateGallery(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的画廊ID")
		return
	}

	var payload galleryPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	item, err := a.galleries.Update(id, payload.toInput())
	if err != nil {
		respondGalleryError(c, err, "更新画廊失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "画廊已更新", "item": item})
}

// DeleteGallery removes a gallery and its membership entries.
func (a *API) DeleteGallery(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的画廊ID")
		return
	}

	if err := a.galleries.Delete(id); err != nil {
		switch {
		case errors.Is(err, service.ErrGalleryNotFound):
			respondError(c, http.StatusNotFound, "画廊不存在")
		default:
			respondError(c, http.StatusInternalServerError, "删除画廊失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "画廊已删除"})
}

// GetGalleryEntries returns the ordered membership list and cover.
func (a *API) GetGalleryEntries(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的画廊ID")
		return
	}

	gallery, err := a.galleries.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGalleryNotFound):
			respondError(c, http.StatusNotFound, "画廊不存在")
		default:
			respondError(c, http.StatusInternalServerError, "获取画廊失败")
		}
		return
	}

	entries, err := a.galleries.Membership(id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取画廊条目失败")
		return
	}

	response := make([]gin.H, 0, len(entries))
	for _, entry := range entries {
		response = append(response, gin.H{
			"id":       entry.ID,
			"image_id": entry.ImageID,
			"title":    entry.Image.Title,
			"url":      entry.Image.URL,
			"caption":  entry.Caption,
			"order":    entry.SortOrder,
			"is_cover": gallery.CoverImageID != nil && *gallery.CoverImageID == entry.ImageID,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"entries":        response,
		"cover_image_id": gallery.CoverImageID,
	})
}

// SaveGalleryEntries 整体保存画廊成员列表与封面选择。
func (a *API) SaveGalleryEntries(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的画廊ID")
		return
	}

	var payload membershipPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	inputs := make([]service.MembershipInput, 0, len(payload.Entries))
	for _, entry := range payload.Entries {
		inputs = append(inputs, service.MembershipInput{
			ImageID: entry.ImageID,
			Caption: entry.Caption,
			Order:   entry.Order,
		})
	}

	if err := a.galleries.SaveMembership(id, inputs, payload.CoverImageID); err != nil {
		switch {
		case errors.Is(err, service.ErrGalleryNotFound):
			respondError(c, http.StatusNotFound, "画廊不存在")
		case errors.Is(err, service.ErrMembershipImage):
			respondError(c, http.StatusBadRequest, "画廊条目引用了不存在的图片")
		default:
			respondError(c, http.StatusInternalServerError, "保存画廊条目失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "画廊条目已保存"})
}

// MoveGalleryEntry 将条目从 from 位置移动到 to 位置并持久化新顺序。
func (a *API) MoveGalleryEntry(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的画廊ID")
		return
	}

	var payload entryMovePayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	session, err := a.loadEditorSession(id)
	if err != nil {
		respondMembershipLoadError(c, err)
		return
	}

	if payload.From < 0 || payload.From >= session.editor.Len() ||
		payload.To < 0 || payload.To >= session.editor.Len() {
		respondError(c, http.StatusBadRequest, "移动位置超出范围")
		return
	}

	session.editor.Move(payload.From, payload.To)

	if err := a.persistEditorSession(id, session); err != nil {
		respondError(c, http.StatusInternalServerError, "保存画廊排序失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "画廊排序已更新"})
}

// RemoveGalleryEntry 从画廊移除一条成员记录。封面指向被移除图片且
// 该图片不再有其他条目时，封面一并清空。
func (a *API) RemoveGalleryEntry(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的画廊ID")
		return
	}

	entryID, err := parseUintParam(c, "entryId")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的条目ID")
		return
	}

	session, err := a.loadEditorSession(id)
	if err != nil {
		respondMembershipLoadError(c, err)
		return
	}

	if err := session.editor.Remove(formatUint(entryID)); err != nil {
		respondError(c, http.StatusNotFound, "画廊条目不存在")
		return
	}

	if err := a.persistEditorSession(id, session); err != nil {
		respondError(c, http.StatusInternalServerError, "移除画廊条目失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "画廊条目已移除"})
}

// editorSession 将数据库中的成员列表装载为一次内存编辑会话。
type editorSession struct {
	editor   *editor.Editor
	imageIDs map[string]uint
}

func (a *API) loadEditorSession(galleryID uint) (*editorSession, error) {
	gallery, err := a.galleries.Get(galleryID)
	if err != nil {
		return nil, err
	}

	rows, err := a.galleries.Membership(galleryID)
	if err != nil {
		return nil, err
	}

	entries := make([]editor.Entry, 0, len(rows))
	imageIDs := make(map[string]uint, len(rows))
	for _, row := range rows {
		imageID := formatUint(row.ImageID)
		imageIDs[imageID] = row.ImageID
		entries = append(entries, editor.Entry{
			ID:      formatUint(row.ID),
			ImageID: imageID,
			Title:   row.Image.Title,
			Caption: row.Caption,
			Order:   row.SortOrder,
		})
	}

	cover := ""
	if gallery.CoverImageID != nil {
		cover = formatUint(*gallery.CoverImageID)
	}

	return &editorSession{
		editor:   editor.New(entries, cover, nil),
		imageIDs: imageIDs,
	}, nil
}

func (a *API) persistEditorSession(galleryID uint, session *editorSession) error {
	entries := session.editor.Entries()
	inputs := make([]service.MembershipInput, 0, len(entries))
	for _, entry := range entries {
		inputs = append(inputs, service.MembershipInput{
			ImageID: session.imageIDs[entry.ImageID],
			Caption: entry.Caption,
			Order:   entry.Order,
		})
	}

	var cover *uint
	if c := session.editor.Cover(); c != "" {
		if id, ok := session.imageIDs[c]; ok {
			cover = &id
		}
	}

	return a.galleries.SaveMembership(galleryID, inputs, cover)
}

func respondMembershipLoadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrGalleryNotFound):
		respondError(c, http.StatusNotFound, "画廊不存在")
	default:
		respondError(c, http.StatusInternalServerError, "加载画廊条目失败")
	}
}

func respondGalleryError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrGalleryNotFound):
		respondError(c, http.StatusNotFound, "画廊不存在")
	case errors.Is(err, service.ErrGalleryTitleMissing):
		respondError(c, http.StatusBadRequest, "画廊标题不能为空")
	case errors.Is(err, service.ErrGalleryModeInvalid):
		respondError(c, http.StatusBadRequest, "画廊展示模式无效")
	case errors.Is(err, service.ErrGalleryThemeInvalid):
		respondError(c, http.StatusBadRequest, "画廊主题无效")
	case errors.Is(err, service.ErrGalleryStatusInvalid):
		respondError(c, http.StatusBadRequest, "画廊状态无效")
	default:
		respondError(c, http.StatusInternalServerError, fallback)
	}
}

func formatUint(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
