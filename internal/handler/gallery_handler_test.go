package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lenslog/internal/db"
	"github.com/lenslog/internal/service"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) (*API, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := gdb.AutoMigrate(
		&db.User{},
		&db.Image{},
		&db.Tag{},
		&db.Gallery{},
		&db.GalleryEntry{},
		&db.SystemSetting{},
	); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	db.DB = gdb

	return NewAPI(gdb, t.TempDir(), "/static/uploads"), func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

type seededGallery struct {
	gallery *db.Gallery
	images  []db.Image
	entries []db.GalleryEntry
}

func seedGalleryWithEntries(t *testing.T, api *API, titles []string, coverIdx int) seededGallery {
	t.Helper()

	gallerySvc := service.NewGalleryService(api.DB())
	gallery, err := gallerySvc.Create(service.GalleryInput{Title: "测试画廊"})
	if err != nil {
		t.Fatalf("failed to seed gallery: %v", err)
	}

	imageSvc := service.NewImageService(api.DB())
	inputs := make([]service.MembershipInput, 0, len(titles))
	var images []db.Image
	for idx, title := range titles {
		image, err := imageSvc.Create(service.ImageInput{
			Title:  title,
			URL:    "https://example.com/" + strconv.Itoa(idx) + ".jpg",
			Width:  800,
			Height: 600,
		})
		if err != nil {
			t.Fatalf("failed to seed image %s: %v", title, err)
		}
		images = append(images, *image)
		inputs = append(inputs, service.MembershipInput{ImageID: image.ID, Order: idx})
	}

	var cover *uint
	if coverIdx >= 0 {
		cover = &images[coverIdx].ID
	}
	if err := gallerySvc.SaveMembership(gallery.ID, inputs, cover); err != nil {
		t.Fatalf("failed to seed membership: %v", err)
	}

	entries, err := gallerySvc.Membership(gallery.ID)
	if err != nil {
		t.Fatalf("failed to load seeded membership: %v", err)
	}

	return seededGallery{gallery: gallery, images: images, entries: entries}
}

func entryTitles(t *testing.T, api *API, galleryID uint) []string {
	t.Helper()
	entries, err := service.NewGalleryService(api.DB()).Membership(galleryID)
	if err != nil {
		t.Fatalf("failed to load membership: %v", err)
	}
	titles := make([]string, 0, len(entries))
	for _, entry := range entries {
		titles = append(titles, entry.Image.Title)
	}
	return titles
}

func TestMoveGalleryEntryPersistsOrder(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	seeded := seedGalleryWithEntries(t, api, []string{"甲", "乙", "丙"}, -1)

	payload := map[string]any{"from": 2, "to": 0}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/admin/api/galleries/1/entries/move", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{gin.Param{Key: "id", Value: strconv.Itoa(int(seeded.gallery.ID))}}

	api.MoveGalleryEntry(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d, body=%s", w.Code, w.Body.String())
	}

	titles := entryTitles(t, api, seeded.gallery.ID)
	want := []string{"丙", "甲", "乙"}
	for idx := range want {
		if titles[idx] != want[idx] {
			t.Fatalf("unexpected order after move: %v", titles)
		}
	}
}

func TestMoveGalleryEntryOutOfRange(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	seeded := seedGalleryWithEntries(t, api, []string{"甲", "乙"}, -1)

	payload := map[string]any{"from": 0, "to": 5}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/admin/api/galleries/1/entries/move", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{gin.Param{Key: "id", Value: strconv.Itoa(int(seeded.gallery.ID))}}

	api.MoveGalleryEntry(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}

	titles := entryTitles(t, api, seeded.gallery.ID)
	if titles[0] != "甲" || titles[1] != "乙" {
		t.Fatalf("rejected move must not change the order: %v", titles)
	}
}

func TestRemoveGalleryEntryClearsCover(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	seeded := seedGalleryWithEntries(t, api, []string{"甲", "乙", "丙"}, 1)
	coverEntry := seeded.entries[1]

	req := httptest.NewRequest(http.MethodDelete, "/admin/api/galleries/1/entries/"+strconv.Itoa(int(coverEntry.ID)), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{
		gin.Param{Key: "id", Value: strconv.Itoa(int(seeded.gallery.ID))},
		gin.Param{Key: "entryId", Value: strconv.Itoa(int(coverEntry.ID))},
	}

	api.RemoveGalleryEntry(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d, body=%s", w.Code, w.Body.String())
	}

	gallerySvc := service.NewGalleryService(api.DB())
	gallery, err := gallerySvc.Get(seeded.gallery.ID)
	if err != nil {
		t.Fatalf("failed to reload gallery: %v", err)
	}
	if gallery.CoverImageID != nil {
		t.Fatalf("expected cover to be cleared, got %v", *gallery.CoverImageID)
	}

	entries, err := gallerySvc.Membership(seeded.gallery.ID)
	if err != nil {
		t.Fatalf("failed to reload membership: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries after removal, got %d", len(entries))
	}
	for idx, entry := range entries {
		if entry.SortOrder != idx {
			t.Fatalf("entry at %d has sort order %d", idx, entry.SortOrder)
		}
	}
}

func TestRemoveGalleryEntryUnknown(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	seeded := seedGalleryWithEntries(t, api, []string{"甲"}, -1)

	req := httptest.NewRequest(http.MethodDelete, "/admin/api/galleries/1/entries/9999", nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{
		gin.Param{Key: "id", Value: strconv.Itoa(int(seeded.gallery.ID))},
		gin.Param{Key: "entryId", Value: "9999"},
	}

	api.RemoveGalleryEntry(c)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}

func TestSaveGalleryEntriesRejectsUnknownImage(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	seeded := seedGalleryWithEntries(t, api, []string{"甲"}, -1)

	payload := map[string]any{
		"entries": []map[string]any{{"image_id": 8888, "order": 0}},
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPut, "/admin/api/galleries/1/entries", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{gin.Param{Key: "id", Value: strconv.Itoa(int(seeded.gallery.ID))}}

	api.SaveGalleryEntries(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}

	titles := entryTitles(t, api, seeded.gallery.ID)
	if len(titles) != 1 || titles[0] != "甲" {
		t.Fatalf("rejected save must not change the membership: %v", titles)
	}
}
