package service

import (
	"errors"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/lenslog/internal/db"
	"gorm.io/gorm"
)

var (
	ErrGalleryNotFound      = errors.New("gallery not found")
	ErrGalleryTitleMissing  = errors.New("gallery title is required")
	ErrGalleryModeInvalid   = errors.New("gallery display mode is invalid")
	ErrGalleryThemeInvalid  = errors.New("gallery theme is invalid")
	ErrGalleryStatusInvalid = errors.New("gallery status is invalid")
	ErrMembershipImage      = errors.New("membership references an unknown image")
)

const (
	DisplayModeCarousel  = "carousel"
	DisplayModeGrid      = "grid"
	DisplayModeSlideshow = "slideshow"

	ThemeLight = "light"
	ThemeDark  = "dark"
	ThemeFilm  = "film"

	GalleryStatusPublished = "published"
	GalleryStatusDraft     = "draft"
)

// GalleryService handles gallery CRUD and ordered membership.
type GalleryService struct {
	db *gorm.DB
}

// GalleryFilter describes filters for listing galleries.
type GalleryFilter struct {
	Search  string
	Status  string
	Page    int
	PerPage int
}

// GalleryListResult aggregates paginated gallery results.
type GalleryListResult struct {
	Items      []db.Gallery
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// GalleryInput represents fields accepted when creating or updating a gallery.
type GalleryInput struct {
	Title       string
	Slug        string
	Description string
	DisplayMode string
	Theme       string
	Status      string
}

// MembershipInput 表示提交保存的一条画廊成员记录。
type MembershipInput struct {
	ImageID uint
	Caption string
	Order   int
}

// NewGalleryService creates a GalleryService instance.
func NewGalleryService(gdb *gorm.DB) *GalleryService {
	return &GalleryService{db: gdb}
}

// List returns galleries matching the filter.
func (s *GalleryService) List(filter GalleryFilter) (GalleryListResult, error) {
	result := GalleryListResult{
		Page:    normalizePage(filter.Page),
		PerPage: normalizePerPage(filter.PerPage, 12),
	}

	query := s.db.Model(&db.Gallery{})
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}

	if err := query.Count(&result.Total).Error; err != nil {
		return result, err
	}

	result.TotalPages = calculateTotalPages(result.Total, result.PerPage)
	offset := (result.Page - 1) * result.PerPage

	if err := query.Order("created_at desc").
		Limit(result.PerPage).
		Offset(offset).
		Find(&result.Items).Error; err != nil {
		return result, err
	}

	return result, nil
}

// ListPublished returns published galleries with pagination.
func (s *GalleryService) ListPublished(page, perPage int) (GalleryListResult, error) {
	return s.List(GalleryFilter{
		Status:  GalleryStatusPublished,
		Page:    page,
		PerPage: perPage,
	})
}

// Get fetches a gallery by id.
func (s *GalleryService) Get(id uint) (*db.Gallery, error) {
	var item db.Gallery
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGalleryNotFound
		}
		return nil, err
	}
	return &item, nil
}

// GetBySlug fetches a gallery for public display, with its ordered
// entries and their images preloaded.
func (s *GalleryService) GetBySlug(slug string) (*db.Gallery, error) {
	var item db.Gallery
	err := s.db.
		Preload("Entries", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("sort_order asc")
		}).
		Preload("Entries.Image").
		Where("slug = ?", slug).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGalleryNotFound
		}
		return nil, err
	}
	return &item, nil
}

// Create inserts a new gallery with a unique slug.
func (s *GalleryService) Create(input GalleryInput) (*db.Gallery, error) {
	if err := validateGalleryInput(input); err != nil {
		return nil, err
	}

	slug, err := s.uniqueSlug(input.Slug, input.Title, 0)
	if err != nil {
		return nil, err
	}

	item := db.Gallery{
		Title:       strings.TrimSpace(input.Title),
		Slug:        slug,
		Description: strings.TrimSpace(input.Description),
		DisplayMode: normalizeDisplayMode(input.DisplayMode),
		Theme:       normalizeTheme(input.Theme),
		Status:      normalizeGalleryStatus(input.Status),
	}

	if err := s.db.Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Update modifies an existing gallery.
func (s *GalleryService) Update(id uint, input GalleryInput) (*db.Gallery, error) {
	if err := validateGalleryInput(input); err != nil {
		return nil, err
	}

	var item db.Gallery
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGalleryNotFound
		}
		return nil, err
	}

	slug, err := s.uniqueSlug(input.Slug, input.Title, item.ID)
	if err != nil {
		return nil, err
	}

	item.Title = strings.TrimSpace(input.Title)
	item.Slug = slug
	item.Description = strings.TrimSpace(input.Description)
	item.DisplayMode = normalizeDisplayMode(input.DisplayMode)
	item.Theme = normalizeTheme(input.Theme)
	item.Status = normalizeGalleryStatus(input.Status)

	if err := s.db.Save(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete removes a gallery together with its membership entries.
func (s *GalleryService) Delete(id uint) error {
	var item db.Gallery
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGalleryNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("gallery_id = ?", id).
			Delete(&db.GalleryEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
}

// Membership returns the gallery's entries in display order with their
// images preloaded.
func (s *GalleryService) Membership(galleryID uint) ([]db.GalleryEntry, error) {
	if _, err := s.Get(galleryID); err != nil {
		return nil, err
	}

	var entries []db.GalleryEntry
	if err := s.db.Preload("Image").
		Where("gallery_id = ?", galleryID).
		Order("sort_order asc").
		Order("id asc").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// SaveMembership 以事务方式整体替换画廊的成员列表与封面。
// 条目按提交的 Order 排序后重排为连续的 0..N-1；封面仅在其指向的
// 图片仍在提交列表中时保留，否则清空，避免悬空引用。
func (s *GalleryService) SaveMembership(galleryID uint, inputs []MembershipInput, coverImageID *uint) error {
	var gallery db.Gallery
	if err := s.db.First(&gallery, galleryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGalleryNotFound
		}
		return err
	}

	sorted := make([]MembershipInput, len(inputs))
	copy(sorted, inputs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})

	imageIDs := make([]uint, 0, len(sorted))
	present := make(map[uint]struct{}, len(sorted))
	for _, input := range sorted {
		imageIDs = append(imageIDs, input.ImageID)
		present[input.ImageID] = struct{}{}
	}

	if len(present) > 0 {
		var count int64
		if err := s.db.Model(&db.Image{}).
			Where("id IN ?", imageIDs).
			Count(&count).Error; err != nil {
			return err
		}
		if count != int64(len(present)) {
			return ErrMembershipImage
		}
	}

	var cover *uint
	if coverImageID != nil {
		if _, ok := present[*coverImageID]; ok {
			cover = coverImageID
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("gallery_id = ?", galleryID).
			Delete(&db.GalleryEntry{}).Error; err != nil {
			return err
		}

		for idx, input := range sorted {
			entry := db.GalleryEntry{
				GalleryID: galleryID,
				ImageID:   input.ImageID,
				Caption:   strings.TrimSpace(input.Caption),
				SortOrder: idx,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}

		return tx.Model(&gallery).Update("cover_image_id", cover).Error
	})
}

func validateGalleryInput(input GalleryInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return ErrGalleryTitleMissing
	}
	switch normalizeDisplayMode(input.DisplayMode) {
	case DisplayModeCarousel, DisplayModeGrid, DisplayModeSlideshow:
	default:
		return ErrGalleryModeInvalid
	}
	switch normalizeTheme(input.Theme) {
	case ThemeLight, ThemeDark, ThemeFilm:
	default:
		return ErrGalleryThemeInvalid
	}
	status := normalizeGalleryStatus(input.Status)
	if status != GalleryStatusPublished && status != GalleryStatusDraft {
		return ErrGalleryStatusInvalid
	}
	return nil
}

func normalizeDisplayMode(mode string) string {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode == "" {
		return DisplayModeGrid
	}
	return mode
}

func normalizeTheme(theme string) string {
	theme = strings.ToLower(strings.TrimSpace(theme))
	if theme == "" {
		return ThemeLight
	}
	return theme
}

func normalizeGalleryStatus(status string) string {
	status = strings.ToLower(strings.TrimSpace(status))
	if status == "" {
		return GalleryStatusPublished
	}
	return status
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// uniqueSlug 基于显式 slug 或标题生成唯一 slug，冲突时追加短随机后缀。
func (s *GalleryService) uniqueSlug(explicit, title string, selfID uint) (string, error) {
	base := strings.ToLower(strings.TrimSpace(explicit))
	if base == "" {
		base = strings.ToLower(strings.TrimSpace(title))
	}
	base = strings.Trim(slugPattern.ReplaceAllString(base, "-"), "-")
	if base == "" {
		base = "gallery"
	}

	slug := base
	for {
		var count int64
		query := s.db.Model(&db.Gallery{}).Where("slug = ?", slug)
		if selfID != 0 {
			query = query.Where("id <> ?", selfID)
		}
		if err := query.Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
		slug = base + "-" + uuid.New().String()[:8]
	}
}
