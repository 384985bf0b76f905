package service

import (
	"errors"
	"strings"

	"github.com/lenslog/internal/db"
	"gorm.io/gorm"
)

var (
	ErrImageNotFound    = errors.New("image not found")
	ErrImageURLMissing  = errors.New("image url is required")
	ErrImageSizeInvalid = errors.New("image dimensions are invalid")
	ErrImageInUse       = errors.New("image is referenced by galleries")
)

// ImageService handles image library CRUD and cross-gallery usage.
type ImageService struct {
	db *gorm.DB
}

// ImageFilter describes filters for listing images.
type ImageFilter struct {
	Search  string
	TagID   uint
	Page    int
	PerPage int
}

// ImageListResult aggregates paginated image results.
type ImageListResult struct {
	Items      []db.Image
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// ImageInput represents fields accepted when creating or updating an image.
type ImageInput struct {
	Title       string
	Description string
	URL         string
	Width       int
	Height      int
	TagIDs      []uint
}

// ImageUsage 描述某张图片在一个画廊中的引用情况。
type ImageUsage struct {
	GalleryID    uint   `json:"gallery_id"`
	GalleryTitle string `json:"gallery_title"`
	IsCover      bool   `json:"is_cover"`
}

// NewImageService creates an ImageService instance.
func NewImageService(gdb *gorm.DB) *ImageService {
	return &ImageService{db: gdb}
}

// ListAll returns all images, newest first.
func (s *ImageService) ListAll() ([]db.Image, error) {
	var items []db.Image
	if err := s.db.Preload("Tags").Order("created_at desc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// List returns images matching the filter.
func (s *ImageService) List(filter ImageFilter) (ImageListResult, error) {
	result := ImageListResult{
		Page:    normalizePage(filter.Page),
		PerPage: normalizePerPage(filter.PerPage, 24),
	}

	query := s.db.Model(&db.Image{})
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}
	if filter.TagID != 0 {
		query = query.
			Joins("JOIN image_tags ON image_tags.image_id = images.id").
			Where("image_tags.tag_id = ?", filter.TagID)
	}

	if err := query.Count(&result.Total).Error; err != nil {
		return result, err
	}

	result.TotalPages = calculateTotalPages(result.Total, result.PerPage)
	offset := (result.Page - 1) * result.PerPage

	if err := query.Preload("Tags").
		Order("created_at desc").
		Limit(result.PerPage).
		Offset(offset).
		Find(&result.Items).Error; err != nil {
		return result, err
	}

	return result, nil
}

// Get fetches an image by id with its tags.
func (s *ImageService) Get(id uint) (*db.Image, error) {
	var item db.Image
	if err := s.db.Preload("Tags").First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}
	return &item, nil
}

// Create inserts a new image and associates the given tags.
func (s *ImageService) Create(input ImageInput) (*db.Image, error) {
	if err := validateImageInput(input); err != nil {
		return nil, err
	}

	tags, err := s.loadTags(input.TagIDs)
	if err != nil {
		return nil, err
	}

	item := db.Image{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		URL:         strings.TrimSpace(input.URL),
		Width:       input.Width,
		Height:      input.Height,
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		return tx.Model(&item).Association("Tags").Replace(tags)
	}); err != nil {
		return nil, err
	}

	item.Tags = tags
	return &item, nil
}

// Update modifies an existing image and replaces its tag set.
func (s *ImageService) Update(id uint, input ImageInput) (*db.Image, error) {
	if err := validateImageInput(input); err != nil {
		return nil, err
	}

	var item db.Image
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}

	tags, err := s.loadTags(input.TagIDs)
	if err != nil {
		return nil, err
	}

	item.Title = strings.TrimSpace(input.Title)
	item.Description = strings.TrimSpace(input.Description)
	item.URL = strings.TrimSpace(input.URL)
	item.Width = input.Width
	item.Height = input.Height

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&item).Error; err != nil {
			return err
		}
		return tx.Model(&item).Association("Tags").Replace(tags)
	}); err != nil {
		return nil, err
	}

	item.Tags = tags
	return &item, nil
}

// Usage 返回引用该图片的画廊列表，并标记图片是否为对应画廊的封面。
func (s *ImageService) Usage(id uint) ([]ImageUsage, error) {
	var rows []struct {
		GalleryID    uint
		GalleryTitle string
		CoverImageID *uint
	}

	if err := s.db.Table("galleries").
		Select("galleries.id AS gallery_id, galleries.title AS gallery_title, galleries.cover_image_id").
		Joins("JOIN gallery_entries ON gallery_entries.gallery_id = galleries.id").
		Where("gallery_entries.image_id = ?", id).
		Where("galleries.deleted_at IS NULL").
		Group("galleries.id").
		Order("galleries.title asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	usages := make([]ImageUsage, 0, len(rows))
	for _, row := range rows {
		usages = append(usages, ImageUsage{
			GalleryID:    row.GalleryID,
			GalleryTitle: row.GalleryTitle,
			IsCover:      row.CoverImageID != nil && *row.CoverImageID == id,
		})
	}

	return usages, nil
}

// Delete removes an image. Without force the call fails while any
// gallery still references the image; with force the memberships are
// removed, covers pointing at the image are cleared, and affected
// galleries are renumbered before the image itself is deleted.
func (s *ImageService) Delete(id uint, force bool) error {
	var item db.Image
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrImageNotFound
		}
		return err
	}

	usages, err := s.Usage(id)
	if err != nil {
		return err
	}
	if len(usages) > 0 && !force {
		return ErrImageInUse
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("image_id = ?", id).
			Delete(&db.GalleryEntry{}).Error; err != nil {
			return err
		}

		if err := tx.Model(&db.Gallery{}).
			Where("cover_image_id = ?", id).
			Update("cover_image_id", nil).Error; err != nil {
			return err
		}

		for _, usage := range usages {
			if err := renumberGallery(tx, usage.GalleryID); err != nil {
				return err
			}
		}

		if err := tx.Model(&item).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Unscoped().Delete(&item).Error
	})
}

func (s *ImageService) loadTags(ids []uint) ([]db.Tag, error) {
	if len(ids) == 0 {
		return []db.Tag{}, nil
	}
	var tags []db.Tag
	if err := s.db.Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func validateImageInput(input ImageInput) error {
	if strings.TrimSpace(input.URL) == "" {
		return ErrImageURLMissing
	}
	if input.Width <= 0 || input.Height <= 0 {
		return ErrImageSizeInvalid
	}
	return nil
}

// renumberGallery 将某画廊剩余条目的 sort_order 重排为连续的 0..N-1。
func renumberGallery(tx *gorm.DB, galleryID uint) error {
	var entries []db.GalleryEntry
	if err := tx.Where("gallery_id = ?", galleryID).
		Order("sort_order asc").
		Order("id asc").
		Find(&entries).Error; err != nil {
		return err
	}

	for idx, entry := range entries {
		if entry.SortOrder == idx {
			continue
		}
		if err := tx.Model(&db.GalleryEntry{}).
			Where("id = ?", entry.ID).
			Update("sort_order", idx).Error; err != nil {
			return err
		}
	}
	return nil
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func normalizePerPage(perPage, fallback int) int {
	if perPage <= 0 {
		return fallback
	}
	return perPage
}

func calculateTotalPages(total int64, perPage int) int {
	if perPage <= 0 {
		return 1
	}
	if total == 0 {
		return 1
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
