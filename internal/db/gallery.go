package db

import "gorm.io/gorm"

// Gallery 定义画廊模型，封面通过 CoverImageID 指向某张图片
type Gallery struct {
	gorm.Model
	Title        string `gorm:"not null"`
	Slug         string `gorm:"uniqueIndex;not null"`
	Description  string `gorm:"type:text"`
	DisplayMode  string `gorm:"default:grid"`      // carousel, grid, slideshow
	Theme        string `gorm:"default:light"`     // light, dark, film
	Status       string `gorm:"default:published"` // published, draft
	CoverImageID *uint
	Entries      []GalleryEntry
}

// GalleryEntry 是图片与画廊之间的有序关联记录。
// Caption 为本画廊内的描述覆盖，留空时回退到图片自身的描述；
// SortOrder 在同一画廊内保持 0..N-1 连续。
type GalleryEntry struct {
	gorm.Model
	GalleryID uint `gorm:"index;not null"`
	ImageID   uint `gorm:"index;not null"`
	Caption   string
	SortOrder int `gorm:"default:0"`
	Image     Image
}
