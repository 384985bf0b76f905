package db

import "gorm.io/gorm"

// Tag 定义了标签模型
type Tag struct {
	gorm.Model
	Name      string  `gorm:"unique;not null"`
	SortOrder int     `gorm:"default:0"`
	Images    []Image `gorm:"many2many:image_tags;"`

	// ImageCount 为列表查询附带的统计值，不落库。
	ImageCount int64 `gorm:"-" json:"image_count"`
}
