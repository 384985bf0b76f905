package db

import "gorm.io/gorm"

// Image 定义图片素材模型，所有画廊条目都引用这里的记录
type Image struct {
	gorm.Model
	Title       string
	Description string `gorm:"type:text"`
	URL         string `gorm:"not null"`
	Width       int
	Height      int
	Tags        []Tag `gorm:"many2many:image_tags;"`
}
