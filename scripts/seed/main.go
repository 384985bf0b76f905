package main

import (
	"fmt"
	"log"

	"github.com/lenslog/internal/config"
	"github.com/lenslog/internal/db"
	"github.com/lenslog/internal/service"
	"golang.org/x/crypto/bcrypt"
)

// 测试数据生成器
func main() {
	// 初始化数据库
	cfg := config.Load()
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	fmt.Println("开始生成测试数据...")

	createTestUsers()
	tags := createTestTags()
	images := createTestImages(tags)
	createTestGallery(images)

	fmt.Println("测试数据生成完成！")
	fmt.Println("用户: admin (密码: admin123)")
	fmt.Println("图片: 6张示例图片")
	fmt.Println("画廊: 街头光影（含封面与排序）")
}

// 创建测试用户
func createTestUsers() {
	var count int64
	db.DB.Model(&db.User{}).Count(&count)
	if count > 0 {
		fmt.Println("用户已存在，跳过创建")
		return
	}

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := db.User{
		Username: "admin",
		Password: string(hashedPassword),
	}
	db.DB.Create(&admin)
}

// 创建测试标签
func createTestTags() []db.Tag {
	names := []string{"街头", "人像", "风光", "黑白", "胶片"}

	tagService := service.NewTagService(db.DB)
	tags := make([]db.Tag, 0, len(names))
	for _, name := range names {
		tag, err := tagService.Create(name)
		if err != nil {
			// 已存在时直接读取
			var existing db.Tag
			if db.DB.Where("name = ?", name).First(&existing).Error == nil {
				tags = append(tags, existing)
			}
			continue
		}
		tags = append(tags, *tag)
	}
	return tags
}

// 创建测试图片
func createTestImages(tags []db.Tag) []db.Image {
	var count int64
	db.DB.Model(&db.Image{}).Count(&count)
	if count > 0 {
		fmt.Println("图片已存在，跳过创建")
		var existing []db.Image
		db.DB.Find(&existing)
		return existing
	}

	imageService := service.NewImageService(db.DB)
	samples := []struct {
		title string
		desc  string
		url   string
	}{
		{"巷口", "雨后的巷口，霓虹映在积水里。", "/static/uploads/sample-alley.jpg"},
		{"晨雾", "山谷清晨的雾气。", "/static/uploads/sample-mist.jpg"},
		{"路灯下", "深夜路灯下的剪影。", "/static/uploads/sample-lamp.jpg"},
		{"窗台", "老宅窗台上的猫。", "/static/uploads/sample-window.jpg"},
		{"车站", "末班车前的站台。", "/static/uploads/sample-station.jpg"},
		{"码头", "黄昏的渔船码头。", "/static/uploads/sample-dock.jpg"},
	}

	images := make([]db.Image, 0, len(samples))
	for idx, sample := range samples {
		tagIDs := []uint{}
		if len(tags) > 0 {
			tagIDs = append(tagIDs, tags[idx%len(tags)].ID)
		}
		image, err := imageService.Create(service.ImageInput{
			Title:       sample.title,
			Description: sample.desc,
			URL:         sample.url,
			Width:       1600,
			Height:      1067,
			TagIDs:      tagIDs,
		})
		if err != nil {
			log.Fatal("创建测试图片失败:", err)
		}
		images = append(images, *image)
	}
	return images
}

// 创建测试画廊并设置封面与排序
func createTestGallery(images []db.Image) {
	if len(images) == 0 {
		return
	}

	var count int64
	db.DB.Model(&db.Gallery{}).Count(&count)
	if count > 0 {
		fmt.Println("画廊已存在，跳过创建")
		return
	}

	galleryService := service.NewGalleryService(db.DB)
	gallery, err := galleryService.Create(service.GalleryInput{
		Title:       "街头光影",
		Description: "城市街头的光与影。",
		DisplayMode: service.DisplayModeCarousel,
		Theme:       service.ThemeDark,
		Status:      service.GalleryStatusPublished,
	})
	if err != nil {
		log.Fatal("创建测试画廊失败:", err)
	}

	inputs := make([]service.MembershipInput, 0, len(images))
	for idx, image := range images {
		inputs = append(inputs, service.MembershipInput{
			ImageID: image.ID,
			Order:   idx,
		})
	}

	cover := images[0].ID
	if err := galleryService.SaveMembership(gallery.ID, inputs, &cover); err != nil {
		log.Fatal("保存画廊条目失败:", err)
	}
}
