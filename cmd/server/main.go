package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/lenslog/internal/config"
	"github.com/lenslog/internal/db"
	"github.com/lenslog/internal/handler"
	"github.com/lenslog/internal/router"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// 按需创建超级管理员
	if err := db.EnsureUser(cfg.SuperRootUserName, cfg.SuperRootPassword); err != nil {
		log.Fatalf("failed to ensure root user: %v", err)
	}

	// 设置并运行 Gin 服务器
	api := handler.NewAPI(db.DB, cfg.UploadDir, cfg.UploadURLPath)
	r := router.SetupRouter(api, router.Options{SessionSecret: cfg.SessionSecret})
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
