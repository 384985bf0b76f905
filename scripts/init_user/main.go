package main

import (
	"fmt"
	"log"

	"github.com/lenslog/internal/config"
	"github.com/lenslog/internal/db"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// 初始化数据库
	cfg := config.Load()
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	// 检查是否已存在用户
	var count int64
	db.DB.Model(&db.User{}).Count(&count)
	if count > 0 {
		fmt.Println("用户已存在，跳过创建")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("密码加密失败:", err)
	}

	admin := db.User{
		Username: "admin",
		Password: string(hashedPassword),
	}
	if err := db.DB.Create(&admin).Error; err != nil {
		log.Fatal("创建管理员失败:", err)
	}

	fmt.Println("管理员创建完成，用户名 admin，密码 admin123")
}
