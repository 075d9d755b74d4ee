package main

import (
	"github.com/shopfront-next/internal/app"
	"github.com/shopfront-next/internal/config"
	"github.com/shopfront-next/internal/constants"
	"github.com/shopfront-next/internal/logger"
	"github.com/shopfront-next/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// 种子程序：初始化本地存储，写入演示用户与示例购物车。
func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	store, err := app.OpenStore(cfg)
	if err != nil {
		stdLog.Fatalf("Failed to open store: %v", err)
	}

	// 写入演示用户（密码按注册流程同样存 bcrypt 哈希）
	var users []models.UserRecord
	if _, err := store.Get(constants.StoreKeyUsers, &users); err != nil {
		stdLog.Fatalf("Failed to read users registry: %v", err)
	}

	demo := cfg.Session.Demo
	exists := false
	for _, user := range users {
		if user.Email == demo.Email {
			exists = true
			break
		}
	}
	if exists {
		stdLog.Printf("Demo user already exists: %s", demo.Email)
	} else {
		hashed, err := bcrypt.GenerateFromPassword([]byte(demo.Password), bcrypt.DefaultCost)
		if err != nil {
			stdLog.Fatalf("Failed to hash demo password: %v", err)
		}
		users = append(users, models.UserRecord{
			Name:     demo.Name,
			Email:    demo.Email,
			Password: string(hashed),
		})
		if err := store.Set(constants.StoreKeyUsers, users); err != nil {
			stdLog.Fatalf("Failed to seed users registry: %v", err)
		}
		stdLog.Printf("Created demo user: %s", demo.Email)
	}

	// 确保购物车键存在，页面首次读取时拿到空数组而不是缺失
	var cart []models.CartLineItem
	found, err := store.Get(constants.StoreKeyCart, &cart)
	if err != nil {
		stdLog.Fatalf("Failed to read cart: %v", err)
	}
	if !found {
		if err := store.Set(constants.StoreKeyCart, []models.CartLineItem{}); err != nil {
			stdLog.Fatalf("Failed to seed cart: %v", err)
		}
		stdLog.Printf("Initialized empty cart")
	}

	stdLog.Printf("Seed completed")
}
