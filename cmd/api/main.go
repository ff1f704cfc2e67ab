package main

import (
	"log"
	"os"

	"yatube/internal/model"
	"yatube/internal/repository/mysql"
	"yatube/internal/repository/redis"
	"yatube/internal/router"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	dsn := envOr("YATUBE_MYSQL_DSN",
		"user:password@tcp(127.0.0.1:3306)/yatube?charset=utf8mb4&parseTime=True")
	if err := mysql.InitDB(dsn); err != nil {
		log.Fatalf("mysql init err: %v", err)
	}

	// 连接 redis（登录态、验证码、首页缓存）
	if err := redis.Init(envOr("YATUBE_REDIS_ADDR", "127.0.0.1:6379"),
		os.Getenv("YATUBE_REDIS_PASSWORD"), 0); err != nil {
		log.Fatalf("redis init err: %v", err)
	}
	defer redis.Close()

	// 自动建表（开发阶段 OK）
	if err := mysql.DB.AutoMigrate(
		&model.User{},
		&model.Group{},
		&model.Post{},
		&model.Comment{},
		&model.Follow{},
	); err != nil {
		log.Fatalf("auto migrate err: %v", err)
	}

	r := router.InitRouter()
	if err := r.Run(envOr("YATUBE_ADDR", ":8080")); err != nil {
		log.Fatalf("server err: %v", err)
	}
}
