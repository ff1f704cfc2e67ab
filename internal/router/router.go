package router

import (
	"log"
	"os"
	"strconv"
	"strings"

	"yatube/internal/handler"
	"yatube/internal/middleware"
	"yatube/internal/pkg"

	"github.com/gin-gonic/gin"
)

func smtpConfigFromEnv() pkg.SMTPConfig {
	port, err := strconv.Atoi(os.Getenv("YATUBE_SMTP_PORT"))
	if err != nil {
		port = 587
	}
	return pkg.SMTPConfig{
		Host:     os.Getenv("YATUBE_SMTP_HOST"),
		Port:     port,
		Username: os.Getenv("YATUBE_SMTP_USER"),
		Password: os.Getenv("YATUBE_SMTP_PASSWORD"),
		From:     os.Getenv("YATUBE_SMTP_FROM"),
	}
}

// kafkaFromEnv 未配置 broker 时返回 nil，关注事件静默跳过
func kafkaFromEnv() *pkg.KafkaProducer {
	brokers := os.Getenv("YATUBE_KAFKA_BROKERS")
	if brokers == "" {
		return nil
	}
	topic := os.Getenv("YATUBE_KAFKA_TOPIC")
	if topic == "" {
		topic = "yatube.follow.events"
	}
	p, err := pkg.NewKafkaProducer(pkg.KafkaConfig{
		Brokers: strings.Split(brokers, ","),
		Topic:   topic,
	})
	if err != nil {
		log.Printf("kafka producer init err: %v", err)
		return nil
	}
	return p
}

func InitRouter() *gin.Engine {
	r := gin.Default()

	emailCfg := smtpConfigFromEnv()
	producer := kafkaFromEnv()

	user := handler.NewUserHandler(emailCfg)
	email := handler.NewEmailHandler(emailCfg)
	group := handler.NewGroupHandler()
	post := handler.NewPostHandler()
	comment := handler.NewCommentHandler()
	follow := handler.NewFollowHandler(producer)

	// 邮件验证码
	emailGroup := r.Group("/api/email")
	{
		emailGroup.POST("/:scope/code", email.SendCode)
	}

	// 用户注册登录
	userGroup := r.Group("/api/user")
	{
		userGroup.POST("/register", user.Register)
		userGroup.POST("/login", user.Login)
		userGroup.POST("/reset", user.ResetPassword)
	}

	// token 相关
	tokenGroup := r.Group("/api/token")
	{
		tokenGroup.POST("/refresh", user.TokenRefresh)
	}

	// 登录态账户操作
	authGroup := r.Group("/api/auth")
	authGroup.Use(middleware.AuthMiddleware())
	{
		authGroup.POST("/change-password", user.ChangePassword)
		authGroup.POST("/logout", user.Logout)
	}

	// 分组目录：浏览公开，创建需要登录
	groupPublic := r.Group("/api/group")
	{
		groupPublic.GET("/list", group.List)
	}
	groupAuth := r.Group("/api/group")
	groupAuth.Use(middleware.AuthMiddleware())
	{
		groupAuth.POST("/create", group.Create)
	}

	// 帖子：读公开，写需要登录
	postPublic := r.Group("/api/post")
	{
		postPublic.GET("/list", post.List)
		postPublic.GET("/group/:slug", post.GroupPosts)
		postPublic.GET("/profile/:username", post.Profile)
		postPublic.GET("/:id", post.Detail)
	}
	postAuth := r.Group("/api/post")
	postAuth.Use(middleware.AuthMiddleware())
	{
		postAuth.GET("/feed", post.Feed)
		postAuth.POST("/create", post.Create)
		postAuth.POST("/:id/edit", post.Edit)
		postAuth.POST("/:id/comment", comment.Add)
		postAuth.DELETE("/:id", post.Delete)
	}

	// 关注关系
	followGroup := r.Group("/api/follow")
	followGroup.Use(middleware.AuthMiddleware())
	{
		followGroup.POST("/:username", follow.Follow)
		followGroup.DELETE("/:username", follow.Unfollow)
		followGroup.GET("/relation", follow.Relation)
	}

	return r
}
