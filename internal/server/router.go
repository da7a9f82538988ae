package server

import (
	"net/http"
	"time"

	"blogs/internal/auth"
	"blogs/internal/config"
	clog "blogs/internal/log"
	"blogs/internal/metrics"
	"blogs/internal/mw"
	"blogs/internal/service"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// App 在启动时构造一次，持有所有 store 与 service，之后只读。
type App struct {
	Sessions *service.SessionStore
	Users    *service.UserService
	Posts    *service.PostService
	Profiles *service.ProfileService
	Gate     *auth.Gate
}

func NewApp(cfg config.Config, db *gorm.DB) *App {
	sessions := service.NewSessionStore(db, time.Duration(cfg.SessionTTLHours)*time.Hour)
	users := service.NewUserService(db, sessions)
	posts := service.NewPostService(db, cfg.PostsPageSize)
	return &App{
		Sessions: sessions,
		Users:    users,
		Posts:    posts,
		Profiles: service.NewProfileService(users, posts),
		Gate:     auth.NewGate(sessions, cfg.SessionCookieName),
	}
}

// SetupRouter 统一初始化 Gin 中间件与 REST API。
func SetupRouter(cfg config.Config, db *gorm.DB) *gin.Engine {
	app := NewApp(cfg, db)
	h := NewHandler(app.Users, app.Posts, app.Profiles, app.Gate, HandlerOptions{
		ProfilePageSize: cfg.ProfilePageSize,
		CookieSecure:    cfg.CookieSecure,
		MaxUploadBytes:  int64(cfg.MaxUploadMB) << 20,
	})

	r := gin.New()
	r.MaxMultipartMemory = int64(cfg.MaxUploadMB) << 20
	r.Use(gin.Recovery())
	r.Use(clog.GinLogger())
	r.Use(metrics.GinMiddleware())
	r.Use(mw.CORS(cfg.Env, cfg.CORSOrigins))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	required := app.Gate.Required()

	api.POST("/auth/signup", h.Signup)
	api.POST("/auth/login", h.Login)
	api.POST("/auth/logout", required, h.Logout)
	api.GET("/auth/me", required, h.Me)

	api.GET("/posts", h.ListPosts)
	api.GET("/posts/:id", h.GetPost)
	api.GET("/posts/:id/image", h.GetPostImage)
	api.POST("/posts/create", required, h.CreatePost)
	api.DELETE("/posts/:id", required, h.DeletePost)

	api.GET("/users/:username", h.GetProfile)
	api.POST("/users/:username", required, h.UpdateAvatar)
	api.GET("/users/:username/avatar", h.GetAvatar)

	return r
}
