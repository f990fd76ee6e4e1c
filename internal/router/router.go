package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"serveur/internal/chat"
	"serveur/internal/menu"
	"serveur/internal/middleware"
)

const banner = "serveur menu api"

type Deps struct {
	Menu        *menu.Handler
	Chat        *chat.Handler
	ChatLimiter *middleware.IPRateLimiter
	CORSOrigins []string
	// StaticDir is served under /storage when the local driver is active.
	StaticDir string
	Log       *zap.SugaredLogger
}

func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(deps.Log))

	if len(deps.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     deps.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// ───────────────────────── HEALTH ─────────────────────────
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, banner)
	})

	if deps.StaticDir != "" {
		r.Static("/storage", deps.StaticDir)
	}

	// ───────────────────────── SEO + SHARE LINKS ─────────────────────────
	r.GET("/robots.txt", deps.Menu.Robots)
	r.GET("/sitemap.xml", deps.Menu.Sitemap)
	r.GET("/menu/:slug", deps.Menu.RedirectPublic)

	api := r.Group("/api")
	{
		api.POST("/menus", deps.Menu.Create)

		public := api.Group("/public/menus/:slug")
		{
			public.GET("", deps.Menu.GetPublic)

			chatRoutes := public.Group("")
			if deps.ChatLimiter != nil {
				chatRoutes.Use(middleware.RateLimit(deps.ChatLimiter))
			}
			chatRoutes.POST("/chat", deps.Chat.Chat)
			chatRoutes.POST("/chat/stream", deps.Chat.Stream)

			public.GET("/conversation", deps.Chat.GetConversation)
			public.DELETE("/conversation", deps.Chat.DeleteConversation)
		}
	}

	return r
}
