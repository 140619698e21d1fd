package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/roomcast/roomcast-server/internal/auth"
	"github.com/roomcast/roomcast-server/internal/config"
	"github.com/roomcast/roomcast-server/internal/core"
	"github.com/roomcast/roomcast-server/internal/metrics"
	"github.com/roomcast/roomcast-server/internal/store"
)

// NewServer builds the HTTP server: websocket relay, account endpoints,
// room management, health and metrics.
func NewServer(hub *core.Hub, authService *auth.Service, st store.Store, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.String(stdhttp.StatusOK, "ok")
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/ws", gin.WrapH(NewWSHandler(hub, logger, cfg.AllowedOrigins)))

	users := NewUserHandlers(authService, logger)
	rooms := NewRoomHandlers(st, logger)

	api := router.Group("/api")
	{
		public := api.Group("/users")
		public.Use(RateLimitMiddleware(cfg.AuthRateLimit))
		public.POST("/register", users.Register)
		public.POST("/login", users.Login)

		authorized := api.Group("/")
		authorized.Use(AuthMiddleware(authService, logger))
		authorized.GET("/rooms", rooms.ListRooms)
		authorized.POST("/rooms", rooms.CreateRoom)
		authorized.POST("/rooms/:id/members", rooms.AddMember)
		authorized.GET("/rooms/:id/history", rooms.History)
	}

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
