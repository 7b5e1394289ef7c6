package server

import (
	"BobaLink/internal/directory"
	"BobaLink/internal/ledger"
	"BobaLink/internal/match"
	"BobaLink/internal/user"
	"BobaLink/internal/ws"
	"BobaLink/pkg/logger"
	"BobaLink/pkg/middleware"
	"BobaLink/pkg/monitor"
	"BobaLink/pkg/push"
	"BobaLink/pkg/response"

	"github.com/gin-gonic/gin"
)

// NewRouter creates and returns a gin.Engine with middleware and routes
// registered. Route registration lives here so main.go stays concise.
func NewRouter(reg *push.Registry, disp *push.Dispatcher) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	g := gin.New()
	g.Use(logger.GinLogger(), logger.GinRecovery(true))

	// health check
	g.GET("/ping", func(c *gin.Context) {
		response.ReplySuccess(c, "pong")
	})
	g.GET("/metrics", gin.WrapH(monitor.Handler()))

	g.POST("/signup", user.RegisterHandler)
	g.POST("/login", user.LoginHandler)

	dirSvc := directory.NewService(directory.MySQLStore{}, directory.RedisGeoIndex{})
	ledSvc := ledger.NewService(ledger.MySQLStore{})
	dirH := &directory.Handler{Svc: dirSvc}
	matH := &match.Handler{
		Match:  match.NewService(ledSvc, disp.Dispatch),
		Ledger: ledSvc,
		Dir:    dirSvc,
	}
	wsH := &ws.Handler{Reg: reg}

	auth := g.Group("/api", middleware.JWTAuthMiddleware())
	{
		auth.GET("/nearby", dirH.Nearby)
		auth.GET("/users/:id", dirH.Profile)
		auth.POST("/location", dirH.UpdateLocation)
		auth.POST("/connect", matH.Connect)
		auth.GET("/matches", matH.Matches)
		auth.GET("/ws", wsH.Serve)
	}
	return g
}
