package api

import (
	"BlockJack/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter 管理端 HTTP 接口；hub 为 nil 时不挂 /ws
func NewRouter(h *Handler, hub *websocket.Hub) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type"},
	}))

	r.GET("/health", h.Health)
	r.GET("/sessions", h.Sessions)

	sb := r.Group("/scoreboard")
	{
		sb.GET("", h.Top)
		sb.GET("/:team", h.Team)
	}

	if hub != nil {
		r.GET("/ws", websocket.ServeWS(hub))
	}
	return r
}
