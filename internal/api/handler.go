package api

import (
	"context"
	"net/http"
	"strconv"

	"BlockJack/internal/game/manager"
	"BlockJack/internal/scoreboard"

	"github.com/gin-gonic/gin"
)

const (
	defaultTopN = 10
	maxTopN     = 100
)

// SessionLister 在线 session 来源（GameManager）
type SessionLister interface {
	Active() []manager.Info
}

// Scores 积分榜查询（scoreboard.Service）
type Scores interface {
	Team(ctx context.Context, team string) (scoreboard.Tally, error)
	Top(ctx context.Context, n int) ([]scoreboard.Tally, error)
}

type Handler struct {
	sessions SessionLister
	scores   Scores
}

func NewHandler(sessions SessionLister, scores Scores) *Handler {
	return &Handler{sessions: sessions, scores: scores}
}

// GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GET /sessions
func (h *Handler) Sessions(c *gin.Context) {
	active := h.sessions.Active()
	c.JSON(http.StatusOK, gin.H{"count": len(active), "sessions": active})
}

// GET /scoreboard?n=10
func (h *Handler) Top(c *gin.Context) {
	n := defaultTopN
	if raw := c.Query("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > maxTopN {
			c.JSON(http.StatusBadRequest, gin.H{"error": "n must be between 1 and 100"})
			return
		}
		n = v
	}
	top, err := h.scores.Top(c.Request.Context(), n)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, top)
}

// GET /scoreboard/:team
func (h *Handler) Team(c *gin.Context) {
	t, err := h.scores.Team(c.Request.Context(), c.Param("team"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, t)
}
