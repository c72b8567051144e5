// Package api exposes a small operational HTTP surface next to the bot:
// health checks, read-only form listings and cooldown administration.
package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/guildforms/forms-bot/src/api/middleware"
	"github.com/guildforms/forms-bot/src/components/cooldown"
	"github.com/guildforms/forms-bot/src/components/forms"
	"github.com/guildforms/forms-bot/src/config"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type formSummary struct {
	UUID            string `json:"uuid"`
	Name            string `json:"name"`
	ChannelID       string `json:"channel_id"`
	FieldCount      int    `json:"field_count"`
	CooldownSeconds uint64 `json:"cooldown_seconds"`
}

type Server struct {
	db        *gorm.DB
	rdb       *redis.Client
	store     *forms.Store
	cooldowns *cooldown.Enforcer
}

// New builds the gin router for the admin API.
func New(cfg config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	s := &Server{
		db:        db,
		rdb:       rdb,
		store:     forms.NewStore(db),
		cooldowns: cooldown.NewEnforcer(rdb),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
	}))

	r.GET("/healthz", s.health)

	v1 := r.Group("/v1", middleware.JWT([]byte(cfg.JWTSecret)))
	v1.GET("/forms", s.listForms)
	v1.DELETE("/cooldowns/:form/:user", s.clearCooldown)

	return r
}

func (s *Server) health(c *gin.Context) {
	sqlDB, err := s.db.DB()
	if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "mysql unavailable"})
		return
	}
	if err := s.rdb.Ping(c.Request.Context()).Err(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "redis unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listForms(c *gin.Context) {
	guildID := c.Query("guild_id")
	if guildID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "guild_id is required"})
		return
	}

	formList, err := s.store.List(c.Request.Context(), guildID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list forms"})
		return
	}

	out := make([]formSummary, 0, len(formList))
	for i := range formList {
		f := &formList[i]
		out = append(out, formSummary{
			UUID:            f.UUID,
			Name:            f.Name,
			ChannelID:       f.ChannelID,
			FieldCount:      len(f.Fields),
			CooldownSeconds: f.CooldownSeconds,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) clearCooldown(c *gin.Context) {
	cleared, err := s.cooldowns.Clear(c.Request.Context(), c.Param("form"), c.Param("user"))
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "cooldown store unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": cleared})
}
