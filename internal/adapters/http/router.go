package http

import (
	"context"
	"net/http"

	"github.com/dkeye/Pot/internal/adapters/signal"
	"github.com/dkeye/Pot/internal/app/orch"
	"github.com/dkeye/Pot/internal/config"
	"github.com/dkeye/Pot/internal/domain"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	sessionName    = "PotSessions"
	clientTokenKey = "client_token"
)

func genClientToken() string {
	return uuid.NewString()
}

func newSessionStore(secret string) sessions.Store {
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{Path: "/", MaxAge: 3600 * 24 * 7, HttpOnly: true})
	return store
}

// ClientTokenMiddleware tags every browser session with a long-lived token.
// It is only used to correlate connections in logs, never for authorization.
// Requires the sessions middleware.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := sessions.Default(c)
		token, _ := s.Get(clientTokenKey).(string)
		if token == "" {
			token = genClientToken()
			s.Set(clientTokenKey, token)
			if err := s.Save(); err != nil {
				log.Warn().Err(err).Str("module", "adapters.http").Msg("session save")
			}
		}
		c.Set(clientTokenKey, token)
		c.Next()
	}
}

// SetupRouter wires HTTP routes (REST + WS) with orchestrator and transport.
// - WebSocket upgrade lives at /ws and at / (the legacy client URL)
// - REST is under /api/*
func SetupRouter(ctx context.Context, cfg *config.Config, o *orch.Orchestrator) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	r.Use(sessions.Sessions(sessionName, newSessionStore(cfg.Secret)))
	r.Use(ClientTokenMiddleware())

	ctl := signal.NewSignalWSController(o, signal.Options{
		ReadLimit:    cfg.ReadLimit,
		WriteWait:    cfg.WriteWait,
		PongWait:     cfg.PongWait,
		PingPeriod:   cfg.PingPeriod,
		SendBuffer:   cfg.SendBuffer,
		RateLimit:    cfg.RateLimit,
		RateInterval: cfg.RateInterval,
	})
	ws := func(c *gin.Context) {
		log.Debug().Str("module", "adapters.http").Str("client_token", c.GetString(clientTokenKey)).Msg("ws endpoint hit")
		ctl.HandleSignal(ctx, c)
	}
	r.GET("/", ws)
	r.GET("/ws", ws)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	// GET /api/games: list live games
	api.GET("/games", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"games": o.Registry.List()})
	})

	// GET /api/games/:id: one game with its seats
	api.GET("/games/:id", func(c *gin.Context) {
		g, ok := o.Registry.Get(domain.GameID(c.Param("id")))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"game":         g.Info(),
			"participants": g.Participants(),
		})
	})

	log.Info().Str("module", "adapters.http").Str("mode", cfg.Mode).Msg("router setup")
	return r
}
