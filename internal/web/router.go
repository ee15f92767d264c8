package web

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BerylCAtieno/idea-validator/internal/a2a"
	"github.com/BerylCAtieno/idea-validator/internal/config"
	"github.com/BerylCAtieno/idea-validator/internal/logger"
	"github.com/BerylCAtieno/idea-validator/internal/render"
)

// NewRouter wires the page, the JSON API and, when agent is not nil, the A2A
// endpoints. gin's mode must be set by the caller.
func NewRouter(cfg config.ServerConfig, h *Handler, agent *a2a.Handler, log logger.Logger) (*gin.Engine, error) {
	router := gin.New()
	router.Use(gin.Recovery())
	if gin.Mode() == gin.DebugMode {
		router.Use(gin.Logger())
	} else {
		router.Use(RequestLogging(log))
	}

	tmpl, err := render.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse page templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	router.GET("/", h.Page)
	router.POST("/evaluate", h.SubmitForm)

	api := router.Group("/api")
	api.Use(cors.New(corsConfig(cfg.AllowedOrigins)))
	{
		api.POST("/evaluations", h.CreateEvaluation)
		api.GET("/evaluations/current", h.CurrentEvaluation)
		api.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	}

	if agent != nil {
		router.GET("/.well-known/agent.json", agent.ServeAgentCard)
		router.POST("/a2a/validator", agent.HandleValidator)
	}

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
