package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourname/sleepdiary/internal/auth"
)

func NewRouter(app App, provider auth.Provider, env string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestIDMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if m := app.Metrics(); m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	protected := r.Group("/")
	protected.Use(auth.AuthMiddleware(provider, env, app.Logger()))
	protected.POST("/entries/view", PostViewEntry(app))
	protected.GET("/entries/today", GetTodayEntry(app))
	protected.PUT("/entries/yesterday", PutYesterdaysEntry(app))
	protected.POST("/entries/edit", PostEditEntry(app))
	protected.GET("/factors", GetFactors(app))
	protected.GET("/factors/stream", StreamFactors(app))
	protected.GET("/profile", GetProfile(app))

	return r
}
