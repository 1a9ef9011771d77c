package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mergington-activities-api/internal/middleware"
)

// StaticIndex is where the bundled front end lives.
const StaticIndex = "/static/index.html"

// Routes bundles everything needed to mount the public API.
type Routes struct {
	Auth          *AuthHandler
	Activities    *ActivityHandler
	Metrics       *MetricsHandler
	Authenticator middleware.SessionAuthenticator
	CookieName    string
	StaticDir     string
}

// Register mounts the API, static assets and probes on r.
func (rt Routes) Register(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusTemporaryRedirect, StaticIndex)
	})
	if rt.StaticDir != "" {
		r.Static("/static", rt.StaticDir)
	}

	if rt.Metrics != nil {
		r.GET("/health", rt.Metrics.Health)
		r.GET("/ready", rt.Metrics.Ready)
		r.GET("/metrics", rt.Metrics.Prometheus)
	}

	api := r.Group("/api")
	api.POST("/login", rt.Auth.Login)
	api.POST("/logout", rt.Auth.Logout)
	api.GET("/auth/check", rt.Auth.Check)

	activities := r.Group("/activities")
	activities.GET("", rt.Activities.List)
	activities.POST("/:name/signup",
		middleware.RequireSession(rt.Authenticator, rt.CookieName, "Authentication required. Only teachers can register students."),
		rt.Activities.Signup)
	activities.DELETE("/:name/unregister",
		middleware.RequireSession(rt.Authenticator, rt.CookieName, "Authentication required. Only teachers can unregister students."),
		rt.Activities.Unregister)
	activities.GET("/:name/roster",
		middleware.RequireSession(rt.Authenticator, rt.CookieName, "Authentication required. Only teachers can export rosters."),
		rt.Activities.ExportRoster)
}
