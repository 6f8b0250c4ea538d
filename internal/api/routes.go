package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/saxenaaman628/hobbyhub/internal/controller"
	"github.com/saxenaaman628/hobbyhub/internal/metrics"
	"github.com/saxenaaman628/hobbyhub/internal/middleware"
)

// Deps is everything the router needs.
type Deps struct {
	Auth      *AuthHandler
	Handler   *controller.Handler
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
	JWTSecret string
	Logger    *logrus.Logger
}

// NewRouter builds the gin engine with middleware and all routes.
func NewRouter(deps Deps) (*gin.Engine, error) {
	if err := controller.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(deps.Logger), middleware.Instrument(deps.Metrics))
	RegisterRoutes(r, deps)
	return r, nil
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))

	r.POST("/register", deps.Auth.RegisterHandler)
	r.POST("/login", deps.Auth.LoginHandler)

	auth := r.Group("/api")
	auth.Use(middleware.JWTAuthMiddleware(deps.JWTSecret))
	{
		auth.GET("/me", deps.Auth.MeHandler)

		deps.Handler.RegisterRoutes(auth)
	}
}
