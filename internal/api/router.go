// Package api serves crawl status over HTTP while a crawl runs.
package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/persistorai/citegraph/internal/httputil"
	"github.com/persistorai/citegraph/internal/middleware"
	"github.com/persistorai/citegraph/internal/service"
	"github.com/persistorai/citegraph/internal/ws"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log         *logrus.Logger
	Progress    *service.Progress
	Hub         *ws.Hub
	CORSOrigins []string
	Version     string
}

// Router-level limits.
const (
	rateLimit = 50  // requests per second
	rateBurst = 100 // token bucket burst size
)

func setupMiddleware(r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	if len(deps.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: deps.CORSOrigins,
			AllowMethods: []string{"GET", "OPTIONS"},
			AllowHeaders: []string{"Content-Type", middleware.RequestIDHeader},
			MaxAge:       1 * time.Hour,
		}))
	}
	r.Use(middleware.RateLimit(rate.Limit(rateLimit), rateBurst))
	r.Use(middleware.Prometheus())
}

// NewRouter creates the gin engine serving /metrics, /health, /status and,
// when a hub is configured, the /ws progress stream. The stream is mounted
// beside gin rather than on it: gin's response writer records WriteHeader
// without forwarding it, so the 101 handshake never reaches the hijacked
// connection.
func NewRouter(ctx context.Context, deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(r, deps)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	health := NewHealthHandler(deps.Progress, deps.Hub, deps.Version)
	r.GET("/health", health.Liveness)
	r.GET("/status", NewStatusHandler(deps.Progress).Get)

	r.NoRoute(func(c *gin.Context) {
		httputil.RespondError(c, http.StatusNotFound, ErrCodeNotFound, "no such endpoint")
	})

	if deps.Hub == nil {
		return r
	}

	mux := http.NewServeMux()
	mux.Handle("GET /ws", wsHandler(ctx, deps.Log, deps.Hub, deps.CORSOrigins))
	mux.Handle("/", r)

	return mux
}

func wsHandler(appCtx context.Context, log *logrus.Logger, hub *ws.Hub, corsOrigins []string) http.HandlerFunc {
	patterns := originHosts(corsOrigins)
	return func(w http.ResponseWriter, r *http.Request) {
		if err := ws.Serve(appCtx, hub, w, r, patterns); err != nil {
			log.WithError(err).Warn("ws.accept_failed")
		}
	}
}

// originHosts turns CORS origins into the host patterns the websocket
// upgrader matches against.
func originHosts(origins []string) []string {
	hosts := make([]string, 0, len(origins))
	for _, o := range origins {
		u, err := url.Parse(o)
		if err != nil || u.Host == "" {
			continue
		}
		hosts = append(hosts, u.Host)
	}
	return hosts
}
