// Package http exposes the ledger and the session service as a JSON API and
// serves the web bundle through the versioned asset cache.
package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"budgetapp/internal/cache"
	"budgetapp/internal/charts"
	"budgetapp/internal/ledger"
	"budgetapp/internal/log"
	"budgetapp/internal/metrics"
	"budgetapp/internal/session"
)

const requestIDHeader = "X-Request-ID"

// Deps are the collaborators the server routes to.
type Deps struct {
	Session     *session.Service
	Ledger      *ledger.Ledger
	Tokens      *TokenIssuer
	Charts      charts.Renderer
	Assets      http.Handler
	Metrics     *metrics.Metrics
	Caches      *cache.Manager
	Logger      *log.Logger
	CORSOrigins []string
}

type Server struct {
	http.Server
	engine  *gin.Engine
	session *session.Service
	ledger  *ledger.Ledger
	tokens  *TokenIssuer
	charts  charts.Renderer
	metrics *metrics.Metrics
	logger  *log.Logger
	limiter *rateLimiter

	// Rendered PNGs keyed by chart kind and data fingerprint
	chartCache cache.Cache[[]byte]
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = log.Default(log.ComponentHTTP)
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}
	if deps.Charts.Width == 0 {
		deps.Charts = charts.NewRenderer()
	}

	engine := gin.New()
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		engine:     engine,
		session:    deps.Session,
		ledger:     deps.Ledger,
		tokens:     deps.Tokens,
		charts:     deps.Charts,
		metrics:    deps.Metrics,
		logger:     logger.WithComponent(log.ComponentHTTP),
		limiter:    newRateLimiter(20),
		chartCache: cache.NewLRUCache[[]byte](32, 10*time.Minute),
	}
	if deps.Caches != nil {
		deps.Caches.Register(s.chartCache)
		deps.Caches.Register(s.limiter)
	}

	if err := engine.SetTrustedProxies(trustedProxies); err != nil {
		s.logger.Warn("Failed to set trusted proxies", log.FieldError, err.Error())
	}

	engine.Use(gin.Recovery(), s.requestID(), s.requestLogger(), s.flagSuspicious(), securityHeaders(DefaultHeadersConfig()))
	if len(deps.CORSOrigins) > 0 {
		engine.Use(cors.New(cors.Config{
			AllowOrigins:     deps.CORSOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Authorization", "Content-Type", requestIDHeader},
			ExposeHeaders:    []string{requestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	engine.GET("/healthz", handleHealth)
	engine.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	api := engine.Group("/api")
	api.POST("/signup", s.rateLimit(), s.handleSignUp)
	api.POST("/login", s.rateLimit(), s.handleLogin)

	authed := api.Group("", s.authRequired())
	authed.POST("/logout", s.handleLogout)
	authed.GET("/profile", s.handleGetProfile)
	authed.PUT("/profile", s.handleUpdateProfile)
	authed.GET("/budget", s.handleGetBudget)
	authed.PUT("/budget", s.handleSetBudget)
	authed.GET("/expenses", s.handleListExpenses)
	authed.POST("/expenses", s.handleCreateExpense)
	authed.GET("/expenses/:id", s.handleGetExpense)
	authed.PUT("/expenses/:id", s.handleUpdateExpense)
	authed.DELETE("/expenses/:id", s.handleDeleteExpense)
	authed.GET("/overview", s.handleOverview)
	authed.GET("/charts/categories.png", s.handleCategoryChart)
	authed.GET("/charts/history.png", s.handleHistoryChart)

	if deps.Assets != nil {
		engine.NoRoute(gin.WrapH(deps.Assets))
	}

	return s
}

// requestID propagates an incoming X-Request-ID or assigns a new one.
func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(log.FieldRequestID, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// requestLogger logs each completed request and feeds the HTTP metrics.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		elapsed := time.Since(start)
		status := c.Writer.Status()
		s.metrics.ObserveHTTP(c.FullPath(), c.Request.Method, status, elapsed)

		fields := log.NewFields().
			WithHTTP(c.Request.Method, c.Request.URL.Path, status, elapsed.Milliseconds()).
			ToSlice()
		fields = append(fields,
			log.FieldRequestID, c.GetString(log.FieldRequestID),
			log.FieldClientIP, c.ClientIP())

		switch {
		case status >= http.StatusInternalServerError:
			s.logger.ErrorContext(c.Request.Context(), "Request completed", fields...)
		case status >= http.StatusBadRequest:
			s.logger.WarnContext(c.Request.Context(), "Request completed", fields...)
		default:
			s.logger.DebugContext(c.Request.Context(), "Request completed", fields...)
		}
	}
}

func handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
