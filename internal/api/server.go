package api

import (
	"context"
	"net/http"
	"time"

	"GridScout/internal/advisor"
	"GridScout/internal/model"
	"GridScout/internal/recorder"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Advisor produces analyses and assessments.
type Advisor interface {
	Assess(ctx context.Context, req advisor.Request) (*advisor.Report, error)
	Characterize(ctx context.Context, code string, days int) (*model.CharacteristicAnalysis, error)
	RecentEvaluations(code string, limit int) ([]recorder.EvaluationRecord, error)
}

// DataSource serves normalized market data.
type DataSource interface {
	FundInfo(ctx context.Context, code string) (*model.FundInfo, error)
	History(ctx context.Context, code string, days int) (*model.HistoricalSeries, error)
}

// HTTPObserver receives per-request measurements.
type HTTPObserver interface {
	ObserveHTTP(method, route string, status int, elapsed time.Duration)
}

// Server is the HTTP API.
type Server struct {
	engine   *gin.Engine
	advisor  Advisor
	data     DataSource
	observer HTTPObserver
	metrics  http.Handler
	origins  []string
	log      zerolog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics reports requests to observer and serves handler on /metrics.
func WithMetrics(observer HTTPObserver, handler http.Handler) Option {
	return func(s *Server) {
		s.observer = observer
		s.metrics = handler
	}
}

// WithCORS allows browser requests from the given origins.
func WithCORS(origins []string) Option {
	return func(s *Server) { s.origins = origins }
}

// NewServer builds the router.
func NewServer(adv Advisor, data DataSource, log zerolog.Logger, opts ...Option) *Server {
	s := &Server{
		engine:  gin.New(),
		advisor: adv,
		data:    data,
		log:     log.With().Str("component", "api").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.engine.Use(gin.Recovery(), s.requestLogger())
	if len(s.origins) > 0 {
		s.engine.Use(cors.New(cors.Config{
			AllowOrigins: s.origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}

	api := s.engine.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/funds/:code", s.handleFundInfo)
	api.GET("/funds/:code/history", s.handleHistory)
	api.GET("/funds/:code/analysis", s.handleAnalysis)
	api.GET("/funds/:code/evaluations", s.handleEvaluations)
	api.POST("/analyze", s.handleAnalyze)

	if s.metrics != nil {
		s.engine.GET("/metrics", gin.WrapH(s.metrics))
	}
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// NewHTTPServer wraps the API in an http.Server listening on addr.
func (s *Server) NewHTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
