package mockapi

import (
	"context"
	"errors"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/DIEAbdulHadi/NebuloViz/internal/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	BasePath        = "/api/v1"
	DefaultPageSize = 10
	// DefaultAIRequestsPerMinute matches the production limits on the AI routes.
	DefaultAIRequestsPerMinute = 5
)

type Options struct {
	Dataset Dataset
	// Secret enables JWT authentication. Empty disables it.
	Secret   string
	PageSize int
	// AIRequestsPerMinute caps the prediction and segmentation routes. Zero or
	// less disables the cap.
	AIRequestsPerMinute int
	// Latency delays every API response.
	Latency time.Duration
	Now     func() time.Time
	Logger  *zap.Logger
}

// Server is an in-memory stand-in for the sales analytics backend.
type Server struct {
	dataset  Dataset
	secret   string
	pageSize int
	now      func() time.Time
	logger   *zap.Logger
	engine   *gin.Engine
}

func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	s := &Server{
		dataset:  opts.Dataset,
		secret:   opts.Secret,
		pageSize: pageSize,
		now:      now,
		logger:   logger.Named("mockapi"),
	}
	s.engine = s.routes(opts)
	return s
}

var releaseMode sync.Once

func (s *Server) routes(opts Options) *gin.Engine {
	releaseMode.Do(func() { gin.SetMode(gin.ReleaseMode) })

	engine := gin.New()
	engine.Use(recoverPanics(s.logger), logRequests(s.logger))

	api := engine.Group(BasePath, delay(opts.Latency))
	if s.secret != "" {
		api.Use(s.authenticate)
	}

	predictLimiter := newLimiter(opts.AIRequestsPerMinute)
	segmentLimiter := newLimiter(opts.AIRequestsPerMinute)

	api.GET("/customers/", s.customers)
	api.GET("/sales-data/", s.salesData)
	api.GET("/ai/segment-customers/", limit(segmentLimiter), s.requirePermissions(PermissionViewSegments), s.segmentCustomers)
	api.GET("/ai/predict-sales/", limit(predictLimiter), s.requirePermissions(PermissionViewPredictions), s.predictSales)
	api.GET("/sales/trend", s.salesTrend)
	api.GET("/sales/heatmap", s.salesHeatmap)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not Found"})
	})

	return engine
}

func newLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Serve listens on addr until ctx is done.
func (s *Server) Serve(ctx context.Context, addr string) (net.Addr, <-chan error, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, err
	}

	server := &http.Server{Handler: s.engine, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		err := server.Serve(listener)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("mock api listening", zap.String("addr", listener.Addr().String()), zap.Bool("auth", s.secret != ""))
	return listener.Addr(), errCh, nil
}

func (s *Server) customers(c *gin.Context) {
	c.JSON(http.StatusOK, s.dataset.Customers)
}

func (s *Server) salesData(c *gin.Context) {
	customers := queryValues(c, "customers")

	page := 1
	if raw := c.Query("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "page must be a positive integer"})
			return
		}
		page = parsed
	}

	orders := s.dataset.filter(customers)
	totalPages := max(1, int(math.Ceil(float64(len(orders))/float64(s.pageSize))))

	start := min((page-1)*s.pageSize, len(orders))
	end := min(start+s.pageSize, len(orders))
	dates, sales := series(orders)

	c.JSON(http.StatusOK, domain.SalesData{
		Orders:      append([]domain.Order{}, orders[start:end]...),
		CurrentPage: page,
		TotalPages:  totalPages,
		Dates:       dates,
		Sales:       sales,
	})
}

func (s *Server) segmentCustomers(c *gin.Context) {
	c.JSON(http.StatusOK, s.dataset.segments())
}

func (s *Server) predictSales(c *gin.Context) {
	dates := queryValues(c, "future_dates")
	if len(dates) == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "future_dates is required"})
		return
	}

	predictions, err := s.dataset.predict(dates)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, domain.Forecast{Predictions: predictions})
}

func (s *Server) salesTrend(c *gin.Context) {
	c.JSON(http.StatusOK, s.dataset.trend())
}

func (s *Server) salesHeatmap(c *gin.Context) {
	c.JSON(http.StatusOK, s.dataset.heatmap())
}

// queryValues accepts both repeated keys and the bracketed form some clients
// send for arrays.
func queryValues(c *gin.Context, name string) []string {
	values := append([]string(nil), c.QueryArray(name)...)
	return append(values, c.QueryArray(name+"[]")...)
}
